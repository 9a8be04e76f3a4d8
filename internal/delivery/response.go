package delivery

import (
	"authflow/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// respondWithError - standard error body
func respondWithError(c *fiber.Ctx, status int, message string, details ...string) error {
	resp := domain.ErrorResponse{
		Error: message,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	return c.Status(status).JSON(resp)
}

// respondOK - 200 with JSON data
func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// respondPage - 200 with rendered HTML
func respondPage(c *fiber.Ctx, html []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(html)
}

// redirectHome - post/redirect/get back to the active screen
func redirectHome(c *fiber.Ctx) error {
	return c.Redirect("/", fiber.StatusSeeOther)
}
