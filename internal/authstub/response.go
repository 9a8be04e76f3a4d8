package authstub

import (
	"authflow/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// respondWithError - sends the standard {"error", "details"} body
func respondWithError(c *fiber.Ctx, status int, message string, details ...string) error {
	resp := domain.ErrorResponse{
		Error: message,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	return c.Status(status).JSON(resp)
}

// respondBadRequest - 400
func respondBadRequest(c *fiber.Ctx, message string) error {
	return respondWithError(c, fiber.StatusBadRequest, message)
}

// respondUnauthorized - 401
func respondUnauthorized(c *fiber.Ctx, message string) error {
	return respondWithError(c, fiber.StatusUnauthorized, message)
}

// respondNotFound - 404
func respondNotFound(c *fiber.Ctx, message string) error {
	return respondWithError(c, fiber.StatusNotFound, message)
}

// respondInternalError - 500
func respondInternalError(c *fiber.Ctx, message string, details string) error {
	return respondWithError(c, fiber.StatusInternalServerError, message, details)
}

// respondOK - 200 with data
func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}
