package delivery

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app of the browser front end.
func NewApp(h *WebHandler, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "authflow",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return respondWithError(c, code, err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: accessLog}))

	h.Register(app)
	return app
}
