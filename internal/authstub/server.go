package authstub

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app serving h. Access lines go to accessLog.
func NewApp(h *Handler, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "authstub",
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
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	h.Register(app)
	return app
}
