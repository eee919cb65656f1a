package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"sirenecole_backend/internals/middlewares/logger"
)

// SetupMiddlewares branche la pile commune a toutes les routes.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
