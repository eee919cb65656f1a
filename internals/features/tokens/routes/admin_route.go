package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tokenController "sirenecole_backend/internals/features/tokens/controller"
	"sirenecole_backend/internals/features/tokens/service"
)

func TokenAdminRoutes(api fiber.Router, db *gorm.DB, svc *service.TokenService) {
	ctrl := tokenController.NewTokenController(db, svc)

	api.Post("/tokens/:abonnement_id/regenerer", ctrl.Regenerer)
	api.Post("/tokens/:token_id/revoquer", ctrl.Revoquer)
	api.Get("/tokens/by-abonnement/:abonnement_id", ctrl.GetByAbonnement)
}
