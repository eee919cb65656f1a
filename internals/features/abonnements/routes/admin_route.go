package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	abonnementController "sirenecole_backend/internals/features/abonnements/controller"
	"sirenecole_backend/internals/features/abonnements/service"
)

func AbonnementAdminRoutes(api fiber.Router, db *gorm.DB, svc *service.AbonnementService) {
	ctrl := abonnementController.NewAbonnementController(db, svc)

	api.Post("/abonnements", ctrl.Create)
	api.Get("/abonnements/:id", ctrl.GetByID)
	api.Get("/abonnements/:id/audit", ctrl.GetAudit)
	api.Get("/abonnements/by-ecole/:ecole_id", ctrl.GetByEcole)

	api.Post("/abonnements/:id/suspendre", ctrl.Suspendre)
	api.Post("/abonnements/:id/reactiver", ctrl.Reactiver)
	api.Post("/abonnements/:id/annuler", ctrl.Annuler)
	api.Post("/abonnements/:id/renouveler", ctrl.Renouveler)
}
