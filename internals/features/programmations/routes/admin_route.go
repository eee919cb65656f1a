package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	programmationController "sirenecole_backend/internals/features/programmations/controller"
	"sirenecole_backend/internals/features/programmations/service"
)

func ProgrammationAdminRoutes(api fiber.Router, db *gorm.DB, svc *service.ProgrammationService) {
	ctrl := programmationController.NewProgrammationController(db, svc)

	api.Post("/programmations", ctrl.Create)
	api.Put("/programmations/:id", ctrl.Update)
	api.Delete("/programmations/:id", ctrl.Delete)
	api.Get("/programmations/:id", ctrl.GetByID)
	api.Get("/programmations/:id/sonneries-du-jour", ctrl.GetSonneriesDuJour)
	api.Get("/programmations/by-sirene/:sirene_id", ctrl.GetBySirene)
}
