package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	registreController "sirenecole_backend/internals/features/registre/controller"
)

func RegistreAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := registreController.NewRegistreController(db)

	api.Post("/ecoles", ctrl.CreateEcole)
	api.Get("/ecoles", ctrl.GetEcoles)
	api.Post("/sites", ctrl.CreateSite)
	api.Post("/sirenes", ctrl.CreateSirene)
	api.Get("/sirenes/by-site/:site_id", ctrl.GetSirenesBySite)
}
