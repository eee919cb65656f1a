package route

import (
	"github.com/gofiber/fiber/v2"

	provisioningController "sirenecole_backend/internals/features/provisioning/controller"
	"sirenecole_backend/internals/features/provisioning/repository"
)

// SireneRoutes monte les deux endpoints firmware. Pas d'auth JWT: le
// bootstrap est identifie par numero de serie, la programmation par le
// token sirene.
func SireneRoutes(api fiber.Router, depot repository.Depot, verifieur repository.VerifieurToken) {
	ctrl := provisioningController.NewProvisioningController(depot, verifieur)

	api.Get("/config/:numero_serie", ctrl.Config)
	api.Get("/:numero_serie/programmation", ctrl.Programmation)
}
