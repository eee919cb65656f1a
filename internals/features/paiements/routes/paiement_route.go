package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	abonnementService "sirenecole_backend/internals/features/abonnements/service"
	paiementController "sirenecole_backend/internals/features/paiements/controller"
)

// PaiementPublicRoutes: le webhook Midtrans arrive sans JWT.
func PaiementPublicRoutes(api fiber.Router, db *gorm.DB, abonnements *abonnementService.AbonnementService) {
	ctrl := paiementController.NewPaiementController(db, abonnements)

	api.Post("/notification", ctrl.HandleMidtransNotification)
}

func PaiementAdminRoutes(api fiber.Router, db *gorm.DB, abonnements *abonnementService.AbonnementService) {
	ctrl := paiementController.NewPaiementController(db, abonnements)

	api.Post("/paiements/:abonnement_id/facture", ctrl.CreateFacture)
}
