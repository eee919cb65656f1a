// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	abonnementRoute "sirenecole_backend/internals/features/abonnements/routes"
	abonnementService "sirenecole_backend/internals/features/abonnements/service"
	paiementRoute "sirenecole_backend/internals/features/paiements/routes"
	programmationRoute "sirenecole_backend/internals/features/programmations/routes"
	programmationService "sirenecole_backend/internals/features/programmations/service"
	provisioningRepo "sirenecole_backend/internals/features/provisioning/repository"
	provisioningRoute "sirenecole_backend/internals/features/provisioning/routes"
	registreRoute "sirenecole_backend/internals/features/registre/routes"
	tokenRoute "sirenecole_backend/internals/features/tokens/routes"
	tokenService "sirenecole_backend/internals/features/tokens/service"
	"sirenecole_backend/internals/middlewares"
	authMiddleware "sirenecole_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes monte tous les groupes. Les services sont construits une
// seule fois dans main (meme codec pour le scheduler et les routes) et
// injectes ici.
func SetupRoutes(app *fiber.App, db *gorm.DB,
	abonnements *abonnementService.AbonnementService,
	tokens *tokenService.TokenService,
	programmations *programmationService.ProgrammationService,
) {
	startTime = time.Now()

	depot := provisioningRepo.NewDepotGorm(db)
	verifieur := provisioningRepo.NewVerifieurGorm(db, tokens)

	BaseRoutes(app, db)

	// ===================== SIRENES (PUBLIC) =====================
	// Identifie par numero de serie puis token chiffre, jamais par JWT.
	log.Println("[INFO] Montage du groupe SIRENES...")
	sirenes := app.Group("/api/sirenes", middlewares.BootstrapRateLimiter())
	provisioningRoute.SireneRoutes(sirenes, depot, verifieur)

	// ===================== WEBHOOK PAIEMENT =====================
	// Prefixe disjoint de /api/a et /api/sirenes: le limiteur ne deborde
	// pas sur les autres groupes.
	log.Println("[INFO] Montage du webhook Midtrans...")
	webhook := app.Group("/api/paiements", middlewares.WebhookRateLimiter())
	paiementRoute.PaiementPublicRoutes(webhook, db, abonnements)

	// ===================== ADMIN =====================
	log.Println("[INFO] Montage du groupe ADMIN (JWT operateur)...")
	admin := app.Group("/api/a", authMiddleware.OperateurMiddleware())

	registreRoute.RegistreAdminRoutes(admin, db)
	abonnementRoute.AbonnementAdminRoutes(admin, db, abonnements)
	paiementRoute.PaiementAdminRoutes(admin, db, abonnements)
	tokenRoute.TokenAdminRoutes(admin, db, tokens)
	programmationRoute.ProgrammationAdminRoutes(admin, db, programmations)
}
