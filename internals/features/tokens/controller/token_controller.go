package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sirenecole_backend/internals/features/tokens/model"
	"sirenecole_backend/internals/features/tokens/service"
	helper "sirenecole_backend/internals/helpers"
	helperAuth "sirenecole_backend/internals/helpers/auth"
)

type TokenController struct {
	DB      *gorm.DB
	Service *service.TokenService
}

func NewTokenController(db *gorm.DB, svc *service.TokenService) *TokenController {
	return &TokenController{DB: db, Service: svc}
}

// POST /api/a/tokens/:abonnement_id/regenerer
// Regeneration manuelle par un operateur. Idempotent: quel que soit le
// nombre d'appels, il reste exactement un token actif.
func (ctrl *TokenController) Regenerer(c *fiber.Ctx) error {
	abonnementID, err := uuid.Parse(c.Params("abonnement_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}

	token, err := ctrl.Service.Issue(ctrl.DB, abonnementID, helperAuth.OperateurID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAbonnementInactif), errors.Is(err, service.ErrPaiementManquant):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			log.Println("[ERROR] Regeneration token:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
		}
	}
	return helper.JsonCreated(c, "Token regenere.", token)
}

// POST /api/a/tokens/:token_id/revoquer
func (ctrl *TokenController) Revoquer(c *fiber.Ctx) error {
	tokenID, err := uuid.Parse(c.Params("token_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	if err := ctrl.Service.Revoke(ctrl.DB, tokenID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Token introuvable")
		}
		log.Println("[ERROR] Revocation token:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}
	return helper.JsonOK(c, "Token revoque.", nil)
}

// GET /api/a/tokens/by-abonnement/:abonnement_id
// Historique complet, tokens revoques inclus.
func (ctrl *TokenController) GetByAbonnement(c *fiber.Ctx) error {
	abonnementID, err := uuid.Parse(c.Params("abonnement_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var rows []model.TokenSireneModel
	if err := ctrl.DB.
		Where("token_abonnement_id = ?", abonnementID).
		Order("token_genere_le DESC").
		Find(&rows).Error; err != nil {
		log.Println("[ERROR] Liste tokens:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}
	return helper.JsonOK(c, "Tokens de l'abonnement.", rows)
}
