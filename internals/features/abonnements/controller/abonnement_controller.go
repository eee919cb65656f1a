package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sirenecole_backend/internals/features/abonnements/dto"
	"sirenecole_backend/internals/features/abonnements/model"
	"sirenecole_backend/internals/features/abonnements/service"
	helper "sirenecole_backend/internals/helpers"
	helperAuth "sirenecole_backend/internals/helpers/auth"
)

type AbonnementController struct {
	DB      *gorm.DB
	Service *service.AbonnementService
}

func NewAbonnementController(db *gorm.DB, svc *service.AbonnementService) *AbonnementController {
	return &AbonnementController{DB: db, Service: svc}
}

func mapErreur(err error) *fiber.Error {
	switch {
	case errors.Is(err, service.ErrAbonnementIntrouvable):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTransitionInterdite),
		errors.Is(err, service.ErrMotifRequis),
		errors.Is(err, service.ErrPaiementNonValide):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Println("[ERROR] abonnement:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}
}

// POST /api/a/abonnements
// L'abonnement nait en_attente; il ne deviendra actif qu'a la validation
// du paiement (webhook).
func (ctrl *AbonnementController) Create(c *fiber.Ctx) error {
	var body dto.CreateAbonnementRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	ecoleID, err1 := uuid.Parse(body.EcoleID)
	siteID, err2 := uuid.Parse(body.SiteID)
	sireneID, err3 := uuid.Parse(body.SireneID)
	if err1 != nil || err2 != nil || err3 != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}

	debut, err := time.Parse("2006-01-02", body.DateDebut)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date_debut invalide")
	}
	fin, err := time.Parse("2006-01-02", body.DateFin)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date_fin invalide")
	}
	if fin.Before(debut) {
		return fiber.NewError(fiber.StatusBadRequest, "date_fin anterieure a date_debut")
	}

	row := model.AbonnementModel{
		AbonnementEcoleID:      ecoleID,
		AbonnementSiteID:       siteID,
		AbonnementSireneID:     sireneID,
		AbonnementDateDebut:    debut,
		AbonnementDateFin:      fin,
		AbonnementMontant:      body.Montant,
		AbonnementStatut:       model.StatutEnAttente,
		AbonnementReconduction: body.Reconduction,
	}
	if err := ctrl.DB.Create(&row).Error; err != nil {
		log.Println("[ERROR] Creation abonnement:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Creation impossible")
	}
	return helper.JsonCreated(c, "Abonnement cree (en attente de paiement).", row)
}

// POST /api/a/abonnements/:id/suspendre
func (ctrl *AbonnementController) Suspendre(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var body dto.MotifRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctrl.Service.Suspendre(ctrl.DB, id, body.Motif, helperAuth.OperateurID(c))
	if err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Abonnement suspendu.", row)
}

// POST /api/a/abonnements/:id/reactiver
func (ctrl *AbonnementController) Reactiver(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	row, err := ctrl.Service.Reactiver(ctrl.DB, id, helperAuth.OperateurID(c))
	if err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Abonnement reactive.", row)
}

// POST /api/a/abonnements/:id/annuler
func (ctrl *AbonnementController) Annuler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var body dto.MotifRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctrl.Service.Annuler(ctrl.DB, id, body.Motif, helperAuth.OperateurID(c))
	if err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Abonnement annule.", row)
}

// POST /api/a/abonnements/:id/renouveler
func (ctrl *AbonnementController) Renouveler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	enfant, facture, err := ctrl.Service.Renouveler(ctrl.DB, id, helperAuth.OperateurID(c))
	if err != nil {
		return mapErreur(err)
	}
	return helper.JsonCreated(c, "Renouvellement cree (en attente de paiement).", struct {
		Abonnement interface{} `json:"abonnement"`
		OrderID    string      `json:"order_id"`
	}{Abonnement: enfant, OrderID: facture.PaiementOrderID})
}

// GET /api/a/abonnements/:id
func (ctrl *AbonnementController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var row model.AbonnementModel
	if err := ctrl.DB.Where("abonnement_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Abonnement introuvable")
		}
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Abonnement.", row)
}

// GET /api/a/abonnements/:id/audit
func (ctrl *AbonnementController) GetAudit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var rows []model.AbonnementAuditModel
	if err := ctrl.DB.
		Where("audit_abonnement_id = ?", id).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Journal d'audit.", rows)
}

// GET /api/a/abonnements/by-ecole/:ecole_id
func (ctrl *AbonnementController) GetByEcole(c *fiber.Ctx) error {
	ecoleID, err := uuid.Parse(c.Params("ecole_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var rows []model.AbonnementModel
	if err := ctrl.DB.
		Where("abonnement_ecole_id = ?", ecoleID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Abonnements de l'ecole.", rows)
}
