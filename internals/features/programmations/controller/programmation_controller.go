package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sirenecole_backend/internals/features/programmations/dto"
	"sirenecole_backend/internals/features/programmations/model"
	"sirenecole_backend/internals/features/programmations/service"
	helper "sirenecole_backend/internals/helpers"
	helperAuth "sirenecole_backend/internals/helpers/auth"
)

type ProgrammationController struct {
	DB      *gorm.DB
	Service *service.ProgrammationService
}

func NewProgrammationController(db *gorm.DB, svc *service.ProgrammationService) *ProgrammationController {
	return &ProgrammationController{DB: db, Service: svc}
}

// mapErreur traduit les erreurs domaine en statut HTTP. Les violations de
// regles (doublons, fenetre) sont rejetees en 400, jamais corrigees en
// silence.
func mapErreur(err error) *fiber.Error {
	switch {
	case errors.Is(err, service.ErrProgrammationIntrouvable):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAbonnementNonActif),
		errors.Is(err, service.ErrHoraireInvalide),
		errors.Is(err, service.ErrJoursVides),
		errors.Is(err, service.ErrJourInvalide),
		errors.Is(err, service.ErrJourDuplique),
		errors.Is(err, service.ErrHoraireDuplique),
		errors.Is(err, service.ErrTropDeSonneries),
		errors.Is(err, service.ErrFenetreInvalide),
		errors.Is(err, service.ErrFenetreHorsAbonnement):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Println("[ERROR] programmation:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}
}

// POST /api/a/programmations
func (ctrl *ProgrammationController) Create(c *fiber.Ctx) error {
	var body dto.CreateProgrammationRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	in, err := body.ToInput(helperAuth.OperateurID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant ou date invalide")
	}

	row, err := ctrl.Service.Creer(ctrl.DB, in)
	if err != nil {
		return mapErreur(err)
	}
	return helper.JsonCreated(c, "Programmation creee.", row)
}

// PUT /api/a/programmations/:id
func (ctrl *ProgrammationController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}

	var body dto.UpdateProgrammationRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	in := service.MettreAJourProgrammationInput{
		Nom:               body.Nom,
		JoursFeriesInclus: body.JoursFeriesInclus,
		JoursFeries:       body.JoursFeries,
		Actif:             body.Actif,
	}
	if body.DateDebut != nil {
		t, err := time.Parse("2006-01-02", *body.DateDebut)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_debut invalide")
		}
		in.DateDebut = &t
	}
	if body.DateFin != nil {
		t, err := time.Parse("2006-01-02", *body.DateFin)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_fin invalide")
		}
		in.DateFin = &t
	}
	if body.Sonneries != nil {
		sonneries := dto.ToSonneries(*body.Sonneries)
		in.Sonneries = &sonneries
	}

	row, err := ctrl.Service.MettreAJour(ctrl.DB, id, in)
	if err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Programmation mise a jour.", row)
}

// DELETE /api/a/programmations/:id
func (ctrl *ProgrammationController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	if err := ctrl.Service.Supprimer(ctrl.DB, id); err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Programmation supprimee.", nil)
}

// GET /api/a/programmations/:id
func (ctrl *ProgrammationController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var row model.ProgrammationModel
	if err := ctrl.DB.Where("programmation_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Programmation introuvable")
		}
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Programmation.", row)
}

// GET /api/a/programmations/:id/sonneries-du-jour?date=2025-05-01&ferie=true
// Previsualisation operateur: ce que la sirene sonnera reellement a cette
// date, derogations jours feries comprises.
func (ctrl *ProgrammationController) GetSonneriesDuJour(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date invalide (attendu AAAA-MM-JJ)")
	}
	estFerie := c.QueryBool("ferie", false)

	sonneries, err := ctrl.Service.SonneriesDuJour(ctrl.DB, id, date, estFerie)
	if err != nil {
		return mapErreur(err)
	}

	type sonnerieJSON struct {
		Heure  int   `json:"heure"`
		Minute int   `json:"minute"`
		Jours  []int `json:"jours"`
	}
	out := make([]sonnerieJSON, len(sonneries))
	for i, s := range sonneries {
		out[i] = sonnerieJSON{Heure: s.Heure, Minute: s.Minute, Jours: s.Jours}
	}
	return helper.JsonOK(c, "Sonneries effectives.", fiber.Map{
		"date":      date.Format("2006-01-02"),
		"ferie":     estFerie,
		"sonneries": out,
	})
}

// GET /api/a/programmations/by-sirene/:sirene_id
func (ctrl *ProgrammationController) GetBySirene(c *fiber.Ctx) error {
	sireneID, err := uuid.Parse(c.Params("sirene_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var rows []model.ProgrammationModel
	if err := ctrl.DB.
		Where("programmation_sirene_id = ?", sireneID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return mapErreur(err)
	}
	return helper.JsonOK(c, "Programmations de la sirene.", rows)
}
