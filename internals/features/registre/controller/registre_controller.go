package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	paiementModel "sirenecole_backend/internals/features/paiements/model"
	"sirenecole_backend/internals/features/registre/dto"
	"sirenecole_backend/internals/features/registre/model"
	helper "sirenecole_backend/internals/helpers"
)

type RegistreController struct {
	DB *gorm.DB
}

func NewRegistreController(db *gorm.DB) *RegistreController {
	return &RegistreController{DB: db}
}

/* ===================== Ecoles ===================== */

// POST /api/a/ecoles
func (ctrl *RegistreController) CreateEcole(c *fiber.Ctx) error {
	var body dto.CreateEcoleRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	row := model.EcoleModel{
		EcoleNom:   body.Nom,
		EcoleSlug:  body.Slug,
		EcoleVille: body.Ville,
		EcolePays:  body.Pays,
	}
	if err := ctrl.DB.Create(&row).Error; err != nil {
		log.Println("[ERROR] Creation ecole:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Creation impossible")
	}
	return helper.JsonCreated(c, "Ecole creee.", row)
}

// GET /api/a/ecoles
func (ctrl *RegistreController) GetEcoles(c *fiber.Ctx) error {
	params := helper.ParsePage(c)

	var total int64
	if err := ctrl.DB.Model(&model.EcoleModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}

	var rows []model.EcoleModel
	if err := ctrl.DB.Order("ecole_nom ASC").
		Limit(params.PerPage).Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}
	return helper.JsonPage(c, "Ecoles.", rows, params.Meta(total))
}

/* ===================== Sites ===================== */

// POST /api/a/sites
func (ctrl *RegistreController) CreateSite(c *fiber.Ctx) error {
	var body dto.CreateSiteRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	ecoleID, err := uuid.Parse(body.EcoleID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var ecole model.EcoleModel
	if err := ctrl.DB.Where("ecole_id = ?", ecoleID).First(&ecole).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Ecole introuvable")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}

	row := model.SiteModel{
		SiteEcoleID: ecoleID,
		SiteNom:     body.Nom,
		SiteAdresse: body.Adresse,
	}
	if err := ctrl.DB.Create(&row).Error; err != nil {
		log.Println("[ERROR] Creation site:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Creation impossible")
	}
	return helper.JsonCreated(c, "Site cree.", row)
}

/* ===================== Sirenes ===================== */

// POST /api/a/sirenes
// Cree la sirene et, si demande, son abonnement initial en_attente.
func (ctrl *RegistreController) CreateSirene(c *fiber.Ctx) error {
	var body dto.CreateSireneRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	siteID, err := uuid.Parse(body.SiteID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var site model.SiteModel
	if err := ctrl.DB.Where("site_id = ?", siteID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Site introuvable")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}

	var sirene model.SireneModel
	var abonnement *abonnementModel.AbonnementModel
	var facture *paiementModel.PaiementModel

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		sirene = model.SireneModel{
			SireneSiteID:      siteID,
			SireneNumeroSerie: body.NumeroSerie,
			SireneModele:      body.Modele,
		}
		if err := tx.Create(&sirene).Error; err != nil {
			return err
		}

		if body.Abonnement != nil {
			debut, err := time.Parse("2006-01-02", body.Abonnement.DateDebut)
			if err != nil {
				return err
			}
			fin, err := time.Parse("2006-01-02", body.Abonnement.DateFin)
			if err != nil {
				return err
			}
			row := abonnementModel.AbonnementModel{
				AbonnementEcoleID:      site.SiteEcoleID,
				AbonnementSiteID:       siteID,
				AbonnementSireneID:     sirene.SireneID,
				AbonnementDateDebut:    debut,
				AbonnementDateFin:      fin,
				AbonnementMontant:      body.Abonnement.Montant,
				AbonnementStatut:       abonnementModel.StatutEnAttente,
				AbonnementReconduction: body.Abonnement.Reconduction,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			abonnement = &row

			// facture initiale: l'activation attendra le webhook
			paiement := paiementModel.PaiementModel{
				PaiementAbonnementID: row.AbonnementID,
				PaiementMontant:      row.AbonnementMontant,
				PaiementStatut:       paiementModel.PaiementStatutEnAttente,
				PaiementOrderID:      fmt.Sprintf("ABO-%d", time.Now().UnixNano()),
				PaiementGateway:      "midtrans",
			}
			if err := tx.Create(&paiement).Error; err != nil {
				return err
			}
			facture = &paiement
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] Creation sirene:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Creation impossible")
	}

	return helper.JsonCreated(c, "Sirene creee.", struct {
		Sirene     model.SireneModel                `json:"sirene"`
		Abonnement *abonnementModel.AbonnementModel `json:"abonnement,omitempty"`
		Facture    *paiementModel.PaiementModel     `json:"facture,omitempty"`
	}{Sirene: sirene, Abonnement: abonnement, Facture: facture})
}

// GET /api/a/sirenes/by-site/:site_id
func (ctrl *RegistreController) GetSirenesBySite(c *fiber.Ctx) error {
	siteID, err := uuid.Parse(c.Params("site_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	var rows []model.SireneModel
	if err := ctrl.DB.Where("sirene_site_id = ?", siteID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
	}
	return helper.JsonOK(c, "Sirenes du site.", rows)
}
