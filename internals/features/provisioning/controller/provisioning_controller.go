package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"sirenecole_backend/internals/features/provisioning/repository"
	tokenService "sirenecole_backend/internals/features/tokens/service"
	helper "sirenecole_backend/internals/helpers"
)

// HeaderToken est l'en-tete presente par le firmware.
const HeaderToken = "X-Sirene-Token"

// ProvisioningController sert les deux seuls endpoints appeles par les
// sirenes. Lecture seule, appelable en concurrence par toute la flotte.
type ProvisioningController struct {
	Depot     repository.Depot
	Verifieur repository.VerifieurToken
	Now       func() time.Time
}

func NewProvisioningController(depot repository.Depot, verifieur repository.VerifieurToken) *ProvisioningController {
	return &ProvisioningController{
		Depot:     depot,
		Verifieur: verifieur,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// GET /api/sirenes/config/:numero_serie
// Bootstrap: le numero de serie sert d'identifiant faible; la reponse ne
// contient que des payloads chiffres.
func (ctrl *ProvisioningController) Config(c *fiber.Ctx) error {
	numeroSerie := c.Params("numero_serie")
	if numeroSerie == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Numero de serie requis")
	}

	config, err := ctrl.Depot.ChargerConfig(numeroSerie, ctrl.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSireneInconnue),
			errors.Is(err, repository.ErrAbonnementInactif),
			errors.Is(err, repository.ErrTokenAbsent):
			log.Printf("[WARN] Bootstrap refuse serie=%s: %v", numeroSerie, err)
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		default:
			log.Printf("[ERROR] Bootstrap serie=%s: %v", numeroSerie, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
		}
	}

	return helper.JsonOK(c, "Configuration sirene.", config)
}

// GET /api/sirenes/:numero_serie/programmation
// Le token presente est logge uniquement par sa cause d'echec, jamais par
// sa valeur.
func (ctrl *ProvisioningController) Programmation(c *fiber.Ctx) error {
	numeroSerie := c.Params("numero_serie")
	if numeroSerie == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Numero de serie requis")
	}

	presente := c.Get(HeaderToken)
	if presente == "" {
		log.Printf("[WARN] Programmation refusee serie=%s: token absent", numeroSerie)
		return fiber.NewError(fiber.StatusUnauthorized, "Token requis")
	}

	now := ctrl.Now()
	if err := ctrl.Verifieur.Verifier(presente, numeroSerie, now); err != nil {
		switch {
		case errors.Is(err, tokenService.ErrTokenCorrompu):
			// blob indechiffrable: possible alteration ou cle etrangere
			log.Printf("[ERROR] Programmation refusee serie=%s: %v", numeroSerie, err)
			return fiber.NewError(fiber.StatusUnauthorized, "Token invalide")
		case errors.Is(err, tokenService.ErrTokenInvalide),
			errors.Is(err, tokenService.ErrTokenExpire),
			errors.Is(err, tokenService.ErrTokenAbsent),
			errors.Is(err, tokenService.ErrAbonnementInactif):
			log.Printf("[WARN] Programmation refusee serie=%s: %v", numeroSerie, err)
			return fiber.NewError(fiber.StatusUnauthorized, "Token invalide")
		default:
			log.Printf("[ERROR] Verification token serie=%s: %v", numeroSerie, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
		}
	}

	programmation, err := ctrl.Depot.ProgrammationCourante(numeroSerie, now)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProgrammationAbsente),
			errors.Is(err, repository.ErrSireneInconnue),
			errors.Is(err, repository.ErrAbonnementInactif):
			return fiber.NewError(fiber.StatusNotFound, "Aucune programmation active")
		default:
			log.Printf("[ERROR] Programmation serie=%s: %v", numeroSerie, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erreur interne")
		}
	}

	// trace de vie de la sirene, sans impact sur la reponse
	if err := ctrl.Depot.MarquerConnexion(numeroSerie, now); err != nil {
		log.Printf("[WARN] MarquerConnexion serie=%s: %v", numeroSerie, err)
	}

	return helper.JsonOK(c, "Programmation courante.", struct {
		Chiffre  string    `json:"chiffre"`
		Version  int       `json:"version"`
		GenereLe time.Time `json:"genere_le"`
	}{
		Chiffre:  programmation.Chiffre,
		Version:  programmation.Version,
		GenereLe: programmation.GenereLe,
	})
}
