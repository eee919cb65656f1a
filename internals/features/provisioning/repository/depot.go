package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Le depot charge des agregats completement resolus (pas de lazy
// loading): tout ce que le protocole sirene doit renvoyer part d'ici.

var (
	ErrSireneInconnue       = errors.New("sirene inconnue")
	ErrAbonnementInactif    = errors.New("aucun abonnement actif couvrant la date")
	ErrTokenAbsent          = errors.New("aucun token actif")
	ErrProgrammationAbsente = errors.New("aucune programmation active couvrant la date")
)

// ProgrammationActive est la vue chiffree d'une programmation remise au
// firmware: jamais de donnees en clair.
type ProgrammationActive struct {
	ProgrammationID uuid.UUID `json:"programmation_id"`
	Nom             string    `json:"nom"`
	Chiffre         string    `json:"chiffre"`
	Version         int       `json:"version"`
	DateDebut       time.Time `json:"date_debut"`
	DateFin         time.Time `json:"date_fin"`
	GenereLe        time.Time `json:"genere_le"`
}

// ConfigSirene est l'agregat du bootstrap: identite, token chiffre et
// programmations actives.
type ConfigSirene struct {
	NumeroSerie string `json:"numero_serie"`
	EcoleNom    string `json:"ecole_nom"`
	SiteNom     string `json:"site_nom"`

	TokenChiffre  string    `json:"token"`
	TokenExpireLe time.Time `json:"token_expire_le"`

	Programmations []ProgrammationActive `json:"programmations"`
}

type Depot interface {
	// ChargerConfig resout sirene -> abonnement actif couvrant now ->
	// token actif -> programmations actives.
	ChargerConfig(numeroSerie string, now time.Time) (*ConfigSirene, error)

	// ProgrammationCourante retourne la programmation active la plus
	// recente couvrant la date du jour.
	ProgrammationCourante(numeroSerie string, now time.Time) (*ProgrammationActive, error)

	// MarquerConnexion met a jour la derniere connexion de la sirene.
	MarquerConnexion(numeroSerie string, now time.Time) error
}

// VerifieurToken decouple le controller du service tokens pour les tests.
type VerifieurToken interface {
	Verifier(presente, numeroSerie string, now time.Time) error
}
