package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Constants ===================== */

// actions des derogations jours feries
const (
	JourFerieInclure = "include"
	JourFerieExclure = "exclude"
)

/* ===================== Model ===================== */

type ProgrammationModel struct {
	ProgrammationID uuid.UUID `gorm:"column:programmation_id;type:uuid;default:gen_random_uuid();primaryKey" json:"programmation_id"`

	ProgrammationEcoleID      uuid.UUID  `gorm:"column:programmation_ecole_id;type:uuid;not null;index" json:"programmation_ecole_id"`
	ProgrammationSiteID       uuid.UUID  `gorm:"column:programmation_site_id;type:uuid;not null" json:"programmation_site_id"`
	ProgrammationSireneID     uuid.UUID  `gorm:"column:programmation_sirene_id;type:uuid;not null;index" json:"programmation_sirene_id"`
	ProgrammationAbonnementID uuid.UUID  `gorm:"column:programmation_abonnement_id;type:uuid;not null;index" json:"programmation_abonnement_id"`
	ProgrammationCalendrierID *uuid.UUID `gorm:"column:programmation_calendrier_id;type:uuid" json:"programmation_calendrier_id,omitempty"`

	ProgrammationNom string `gorm:"column:programmation_nom;type:varchar(120);not null" json:"programmation_nom"`

	ProgrammationDateDebut time.Time `gorm:"column:programmation_date_debut;not null" json:"programmation_date_debut"`
	ProgrammationDateFin   time.Time `gorm:"column:programmation_date_fin;not null" json:"programmation_date_fin"`

	ProgrammationJoursFeriesInclus bool `gorm:"column:programmation_jours_feries_inclus;not null;default:false" json:"programmation_jours_feries_inclus"`
	// liste JSON de derogations {date, action} datees au jour pres
	ProgrammationJoursFeries datatypes.JSON `gorm:"column:programmation_jours_feries;type:jsonb" json:"programmation_jours_feries,omitempty"`

	ProgrammationActif bool `gorm:"column:programmation_actif;not null;default:true;index" json:"programmation_actif"`

	// encodages recalcules a chaque mutation, jamais persistes desynchronises
	// des horaires
	ProgrammationEncodageClair   string `gorm:"column:programmation_encodage_clair;type:text;not null" json:"-"`
	ProgrammationEncodageChiffre string `gorm:"column:programmation_encodage_chiffre;type:text;not null" json:"programmation_encodage_chiffre"`
	ProgrammationVersion         int    `gorm:"column:programmation_version;not null;default:1" json:"programmation_version"`

	ProgrammationGenereLe time.Time  `gorm:"column:programmation_genere_le;not null" json:"programmation_genere_le"`
	ProgrammationCreePar  *uuid.UUID `gorm:"column:programmation_cree_par;type:uuid" json:"programmation_cree_par,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (ProgrammationModel) TableName() string { return "programmations" }

// CouvreDate: fenetre de validite, bornes incluses.
func (p *ProgrammationModel) CouvreDate(t time.Time) bool {
	return !t.Before(p.ProgrammationDateDebut) && !t.After(p.ProgrammationDateFin)
}

// JourFerieOverride est une derogation datee a l'inclusion des jours
// feries (cle: date exacte AAAA-MM-JJ).
type JourFerieOverride struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Action string `json:"action" validate:"required,oneof=include exclude"`
}
