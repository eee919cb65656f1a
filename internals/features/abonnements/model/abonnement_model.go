package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Statut ===================== */

// StatutAbonnement est un enum ferme: toute transition passe par
// PeutTransiter, ajouter un statut force a repasser sur chaque switch.
type StatutAbonnement string

const (
	StatutEnAttente StatutAbonnement = "en_attente"
	StatutActif     StatutAbonnement = "actif"
	StatutSuspendu  StatutAbonnement = "suspendu"
	StatutExpire    StatutAbonnement = "expire"
)

func (s StatutAbonnement) EstValide() bool {
	switch s {
	case StatutEnAttente, StatutActif, StatutSuspendu, StatutExpire:
		return true
	}
	return false
}

// EstTerminal: aucun retour possible depuis expire.
func (s StatutAbonnement) EstTerminal() bool { return s == StatutExpire }

// PeutTransiter encode la machine a etats complete.
// en_attente -> actif | expire
// actif      -> suspendu | expire
// suspendu   -> actif | expire
func PeutTransiter(de, vers StatutAbonnement) bool {
	switch de {
	case StatutEnAttente:
		return vers == StatutActif || vers == StatutExpire
	case StatutActif:
		return vers == StatutSuspendu || vers == StatutExpire
	case StatutSuspendu:
		return vers == StatutActif || vers == StatutExpire
	case StatutExpire:
		return false
	}
	return false
}

/* ===================== Model ===================== */

type AbonnementModel struct {
	AbonnementID uuid.UUID `gorm:"column:abonnement_id;type:uuid;default:gen_random_uuid();primaryKey" json:"abonnement_id"`

	// index partiel: au plus un abonnement actif par (ecole, sirene), le
	// service verifie la meme regle avant chaque passage en actif
	AbonnementEcoleID  uuid.UUID `gorm:"column:abonnement_ecole_id;type:uuid;not null;index;index:uniq_abonnements_actif,unique,where:abonnement_statut = 'actif',priority:1" json:"abonnement_ecole_id"`
	AbonnementSiteID   uuid.UUID `gorm:"column:abonnement_site_id;type:uuid;not null;index" json:"abonnement_site_id"`
	AbonnementSireneID uuid.UUID `gorm:"column:abonnement_sirene_id;type:uuid;not null;index;index:uniq_abonnements_actif,unique,where:abonnement_statut = 'actif',priority:2" json:"abonnement_sirene_id"`

	// chaine de renouvellement (enfant -> parent)
	AbonnementParentID *uuid.UUID `gorm:"column:abonnement_parent_id;type:uuid" json:"abonnement_parent_id,omitempty"`

	AbonnementDateDebut time.Time `gorm:"column:abonnement_date_debut;not null" json:"abonnement_date_debut"`
	AbonnementDateFin   time.Time `gorm:"column:abonnement_date_fin;not null" json:"abonnement_date_fin"`

	// montant en centimes
	AbonnementMontant int `gorm:"column:abonnement_montant;not null;check:abonnement_montant >= 0" json:"abonnement_montant"`

	AbonnementStatut       StatutAbonnement `gorm:"column:abonnement_statut;type:varchar(20);not null;default:'en_attente';index" json:"abonnement_statut"`
	AbonnementReconduction bool             `gorm:"column:abonnement_reconduction;not null;default:false" json:"abonnement_reconduction"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (AbonnementModel) TableName() string { return "abonnements" }

// CouvreDate: la fenetre [debut, fin] contient t (bornes incluses).
func (a *AbonnementModel) CouvreDate(t time.Time) bool {
	return !t.Before(a.AbonnementDateDebut) && !t.After(a.AbonnementDateFin)
}
