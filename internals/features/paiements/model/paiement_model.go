package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Constants ===================== */

const (
	PaiementStatutEnAttente = "en_attente"
	PaiementStatutValide    = "valide"
	PaiementStatutExpire    = "expire"
	PaiementStatutAnnule    = "annule"
)

/* ===================== Model ===================== */

type PaiementModel struct {
	PaiementID           uuid.UUID `gorm:"column:paiement_id;type:uuid;default:gen_random_uuid();primaryKey" json:"paiement_id"`
	PaiementAbonnementID uuid.UUID `gorm:"column:paiement_abonnement_id;type:uuid;not null;index" json:"paiement_abonnement_id"`

	// montant en centimes
	PaiementMontant int    `gorm:"column:paiement_montant;not null;check:paiement_montant > 0" json:"paiement_montant"`
	PaiementStatut  string `gorm:"column:paiement_statut;type:varchar(20);not null;default:'en_attente';index" json:"paiement_statut"`

	PaiementOrderID string  `gorm:"column:paiement_order_id;type:varchar(100);not null;unique" json:"paiement_order_id"`
	PaiementGateway string  `gorm:"column:paiement_gateway;type:varchar(50);not null;default:'midtrans'" json:"paiement_gateway"`
	PaiementMethode *string `gorm:"column:paiement_methode;type:varchar(50)" json:"paiement_methode,omitempty"`
	PaiementToken   *string `gorm:"column:paiement_token;type:text" json:"paiement_token,omitempty"`

	PaiementPayeLe *time.Time `gorm:"column:paiement_paye_le" json:"paiement_paye_le,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (PaiementModel) TableName() string { return "paiements" }
