package model

import (
	"time"

	"github.com/google/uuid"
)

// AbonnementAuditModel journalise chaque transition de statut sous forme
// structuree, a la place de notes concatenees dans la ligne abonnement.
type AbonnementAuditModel struct {
	AuditID           uuid.UUID `gorm:"column:audit_id;type:uuid;default:gen_random_uuid();primaryKey" json:"audit_id"`
	AuditAbonnementID uuid.UUID `gorm:"column:audit_abonnement_id;type:uuid;not null;index" json:"audit_abonnement_id"`

	AuditAction       string           `gorm:"column:audit_action;type:varchar(40);not null" json:"audit_action"`
	AuditStatutAvant  StatutAbonnement `gorm:"column:audit_statut_avant;type:varchar(20);not null" json:"audit_statut_avant"`
	AuditStatutApres  StatutAbonnement `gorm:"column:audit_statut_apres;type:varchar(20);not null" json:"audit_statut_apres"`
	AuditMotif        *string          `gorm:"column:audit_motif;type:text" json:"audit_motif,omitempty"`
	AuditParOperateur *uuid.UUID       `gorm:"column:audit_par_operateur;type:uuid" json:"audit_par_operateur,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AbonnementAuditModel) TableName() string { return "abonnement_audits" }
