package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ProgrammationHoraireModel est une sonnerie hebdomadaire: heure, minute
// et ensemble de jours (0=dimanche..6=samedi). Les lignes sont stockees
// triees par (heure, minute).
type ProgrammationHoraireModel struct {
	HoraireID              uuid.UUID `gorm:"column:horaire_id;type:uuid;default:gen_random_uuid();primaryKey" json:"horaire_id"`
	HoraireProgrammationID uuid.UUID `gorm:"column:horaire_programmation_id;type:uuid;not null;index" json:"horaire_programmation_id"`

	HoraireHeure  int `gorm:"column:horaire_heure;not null;check:horaire_heure >= 0 AND horaire_heure <= 23" json:"horaire_heure"`
	HoraireMinute int `gorm:"column:horaire_minute;not null;check:horaire_minute >= 0 AND horaire_minute <= 59" json:"horaire_minute"`

	HoraireJours pq.Int64Array `gorm:"column:horaire_jours;type:integer[];not null" json:"horaire_jours"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (ProgrammationHoraireModel) TableName() string { return "programmation_horaires" }
