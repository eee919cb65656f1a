package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EcoleModel struct {
	EcoleID   uuid.UUID `gorm:"column:ecole_id;type:uuid;default:gen_random_uuid();primaryKey" json:"ecole_id"`
	EcoleNom  string    `gorm:"column:ecole_nom;type:varchar(120);not null" json:"ecole_nom"`
	EcoleSlug string    `gorm:"column:ecole_slug;type:varchar(120);not null;unique" json:"ecole_slug"`

	EcoleVille *string `gorm:"column:ecole_ville;type:varchar(120)" json:"ecole_ville,omitempty"`
	EcolePays  *string `gorm:"column:ecole_pays;type:varchar(120)" json:"ecole_pays,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (EcoleModel) TableName() string { return "ecoles" }
