package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteModel struct {
	SiteID      uuid.UUID `gorm:"column:site_id;type:uuid;default:gen_random_uuid();primaryKey" json:"site_id"`
	SiteEcoleID uuid.UUID `gorm:"column:site_ecole_id;type:uuid;not null;index" json:"site_ecole_id"`

	SiteNom     string  `gorm:"column:site_nom;type:varchar(120);not null" json:"site_nom"`
	SiteAdresse *string `gorm:"column:site_adresse;type:text" json:"site_adresse,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (SiteModel) TableName() string { return "sites" }
