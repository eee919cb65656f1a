package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SireneModel struct {
	SireneID     uuid.UUID `gorm:"column:sirene_id;type:uuid;default:gen_random_uuid();primaryKey" json:"sirene_id"`
	SireneSiteID uuid.UUID `gorm:"column:sirene_site_id;type:uuid;not null;index" json:"sirene_site_id"`

	// numero de serie constructeur, cle de bootstrap du firmware (identifiant
	// faible, pas un secret)
	SireneNumeroSerie string  `gorm:"column:sirene_numero_serie;type:varchar(64);not null;unique" json:"sirene_numero_serie"`
	SireneModele      *string `gorm:"column:sirene_modele;type:varchar(64)" json:"sirene_modele,omitempty"`

	SireneDerniereConnexion *time.Time `gorm:"column:sirene_derniere_connexion" json:"sirene_derniere_connexion,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (SireneModel) TableName() string { return "sirenes" }
