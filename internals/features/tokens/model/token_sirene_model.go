package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenSireneModel porte le credential presente par une sirene pour
// recuperer sa programmation. Le token remis au firmware est le blob
// chiffre; en base on garde ce blob et son hash, jamais le payload en
// clair.
type TokenSireneModel struct {
	TokenID uuid.UUID `gorm:"column:token_id;type:uuid;default:gen_random_uuid();primaryKey" json:"token_id"`

	TokenAbonnementID uuid.UUID `gorm:"column:token_abonnement_id;type:uuid;not null;index" json:"token_abonnement_id"`
	TokenSireneID     uuid.UUID `gorm:"column:token_sirene_id;type:uuid;not null;index" json:"token_sirene_id"`
	TokenSiteID       uuid.UUID `gorm:"column:token_site_id;type:uuid;not null" json:"token_site_id"`

	TokenChiffre string `gorm:"column:token_chiffre;type:text;not null" json:"token_chiffre"`
	TokenHash    string `gorm:"column:token_hash;type:varchar(64);not null;index" json:"-"`

	TokenDateDebut time.Time `gorm:"column:token_date_debut;not null" json:"token_date_debut"`
	TokenDateFin   time.Time `gorm:"column:token_date_fin;not null" json:"token_date_fin"`

	TokenGenereLe time.Time  `gorm:"column:token_genere_le;not null" json:"token_genere_le"`
	TokenExpireLe time.Time  `gorm:"column:token_expire_le;not null" json:"token_expire_le"`
	TokenActiveLe *time.Time `gorm:"column:token_active_le" json:"token_active_le,omitempty"`

	TokenActif bool `gorm:"column:token_actif;not null;default:false;index" json:"token_actif"`

	TokenGenerePar *uuid.UUID `gorm:"column:token_genere_par;type:uuid" json:"token_genere_par,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (TokenSireneModel) TableName() string { return "tokens_sirene" }

// EstExpire au sens strict: valide jusqu'a expire_le inclus.
func (t *TokenSireneModel) EstExpire(now time.Time) bool {
	return now.After(t.TokenExpireLe)
}
