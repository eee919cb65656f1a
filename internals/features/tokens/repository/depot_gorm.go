package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	paiementModel "sirenecole_backend/internals/features/paiements/model"
	registreModel "sirenecole_backend/internals/features/registre/model"
	tokenModel "sirenecole_backend/internals/features/tokens/model"
)

// DepotGorm est borne a la connexion ou transaction qu'on lui donne.
type DepotGorm struct {
	DB *gorm.DB
}

func NewDepotGorm(db *gorm.DB) *DepotGorm {
	return &DepotGorm{DB: db}
}

func (d *DepotGorm) AbonnementVerrouille(id uuid.UUID) (*abonnementModel.AbonnementModel, error) {
	var abo abonnementModel.AbonnementModel
	if err := d.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("abonnement_id = ?", id).
		First(&abo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &abo, nil
}

func (d *DepotGorm) NbPaiementsValides(abonnementID uuid.UUID) (int64, error) {
	var nb int64
	err := d.DB.Model(&paiementModel.PaiementModel{}).
		Where("paiement_abonnement_id = ? AND paiement_statut = ?", abonnementID, paiementModel.PaiementStatutValide).
		Count(&nb).Error
	return nb, err
}

func (d *DepotGorm) SireneParNumeroSerie(numeroSerie string) (*registreModel.SireneModel, error) {
	var sirene registreModel.SireneModel
	if err := d.DB.Where("sirene_numero_serie = ?", numeroSerie).First(&sirene).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sirene, nil
}

func (d *DepotGorm) AbonnementActifCouvrant(sireneID uuid.UUID, now time.Time) (*abonnementModel.AbonnementModel, error) {
	var abo abonnementModel.AbonnementModel
	if err := d.DB.
		Where("abonnement_sirene_id = ? AND abonnement_statut = ? AND abonnement_date_debut <= ? AND abonnement_date_fin >= ?",
			sireneID, abonnementModel.StatutActif, now, now).
		First(&abo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &abo, nil
}

func (d *DepotGorm) TokenActif(abonnementID uuid.UUID) (*tokenModel.TokenSireneModel, error) {
	var token tokenModel.TokenSireneModel
	if err := d.DB.
		Where("token_abonnement_id = ? AND token_actif = ?", abonnementID, true).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (d *DepotGorm) DesactiverTokensActifs(abonnementID uuid.UUID) error {
	return d.DB.Model(&tokenModel.TokenSireneModel{}).
		Where("token_abonnement_id = ? AND token_actif = ?", abonnementID, true).
		Update("token_actif", false).Error
}

func (d *DepotGorm) InsererToken(row *tokenModel.TokenSireneModel) error {
	return d.DB.Create(row).Error
}

func (d *DepotGorm) DesactiverToken(tokenID uuid.UUID) (int64, error) {
	res := d.DB.Model(&tokenModel.TokenSireneModel{}).
		Where("token_id = ?", tokenID).
		Update("token_actif", false)
	return res.RowsAffected, res.Error
}
