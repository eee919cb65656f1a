package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	programmationModel "sirenecole_backend/internals/features/programmations/model"
	registreModel "sirenecole_backend/internals/features/registre/model"
	tokenModel "sirenecole_backend/internals/features/tokens/model"
	tokenService "sirenecole_backend/internals/features/tokens/service"
)

type DepotGorm struct {
	DB *gorm.DB
}

func NewDepotGorm(db *gorm.DB) *DepotGorm {
	return &DepotGorm{DB: db}
}

func (d *DepotGorm) chargerChaine(numeroSerie string, now time.Time) (*registreModel.SireneModel, *abonnementModel.AbonnementModel, error) {
	var sirene registreModel.SireneModel
	if err := d.DB.Where("sirene_numero_serie = ?", numeroSerie).First(&sirene).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSireneInconnue
		}
		return nil, nil, err
	}

	var abo abonnementModel.AbonnementModel
	if err := d.DB.
		Where("abonnement_sirene_id = ? AND abonnement_statut = ? AND abonnement_date_debut <= ? AND abonnement_date_fin >= ?",
			sirene.SireneID, abonnementModel.StatutActif, now, now).
		First(&abo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAbonnementInactif
		}
		return nil, nil, err
	}
	return &sirene, &abo, nil
}

func (d *DepotGorm) ChargerConfig(numeroSerie string, now time.Time) (*ConfigSirene, error) {
	sirene, abo, err := d.chargerChaine(numeroSerie, now)
	if err != nil {
		return nil, err
	}

	var token tokenModel.TokenSireneModel
	if err := d.DB.
		Where("token_abonnement_id = ? AND token_actif = ?", abo.AbonnementID, true).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenAbsent
		}
		return nil, err
	}

	var site registreModel.SiteModel
	if err := d.DB.Where("site_id = ?", sirene.SireneSiteID).First(&site).Error; err != nil {
		return nil, err
	}
	var ecole registreModel.EcoleModel
	if err := d.DB.Where("ecole_id = ?", site.SiteEcoleID).First(&ecole).Error; err != nil {
		return nil, err
	}

	var programmations []programmationModel.ProgrammationModel
	if err := d.DB.
		Where("programmation_sirene_id = ? AND programmation_actif = ? AND programmation_date_debut <= ? AND programmation_date_fin >= ?",
			sirene.SireneID, true, now, now).
		Order("programmation_genere_le DESC").
		Find(&programmations).Error; err != nil {
		return nil, err
	}

	actives := make([]ProgrammationActive, len(programmations))
	for i, p := range programmations {
		actives[i] = versActive(&p)
	}

	return &ConfigSirene{
		NumeroSerie:    sirene.SireneNumeroSerie,
		EcoleNom:       ecole.EcoleNom,
		SiteNom:        site.SiteNom,
		TokenChiffre:   token.TokenChiffre,
		TokenExpireLe:  token.TokenExpireLe,
		Programmations: actives,
	}, nil
}

func (d *DepotGorm) ProgrammationCourante(numeroSerie string, now time.Time) (*ProgrammationActive, error) {
	sirene, _, err := d.chargerChaine(numeroSerie, now)
	if err != nil {
		return nil, err
	}

	var p programmationModel.ProgrammationModel
	if err := d.DB.
		Where("programmation_sirene_id = ? AND programmation_actif = ? AND programmation_date_debut <= ? AND programmation_date_fin >= ?",
			sirene.SireneID, true, now, now).
		Order("programmation_genere_le DESC").
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgrammationAbsente
		}
		return nil, err
	}

	active := versActive(&p)
	return &active, nil
}

func (d *DepotGorm) MarquerConnexion(numeroSerie string, now time.Time) error {
	return d.DB.Model(&registreModel.SireneModel{}).
		Where("sirene_numero_serie = ?", numeroSerie).
		Update("sirene_derniere_connexion", now).Error
}

func versActive(p *programmationModel.ProgrammationModel) ProgrammationActive {
	return ProgrammationActive{
		ProgrammationID: p.ProgrammationID,
		Nom:             p.ProgrammationNom,
		Chiffre:         p.ProgrammationEncodageChiffre,
		Version:         p.ProgrammationVersion,
		DateDebut:       p.ProgrammationDateDebut,
		DateFin:         p.ProgrammationDateFin,
		GenereLe:        p.ProgrammationGenereLe,
	}
}

/* ===================== Verifieur ===================== */

// VerifieurGorm adapte le service tokens a l'interface du controller.
type VerifieurGorm struct {
	DB     *gorm.DB
	Tokens *tokenService.TokenService
}

func NewVerifieurGorm(db *gorm.DB, tokens *tokenService.TokenService) *VerifieurGorm {
	return &VerifieurGorm{DB: db, Tokens: tokens}
}

func (v *VerifieurGorm) Verifier(presente, numeroSerie string, now time.Time) error {
	_, err := v.Tokens.Validate(v.DB, presente, numeroSerie, now)
	return err
}
