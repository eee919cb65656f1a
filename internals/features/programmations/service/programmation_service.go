package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	"sirenecole_backend/internals/features/programmations/model"
	crypto "sirenecole_backend/internals/helpers/crypto"
)

var (
	ErrProgrammationIntrouvable = errors.New("programmation introuvable")
	ErrAbonnementNonActif       = errors.New("l'abonnement de la programmation n'est pas actif")
)

type ProgrammationService struct {
	Codec *crypto.Codec
}

func NewProgrammationService(codec *crypto.Codec) *ProgrammationService {
	return &ProgrammationService{Codec: codec}
}

/* ===================== Inputs ===================== */

// CreerProgrammationInput: ecole, site et sirene sont derives de
// l'abonnement porteur, pas fournis par le client.
type CreerProgrammationInput struct {
	AbonnementID uuid.UUID
	CalendrierID *uuid.UUID
	Nom          string
	DateDebut    time.Time
	DateFin      time.Time

	JoursFeriesInclus bool
	JoursFeries       []model.JourFerieOverride

	Sonneries []Sonnerie
	CreePar   *uuid.UUID
}

// MettreAJourProgrammationInput: champs optionnels, nil = inchange.
type MettreAJourProgrammationInput struct {
	Nom               *string
	DateDebut         *time.Time
	DateFin           *time.Time
	JoursFeriesInclus *bool
	JoursFeries       *[]model.JourFerieOverride
	Sonneries         *[]Sonnerie
	Actif             *bool
}

/* ===================== Operations ===================== */

// Creer valide, canonise et chiffre la programmation puis persiste tout
// (ligne + horaires + encodages) dans la meme transaction.
func (s *ProgrammationService) Creer(db *gorm.DB, in CreerProgrammationInput) (*model.ProgrammationModel, error) {
	var result *model.ProgrammationModel

	err := db.Transaction(func(tx *gorm.DB) error {
		var abo abonnementModel.AbonnementModel
		if err := tx.Where("abonnement_id = ?", in.AbonnementID).First(&abo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAbonnementNonActif
			}
			return err
		}
		if abo.AbonnementStatut != abonnementModel.StatutActif {
			return ErrAbonnementNonActif
		}

		if err := ValidateWindow(in.DateDebut, in.DateFin, abo.AbonnementDateDebut, abo.AbonnementDateFin); err != nil {
			return err
		}

		canonique, err := Canonicalize(in.Sonneries)
		if err != nil {
			return err
		}

		chiffre, err := s.Codec.Encrypt(Encode(canonique))
		if err != nil {
			return fmt.Errorf("scellement programmation: %w", err)
		}

		feriesJSON, err := json.Marshal(in.JoursFeries)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		row := model.ProgrammationModel{
			ProgrammationEcoleID:           abo.AbonnementEcoleID,
			ProgrammationSiteID:            abo.AbonnementSiteID,
			ProgrammationSireneID:          abo.AbonnementSireneID,
			ProgrammationAbonnementID:      in.AbonnementID,
			ProgrammationCalendrierID:      in.CalendrierID,
			ProgrammationNom:               in.Nom,
			ProgrammationDateDebut:         in.DateDebut,
			ProgrammationDateFin:           in.DateFin,
			ProgrammationJoursFeriesInclus: in.JoursFeriesInclus,
			ProgrammationJoursFeries:       datatypes.JSON(feriesJSON),
			ProgrammationActif:             true,
			ProgrammationEncodageClair:     FormatClair(canonique),
			ProgrammationEncodageChiffre:   chiffre,
			ProgrammationVersion:           VersionEncodage,
			ProgrammationGenereLe:          now,
			ProgrammationCreePar:           in.CreePar,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if err := insererHoraires(tx, row.ProgrammationID, canonique); err != nil {
			return err
		}

		result = &row
		return nil
	})
	return result, err
}

// MettreAJour applique les champs fournis puis rejoue systematiquement
// canonicalize -> encode -> seal dans la transaction: une programmation
// persistee ne porte jamais un encodage perime.
func (s *ProgrammationService) MettreAJour(db *gorm.DB, id uuid.UUID, in MettreAJourProgrammationInput) (*model.ProgrammationModel, error) {
	var result *model.ProgrammationModel

	err := db.Transaction(func(tx *gorm.DB) error {
		var row model.ProgrammationModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("programmation_id = ?", id).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgrammationIntrouvable
			}
			return err
		}

		var abo abonnementModel.AbonnementModel
		if err := tx.Where("abonnement_id = ?", row.ProgrammationAbonnementID).First(&abo).Error; err != nil {
			return err
		}

		if in.Nom != nil {
			row.ProgrammationNom = *in.Nom
		}
		if in.DateDebut != nil {
			row.ProgrammationDateDebut = *in.DateDebut
		}
		if in.DateFin != nil {
			row.ProgrammationDateFin = *in.DateFin
		}
		if in.JoursFeriesInclus != nil {
			row.ProgrammationJoursFeriesInclus = *in.JoursFeriesInclus
		}
		if in.JoursFeries != nil {
			feriesJSON, err := json.Marshal(*in.JoursFeries)
			if err != nil {
				return err
			}
			row.ProgrammationJoursFeries = datatypes.JSON(feriesJSON)
		}
		if in.Actif != nil {
			row.ProgrammationActif = *in.Actif
		}

		if err := ValidateWindow(row.ProgrammationDateDebut, row.ProgrammationDateFin,
			abo.AbonnementDateDebut, abo.AbonnementDateFin); err != nil {
			return err
		}

		sonneries, err := chargerSonneries(tx, row.ProgrammationID)
		if err != nil {
			return err
		}
		if in.Sonneries != nil {
			sonneries = *in.Sonneries
		}

		canonique, err := Canonicalize(sonneries)
		if err != nil {
			return err
		}

		chiffre, err := s.Codec.Encrypt(Encode(canonique))
		if err != nil {
			return fmt.Errorf("scellement programmation: %w", err)
		}

		row.ProgrammationEncodageClair = FormatClair(canonique)
		row.ProgrammationEncodageChiffre = chiffre
		row.ProgrammationVersion = VersionEncodage
		row.ProgrammationGenereLe = time.Now().UTC()

		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		// remplace les horaires par le jeu canonique
		if err := tx.
			Where("horaire_programmation_id = ?", row.ProgrammationID).
			Delete(&model.ProgrammationHoraireModel{}).Error; err != nil {
			return err
		}
		if err := insererHoraires(tx, row.ProgrammationID, canonique); err != nil {
			return err
		}

		result = &row
		return nil
	})
	return result, err
}

// Supprimer retire la programmation et ses horaires, les deux en
// suppression douce pour garder la trace.
func (s *ProgrammationService) Supprimer(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("programmation_id = ?", id).Delete(&model.ProgrammationModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProgrammationIntrouvable
		}
		return tx.
			Where("horaire_programmation_id = ?", id).
			Delete(&model.ProgrammationHoraireModel{}).Error
	})
}

// SonneriesDuJour resout ce qu'une programmation sonnera reellement a une
// date donnee: sonneries canoniques filtrees par jour de semaine et par la
// politique jours feries avec ses derogations.
func (s *ProgrammationService) SonneriesDuJour(db *gorm.DB, id uuid.UUID, date time.Time, estFerie bool) ([]Sonnerie, error) {
	var row model.ProgrammationModel
	if err := db.Where("programmation_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgrammationIntrouvable
		}
		return nil, err
	}

	sonneries, err := chargerSonneries(db, row.ProgrammationID)
	if err != nil {
		return nil, err
	}
	overrides, err := OverridesDe(&row)
	if err != nil {
		return nil, err
	}
	return SonneriesEffectives(sonneries, date, estFerie, row.ProgrammationJoursFeriesInclus, overrides), nil
}

// SonneriesEffectives filtre les sonneries d'une date calendaire: jour de
// semaine + politique jours feries (le calendrier scolaire dit si la date
// est feriee).
func SonneriesEffectives(sonneries []Sonnerie, date time.Time, estFerie bool, baseInclus bool, overrides []model.JourFerieOverride) []Sonnerie {
	jour := int(date.Weekday())
	sonne := true
	if estFerie {
		sonne = ResolveHoliday(date.Format("2006-01-02"), baseInclus, overrides)
	}

	out := make([]Sonnerie, 0, len(sonneries))
	if !sonne {
		return out
	}
	for _, s := range sonneries {
		for _, j := range s.Jours {
			if j == jour {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

/* ===================== Helpers ===================== */

func insererHoraires(tx *gorm.DB, programmationID uuid.UUID, canonique []Sonnerie) error {
	for _, s := range canonique {
		jours := make(pq.Int64Array, len(s.Jours))
		for i, j := range s.Jours {
			jours[i] = int64(j)
		}
		horaire := model.ProgrammationHoraireModel{
			HoraireProgrammationID: programmationID,
			HoraireHeure:           s.Heure,
			HoraireMinute:          s.Minute,
			HoraireJours:           jours,
		}
		if err := tx.Create(&horaire).Error; err != nil {
			return err
		}
	}
	return nil
}

func chargerSonneries(tx *gorm.DB, programmationID uuid.UUID) ([]Sonnerie, error) {
	var rows []model.ProgrammationHoraireModel
	if err := tx.
		Where("horaire_programmation_id = ?", programmationID).
		Order("horaire_heure, horaire_minute").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Sonnerie, len(rows))
	for i, r := range rows {
		jours := make([]int, len(r.HoraireJours))
		for k, j := range r.HoraireJours {
			jours[k] = int(j)
		}
		out[i] = Sonnerie{Heure: r.HoraireHeure, Minute: r.HoraireMinute, Jours: jours}
	}
	return out, nil
}

// OverridesDe decode la colonne JSON des derogations.
func OverridesDe(p *model.ProgrammationModel) ([]model.JourFerieOverride, error) {
	if len(p.ProgrammationJoursFeries) == 0 {
		return nil, nil
	}
	var out []model.JourFerieOverride
	if err := json.Unmarshal(p.ProgrammationJoursFeries, &out); err != nil {
		return nil, err
	}
	return out, nil
}
