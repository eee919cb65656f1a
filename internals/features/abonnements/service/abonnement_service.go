package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sirenecole_backend/internals/features/abonnements/model"
	paiementModel "sirenecole_backend/internals/features/paiements/model"
	tokenService "sirenecole_backend/internals/features/tokens/service"
)

/* ===================== Erreurs ===================== */

var (
	ErrAbonnementIntrouvable = errors.New("abonnement introuvable")
	ErrTransitionInterdite   = errors.New("transition de statut interdite")
	ErrMotifRequis           = errors.New("un motif est requis")
	ErrPaiementNonValide     = errors.New("aucun paiement valide: activation refusee")
)

/* ===================== Service ===================== */

type AbonnementService struct {
	Tokens *tokenService.TokenService
}

func NewAbonnementService(tokens *tokenService.TokenService) *AbonnementService {
	return &AbonnementService{Tokens: tokens}
}

func (s *AbonnementService) charger(tx *gorm.DB, id uuid.UUID) (*model.AbonnementModel, error) {
	var abo model.AbonnementModel
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("abonnement_id = ?", id).
		First(&abo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbonnementIntrouvable
		}
		return nil, err
	}
	return &abo, nil
}

func (s *AbonnementService) transiter(tx *gorm.DB, abo *model.AbonnementModel, vers model.StatutAbonnement, action string, motif *string, par *uuid.UUID) error {
	if !model.PeutTransiter(abo.AbonnementStatut, vers) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionInterdite, abo.AbonnementStatut, vers)
	}
	avant := abo.AbonnementStatut
	if err := tx.Model(abo).Update("abonnement_statut", vers).Error; err != nil {
		return err
	}
	abo.AbonnementStatut = vers

	audit := model.AbonnementAuditModel{
		AuditAbonnementID: abo.AbonnementID,
		AuditAction:       action,
		AuditStatutAvant:  avant,
		AuditStatutApres:  vers,
		AuditMotif:        motif,
		AuditParOperateur: par,
	}
	return tx.Create(&audit).Error
}

// compterAutresActifs compte les abonnements actifs concurrents pour la
// meme (ecole, sirene), l'abonnement candidat exclu.
func compterAutresActifs(tx *gorm.DB, abo *model.AbonnementModel) (int64, error) {
	var nb int64
	err := tx.Model(&model.AbonnementModel{}).
		Where("abonnement_ecole_id = ? AND abonnement_sirene_id = ? AND abonnement_statut = ? AND abonnement_id <> ?",
			abo.AbonnementEcoleID, abo.AbonnementSireneID, model.StatutActif, abo.AbonnementID).
		Count(&nb).Error
	return nb, err
}

// verifierActivation est la regle commune a toute entree dans le statut
// actif (activation comme reactivation): transition autorisee et aucun
// autre abonnement actif pour la (ecole, sirene).
func verifierActivation(de model.StatutAbonnement, nbAutresActifs int64) error {
	if !model.PeutTransiter(de, model.StatutActif) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionInterdite, de, model.StatutActif)
	}
	if nbAutresActifs > 0 {
		return fmt.Errorf("%w: un abonnement actif existe deja pour cette sirene", ErrTransitionInterdite)
	}
	return nil
}

// Activer passe en_attente -> actif suite a un paiement valide, puis
// genere le token sirene. Tout ou rien: l'activation sans token n'existe
// pas.
func (s *AbonnementService) Activer(db *gorm.DB, abonnementID uuid.UUID, par *uuid.UUID) (*model.AbonnementModel, error) {
	var result *model.AbonnementModel
	err := db.Transaction(func(tx *gorm.DB) error {
		abo, err := s.charger(tx, abonnementID)
		if err != nil {
			return err
		}

		var nbPaiements int64
		if err := tx.Model(&paiementModel.PaiementModel{}).
			Where("paiement_abonnement_id = ? AND paiement_statut = ?", abo.AbonnementID, paiementModel.PaiementStatutValide).
			Count(&nbPaiements).Error; err != nil {
			return err
		}
		if nbPaiements == 0 {
			return ErrPaiementNonValide
		}

		// invariant: un seul abonnement actif par (ecole, sirene)
		nbActifs, err := compterAutresActifs(tx, abo)
		if err != nil {
			return err
		}
		if err := verifierActivation(abo.AbonnementStatut, nbActifs); err != nil {
			return err
		}

		if err := s.transiter(tx, abo, model.StatutActif, "activation", nil, par); err != nil {
			return err
		}

		if _, err := s.Tokens.Issue(tx, abo.AbonnementID, par); err != nil {
			return err
		}

		result = abo
		return nil
	})
	return result, err
}

// Suspendre: actif -> suspendu. Le token n'est pas revoque, mais le
// protocole de provisioning refuse tout abonnement suspendu.
func (s *AbonnementService) Suspendre(db *gorm.DB, abonnementID uuid.UUID, motif string, par *uuid.UUID) (*model.AbonnementModel, error) {
	if motif == "" {
		return nil, ErrMotifRequis
	}
	var result *model.AbonnementModel
	err := db.Transaction(func(tx *gorm.DB) error {
		abo, err := s.charger(tx, abonnementID)
		if err != nil {
			return err
		}
		if err := s.transiter(tx, abo, model.StatutSuspendu, "suspension", &motif, par); err != nil {
			return err
		}
		result = abo
		return nil
	})
	return result, err
}

// Reactiver: suspendu -> actif, sans regenerer de token. La fenetre de
// validite du token existant reste la reference.
func (s *AbonnementService) Reactiver(db *gorm.DB, abonnementID uuid.UUID, par *uuid.UUID) (*model.AbonnementModel, error) {
	var result *model.AbonnementModel
	err := db.Transaction(func(tx *gorm.DB) error {
		abo, err := s.charger(tx, abonnementID)
		if err != nil {
			return err
		}
		if abo.AbonnementStatut != model.StatutSuspendu {
			return fmt.Errorf("%w: %s -> %s", ErrTransitionInterdite, abo.AbonnementStatut, model.StatutActif)
		}
		// meme invariant qu'a l'activation: un abonnement concurrent a pu
		// etre active pendant la suspension
		nbActifs, err := compterAutresActifs(tx, abo)
		if err != nil {
			return err
		}
		if err := verifierActivation(abo.AbonnementStatut, nbActifs); err != nil {
			return err
		}
		if err := s.transiter(tx, abo, model.StatutActif, "reactivation", nil, par); err != nil {
			return err
		}
		result = abo
		return nil
	})
	return result, err
}

// Annuler force le passage en expire avec date_fin = maintenant, quel que
// soit le terme restant.
func (s *AbonnementService) Annuler(db *gorm.DB, abonnementID uuid.UUID, motif string, par *uuid.UUID) (*model.AbonnementModel, error) {
	if motif == "" {
		return nil, ErrMotifRequis
	}
	var result *model.AbonnementModel
	err := db.Transaction(func(tx *gorm.DB) error {
		abo, err := s.charger(tx, abonnementID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := s.transiter(tx, abo, model.StatutExpire, "annulation", &motif, par); err != nil {
			return err
		}
		if err := tx.Model(abo).Update("abonnement_date_fin", now).Error; err != nil {
			return err
		}
		abo.AbonnementDateFin = now
		// expire est terminal: le token ne doit plus jamais servir
		if err := s.Tokens.DesactiverPourAbonnement(tx, abo.AbonnementID); err != nil {
			return err
		}
		result = abo
		return nil
	})
	return result, err
}

// Renouveler cree un abonnement enfant en_attente demarrant le lendemain
// de la fin du parent, pour un an, ainsi que la facture associee. Le
// parent n'est pas modifie.
func (s *AbonnementService) Renouveler(db *gorm.DB, abonnementID uuid.UUID, par *uuid.UUID) (*model.AbonnementModel, *paiementModel.PaiementModel, error) {
	var enfant *model.AbonnementModel
	var paiement *paiementModel.PaiementModel

	err := db.Transaction(func(tx *gorm.DB) error {
		parent, err := s.charger(tx, abonnementID)
		if err != nil {
			return err
		}
		if parent.AbonnementStatut != model.StatutActif && parent.AbonnementStatut != model.StatutExpire {
			return fmt.Errorf("%w: renouvellement depuis %s", ErrTransitionInterdite, parent.AbonnementStatut)
		}

		debut := parent.AbonnementDateFin.AddDate(0, 0, 1)
		row := model.AbonnementModel{
			AbonnementEcoleID:      parent.AbonnementEcoleID,
			AbonnementSiteID:       parent.AbonnementSiteID,
			AbonnementSireneID:     parent.AbonnementSireneID,
			AbonnementParentID:     &parent.AbonnementID,
			AbonnementDateDebut:    debut,
			AbonnementDateFin:      debut.AddDate(1, 0, 0),
			AbonnementMontant:      parent.AbonnementMontant,
			AbonnementStatut:       model.StatutEnAttente,
			AbonnementReconduction: parent.AbonnementReconduction,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		audit := model.AbonnementAuditModel{
			AuditAbonnementID: row.AbonnementID,
			AuditAction:       "renouvellement",
			AuditStatutAvant:  parent.AbonnementStatut,
			AuditStatutApres:  model.StatutEnAttente,
			AuditParOperateur: par,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		facture := paiementModel.PaiementModel{
			PaiementAbonnementID: row.AbonnementID,
			PaiementMontant:      row.AbonnementMontant,
			PaiementStatut:       paiementModel.PaiementStatutEnAttente,
			PaiementOrderID:      fmt.Sprintf("ABO-%d", time.Now().UnixNano()),
			PaiementGateway:      "midtrans",
		}
		if err := tx.Create(&facture).Error; err != nil {
			return err
		}

		enfant = &row
		paiement = &facture
		return nil
	})
	return enfant, paiement, err
}

// ExpirerEchus bascule en expire tout abonnement actif dont la date de
// fin est passee. Idempotent, sans danger en concurrence avec le trafic
// sirene.
func (s *AbonnementService) ExpirerEchus(db *gorm.DB, now time.Time) (int, error) {
	total := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var echus []model.AbonnementModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("abonnement_statut = ? AND abonnement_date_fin < ?", model.StatutActif, now).
			Find(&echus).Error; err != nil {
			return err
		}
		for i := range echus {
			if err := s.transiter(tx, &echus[i], model.StatutExpire, "expiration_automatique", nil, nil); err != nil {
				return err
			}
			if err := s.Tokens.DesactiverPourAbonnement(tx, echus[i].AbonnementID); err != nil {
				return err
			}
		}
		total = len(echus)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		log.Printf("[INFO] Balayage abonnements: %d passe(s) en expire", total)
	}
	return total, nil
}
