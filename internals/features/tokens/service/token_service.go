package service

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	tokenModel "sirenecole_backend/internals/features/tokens/model"
	"sirenecole_backend/internals/features/tokens/repository"
	crypto "sirenecole_backend/internals/helpers/crypto"
)

/* ===================== Erreurs ===================== */

var (
	ErrAbonnementInactif = errors.New("aucun abonnement actif pour cette sirene")
	ErrPaiementManquant  = errors.New("aucun paiement valide sur l'abonnement")
	ErrTokenAbsent       = errors.New("aucun token actif sur l'abonnement")
	ErrTokenInvalide     = errors.New("token presente invalide")
	ErrTokenExpire       = errors.New("token expire")
	ErrTokenCorrompu     = errors.New("token presente illisible (blob corrompu)")
)

/* ===================== Service ===================== */

type TokenService struct {
	Codec *crypto.Codec
}

func NewTokenService(codec *crypto.Codec) *TokenService {
	return &TokenService{Codec: codec}
}

// payload chiffre remis au firmware
type tokenPayload struct {
	AbonnementID uuid.UUID `json:"abonnement_id"`
	SireneID     uuid.UUID `json:"sirene_id"`
	SiteID       uuid.UUID `json:"site_id"`
	IssuedAt     int64     `json:"issued_at"`
	ExpiresAt    int64     `json:"expires_at"`
}

// Issue genere un token pour un abonnement actif et paye. L'ancien token
// actif est desactive dans la meme transaction: un lecteur ne voit jamais
// deux tokens actifs, ni zero pendant la rotation.
// Plafond d'expiration = date de fin de l'abonnement.
func (s *TokenService) Issue(db *gorm.DB, abonnementID uuid.UUID, generePar *uuid.UUID) (*tokenModel.TokenSireneModel, error) {
	var nouveau *tokenModel.TokenSireneModel
	err := db.Transaction(func(tx *gorm.DB) error {
		row, err := s.IssueDans(repository.NewDepotGorm(tx), abonnementID, generePar)
		if err != nil {
			return err
		}
		nouveau = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nouveau, nil
}

// IssueDans porte la logique d'emission; l'appelant fournit un depot deja
// borne a sa transaction.
func (s *TokenService) IssueDans(depot repository.Depot, abonnementID uuid.UUID, generePar *uuid.UUID) (*tokenModel.TokenSireneModel, error) {
	abo, err := depot.AbonnementVerrouille(abonnementID)
	if err != nil {
		return nil, err
	}
	if abo == nil || abo.AbonnementStatut != abonnementModel.StatutActif {
		return nil, ErrAbonnementInactif
	}

	nbPaiements, err := depot.NbPaiementsValides(abo.AbonnementID)
	if err != nil {
		return nil, err
	}
	if nbPaiements == 0 {
		return nil, ErrPaiementManquant
	}

	now := time.Now().UTC()
	payload := tokenPayload{
		AbonnementID: abo.AbonnementID,
		SireneID:     abo.AbonnementSireneID,
		SiteID:       abo.AbonnementSiteID,
		IssuedAt:     now.Unix(),
		ExpiresAt:    abo.AbonnementDateFin.UTC().Unix(),
	}
	clair, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// le token remis au firmware EST le blob chiffre; en base on ne
	// garde que ce blob et le hash pour la comparaison
	chiffre, err := s.Codec.Encrypt(clair)
	if err != nil {
		return nil, fmt.Errorf("chiffrement token: %w", err)
	}

	// rotation atomique: desactive l'ancien puis insere le nouveau
	if err := depot.DesactiverTokensActifs(abo.AbonnementID); err != nil {
		return nil, err
	}

	row := tokenModel.TokenSireneModel{
		TokenAbonnementID: abo.AbonnementID,
		TokenSireneID:     abo.AbonnementSireneID,
		TokenSiteID:       abo.AbonnementSiteID,
		TokenChiffre:      chiffre,
		TokenHash:         crypto.Hash(chiffre),
		TokenDateDebut:    abo.AbonnementDateDebut,
		TokenDateFin:      abo.AbonnementDateFin,
		TokenGenereLe:     now,
		TokenExpireLe:     abo.AbonnementDateFin,
		TokenActiveLe:     &now,
		TokenActif:        true,
		TokenGenerePar:    generePar,
	}
	if err := depot.InsererToken(&row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Validate verifie le token presente par une sirene identifiee par son
// numero de serie. Comparaison en temps constant sur les hash.
func (s *TokenService) Validate(db *gorm.DB, presente, numeroSerie string, now time.Time) (*tokenModel.TokenSireneModel, error) {
	return s.ValideDans(repository.NewDepotGorm(db), presente, numeroSerie, now)
}

func (s *TokenService) ValideDans(depot repository.Depot, presente, numeroSerie string, now time.Time) (*tokenModel.TokenSireneModel, error) {
	sirene, err := depot.SireneParNumeroSerie(numeroSerie)
	if err != nil {
		return nil, err
	}
	if sirene == nil {
		return nil, ErrAbonnementInactif
	}

	abo, err := depot.AbonnementActifCouvrant(sirene.SireneID, now)
	if err != nil {
		return nil, err
	}
	if abo == nil {
		return nil, ErrAbonnementInactif
	}

	token, err := depot.TokenActif(abo.AbonnementID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenAbsent
	}

	// un blob indechiffrable signale une corruption ou une cle etrangere,
	// remonte separement pour etre logge plus severement
	if _, err := s.Codec.Decrypt(presente); err != nil {
		return nil, ErrTokenCorrompu
	}

	hashPresente := crypto.Hash(presente)
	if subtle.ConstantTimeCompare([]byte(hashPresente), []byte(token.TokenHash)) != 1 {
		return nil, ErrTokenInvalide
	}

	if token.EstExpire(now) {
		return nil, ErrTokenExpire
	}

	return token, nil
}

// Revoke desactive un token sans le supprimer (trace d'audit).
func (s *TokenService) Revoke(db *gorm.DB, tokenID uuid.UUID) error {
	return s.RevokeDans(repository.NewDepotGorm(db), tokenID)
}

func (s *TokenService) RevokeDans(depot repository.Depot, tokenID uuid.UUID) error {
	n, err := depot.DesactiverToken(tokenID)
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DesactiverPourAbonnement coupe le token actif d'un abonnement qui quitte
// le statut actif (annulation, expiration). La suspension ne passe pas par
// ici: son token reste en place et le provisioning le refuse tant que
// l'abonnement n'est pas reactive.
func (s *TokenService) DesactiverPourAbonnement(db *gorm.DB, abonnementID uuid.UUID) error {
	return repository.NewDepotGorm(db).DesactiverTokensActifs(abonnementID)
}
