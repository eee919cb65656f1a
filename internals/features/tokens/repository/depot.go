package repository

import (
	"time"

	"github.com/google/uuid"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	registreModel "sirenecole_backend/internals/features/registre/model"
	tokenModel "sirenecole_backend/internals/features/tokens/model"
)

// Depot abstrait les requetes du service tokens. L'implementation gorm
// sert en production, les tests substituent un depot en memoire.
// Contrat: les lectures retournent (nil, nil) quand la ligne n'existe pas.
type Depot interface {
	// AbonnementVerrouille charge l'abonnement sous verrou d'ecriture.
	AbonnementVerrouille(id uuid.UUID) (*abonnementModel.AbonnementModel, error)
	NbPaiementsValides(abonnementID uuid.UUID) (int64, error)

	SireneParNumeroSerie(numeroSerie string) (*registreModel.SireneModel, error)
	AbonnementActifCouvrant(sireneID uuid.UUID, now time.Time) (*abonnementModel.AbonnementModel, error)
	TokenActif(abonnementID uuid.UUID) (*tokenModel.TokenSireneModel, error)

	DesactiverTokensActifs(abonnementID uuid.UUID) error
	InsererToken(row *tokenModel.TokenSireneModel) error

	// DesactiverToken retourne le nombre de lignes touchees.
	DesactiverToken(tokenID uuid.UUID) (int64, error)
}
