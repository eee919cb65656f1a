package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sirenecole_backend/internals/features/abonnements/model"
)

// La regle d'entree en statut actif est la meme pour l'activation et la
// reactivation: transition autorisee et aucun abonnement actif concurrent
// pour la (ecole, sirene). Une reactivation alors qu'un remplacant a ete
// active entre-temps doit etre refusee.
func TestVerifierActivation(t *testing.T) {
	tests := []struct {
		nom      string
		de       model.StatutAbonnement
		nbAutres int64
		refuse   bool
	}{
		{"en_attente sans concurrent", model.StatutEnAttente, 0, false},
		{"suspendu sans concurrent", model.StatutSuspendu, 0, false},
		{"en_attente avec concurrent actif", model.StatutEnAttente, 1, true},
		{"suspendu avec concurrent actif", model.StatutSuspendu, 1, true},
		{"suspendu avec plusieurs concurrents", model.StatutSuspendu, 2, true},
		{"deja actif", model.StatutActif, 0, true},
		{"depuis expire", model.StatutExpire, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			err := verifierActivation(tt.de, tt.nbAutres)
			if tt.refuse {
				assert.ErrorIs(t, err, ErrTransitionInterdite)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
