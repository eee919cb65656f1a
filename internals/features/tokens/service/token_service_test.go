package service

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	abonnementModel "sirenecole_backend/internals/features/abonnements/model"
	registreModel "sirenecole_backend/internals/features/registre/model"
	tokenModel "sirenecole_backend/internals/features/tokens/model"
	crypto "sirenecole_backend/internals/helpers/crypto"
)

/* ===================== Depot memoire ===================== */

type depotMemoire struct {
	abonnements      map[uuid.UUID]*abonnementModel.AbonnementModel
	paiementsValides map[uuid.UUID]int64
	sirenes          map[string]*registreModel.SireneModel
	tokens           []*tokenModel.TokenSireneModel
}

func nouveauDepotMemoire() *depotMemoire {
	return &depotMemoire{
		abonnements:      map[uuid.UUID]*abonnementModel.AbonnementModel{},
		paiementsValides: map[uuid.UUID]int64{},
		sirenes:          map[string]*registreModel.SireneModel{},
	}
}

func (d *depotMemoire) AbonnementVerrouille(id uuid.UUID) (*abonnementModel.AbonnementModel, error) {
	return d.abonnements[id], nil
}

func (d *depotMemoire) NbPaiementsValides(abonnementID uuid.UUID) (int64, error) {
	return d.paiementsValides[abonnementID], nil
}

func (d *depotMemoire) SireneParNumeroSerie(numeroSerie string) (*registreModel.SireneModel, error) {
	return d.sirenes[numeroSerie], nil
}

func (d *depotMemoire) AbonnementActifCouvrant(sireneID uuid.UUID, now time.Time) (*abonnementModel.AbonnementModel, error) {
	for _, abo := range d.abonnements {
		if abo.AbonnementSireneID == sireneID && abo.AbonnementStatut == abonnementModel.StatutActif && abo.CouvreDate(now) {
			return abo, nil
		}
	}
	return nil, nil
}

func (d *depotMemoire) TokenActif(abonnementID uuid.UUID) (*tokenModel.TokenSireneModel, error) {
	for _, t := range d.tokens {
		if t.TokenAbonnementID == abonnementID && t.TokenActif {
			return t, nil
		}
	}
	return nil, nil
}

func (d *depotMemoire) DesactiverTokensActifs(abonnementID uuid.UUID) error {
	for _, t := range d.tokens {
		if t.TokenAbonnementID == abonnementID {
			t.TokenActif = false
		}
	}
	return nil
}

func (d *depotMemoire) InsererToken(row *tokenModel.TokenSireneModel) error {
	if row.TokenID == uuid.Nil {
		row.TokenID = uuid.New()
	}
	d.tokens = append(d.tokens, row)
	return nil
}

func (d *depotMemoire) DesactiverToken(tokenID uuid.UUID) (int64, error) {
	for _, t := range d.tokens {
		if t.TokenID == tokenID {
			t.TokenActif = false
			return 1, nil
		}
	}
	return 0, nil
}

func (d *depotMemoire) nbActifs(abonnementID uuid.UUID) int {
	n := 0
	for _, t := range d.tokens {
		if t.TokenAbonnementID == abonnementID && t.TokenActif {
			n++
		}
	}
	return n
}

/* ===================== Fixtures ===================== */

func nouveauService(t *testing.T) *TokenService {
	t.Helper()
	cle := make([]byte, 32)
	for i := range cle {
		cle[i] = byte(i + 1)
	}
	codec, err := crypto.NewCodec(cle)
	require.NoError(t, err)
	return NewTokenService(codec)
}

func abonnementActif(now time.Time) *abonnementModel.AbonnementModel {
	return &abonnementModel.AbonnementModel{
		AbonnementID:        uuid.New(),
		AbonnementEcoleID:   uuid.New(),
		AbonnementSiteID:    uuid.New(),
		AbonnementSireneID:  uuid.New(),
		AbonnementDateDebut: now.AddDate(0, -1, 0),
		AbonnementDateFin:   now.AddDate(1, 0, 0),
		AbonnementStatut:    abonnementModel.StatutActif,
	}
}

/* ===================== Emission ===================== */

func TestIssueRotationUnSeulActif(t *testing.T) {
	svc := nouveauService(t)
	depot := nouveauDepotMemoire()
	now := time.Now().UTC()

	abo := abonnementActif(now)
	depot.abonnements[abo.AbonnementID] = abo
	depot.paiementsValides[abo.AbonnementID] = 1

	var dernier *tokenModel.TokenSireneModel
	for i := 0; i < 3; i++ {
		row, err := svc.IssueDans(depot, abo.AbonnementID, nil)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, 1, depot.nbActifs(abo.AbonnementID), "apres emission %d", i+1)
		dernier = row
	}
	assert.Len(t, depot.tokens, 3)
	assert.True(t, dernier.TokenActif)

	// revocation puis re-emission: jamais deux actifs
	require.NoError(t, svc.RevokeDans(depot, dernier.TokenID))
	assert.Equal(t, 0, depot.nbActifs(abo.AbonnementID))

	_, err := svc.IssueDans(depot, abo.AbonnementID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, depot.nbActifs(abo.AbonnementID))
}

func TestIssueRefus(t *testing.T) {
	svc := nouveauService(t)
	now := time.Now().UTC()

	t.Run("abonnement inconnu", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		_, err := svc.IssueDans(depot, uuid.New(), nil)
		assert.ErrorIs(t, err, ErrAbonnementInactif)
	})

	t.Run("abonnement non actif", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		abo := abonnementActif(now)
		abo.AbonnementStatut = abonnementModel.StatutEnAttente
		depot.abonnements[abo.AbonnementID] = abo
		depot.paiementsValides[abo.AbonnementID] = 1
		_, err := svc.IssueDans(depot, abo.AbonnementID, nil)
		assert.ErrorIs(t, err, ErrAbonnementInactif)
	})

	t.Run("aucun paiement valide", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		abo := abonnementActif(now)
		depot.abonnements[abo.AbonnementID] = abo
		_, err := svc.IssueDans(depot, abo.AbonnementID, nil)
		assert.ErrorIs(t, err, ErrPaiementManquant)
	})
}

/* ===================== Validation ===================== */

func deployer(t *testing.T, svc *TokenService, depot *depotMemoire, now time.Time) (*abonnementModel.AbonnementModel, *tokenModel.TokenSireneModel, string) {
	t.Helper()
	abo := abonnementActif(now)
	depot.abonnements[abo.AbonnementID] = abo
	depot.paiementsValides[abo.AbonnementID] = 1
	depot.sirenes["SN-001"] = &registreModel.SireneModel{
		SireneID:          abo.AbonnementSireneID,
		SireneSiteID:      abo.AbonnementSiteID,
		SireneNumeroSerie: "SN-001",
	}
	row, err := svc.IssueDans(depot, abo.AbonnementID, nil)
	require.NoError(t, err)
	return abo, row, row.TokenChiffre
}

func TestValideDansOK(t *testing.T) {
	svc := nouveauService(t)
	depot := nouveauDepotMemoire()
	now := time.Now().UTC()

	_, emis, presente := deployer(t, svc, depot, now)

	token, err := svc.ValideDans(depot, presente, "SN-001", now)
	require.NoError(t, err)
	assert.Equal(t, emis.TokenID, token.TokenID)
}

func TestValideDansRefus(t *testing.T) {
	svc := nouveauService(t)
	now := time.Now().UTC()

	t.Run("numero de serie inconnu", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		_, _, presente := deployer(t, svc, depot, now)
		_, err := svc.ValideDans(depot, presente, "SN-999", now)
		assert.ErrorIs(t, err, ErrAbonnementInactif)
	})

	t.Run("abonnement plus actif", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		abo, _, presente := deployer(t, svc, depot, now)
		abo.AbonnementStatut = abonnementModel.StatutSuspendu
		_, err := svc.ValideDans(depot, presente, "SN-001", now)
		assert.ErrorIs(t, err, ErrAbonnementInactif)
	})

	t.Run("token desactive", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		abo, _, presente := deployer(t, svc, depot, now)
		require.NoError(t, depot.DesactiverTokensActifs(abo.AbonnementID))
		_, err := svc.ValideDans(depot, presente, "SN-001", now)
		assert.ErrorIs(t, err, ErrTokenAbsent)
	})

	t.Run("blob corrompu", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		deployer(t, svc, depot, now)
		garbage := base64.StdEncoding.EncodeToString([]byte("pas un token"))
		_, err := svc.ValideDans(depot, garbage, "SN-001", now)
		assert.ErrorIs(t, err, ErrTokenCorrompu)
	})

	t.Run("ancien token apres rotation", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		abo, _, ancien := deployer(t, svc, depot, now)
		_, err := svc.IssueDans(depot, abo.AbonnementID, nil)
		require.NoError(t, err)
		_, err = svc.ValideDans(depot, ancien, "SN-001", now)
		assert.ErrorIs(t, err, ErrTokenInvalide)
	})

	t.Run("token expire", func(t *testing.T) {
		depot := nouveauDepotMemoire()
		_, emis, presente := deployer(t, svc, depot, now)
		emis.TokenExpireLe = now.Add(-time.Hour)
		_, err := svc.ValideDans(depot, presente, "SN-001", now)
		assert.ErrorIs(t, err, ErrTokenExpire)
	})
}

/* ===================== Revocation ===================== */

func TestRevokeDansIntrouvable(t *testing.T) {
	svc := nouveauService(t)
	depot := nouveauDepotMemoire()
	err := svc.RevokeDans(depot, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// Une annulation ou une expiration coupe le token actif: la sirene ne doit
// plus passer la validation, meme avec le bon blob.
func TestTokenCoupeApresSortieDuStatutActif(t *testing.T) {
	svc := nouveauService(t)
	depot := nouveauDepotMemoire()
	now := time.Now().UTC()

	abo, _, presente := deployer(t, svc, depot, now)

	require.NoError(t, depot.DesactiverTokensActifs(abo.AbonnementID))
	abo.AbonnementStatut = abonnementModel.StatutExpire

	assert.Equal(t, 0, depot.nbActifs(abo.AbonnementID))
	_, err := svc.ValideDans(depot, presente, "SN-001", now)
	assert.ErrorIs(t, err, ErrAbonnementInactif)
}
