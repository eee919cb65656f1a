package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExpiry(t *testing.T) {
	futur := jwt.MapClaims{"exp": float64(time.Now().Add(time.Hour).Unix())}
	assert.NoError(t, validateExpiry(futur, 0))

	passe := jwt.MapClaims{"exp": float64(time.Now().Add(-time.Hour).Unix())}
	assert.Error(t, validateExpiry(passe, 0))

	// la tolerance couvre une horloge legerement en retard
	recent := jwt.MapClaims{"exp": float64(time.Now().Add(-10 * time.Second).Unix())}
	assert.NoError(t, validateExpiry(recent, 30*time.Second))

	assert.Error(t, validateExpiry(jwt.MapClaims{}, 0))
	assert.Error(t, validateExpiry(jwt.MapClaims{"exp": "demain"}, 0))
}

func TestExtractOperateurID(t *testing.T) {
	id := uuid.New().String()

	got, err := extractOperateurID(jwt.MapClaims{"operateur_id": id})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// fallback sur sub
	got, err = extractOperateurID(jwt.MapClaims{"sub": id})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// operateur_id prioritaire sur sub
	autre := uuid.New().String()
	got, err = extractOperateurID(jwt.MapClaims{"operateur_id": id, "sub": autre})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = extractOperateurID(jwt.MapClaims{"operateur_id": "pas-un-uuid"})
	assert.Error(t, err)

	_, err = extractOperateurID(jwt.MapClaims{})
	assert.Error(t, err)
}
