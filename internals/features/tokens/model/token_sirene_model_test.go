package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstExpireBornes(t *testing.T) {
	expire := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	token := TokenSireneModel{TokenExpireLe: expire}

	// valide jusqu'a la date d'expiration incluse
	assert.False(t, token.EstExpire(expire.Add(-time.Second)))
	assert.False(t, token.EstExpire(expire))
	assert.True(t, token.EstExpire(expire.Add(time.Second)))
}
