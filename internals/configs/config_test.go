package configs

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeyBrute(t *testing.T) {
	brute := strings.Repeat("k", 32)
	key, err := DecodeKey(brute)
	require.NoError(t, err)
	assert.Equal(t, []byte(brute), key)
}

func TestDecodeKeyBase64(t *testing.T) {
	raw := []byte(strings.Repeat("x", 32))

	key, err := DecodeKey(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, key)

	key, err = DecodeKey(base64.RawStdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

func TestDecodeKeyInvalide(t *testing.T) {
	_, err := DecodeKey("trop-courte")
	assert.ErrorIs(t, err, ErrCleInvalide)

	_, err = DecodeKey("")
	assert.ErrorIs(t, err, ErrCleInvalide)

	// base64 valide mais pas 32 octets decodes
	_, err = DecodeKey(base64.StdEncoding.EncodeToString([]byte("court")))
	assert.ErrorIs(t, err, ErrCleInvalide)
}
