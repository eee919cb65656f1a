package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestNewCodecRejectsBadKey(t *testing.T) {
	_, err := NewCodec([]byte("trop-courte"))
	require.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("programmation sirene 08:00 lundi-vendredi"),
		bytes.Repeat([]byte{0x00, 0xff}, 512),
	}
	for _, plaintext := range cases {
		blob, err := codec.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := codec.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptNonceUniqueness(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		blob, err := codec.Encrypt([]byte("meme clair"))
		require.NoError(t, err)
		_, dup := seen[blob]
		require.False(t, dup, "deux blobs identiques pour le meme clair")
		seen[blob] = struct{}{}
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	for _, blob := range []string{
		"",
		"pas du base64 !!!",
		"AAAA",           // base64 valide mais trop court
		"AAAAAAAAAAAAAA", // toujours trop court pour nonce+tag
	} {
		_, err := codec.Decrypt(blob)
		assert.ErrorIs(t, err, ErrDechiffrement, "blob %q", blob)
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	blob, err := codec.Encrypt([]byte("contenu authentique"))
	require.NoError(t, err)

	// flip d'un caractere au milieu du blob
	corrupted := []byte(blob)
	mid := len(corrupted) / 2
	if corrupted[mid] == 'A' {
		corrupted[mid] = 'B'
	} else {
		corrupted[mid] = 'A'
	}
	_, err = codec.Decrypt(string(corrupted))
	assert.ErrorIs(t, err, ErrDechiffrement)
}

func TestDecryptWrongKey(t *testing.T) {
	codec1, err := NewCodec(testKey())
	require.NoError(t, err)
	codec2, err := NewCodec(bytes.Repeat([]byte{0x24}, 32))
	require.NoError(t, err)

	blob, err := codec1.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = codec2.Decrypt(blob)
	assert.ErrorIs(t, err, ErrDechiffrement)
}

func TestHashDeterministic(t *testing.T) {
	assert.Equal(t, Hash("token"), Hash("token"))
	assert.NotEqual(t, Hash("token"), Hash("token2"))
	assert.NotEmpty(t, Hash(""))
}
