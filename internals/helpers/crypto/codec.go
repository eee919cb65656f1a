package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Codec chiffre les tokens sirene et les programmations avant envoi au
// firmware. Cle unique par processus, injectee au demarrage.

var ErrDechiffrement = errors.New("dechiffrement impossible: blob corrompu ou cle invalide")

type Codec struct {
	aead cipher.AEAD
}

func NewCodec(key []byte) (*Codec, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("cle de %d octets, %d attendus", len(key), chacha20poly1305.KeySize)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// Encrypt produit un blob autoporteur: nonce aleatoire + ciphertext,
// encode base64. Deux appels sur le meme clair donnent deux blobs
// distincts (nonce unique).
func (c *Codec) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt refuse tout blob tronque, malforme ou dont le tag
// d'authentification ne passe pas.
func (c *Codec) Decrypt(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, ErrDechiffrement
	}
	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return nil, ErrDechiffrement
	}
	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDechiffrement
	}
	return plaintext, nil
}

// Hash est le digest sens unique stocke en base pour comparer un token
// presente sans jamais persister le clair.
func Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
