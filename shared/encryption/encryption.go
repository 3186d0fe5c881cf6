package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"innkeeper/config"

	"github.com/rs/zerolog/log"
)

const keySize = 32

var (
	ErrInvalidKey        = errors.New("encryption key must be 32 hex-encoded bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// Encryptor encrypts short sensitive values (phone numbers) before they are
// written to the database.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type aesGCM struct {
	aead cipher.AEAD
}

// New builds the Encryptor from the configured key, failing fast on an
// unusable key the same way the other infrastructure constructors do.
func New(cfg *config.Config) Encryptor {
	enc, err := NewWithKey(cfg.Crypto.PhoneKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption")
	}

	return enc
}

// NewWithKey builds the Encryptor from a 32-byte hex-encoded key.
func NewWithKey(hexKey string) (Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != keySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build AEAD: %w", err)
	}

	return &aesGCM{aead: aead}, nil
}

// Encrypt seals the plaintext with a random nonce and returns the
// base64-encoded nonce||ciphertext. Empty input stays empty so optional
// columns remain NULL-friendly.
func (e *aesGCM) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (e *aesGCM) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}

	nonceSize := e.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	plain, err := e.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}

	return string(plain), nil
}
