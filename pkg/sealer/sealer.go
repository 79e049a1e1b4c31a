package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const feedPurpose = "feed"

var ErrInvalidToken = errors.New("invalid token")

// Sealer issues opaque AES-GCM tokens. A token binds a purpose to a
// resource id so a feed token cannot be replayed elsewhere.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64 encoded 16, 24 or 32 byte key.
func New(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Sealer{aead: aesgcm}, nil
}

func (s *Sealer) CreateFeedToken(propertyID string) (string, error) {
	return s.seal(feedPurpose, propertyID)
}

func (s *Sealer) ParseFeedToken(token string) (string, error) {
	return s.open(feedPurpose, token)
}

func (s *Sealer) seal(purpose, id string) (string, error) {
	plaintext := []byte(purpose + ":" + id)

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func (s *Sealer) open(purpose, token string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	nonceSize := s.aead.NonceSize()
	if len(data) <= nonceSize {
		return "", ErrInvalidToken
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	pt, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	gotPurpose, id, ok := strings.Cut(string(pt), ":")
	if !ok || gotPurpose != purpose || id == "" {
		return "", ErrInvalidToken
	}

	return id, nil
}
