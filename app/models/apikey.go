package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// APIKeyPrefix marks live product keys, kept stable for client integrations.
const APIKeyPrefix = "sd_live_"

// ApiKey is an opaque bearer token bound to one (user, product) pair.
// Revocation flips IsActive; the record itself is never deleted so
// revocation checks remain possible.
type ApiKey struct {
	Key       string    `json:"key"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Kind      string    `json:"kind"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateAPIKey creates a new random key in the sd_live_ format.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return APIKeyPrefix + hex.EncodeToString(b), nil
}

func NewApiKey(userID, productID, kind string) (*ApiKey, error) {
	key, err := GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	return &ApiKey{
		Key:       key,
		UserID:    userID,
		ProductID: productID,
		Kind:      kind,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Masked returns the key with the random part shortened for listings.
func (k *ApiKey) Masked() string {
	if len(k.Key) <= len(APIKeyPrefix)+8 {
		return k.Key
	}
	return k.Key[:len(APIKeyPrefix)+8] + strings.Repeat("*", 8)
}
