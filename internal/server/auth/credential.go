package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HashCredential derives the stored form of a secret: HMAC-SHA256 keyed with
// key, base64 encoded. The same secret and key always give the same value, so
// login compares hashes for equality.
func HashCredential(secret string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(secret))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// CredentialHasher binds the hashing key so callers only pass the secret.
type CredentialHasher struct {
	key []byte
}

func NewCredentialHasher(key []byte) *CredentialHasher {
	return &CredentialHasher{key: key}
}

func (h *CredentialHasher) Hash(secret string) string {
	return HashCredential(secret, h.key)
}
