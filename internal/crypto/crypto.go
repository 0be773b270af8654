// Package crypto is the only place in the codebase that touches cryptographic
// operations: symmetric encryption, keyed hashing, password hashing, and
// secure random token generation.
//
// Key material is injected at construction so multiple keys/environments can
// coexist and be tested independently.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"

	dErrors "vigil/pkg/domain-errors"
)

const (
	// signatureHexLen is the truncated length of keyed-hash signatures.
	// Truncation trades collision resistance for QR payload size; acceptable
	// only because credentials are also time-boxed and scoped.
	signatureHexLen = 16

	// pbkdf2Iterations is deliberately high; changing it invalidates every
	// stored password hash, so treat it as part of the wire format.
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 64
	saltLen          = 16
)

// Service performs symmetric encryption with a process-wide key.
type Service struct {
	key []byte
}

// NewService derives a 256-bit AES key from the configured secret.
func NewService(encryptionKey string) (*Service, error) {
	if encryptionKey == "" {
		return nil, dErrors.New(dErrors.CodeConfigMissing, "encryption key is required")
	}
	sum := sha256.Sum256([]byte(encryptionKey))
	return &Service{key: sum[:]}, nil
}

// Encrypt seals plaintext with AES-256-GCM and returns base64(nonce || ciphertext).
//
// On any internal failure it returns an empty string rather than an error.
// Callers must treat an empty result as "could not process" and must not
// conflate it with a legitimately empty plaintext. The contract is kept for
// compatibility with previously encrypted data and existing consumers.
func (s *Service) Encrypt(plaintext string) string {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return ""
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return ""
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return ""
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed)
}

// Decrypt reverses Encrypt. Returns an empty string on any failure
// (malformed input, wrong key, tampered ciphertext).
func (s *Service) Decrypt(ciphertext string) string {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return ""
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return ""
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return ""
	}
	if len(raw) < gcm.NonceSize() {
		return ""
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return ""
	}
	return string(plain)
}

// HashKeyed computes a deterministic HMAC-SHA256 signature over data,
// truncated to 16 hex characters for compactness in QR payloads.
func HashKeyed(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))[:signatureHexLen]
}

// HashPassword derives a PBKDF2-SHA512 hash with a fresh random salt and
// returns "salt:hash" (both hex). Two calls with the same password produce
// different stored strings; both verify.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate salt")
	}
	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(derived), nil
}

// VerifyPassword re-derives the hash with the stored salt and compares in
// constant time. Any structural problem with the stored value yields false.
func VerifyPassword(password, stored string) bool {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// GenerateToken returns a cryptographically random hex string of 2*n characters.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "token length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate token")
	}
	return hex.EncodeToString(buf), nil
}

// GenerateAuditHash returns a non-reversible hash of the data salted with the
// current time. Two calls over the same data produce different hashes; the
// result is an opaque audit marker, never a lookup key.
func GenerateAuditHash(data string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", data, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])
}
