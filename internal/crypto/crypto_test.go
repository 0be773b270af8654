package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "vigil/pkg/domain-errors"
)

type CryptoSuite struct {
	suite.Suite
	svc *Service
}

func (s *CryptoSuite) SetupTest() {
	svc, err := NewService("test-encryption-key")
	s.Require().NoError(err)
	s.svc = svc
}

func TestCryptoSuite(t *testing.T) {
	suite.Run(t, new(CryptoSuite))
}

func (s *CryptoSuite) TestNewService() {
	s.Run("rejects empty key", func() {
		_, err := NewService("")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfigMissing))
	})
}

func (s *CryptoSuite) TestEncryptDecrypt() {
	s.Run("round-trips plaintext", func() {
		ct := s.svc.Encrypt("observer-42 station-17")
		s.Require().NotEmpty(ct)
		s.Equal("observer-42 station-17", s.svc.Decrypt(ct))
	})

	s.Run("different nonce per call", func() {
		a := s.svc.Encrypt("same input")
		b := s.svc.Encrypt("same input")
		s.NotEqual(a, b)
		s.Equal(s.svc.Decrypt(a), s.svc.Decrypt(b))
	})

	s.Run("decrypt with wrong key returns empty", func() {
		other, err := NewService("another-key")
		s.Require().NoError(err)
		ct := s.svc.Encrypt("secret")
		s.Empty(other.Decrypt(ct))
	})

	s.Run("decrypt of garbage returns empty", func() {
		s.Empty(s.svc.Decrypt("not-base64!!"))
		s.Empty(s.svc.Decrypt("aGVsbG8="))
	})

	s.Run("tampered ciphertext returns empty", func() {
		ct := s.svc.Encrypt("secret")
		tampered := ct[:len(ct)-4] + "AAAA"
		s.Empty(s.svc.Decrypt(tampered))
	})
}

func (s *CryptoSuite) TestHashKeyed() {
	s.Run("deterministic and truncated", func() {
		a := HashKeyed("secret", "payload")
		b := HashKeyed("secret", "payload")
		s.Equal(a, b)
		s.Len(a, 16)
	})

	s.Run("sensitive to secret and data", func() {
		base := HashKeyed("secret", "payload")
		s.NotEqual(base, HashKeyed("secret2", "payload"))
		s.NotEqual(base, HashKeyed("secret", "payload2"))
	})
}

func (s *CryptoSuite) TestPasswordHashing() {
	s.Run("round-trips and rejects wrong password", func() {
		stored, err := HashPassword("correct horse")
		s.Require().NoError(err)
		s.True(VerifyPassword("correct horse", stored))
		s.False(VerifyPassword("wrong horse", stored))
	})

	s.Run("same password yields different stored strings", func() {
		a, err := HashPassword("pw")
		s.Require().NoError(err)
		b, err := HashPassword("pw")
		s.Require().NoError(err)
		s.NotEqual(a, b)
		s.True(VerifyPassword("pw", a))
		s.True(VerifyPassword("pw", b))
	})

	s.Run("stored format is salt:hash", func() {
		stored, err := HashPassword("pw")
		s.Require().NoError(err)
		parts := strings.Split(stored, ":")
		s.Require().Len(parts, 2)
		s.Len(parts[0], saltLen*2)
		s.Len(parts[1], pbkdf2KeyLen*2)
	})

	s.Run("malformed stored value fails closed", func() {
		s.False(VerifyPassword("pw", "no-separator"))
		s.False(VerifyPassword("pw", "nothex:deadbeef"))
		s.False(VerifyPassword("pw", "deadbeef:nothex"))
	})
}

func (s *CryptoSuite) TestGenerateToken() {
	s.Run("hex of requested byte length", func() {
		tok, err := GenerateToken(16)
		s.Require().NoError(err)
		s.Len(tok, 32)
	})

	s.Run("unique per call", func() {
		a, err := GenerateToken(16)
		s.Require().NoError(err)
		b, err := GenerateToken(16)
		s.Require().NoError(err)
		s.NotEqual(a, b)
	})

	s.Run("rejects non-positive length", func() {
		_, err := GenerateToken(0)
		s.Error(err)
	})
}

func (s *CryptoSuite) TestGenerateAuditHash() {
	a := GenerateAuditHash("override subject-1")
	b := GenerateAuditHash("override subject-1")
	s.Len(a, 64)
	s.NotEqual(a, b)
}
