package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: These are core error primitives used at every trust boundary.
// Unit tests ensure invariants like "wrapped domain errors preserve original code"
// and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "verification not found"}
		s.Equal("verification not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeProviderError}
		s.Equal("provider_error", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("connection refused")
		err := &Error{Code: CodeProviderError, Message: "verification failed", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeProviderUnauthorized, Message: "credentials not activated"}
		err2 := &Error{Code: CodeProviderUnauthorized, Message: "api key rejected"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeProviderError}
		err2 := &Error{Code: CodeProviderUnauthorized}
		s.False(err1.Is(err2))
	})

	s.Run("does not match non-domain errors", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := errors.New("not found")
		s.False(err1.Is(err2))
	})

	s.Run("works with errors.Is through chain", func() {
		inner := &Error{Code: CodeProviderUnauthorized, Message: "original"}
		wrapped := &Error{Code: CodeInternal, Message: "wrapped", Err: inner}
		target := &Error{Code: CodeProviderUnauthorized}

		s.True(errors.Is(wrapped, target))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original domain code", func() {
		inner := New(CodeMalformedCredential, "bad payload")
		wrapped := Wrap(inner, CodeInternal, "credential check failed")

		var e *Error
		s.Require().True(errors.As(wrapped, &e))
		s.Equal(CodeMalformedCredential, e.Code)
		s.Equal("credential check failed", e.Message)
	})

	s.Run("applies new code to plain errors", func() {
		inner := errors.New("dial tcp: timeout")
		wrapped := Wrap(inner, CodeProviderError, "verification failed")
		s.True(HasCode(wrapped, CodeProviderError))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("finds code in chain", func() {
		err := Wrap(New(CodeConfigMissing, "secret absent"), CodeInternal, "boot failed")
		s.True(HasCode(err, CodeConfigMissing))
		s.False(HasCode(err, CodeNotFound))
	})

	s.Run("false for nil and plain errors", func() {
		s.False(HasCode(nil, CodeInternal))
		s.False(HasCode(errors.New("plain"), CodeInternal))
	})
}
