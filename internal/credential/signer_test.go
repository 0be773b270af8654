package credential

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SignerSuite struct {
	suite.Suite
	signer *Signer
}

func (s *SignerSuite) SetupTest() {
	signer, err := New("test-signing-secret")
	s.Require().NoError(err)
	s.signer = signer
}

func TestSignerSuite(t *testing.T) {
	suite.Run(t, new(SignerSuite))
}

func observerData() map[string]any {
	return map[string]any{
		"observerId":   "obs-1042",
		"name":         "Jane Doe",
		"organization": "Citizens for Fair Elections",
	}
}

func (s *SignerSuite) TestNew() {
	_, err := New("")
	s.Error(err, "empty secret must be rejected")
}

func (s *SignerSuite) TestMintThenVerify() {
	s.Run("fresh credential verifies", func() {
		p, err := s.signer.Mint(TypeObserverID, observerData())
		s.Require().NoError(err)
		s.True(s.signer.Verify(p))
		s.Equal(StateValid, s.signer.Inspect(p))
	})

	s.Run("holds for station and assignment types", func() {
		for _, typ := range []string{TypeStationInfo, TypeAssignment, "anything_else"} {
			p, err := s.signer.Mint(typ, map[string]any{"k": "v"})
			s.Require().NoError(err)
			s.True(s.signer.Verify(p), typ)
		}
	})

	s.Run("signature is 16 hex characters", func() {
		p, err := s.signer.Mint(TypeObserverID, observerData())
		s.Require().NoError(err)
		s.Len(p.Signature, 16)
	})

	s.Run("struct data survives wire round-trip", func() {
		type station struct {
			StationCode string `json:"stationCode"`
			Capacity    int    `json:"capacity"`
		}
		p, err := s.signer.Mint(TypeStationInfo, station{StationCode: "KGN-014", Capacity: 900})
		s.Require().NoError(err)

		raw, err := json.Marshal(p)
		s.Require().NoError(err)
		parsed := Parse(string(raw))
		s.Require().NotNil(parsed)
		s.True(s.signer.Verify(parsed))
	})
}

func (s *SignerSuite) TestTamperDetection() {
	mint := func() *Payload {
		p, err := s.signer.Mint(TypeObserverID, observerData())
		s.Require().NoError(err)
		return p
	}

	s.Run("altered data fails", func() {
		p := mint()
		p.Data.(map[string]any)["observerId"] = "obs-9999"
		s.False(s.signer.Verify(p))
		s.Equal(StateTampered, s.signer.Inspect(p))
	})

	s.Run("altered type fails", func() {
		p := mint()
		p.Type = TypeStationInfo
		s.Equal(StateTampered, s.signer.Inspect(p))
	})

	s.Run("altered timestamp fails", func() {
		p := mint()
		p.Timestamp = time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
		s.Equal(StateTampered, s.signer.Inspect(p))
	})

	s.Run("altered signature fails", func() {
		p := mint()
		p.Signature = "0000000000000000"
		s.Equal(StateTampered, s.signer.Inspect(p))
	})

	s.Run("signature from a different secret fails", func() {
		other, err := New("another-secret")
		s.Require().NoError(err)
		p := mint()
		s.False(other.Verify(p))
	})
}

func (s *SignerSuite) TestValidityWindow() {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	signer, err := New("test-signing-secret", WithClock(clock))
	s.Require().NoError(err)

	p, err := signer.Mint(TypeObserverID, observerData())
	s.Require().NoError(err)

	s.Run("valid just inside the window", func() {
		now = now.Add(ValidityWindow - time.Second)
		s.True(signer.Verify(p))
	})

	s.Run("expired just past the window", func() {
		now = now.Add(2 * time.Second)
		s.False(signer.Verify(p))
		s.Equal(StateExpired, signer.Inspect(p))
	})
}

func (s *SignerSuite) TestParse() {
	s.Run("accepts the wire format", func() {
		p := Parse(`{"type":"observer_id","data":{"observerId":"obs-1","name":"A"},"timestamp":"2026-03-14T12:00:00Z","signature":"abcd"}`)
		s.Require().NotNil(p)
		s.Equal("observer_id", p.Type)
		s.Equal("2026-03-14T12:00:00Z", p.Timestamp)
	})

	s.Run("nil on malformed input", func() {
		for _, raw := range []string{
			"",
			"not json",
			`{"type":"observer_id"}`,
			`{"data":{},"timestamp":"2026-03-14T12:00:00Z"}`,
			`{"type":"","data":{},"timestamp":"2026-03-14T12:00:00Z"}`,
			`{"type":"observer_id","data":{},"timestamp":""}`,
		} {
			s.Nil(Parse(raw), raw)
		}
	})
}

func (s *SignerSuite) TestValidateObserverCredential() {
	s.Run("valid observer credential", func() {
		p, err := s.signer.Mint(TypeObserverID, observerData())
		s.Require().NoError(err)

		v := s.signer.ValidateObserverCredential(p)
		s.True(v.IsValid)
		s.Equal("obs-1042", v.ObserverID)
		s.Equal("Jane Doe", v.Name)
		s.Empty(v.Errors)
	})

	s.Run("accumulates all violations", func() {
		p, err := s.signer.Mint(TypeStationInfo, map[string]any{"stationCode": "KGN-014"})
		s.Require().NoError(err)
		p.Signature = "0000000000000000"

		v := s.signer.ValidateObserverCredential(p)
		s.False(v.IsValid)
		s.Len(v.Errors, 4, "signature, type, observer id, and name violations must all be reported")
	})

	s.Run("nil payload", func() {
		v := s.signer.ValidateObserverCredential(nil)
		s.False(v.IsValid)
		s.NotEmpty(v.Errors)
	})
}

func (s *SignerSuite) TestSummary() {
	s.Run("known types render labeled fields", func() {
		p, err := s.signer.Mint(TypeObserverID, observerData())
		s.Require().NoError(err)
		out := Summary(p)
		s.Contains(out, "Observer Credential")
		s.Contains(out, "Jane Doe")
		s.Contains(out, "obs-1042")
	})

	s.Run("unknown type falls back to JSON", func() {
		p, err := s.signer.Mint("ballot_box_seal", map[string]any{"sealNo": "S-77"})
		s.Require().NoError(err)
		out := Summary(p)
		s.Contains(out, "ballot_box_seal")
		s.Contains(out, "S-77")
	})
}
