package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"vigil/internal/audit"
	"vigil/internal/credential"
	"vigil/internal/credential/handler"
)

type HandlerSuite struct {
	suite.Suite
	signer     *credential.Signer
	auditStore *audit.MemoryStore
	router     chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	signer, err := credential.New("test-credential-secret")
	s.Require().NoError(err)
	s.signer = signer
	s.auditStore = audit.NewMemoryStore()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := handler.New(signer, audit.NewPublisher(s.auditStore), logger)

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) doJSON(path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) mintObserver() string {
	rec := s.doJSON("/credentials", map[string]any{
		"type": credential.TypeObserverID,
		"data": map[string]any{"observerId": "obs_1", "name": "Jane Doe"},
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	return rec.Body.String()
}

func (s *HandlerSuite) TestMint() {
	s.Run("mints a signed payload", func() {
		raw := s.mintObserver()

		var payload credential.Payload
		s.Require().NoError(json.Unmarshal([]byte(raw), &payload))
		s.Equal(credential.TypeObserverID, payload.Type)
		s.Len(payload.Signature, 16)
		s.True(s.signer.Verify(&payload))

		events, err := s.auditStore.ListBySubject(context.Background(), "obs_1")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionCredentialMinted, events[0].Action)
	})

	s.Run("unknown type fails validation", func() {
		rec := s.doJSON("/credentials", map[string]any{
			"type": "vip_pass",
			"data": map[string]any{},
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestVerify() {
	s.Run("freshly minted payload verifies", func() {
		raw := s.mintObserver()

		rec := s.doJSON("/credentials/verify", map[string]any{"payload": raw})
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.VerifyResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.True(resp.Valid)
		s.Equal(credential.StateValid, resp.State)
		s.Contains(resp.Summary, "Jane Doe")
	})

	s.Run("tampered payload is rejected", func() {
		raw := s.mintObserver()
		tampered := bytes.Replace([]byte(raw), []byte("Jane"), []byte("Mary"), 1)

		rec := s.doJSON("/credentials/verify", map[string]any{"payload": string(tampered)})
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.VerifyResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.False(resp.Valid)
		s.Equal(credential.StateTampered, resp.State)
	})

	s.Run("garbage payload is malformed", func() {
		rec := s.doJSON("/credentials/verify", map[string]any{"payload": "not a credential"})
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.VerifyResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.False(resp.Valid)
		s.Equal(credential.StateMalformed, resp.State)
	})
}

func (s *HandlerSuite) TestVerifyObserver() {
	s.Run("valid observer credential returns identity", func() {
		raw := s.mintObserver()

		rec := s.doJSON("/credentials/verify-observer", map[string]any{"payload": raw})
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.ObserverVerifyResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.True(resp.Valid)
		s.Equal("obs_1", resp.ObserverID)
		s.Equal("Jane Doe", resp.Name)
		s.Empty(resp.Errors)
	})

	s.Run("wrong type accumulates errors", func() {
		payload, err := s.signer.Mint(credential.TypeStationInfo, map[string]any{"stationId": "st_9"})
		s.Require().NoError(err)
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)

		rec := s.doJSON("/credentials/verify-observer", map[string]any{"payload": string(raw)})
		s.Equal(http.StatusOK, rec.Code)

		var resp handler.ObserverVerifyResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.False(resp.Valid)
		s.Len(resp.Errors, 3, "type, observer id, and name errors accumulate")
	})

	s.Run("expired credential reports expiry", func() {
		past := time.Now().Add(-25 * time.Hour)
		expiredSigner, err := credential.New("test-credential-secret",
			credential.WithClock(func() time.Time { return past }))
		s.Require().NoError(err)
		payload, err := expiredSigner.Mint(credential.TypeObserverID, map[string]any{"observerId": "obs_1", "name": "Jane Doe"})
		s.Require().NoError(err)
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)

		rec := s.doJSON("/credentials/verify-observer", map[string]any{"payload": string(raw)})

		var resp handler.ObserverVerifyResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.False(resp.Valid)
		s.Contains(resp.Errors, "credential has expired")
	})
}
