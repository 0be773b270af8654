package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vigil/pkg/domain-errors"
)

func TestServiceIssueValidate(t *testing.T) {
	svc, err := NewService("test-signing-key", time.Hour)
	require.NoError(t, err)

	t.Run("round-trips claims", func(t *testing.T) {
		raw, err := svc.Issue("op_1", []string{RoleAdmin})
		require.NoError(t, err)

		claims, err := svc.Validate(raw)
		require.NoError(t, err)
		assert.Equal(t, "op_1", claims.OperatorID)
		assert.True(t, claims.HasRole(RoleAdmin))
		assert.False(t, claims.HasRole(RoleReviewer))
	})

	t.Run("empty signing key is a config error", func(t *testing.T) {
		_, err := NewService("", time.Hour)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigMissing))
	})

	t.Run("empty operator id is rejected", func(t *testing.T) {
		_, err := svc.Issue("", nil)
		require.Error(t, err)
	})

	t.Run("wrong key fails validation", func(t *testing.T) {
		other, err := NewService("other-key", time.Hour)
		require.NoError(t, err)

		raw, err := other.Issue("op_1", nil)
		require.NoError(t, err)

		_, err = svc.Validate(raw)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		now := time.Now()
		clock := now
		svc, err := NewService("test-signing-key", time.Hour, WithClock(func() time.Time { return clock }))
		require.NoError(t, err)

		raw, err := svc.Issue("op_1", nil)
		require.NoError(t, err)

		clock = now.Add(time.Hour + time.Minute)
		_, err = svc.Validate(raw)
		require.Error(t, err)
		assert.Equal(t, "token expired", err.Error())
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		_, err := svc.Validate("")
		require.Error(t, err)
	})
}

func TestRequireOperator(t *testing.T) {
	svc, err := NewService("test-signing-key", time.Hour)
	require.NoError(t, err)

	handler := RequireOperator(svc, RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "op_1", claims.OperatorID)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid admin token passes", func(t *testing.T) {
		raw, err := svc.Issue("op_1", []string{RoleAdmin})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		raw, err := svc.Issue("op_2", []string{RoleReviewer})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
