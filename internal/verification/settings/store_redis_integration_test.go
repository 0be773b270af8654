//go:build integration

package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"vigil/internal/verification/settings"
	"vigil/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *settings.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = settings.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), settings.KeyLivenessMode)
	s.ErrorIs(err, settings.ErrNotFound)
}

func (s *RedisStoreSuite) TestSetGetDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, settings.KeyLivenessMode, settings.LivenessModeActive))

	val, err := s.store.Get(ctx, settings.KeyLivenessMode)
	s.Require().NoError(err)
	s.Equal(settings.LivenessModeActive, val)

	s.Require().NoError(s.store.Delete(ctx, settings.KeyLivenessMode))

	_, err = s.store.Get(ctx, settings.KeyLivenessMode)
	s.ErrorIs(err, settings.ErrNotFound)
}

func (s *RedisStoreSuite) TestResolverReadsLiveSettings() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, settings.KeyAMLCheckEnabled, "true"))
	s.Require().NoError(s.store.Set(ctx, settings.KeyAMLSensitivity, settings.AMLSensitivityHigh))

	resolver := settings.NewResolver(s.store, settings.Overrides{
		CredentialSecret: "secret",
		APIKey:           "key",
	}, nil)

	cfg, err := resolver.Resolve(ctx)
	s.Require().NoError(err)
	s.True(cfg.AMLCheckEnabled)
	s.Equal(settings.AMLSensitivityHigh, cfg.AMLSensitivity)
	s.Equal(settings.LivenessModeDefault, cfg.LivenessMode, "unset keys fall back to defaults")
}
