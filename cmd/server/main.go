package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vigil/internal/audit"
	"vigil/internal/credential"
	"vigil/internal/crypto"
	credentialhandler "vigil/internal/credential/handler"
	"vigil/internal/platform/config"
	"vigil/internal/platform/database"
	"vigil/internal/platform/health"
	"vigil/internal/platform/httpserver"
	"vigil/internal/platform/kafka/producer"
	"vigil/internal/platform/logger"
	"vigil/internal/platform/redis"
	"vigil/internal/token"
	httptransport "vigil/internal/transport/http"
	"vigil/internal/verification"
	verificationhandler "vigil/internal/verification/handler"
	"vigil/internal/verification/metrics"
	"vigil/internal/verification/provider"
	"vigil/internal/verification/settings"
	"vigil/internal/verification/store"
	"vigil/internal/verification/tracer"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing vigil", "addr", cfg.Addr)

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.New(cfg.Database)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var resultStore store.Store
	if dbPool != nil {
		var storeOpts []store.PostgresOption
		if cfg.EncryptionKey != "" {
			cryptoSvc, err := crypto.NewService(cfg.EncryptionKey)
			if err != nil {
				log.Error("crypto init failed", "error", err)
				os.Exit(1)
			}
			storeOpts = append(storeOpts, store.WithEncryption(cryptoSvc))
		} else {
			log.Warn("encryption key not configured, verification details stored in plaintext")
		}
		resultStore = store.NewPostgres(dbPool.DB(), storeOpts...)
	} else {
		log.Warn("database not configured, verification results held in memory")
		resultStore = store.NewMemory()
	}

	var auditStore audit.Store
	if dbPool != nil {
		auditStore = audit.NewPostgresStore(dbPool.DB())
	} else {
		auditStore = audit.NewMemoryStore()
	}

	auditOpts := []audit.PublisherOption{
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	}
	var kafkaProducer *producer.Producer
	if cfg.Kafka.Brokers != "" {
		kafkaProducer, err = producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		auditOpts = append(auditOpts, audit.WithSink(audit.NewKafkaSink(kafkaProducer, cfg.Kafka.AuditTopic)))
	}
	auditor := audit.NewPublisher(auditStore, auditOpts...)

	var settingsStore settings.Store
	if redisClient != nil {
		settingsStore = settings.NewRedisStore(redisClient.Client)
	}
	resolver := settings.NewResolver(settingsStore, settings.Overrides{
		APIEndpoint:      cfg.ProviderEndpoint,
		CredentialID:     cfg.ProviderCredentialID,
		CredentialSecret: cfg.ProviderSecret,
		APIKey:           cfg.ProviderAPIKey,
	}, log)

	signer, err := credential.New(cfg.CredentialSecret)
	if err != nil {
		log.Error("credential signer init failed", "error", err)
		os.Exit(1)
	}

	tokens, err := token.NewService(cfg.JWTSigningKey, 12*time.Hour)
	if err != nil {
		log.Error("token service init failed", "error", err)
		os.Exit(1)
	}

	verificationMetrics := metrics.New()
	verificationService := verification.NewService(
		provider.NewClient(log),
		resolver,
		resultStore,
		auditor,
		cfg.WebhookBaseURL+"/webhooks/verification",
		log,
		verification.WithMetrics(verificationMetrics),
		verification.WithTracer(tracer.NewOTel()),
	)

	healthHandler := health.New()
	if dbPool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return dbPool.Health(ctx)
		})
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Verification: verificationhandler.New(verificationService, log),
		Credentials:  credentialhandler.New(signer, auditor, log, credentialhandler.WithMetrics(verificationMetrics)),
		Health:       healthHandler,
		Tokens:       tokens,
	}, log)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	auditor.Close()
	if kafkaProducer != nil {
		kafkaProducer.Close()
	}
	if dbPool != nil {
		_ = dbPool.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("server stopped")
}
