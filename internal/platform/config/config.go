package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the vigil core.
// Provider connection values read here are the "runtime override" layer of the
// verification settings resolution order and always win over persisted settings.
type Server struct {
	Addr string

	// Secrets for the crypto primitives. Injected, never module-level constants,
	// so multiple keys/environments can coexist and be tested independently.
	EncryptionKey    string
	CredentialSecret string
	JWTSigningKey    string

	// External verification provider connection (core four fields).
	ProviderEndpoint     string
	ProviderCredentialID string
	ProviderSecret       string
	ProviderAPIKey       string

	// Webhook callback base the provider posts asynchronous updates to.
	WebhookBaseURL string

	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
}

// RedisConfig holds settings-store Redis connection options.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds verification result store connection options.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig holds audit sink connection options.
type KafkaConfig struct {
	Brokers    string
	AuditTopic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VIGIL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	auditTopic := os.Getenv("VIGIL_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "vigil.audit"
	}

	return Server{
		Addr:             addr,
		EncryptionKey:    os.Getenv("VIGIL_ENCRYPTION_KEY"),
		CredentialSecret: os.Getenv("VIGIL_CREDENTIAL_SECRET"),
		JWTSigningKey:    os.Getenv("VIGIL_JWT_SIGNING_KEY"),

		ProviderEndpoint:     os.Getenv("DIDIT_API_ENDPOINT"),
		ProviderCredentialID: os.Getenv("DIDIT_CLIENT_ID"),
		ProviderSecret:       os.Getenv("DIDIT_CLIENT_SECRET"),
		ProviderAPIKey:       os.Getenv("DIDIT_API_KEY"),

		WebhookBaseURL: os.Getenv("VIGIL_WEBHOOK_BASE_URL"),

		Redis: RedisConfig{
			URL:          os.Getenv("VIGIL_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("VIGIL_DATABASE_URL"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:    os.Getenv("VIGIL_KAFKA_BROKERS"),
			AuditTopic: auditTopic,
		},
	}
}
