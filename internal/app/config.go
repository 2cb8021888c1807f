package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const minSecretLength = 32

// Submission storage backends.
const (
	SubmissionsPostgres = "postgres"
	SubmissionsMongo    = "mongo"
)

// Config holds the backend configuration, loadable from environment variables
// (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string        `usage:"PostgreSQL connection URL (SHOP_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWTSecret   string        `usage:"HMAC secret for admin tokens, at least 32 bytes (SHOP_JWT_SECRET or JWT_SECRET)" flag:"jwt-secret"`
	TokenTTL    time.Duration `default:"24h" usage:"Admin token lifetime" flag:"token-ttl"`
	FrontendURL string        `default:"http://localhost:3000" usage:"Allowed CORS origin" flag:"frontend-url"`
	RateLimit   RateLimitConfig
	Kafka       KafkaConfig
	Submissions SubmissionsConfig
	Graceful    GracefulConfig
}

// RateLimitConfig controls the per-IP fixed window limiter on /api.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"15m" usage:"Rate limit window duration"`
}

// KafkaConfig enables domain event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers []string `usage:"Kafka bootstrap brokers; empty disables events"`
	Topic   string   `default:"handmade-events" usage:"Kafka topic for domain events"`
}

// SubmissionsConfig selects where public form submissions are stored.
type SubmissionsConfig struct {
	Backend       string `default:"postgres" usage:"Submission storage: postgres or mongo"`
	MongoURI      string `default:"mongodb://localhost:27017" usage:"MongoDB connection URI" flag:"mongo-uri"`
	MongoDatabase string `default:"handmade" usage:"MongoDB database name" flag:"mongo-database"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform defaults and validates the result.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/handmade/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports missing or unusable settings.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL is required: set SHOP_DATABASE_URL or DATABASE_URL")
	}
	if len(c.JWTSecret) < minSecretLength {
		return errors.Errorf("JWT secret must be at least %d bytes: set SHOP_JWT_SECRET or JWT_SECRET", minSecretLength)
	}
	switch c.Submissions.Backend {
	case SubmissionsPostgres, SubmissionsMongo:
	default:
		return errors.Errorf("unknown submissions backend %q", c.Submissions.Backend)
	}
	return nil
}

// applyPlatformDefaults maps the unprefixed variables set by hosting
// platforms (DATABASE_URL, JWT_SECRET, PORT) onto the configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
