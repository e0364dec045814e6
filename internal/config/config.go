package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreSQLite   = "sqlite"
	SessionStoreLibSQL   = "libsql"
)

// Derivative mirror backends.
const (
	MirrorNone     = "none"
	MirrorSupabase = "supabase"
	MirrorS3       = "s3"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Content
	DataDir             string `env:"DATA_DIR" envDefault:"./data"`
	UploadsDir          string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	PublicUploadsPrefix string `env:"PUBLIC_UPLOADS_PREFIX" envDefault:"/API/uploads"`
	MaxUploadBytes      int64  `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`
	ReorderStrict       bool   `env:"REORDER_STRICT" envDefault:"false"`

	// Admin authentication
	AdminPassword        string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash    string        `env:"ADMIN_PASSWORD_HASH"`
	SessionSecret        string        `env:"SESSION_SECRET"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"portfolio_session"`
	SessionStore         string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionPurgeInterval time.Duration `env:"SESSION_PURGE_INTERVAL" envDefault:"10m"`

	// Session backends
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Derivative mirror
	MirrorBackend         string `env:"MIRROR_BACKEND" envDefault:"none"`
	SupabaseURL           string `env:"SUPABASE_URL"`
	SupabaseServiceKey    string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseStorageBucket string `env:"SUPABASE_STORAGE_BUCKET" envDefault:"portfolio-uploads"`
	S3Region              string `env:"S3_REGION" envDefault:"eu-west-1"`
	S3Bucket              string `env:"S3_BUCKET"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadContent reads the configuration for offline tools that only touch the
// collections and derivatives. Session settings are not required.
func LoadContent() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateMirror(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parse() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.MirrorBackend = strings.ToLower(strings.TrimSpace(cfg.MirrorBackend))
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session store")
		}
	case SessionStorePostgres, SessionStoreSQLite, SessionStoreLibSQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s session store", c.SessionStore)
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}

	return c.validateMirror()
}

func (c *Config) validateMirror() error {
	switch c.MirrorBackend {
	case MirrorNone, "":
	case MirrorSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the supabase mirror")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required for the supabase mirror")
		}
	case MirrorS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 mirror")
		}
	default:
		return fmt.Errorf("unknown MIRROR_BACKEND %q", c.MirrorBackend)
	}

	return nil
}

// IsProduction reports whether cookies should be marked Secure and gin run in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
