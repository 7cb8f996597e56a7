package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"catalog"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"3001"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	DBQueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`

	JWTSecret    string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresIn string `env:"JWT_EXPIRES_IN" envDefault:"7d"`
	BcryptCost   int    `env:"BCRYPT_COST"`

	AllowedOrigins []string `env:"FRONTEND_URL" envDefault:"http://localhost:5173" envSeparator:","`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"catalog_events"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"catalog-images"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL"`

	SentryDSN string `env:"SENTRY_DSN"`

	// derived from JWTExpiresIn
	TokenTTL time.Duration
}

// Load reads the process environment. Callers load .env beforehand.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	ttl, err := ParseLifetime(cfg.JWTExpiresIn)
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	cfg.TokenTTL = ttl
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.KafkaBrokers = trimAll(cfg.KafkaBrokers)

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ParseLifetime accepts Go durations ("15m", "12h"), whole days ("7d") and
// bare numbers of seconds ("3600"). Empty means the token default.
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tokens.DefaultTTL, nil
	}

	var d time.Duration
	switch {
	case strings.HasSuffix(s, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		d = time.Duration(days) * 24 * time.Hour
	default:
		if secs, err := strconv.Atoi(s); err == nil {
			d = time.Duration(secs) * time.Second
			break
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("lifetime must be positive, got %q", s)
	}
	return d, nil
}

func trimAll(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
