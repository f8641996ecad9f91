package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" envDefault:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" envDefault:"300"`
	AutoMigrate        bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// Enabled reports whether object storage is configured at all.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// IngestConfig bounds a single distribution run.
type IngestConfig struct {
	Timeout        time.Duration `env:"INGEST_TIMEOUT" envDefault:"60s"`
	MaxUploadBytes int64         `env:"INGEST_MAX_UPLOAD_BYTES" envDefault:"10485760"`
	ArchiveUploads bool          `env:"INGEST_ARCHIVE_UPLOADS" envDefault:"true"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string `env:"APP_HOST" envDefault:"localhost:8080"`
	Port     string `env:"PORT" envDefault:"8080"`
	Timezone string `env:"APP_TIMEZONE" envDefault:"UTC"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Database DatabaseConfig
	MinIO    MinIOConfig
	Ingest   IngestConfig
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Ingest.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("INGEST_MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.Ingest.Timeout <= 0 {
		return nil, fmt.Errorf("INGEST_TIMEOUT must be positive")
	}
	return &cfg, nil
}
