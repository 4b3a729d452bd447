package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable, e.g. BIKESHARE_DATASET_PATH.
const envPrefix = "BIKESHARE"

// Source kinds accepted by BIKESHARE_SOURCE.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Source      string `envconfig:"SOURCE" default:"csv"`
	DatasetPath string `envconfig:"DATASET_PATH" default:"all_df.csv"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"bikeshare"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:""`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"bikeshare"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	PostgresTable    string `envconfig:"POSTGRES_TABLE" default:"all_df"`
	PingRetries      int    `envconfig:"PING_RETRIES" default:"3"`

	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	PreviewRows int    `envconfig:"PREVIEW_ROWS" default:"5"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	EChartsAssetsHost string `envconfig:"ECHARTS_ASSETS_HOST" default:"https://go-echarts.github.io/go-echarts-assets/assets/"`

	SnapshotEnabled     bool          `envconfig:"SNAPSHOT_ENABLED" default:"false"`
	SnapshotConcurrency int           `envconfig:"SNAPSHOT_CONCURRENCY" default:"2"`
	SnapshotIntervalMs  int           `envconfig:"SNAPSHOT_INTERVAL_MS" default:"250"`
	SnapshotTimeout     time.Duration `envconfig:"SNAPSHOT_TIMEOUT" default:"30s"`
	ChromeBin           string        `envconfig:"CHROME_BIN"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceCSV:
		if c.DatasetPath == "" {
			return fmt.Errorf("config: %s_DATASET_PATH must not be empty", envPrefix)
		}
	case SourcePostgres:
		if c.PostgresTable == "" {
			return fmt.Errorf("config: %s_POSTGRES_TABLE must not be empty", envPrefix)
		}
	default:
		return fmt.Errorf("config: unknown source %q (want %q or %q)", c.Source, SourceCSV, SourcePostgres)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("config: preview rows must be >= 0, got %d", c.PreviewRows)
	}
	if c.SnapshotConcurrency < 1 {
		c.SnapshotConcurrency = 1
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
