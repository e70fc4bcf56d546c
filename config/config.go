// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Dataset sources.
const (
	SourceCSV   = "csv"
	SourceDB    = "db"
	SourceMySQL = "mysql"
)

// Config holds all application configuration.
type Config struct {
	// Dataset acquisition.
	DataDir        string
	Dataset        string
	KaggleURL      string
	KaggleUsername string
	KaggleKey      string

	// Source selects where the tables are read from: csv, db or mysql.
	Source string

	// SQL store – either set DatabaseURL directly, or the individual fields.
	// DatabaseURL may also be a sqlite: or file: DSN.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// MySQL – Ergast dump, used by SOURCE=mysql and cmd/import.
	MySQLDSN string

	// Batch output.
	ChartDir    string
	ChartFormat string

	// JWT signing secret (required by the server).
	JWTSecret string

	// Server
	AdminUsers      []string
	Debug           bool
	Port            string
	TLSDomains      []string
	RefreshSchedule string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() (*Config, error) {
	v := newViper()

	// Defaults
	v.SetDefault("DATA_DIR", "./f1_data")
	v.SetDefault("DATASET", "rohanrao/formula-1-world-championship-1950-2020")
	v.SetDefault("KAGGLE_API_URL", "https://www.kaggle.com/api/v1")
	v.SetDefault("SOURCE", SourceCSV)
	v.SetDefault("DB_USER", "f1")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "f1")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CHART_DIR", "./charts")
	v.SetDefault("CHART_FORMAT", "html")
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DataDir:         v.GetString("DATA_DIR"),
		Dataset:         v.GetString("DATASET"),
		KaggleURL:       v.GetString("KAGGLE_API_URL"),
		KaggleUsername:  v.GetString("KAGGLE_USERNAME"),
		KaggleKey:       v.GetString("KAGGLE_KEY"),
		Source:          strings.ToLower(strings.TrimSpace(v.GetString("SOURCE"))),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBUser:          v.GetString("DB_USER"),
		DBPass:          v.GetString("DB_PASS"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		MySQLDSN:        v.GetString("MYSQL_DSN"),
		ChartDir:        v.GetString("CHART_DIR"),
		ChartFormat:     strings.ToLower(strings.TrimSpace(v.GetString("CHART_FORMAT"))),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AdminUsers:      splitTrimmed(v.GetString("ADMIN_USERS")),
		Debug:           v.GetBool("DEBUG"),
		Port:            v.GetString("PORT"),
		TLSDomains:      splitTrimmed(v.GetString("TLS_DOMAINS")),
		RefreshSchedule: strings.TrimSpace(v.GetString("REFRESH_SCHEDULE")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadServer is Load plus the settings only the HTTP server needs: a JWT
// secret and a database for the users table.
func LoadServer() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET must be set", ErrInvalidConfig)
	}
	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("%w: DATABASE_URL or DB_PASS must be set", ErrInvalidConfig)
	}
	return cfg, nil
}

// HasDatabase reports whether enough is set to reach the SQL store.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != "" || c.DBPass != ""
}

// PostgresDSN returns the full database connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceCSV:
		if c.DataDir == "" {
			return fmt.Errorf("%w: DATA_DIR must be set for SOURCE=csv", ErrInvalidConfig)
		}
	case SourceDB:
		if !c.HasDatabase() {
			return fmt.Errorf("%w: DATABASE_URL or DB_PASS must be set for SOURCE=db", ErrInvalidConfig)
		}
	case SourceMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("%w: MYSQL_DSN must be set for SOURCE=mysql", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: SOURCE %q, want csv, db or mysql", ErrInvalidConfig, c.Source)
	}
	if c.ChartFormat != "html" && c.ChartFormat != "png" {
		return fmt.Errorf("%w: CHART_FORMAT %q, want html or png", ErrInvalidConfig, c.ChartFormat)
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
