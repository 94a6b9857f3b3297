// Package config loads fmsboard configuration from defaults, an optional
// fmsboard.yaml, environment variables and command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/store"
)

// Config holds all configuration options.
type Config struct {
	Environment string         `koanf:"environment" yaml:"environment"`
	Verbose     bool           `koanf:"verbose" yaml:"verbose"`
	LogFormat   string         `koanf:"log_format" yaml:"log_format"`
	Server      ServerConfig   `koanf:"server" yaml:"server"`
	Database    DatabaseConfig `koanf:"database" yaml:"database"`
	Board       BoardConfig    `koanf:"board" yaml:"board"`
	FMS         FMSConfig      `koanf:"fms" yaml:"fms"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-" yaml:"-"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port              int           `koanf:"port" yaml:"port"`
	TrustProxy        bool          `koanf:"trust_proxy" yaml:"trust_proxy"`
	SessionSecret     string        `koanf:"session_secret" yaml:"session_secret"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	Host            string        `koanf:"host" yaml:"host"`
	Port            int           `koanf:"port" yaml:"port"`
	Name            string        `koanf:"name" yaml:"name"`
	User            string        `koanf:"user" yaml:"user"`
	Password        string        `koanf:"password" yaml:"password"`
	SSLMode         string        `koanf:"sslmode" yaml:"sslmode"`
	TimeZone        string        `koanf:"timezone" yaml:"timezone"`
	MaxOpenConns    int           `koanf:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// BoardConfig configures the message board tables.
type BoardConfig struct {
	Schema string `koanf:"schema" yaml:"schema"`
}

// FMSConfig configures the FMS result dataset.
type FMSConfig struct {
	Table          string `koanf:"table" yaml:"table"`
	StatusColumn   string `koanf:"status_column" yaml:"status_column"`
	CategoryColumn string `koanf:"category_column" yaml:"category_column"`
	WeightColumn   string `koanf:"weight_column" yaml:"weight_column"`
	IDColumn       string `koanf:"id_column" yaml:"id_column"`
	ExportFilename string `koanf:"export_filename" yaml:"export_filename"`
}

// Default configuration values.
const (
	DefaultEnv               = "dev"
	DefaultLogFormat         = "text"
	DefaultPort              = 5000
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultSSLMode           = "require"
	DefaultTimeZone          = "Asia/Seoul"
	DefaultMaxOpenConns      = 10
	DefaultMaxIdleConns      = 5
	DefaultConnMaxLifetime   = 30 * time.Minute
)

// StoreConfig converts the database section for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		Name:            c.Database.Name,
		User:            c.Database.User,
		Password:        c.Database.Password,
		SSLMode:         c.Database.SSLMode,
		TimeZone:        c.Database.TimeZone,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		Schema:          c.Board.Schema,
	}
}

// FMSServiceConfig converts the fms section for fms.NewService.
func (c *Config) FMSServiceConfig() fms.Config {
	return fms.Config{
		Table: c.FMS.Table,
		Columns: fms.Columns{
			Status:   c.FMS.StatusColumn,
			Category: c.FMS.CategoryColumn,
			Weight:   c.FMS.WeightColumn,
			ID:       c.FMS.IDColumn,
		},
		ExportFilename: c.FMS.ExportFilename,
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Database.Password != "" {
		out.Database.Password = redacted
	}
	if out.Server.SessionSecret != "" {
		out.Server.SessionSecret = redacted
	}
	return &out
}

const redacted = "********"
