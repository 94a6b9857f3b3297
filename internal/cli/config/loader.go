package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/store"
)

// EnvPrefix prefixes every fmsboard environment variable.
// Nested keys use a double underscore: FMSBOARD_SERVER__PORT.
const EnvPrefix = "FMSBOARD_"

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// configKey is used to store the loaded config in a command context.
type configKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"fmsboard.yaml", "fmsboard.yml"}

// legacyDBEnv maps the connection variables of the original deployment onto config keys.
var legacyDBEnv = map[string]string{
	"DB_HOST":     "database.host",
	"DB_PORT":     "database.port",
	"DB_NAME":     "database.name",
	"DB_USER":     "database.user",
	"DB_PASSWORD": "database.password",
	"DB_SSLMODE":  "database.sslmode",
}

// flagKeys maps flag names whose config key is not simply the snake_case name.
var flagKeys = map[string]string{
	"port":           "server.port",
	"trust-proxy":    "server.trust_proxy",
	"session-secret": "server.session_secret",
	"db-host":        "database.host",
	"db-port":        "database.port",
	"db-name":        "database.name",
	"db-user":        "database.user",
	"db-password":    "database.password",
	"db-sslmode":     "database.sslmode",
	"table":          "fms.table",
}

func defaults() map[string]any {
	return map[string]any{
		"environment":                DefaultEnv,
		"verbose":                    false,
		"log_format":                 DefaultLogFormat,
		"server.port":                DefaultPort,
		"server.trust_proxy":         false,
		"server.read_header_timeout": DefaultReadHeaderTimeout.String(),
		"database.host":              DefaultDBHost,
		"database.port":              DefaultDBPort,
		"database.sslmode":           DefaultSSLMode,
		"database.timezone":          DefaultTimeZone,
		"database.max_open_conns":    DefaultMaxOpenConns,
		"database.max_idle_conns":    DefaultMaxIdleConns,
		"database.conn_max_lifetime": DefaultConnMaxLifetime.String(),
		"board.schema":               store.DefaultSchema,
		"fms.table":                  fms.DefaultTable,
		"fms.status_column":          fms.DefaultStatusColumn,
		"fms.category_column":        fms.DefaultCategoryColumn,
		"fms.weight_column":          fms.DefaultWeightColumn,
		"fms.id_column":              fms.DefaultIDColumn,
		"fms.export_filename":        fms.DefaultExportFilename,
	}
}

// findConfigFile returns the explicit path, or the first fmsboard.yaml found
// walking up from dir.
func findConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// LoadConfig loads configuration from defaults, file, environment and flags.
// Precedence (highest to lowest): flags > FMSBOARD_ env > DB_ env > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cwd, _ := os.Getwd()
	configFile := findConfigFile(cfgFile, cwd)
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// 3. DB_HOST, DB_NAME, ... as used by the original deployment
	if err := k.Load(env.Provider("DB_", ".", func(s string) string {
		return legacyDBEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load DB_ env vars: %w", err)
	}

	// 4. FMSBOARD_ env vars: FMSBOARD_SERVER__PORT -> server.port
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = configFile

	expandDatabaseEnvVars(&cfg.Database)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() interface{} {
	return loggerKey{}
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}

// NewLogger builds the process logger for the configured format and verbosity.
func NewLogger(w io.Writer, cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns. Unset variables are left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

func expandDatabaseEnvVars(d *DatabaseConfig) {
	d.Host = expandEnvVars(d.Host)
	d.Name = expandEnvVars(d.Name)
	d.User = expandEnvVars(d.User)
	d.Password = expandEnvVars(d.Password)
}
