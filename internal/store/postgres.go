package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// DefaultSchema holds the board tables.
const DefaultSchema = "board"

// Config describes the Postgres connection.
type Config struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Schema holds the posts, comments and likes tables.
	Schema string
}

// Postgres implements Board and fms.Source on a database/sql pool.
type Postgres struct {
	db     *sql.DB
	schema string
	logger *slog.Logger
}

// New wraps an open database handle.
// If logger is nil, a discard logger is used.
func New(db *sql.DB, schema string, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if schema == "" {
		schema = DefaultSchema
	}
	return &Postgres{db: db, schema: schema, logger: logger}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("database", cfg.Name))

	db, err := sql.Open("pgx", buildDSN(cfg))
	if err != nil {
		return nil, wrap("open postgres", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap("ping postgres", err)
	}

	return New(db, cfg.Schema, logger), nil
}

// buildDSN constructs a keyword/value connection string.
func buildDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		"host=" + dsnValue(host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + dsnValue(cfg.Name),
		"sslmode=" + dsnValue(sslmode),
	}
	if cfg.User != "" {
		parts = append(parts, "user="+dsnValue(cfg.User))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+dsnValue(cfg.Password))
	}
	// Unknown keys become runtime parameters of every session.
	if cfg.TimeZone != "" {
		parts = append(parts, "timezone="+dsnValue(cfg.TimeZone))
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes a value when it is empty or holds spaces, quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Close closes the pool.
func (p *Postgres) Close() error {
	if p.db == nil {
		return nil
	}
	p.logger.Debug("closing database connection")
	return p.db.Close()
}

// Ping verifies the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return wrap("ping postgres", p.db.PingContext(ctx))
}

// table returns the quoted schema-qualified name of a board table.
func (p *Postgres) table(name string) string {
	return pgx.Identifier{p.schema, name}.Sanitize()
}

// quoteQualified quotes a possibly schema-qualified table name.
func quoteQualified(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
