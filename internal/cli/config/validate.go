package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port must be between 1 and 65535, got %d", c.Database.Port))
	}
	if !slices.Contains(sslModes, c.Database.SSLMode) {
		errs = append(errs, fmt.Errorf("database.sslmode must be one of %s, got %q",
			strings.Join(sslModes, ", "), c.Database.SSLMode))
	}
	if strings.TrimSpace(c.Board.Schema) == "" {
		errs = append(errs, errors.New("board.schema is required"))
	}
	if strings.TrimSpace(c.FMS.Table) == "" {
		errs = append(errs, errors.New("fms.table is required"))
	}
	if strings.TrimSpace(c.FMS.ExportFilename) == "" {
		errs = append(errs, errors.New("fms.export_filename is required"))
	}

	return errors.Join(errs...)
}

// RequireDatabase checks the settings needed to open a connection.
func (c *Config) RequireDatabase() error {
	if c.Database.Name == "" {
		return errors.New("database.name is required\nHint: set it in fmsboard.yaml, DB_NAME or --db-name")
	}
	return nil
}
