package fms

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
)

// DefaultTable is the schema-qualified result table.
const DefaultTable = "fms.total_result"

// DefaultExportFilename is the download name of the CSV export.
const DefaultExportFilename = "fms_result.csv"

// Source fetches every row of a table.
type Source interface {
	FetchAll(ctx context.Context, table string) ([]Record, error)
}

// Config selects the dataset and the columns read from it.
type Config struct {
	Table          string
	Columns        Columns
	ExportFilename string
}

// Service reads the result table and prepares report and export output.
type Service struct {
	source Source
	cfg    Config
	logger *slog.Logger
}

// NewService creates a Service. If logger is nil, a discard logger is used.
func NewService(src Source, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.ExportFilename == "" {
		cfg.ExportFilename = DefaultExportFilename
	}
	cfg.Columns = cfg.Columns.withDefaults()
	return &Service{source: src, cfg: cfg, logger: logger}
}

// ExportFilename returns the name offered for CSV downloads.
func (s *Service) ExportFilename() string {
	return s.cfg.ExportFilename
}

// Columns returns the columns the service reads.
func (s *Service) Columns() Columns {
	return s.cfg.Columns
}

// Result is a fetched snapshot of the table and its aggregate.
type Result struct {
	Records []Record
	Report  *Report
}

// Result fetches the table and aggregates it. The returned Result is never
// nil: on error it holds whatever was gathered before the failure, possibly
// nothing, and the caller decides how loudly to complain.
func (s *Service) Result(ctx context.Context) (*Result, error) {
	res := &Result{Report: NewReport()}

	records, err := s.source.FetchAll(ctx, s.cfg.Table)
	if err != nil {
		return res, fmt.Errorf("fetching %s: %w", s.cfg.Table, err)
	}
	res.Records = records

	rep, err := fold(records, s.cfg.Columns)
	res.Report = rep
	for _, issue := range rep.Issues {
		s.logger.Debug("fms row folded with defaults", "table", s.cfg.Table, "issue", issue)
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

// Export fetches the table and encodes it as CSV. The whole file is built
// in memory so a failure never leaves a partial download behind.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	records, err := s.source.FetchAll(ctx, s.cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.cfg.Table, err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
