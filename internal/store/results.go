package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

// FetchAll returns every row of table as records, keeping the select's column order.
func (p *Postgres) FetchAll(ctx context.Context, table string) ([]fms.Record, error) {
	op := "fetch " + table

	//nolint:gosec // table comes from configuration and is quoted
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, quoteQualified(table)))
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, wrap(op, err)
	}
	p.logger.Debug("fetched rows", "table", table, "rows", len(records))
	return records, nil
}

func scanRecords(rows *sql.Rows) ([]fms.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []fms.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		records = append(records, fms.NewRecord(cols, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
