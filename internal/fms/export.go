package fms

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes records as CSV with CRLF line endings. The first record's columns form the header
// and fix the column order for every row; a later record lacking one of those
// columns gets an empty field and its extra columns are dropped. No records
// writes nothing, not even a header.
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	header := records[0].Columns()
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(header))
	for n, rec := range records {
		for i, col := range header {
			v, _ := rec.Lookup(col)
			row[i] = Text(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %d: %w", n, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
