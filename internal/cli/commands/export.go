package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the FMS result table as CSV",
		Long: `Write every row of the FMS result table as CSV, the same file the
/fms/export download serves. The first row's columns form the header.`,
		Example: `  # Write fms_result.csv in the current directory
  fmsboard export

  # Write to stdout
  fmsboard export -o -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			path := output
			if path == "" {
				path = cctx.FMS.ExportFilename()
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), cctx.FMS, path)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file, "-" for stdout (default: fms.export_filename)`)
	cmd.Flags().String("table", "", "Result table to read (default: fms.total_result)")

	return cmd
}

// runExport writes the CSV to path, or to stdout when path is "-". The file
// is only touched once the whole export is in memory, and is replaced via a
// temporary file in the same directory so a failed write keeps what was
// there before.
func runExport(ctx context.Context, stdout io.Writer, svc *fms.Service, path string) error {
	data, err := svc.Export(ctx)
	if err != nil {
		return err
	}

	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}

	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
