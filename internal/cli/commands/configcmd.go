package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, fmsboard.yaml, environment
variables and flags have been applied. Secrets are masked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			w := cmd.OutOrStdout()
			if cfg.ConfigFile != "" {
				_, _ = fmt.Fprintf(w, "# loaded from %s\n", cfg.ConfigFile)
			}
			_, err = w.Write(out)
			return err
		},
	}
}
