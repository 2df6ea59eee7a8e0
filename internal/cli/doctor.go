package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			mode := "remote"
			if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
				mode = "offline (no API key, simulated responses)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Mode: %s\n", mode)
			fmt.Fprintf(out, "Model preference order: %s\n", strings.Join(cfg.Models.Preferred(), ", "))
			fmt.Fprintf(out, "Sandbox enabled: %v, metrics: %v\n", cfg.Sandbox.Enabled, cfg.Server.MetricsEnabled)
			return nil
		},
	}
}
