package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show StreamSight status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "StreamSight %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			fmt.Fprintf(out, "Exports: %s\n", paths.Exports)
			fmt.Fprintln(out)

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Fprintf(out, "Config:  error loading: %v\n", err)
				return nil
			}
			if _, statErr := os.Stat(paths.Config); os.IsNotExist(statErr) {
				fmt.Fprintln(out, "Config:  not found (using defaults)")
			}

			fmt.Fprintf(out, "Service: %s (field=%s, submit timeout=%ds)\n",
				cfg.Analysis.BaseURL, cfg.Analysis.VideoField, cfg.Analysis.SubmitTimeoutSeconds)
			fmt.Fprintf(out, "Media:   max=%d MiB images=%v\n",
				cfg.Media.MaxUploadBytes>>20, cfg.Media.AllowImages)
			fmt.Fprintf(out, "Gateway: port=%d bind=%s\n", cfg.Gateway.Port, cfg.Gateway.Bind)
			if cfg.Archive.Enabled {
				fmt.Fprintf(out, "Archive: %s\n", paths.ArchivePath(cfg.Archive))
			} else {
				fmt.Fprintln(out, "Archive: disabled")
			}

			client := analysis.NewHTTPClient(cfg.Analysis, log)
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if client.Health(ctx) {
				fmt.Fprintf(out, "Online:  yes (%s)\n", client.Name())
			} else {
				fmt.Fprintf(out, "Online:  no (%s unreachable)\n", client.Name())
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
