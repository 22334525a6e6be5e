package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/conversation"
	"github.com/HEMANT2027/StreamSightAI/internal/gateway"
	"github.com/HEMANT2027/StreamSightAI/internal/media"
	"github.com/HEMANT2027/StreamSightAI/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local gateway server",
		Long:  "Serve exposes the conversation over HTTP and WebSocket for browser clients.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			client := analysis.NewHTTPClient(cfg.Analysis, log)
			controller := conversation.NewController(client, media.NewValidator(cfg.Media), log)
			defer controller.Close()

			var archive *store.TranscriptStore
			if cfg.Archive.Enabled {
				db, err := store.Open(paths.ArchivePath(cfg.Archive), log)
				if err != nil {
					return fmt.Errorf("opening archive: %w", err)
				}
				defer db.Close()
				archive = store.NewTranscriptStore(db)
				log.Info().Str("path", paths.ArchivePath(cfg.Archive)).Msg("transcript archive enabled")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if controller.ProbeConnectivity(ctx) {
				log.Info().Str("endpoint", client.Name()).Msg("analysis service reachable")
			} else {
				log.Warn().Str("endpoint", client.Name()).Msg("analysis service unreachable, uploads will fail until it recovers")
			}

			srv := gateway.New(cfg.Gateway, cfg.Media, controller, archive, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")

	return cmd
}
