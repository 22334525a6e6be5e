package cli

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streamsight",
		Short: "StreamSight — video analysis chat client",
		Long:  "StreamSight submits videos to an analysis service and holds a follow-up conversation about their content.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			// Optional .env next to the config for tokens and overrides.
			_ = godotenv.Load(filepath.Join(paths.Base, ".env"))

			// The flag wins; otherwise logging follows the config file.
			if logLevel != "" {
				log = logging.New(nil, logLevel)
				return nil
			}
			cfg, err := config.Load(paths.Config)
			if err != nil {
				log = logging.New(nil, "info")
				log.Warn().Err(err).Msg("failed to load config, using default logging")
				return nil
			}
			log = logging.NewStyled(cfg.Logging.Level, cfg.Logging.ConsoleStyle)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.streamsight/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig reads the config file, falling back to defaults when absent.
func loadConfig() config.Config {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load config, using defaults")
		return config.Defaults()
	}
	return cfg
}
