package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/session"
)

func newSendCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a follow-up question to an existing analysis session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cfg := loadConfig()
			client := analysis.NewHTTPClient(cfg.Analysis, log)

			if sessionID == "" {
				sessionID = session.New().Current()
				log.Debug().Str("session", sessionID).Msg("no session given, generated a fresh one")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reply, err := client.Submit(ctx, message, nil, sessionID)
			if err != nil {
				return errors.New(analysis.UserMessage(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session ID of a previous submission")

	return cmd
}
