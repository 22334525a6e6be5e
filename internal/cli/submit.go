package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/conversation"
	"github.com/HEMANT2027/StreamSightAI/internal/media"
	"github.com/HEMANT2027/StreamSightAI/internal/store"
)

func newSubmitCmd() *cobra.Command {
	var (
		prompt string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "submit <video>",
		Short: "Submit a video for analysis and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := analysis.NewHTTPClient(cfg.Analysis, log)
			controller := conversation.NewController(client, media.NewValidator(cfg.Media), log)
			defer controller.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			file, err := loadAttachment(args[0])
			if err != nil {
				return err
			}

			if err := controller.SubmitMedia(ctx, file, prompt); err != nil {
				return err
			}

			msgs := controller.State().Messages
			renderMessages(cmd.OutOrStdout(), msgs, 1)

			if save {
				if err := saveTranscript(cfg, controller); err != nil {
					return err
				}
			}

			if last := msgs[len(msgs)-1]; last.IsError {
				return errors.New(last.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "analysis prompt (default \"Analyze this video\")")
	cmd.Flags().BoolVar(&save, "save", false, "archive the transcript after the response")

	return cmd
}

// saveTranscript archives the current conversation in the transcript store.
func saveTranscript(cfg config.Config, controller *conversation.Controller) error {
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	db, err := store.Open(paths.ArchivePath(cfg.Archive), log)
	if err != nil {
		return err
	}
	defer db.Close()
	return store.NewTranscriptStore(db).Save(controller.ExportHistory())
}
