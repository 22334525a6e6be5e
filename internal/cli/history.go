package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived transcripts",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryRmCmd())

	return cmd
}

// openArchive opens the transcript database configured for archiving.
func openArchive() (*store.DB, *store.TranscriptStore, error) {
	cfg := loadConfig()
	if err := paths.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	db, err := store.Open(paths.ArchivePath(cfg.Archive), log)
	if err != nil {
		return nil, nil, err
	}
	return db, store.NewTranscriptStore(db), nil
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, transcripts, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			summaries, err := transcripts.List()
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived transcripts.")
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d message(s)\n",
					s.SessionID, s.ExportedAt.Format("2006-01-02 15:04"), s.MessageCount)
			}
			return nil
		},
	}
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session>",
		Short: "Print an archived transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, transcripts, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			export, err := transcripts.Get(args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no transcript for session %s", args[0])
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s, exported %s\n", export.SessionID, export.ExportedAt.Format("2006-01-02 15:04"))
			if export.Attachment != nil {
				fmt.Fprintf(out, "Video: %s (%d bytes)\n", export.Attachment.Filename, export.Attachment.Size)
			}
			fmt.Fprintln(out)
			renderMessages(out, domain.Rehydrate(export.Messages), 0)
			return nil
		},
	}
}

func newHistoryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <session>",
		Short: "Delete an archived transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, transcripts, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := transcripts.Delete(args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no transcript for session %s", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
