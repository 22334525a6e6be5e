package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HEMANT2027/StreamSightAI/internal/analysis"
	"github.com/HEMANT2027/StreamSightAI/internal/conversation"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
	"github.com/HEMANT2027/StreamSightAI/internal/media"
)

const chatHelp = `Commands:
  /upload <path> [prompt]  upload a video and start the analysis
  /reset                   start a new session
  /export [file]           write the transcript as JSON (stdout if no file)
  /status                  show session state
  /help                    show this help
  /quit                    exit
Anything else is sent as a follow-up question about the uploaded video.`

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive analysis session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := analysis.NewHTTPClient(cfg.Analysis, log)
			controller := conversation.NewController(client, media.NewValidator(cfg.Media), log)
			defer controller.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "StreamSight — session %s (endpoint %s)\n", controller.SessionID(), client.Name())
			fmt.Fprintln(out, "Type /help for commands.")

			controller.ProbeConnectivity(ctx)
			seen := renderMessages(out, controller.State().Messages, 0)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				switch {
				case line == "/quit" || line == "/exit":
					return nil
				case line == "/help":
					fmt.Fprintln(out, chatHelp)
				case line == "/reset":
					controller.Reset()
					fmt.Fprintf(out, "New session %s\n", controller.SessionID())
					seen = renderMessages(out, controller.State().Messages, 0)
				case line == "/status":
					printSnapshot(out, controller.State())
				case strings.HasPrefix(line, "/export"):
					if err := exportTranscript(out, controller, strings.TrimSpace(strings.TrimPrefix(line, "/export"))); err != nil {
						fmt.Fprintf(out, "export failed: %v\n", err)
					}
				case strings.HasPrefix(line, "/upload "):
					rest := strings.TrimSpace(strings.TrimPrefix(line, "/upload "))
					path, prompt, _ := strings.Cut(rest, " ")
					file, err := loadAttachment(path)
					if err != nil {
						fmt.Fprintf(out, "upload failed: %v\n", err)
						continue
					}
					if err := controller.SubmitMedia(ctx, file, prompt); err != nil {
						fmt.Fprintf(out, "upload failed: %v\n", err)
					}
					seen = renderMessages(out, controller.State().Messages, seen)
				case strings.HasPrefix(line, "/"):
					fmt.Fprintf(out, "unknown command %q, try /help\n", line)
				default:
					if err := controller.SendFollowUp(ctx, line); err != nil {
						fmt.Fprintf(out, "send failed: %v\n", err)
					}
					seen = renderMessages(out, controller.State().Messages, seen)
				}

				if ctx.Err() != nil {
					return nil
				}
			}
			return scanner.Err()
		},
	}
}

// renderMessages prints messages starting at index from and returns
// the new high-water mark.
func renderMessages(out io.Writer, msgs []domain.Message, from int) int {
	for _, m := range msgs[from:] {
		prefix := "bot"
		if m.Origin == domain.OriginUser {
			prefix = "you"
		}
		if m.IsError {
			prefix = "err"
		}
		fmt.Fprintf(out, "[%s] %s\n", prefix, m.Text)
	}
	return len(msgs)
}

func printSnapshot(out io.Writer, snap conversation.Snapshot) {
	fmt.Fprintf(out, "Session:  %s\n", snap.SessionID)
	fmt.Fprintf(out, "Messages: %d\n", len(snap.Messages))
	fmt.Fprintf(out, "Online:   %v\n", snap.Online)
	if snap.Attachment != nil {
		fmt.Fprintf(out, "Video:    %s (%d bytes)\n", snap.Attachment.Filename, snap.Attachment.Size)
	} else {
		fmt.Fprintln(out, "Video:    (none)")
	}
}

func exportTranscript(out io.Writer, controller *conversation.Controller, target string) error {
	export := controller.ExportHistory()
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	if target == "" {
		fmt.Fprintln(out, string(data))
		return nil
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", target)
	return nil
}
