package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homefix/homefix/alert"
	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/ui"
)

// AskCommand sends one question and prints the answer with any
// recommended supplies.
func AskCommand() *cobra.Command {
	var noReco bool

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the repair assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			w, err := newWire(Options())
			if err != nil {
				return err
			}
			defer w.Close()

			out := newOutput(cmd.OutOrStdout(), w)
			question := strings.Join(args, " ")
			ctx := context.Background()

			if noReco {
				reply, err := w.Client.Chat(ctx, strings.TrimSpace(question))
				if err != nil {
					return alert.New(conversation.AlertTitle, conversation.AlertMessage, err)
				}
				out.println(reply)
				return nil
			}

			conv := conversation.New(w.Client)
			sendErr := conv.Send(ctx, question)
			if errors.Is(sendErr, conversation.ErrEmptyMessage) {
				return sendErr
			}
			// Skip the greeting and the echoed question.
			msgs := conv.Messages()
			if len(msgs) > 2 {
				msgs = msgs[2:]
			}
			for _, m := range msgs {
				if len(m.Recommendations) > 0 {
					out.println(out.styles.Muted.Render(m.Text))
					out.println(ui.RenderRecommendations(m.Recommendations, out.styles, out.width))
					continue
				}
				out.println(m.Text)
			}
			return sendErr
		},
	}
	cmd.Flags().BoolVar(&noReco, "no-recommend", false, "Only print the answer")
	return cmd
}
