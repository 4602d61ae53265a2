package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/homelist/internal/domain"
)

// NewChatCommand creates the chat command group. Every subcommand acts
// as the session user.
func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and send messages",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the inbox, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if _, err := a.sessionUserID(); err != nil {
					return err
				}
				if err := a.chat.FetchConversations(cmd.Context()); err != nil {
					return err
				}
				rows := a.chat.Conversations()
				return f.Emit(rows, func(w io.Writer) { writeInbox(w, rows) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Show the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if _, err := a.sessionUserID(); err != nil {
					return err
				}
				if err := a.chat.SetActiveConversation(cmd.Context(), args[0]); err != nil {
					return err
				}
				msgs := a.chat.ActiveMessages()
				return f.Emit(msgs, func(w io.Writer) { writeMessages(w, args[0], msgs) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "start <user-id>",
		Short: "Open (or create) the conversation with another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				conv, err := a.chat.StartConversation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				msgs := a.chat.ActiveMessages()
				return f.Emit(conv, func(w io.Writer) { writeMessages(w, conv.ID, msgs) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "send <conversation-id> <text...>",
		Short: "Send a message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			text := strings.Join(args[1:], " ")
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if _, err := a.sessionUserID(); err != nil {
					return err
				}
				if err := a.chat.SetActiveConversation(cmd.Context(), args[0]); err != nil {
					return err
				}
				msg, err := a.chat.SendMessage(cmd.Context(), text)
				if err != nil {
					return err
				}
				return f.Emit(msg, func(w io.Writer) { writeSent(w, msg) })
			})
		},
	})
	return cmd
}

func writeSent(w io.Writer, m domain.Message) {
	fmt.Fprintf(w, "✓ Sent %s at %s\n", m.ID, m.Timestamp.Format(timeLayout))
}
