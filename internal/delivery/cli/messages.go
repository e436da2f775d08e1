package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ERSinclair/haven/internal/infrastructure/container"
	"github.com/ERSinclair/haven/internal/selection"
)

func newMessagesCommand(c *container.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read and send messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := c.Messaging.LoadConversations(cmd.Context())
			if err != nil {
				return friendly(err)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet. Start one with 'haven messages start'.")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, s := range summaries {
				marker := " "
				if s.Unread {
					marker = "*"
				}
				last := s.LastMessageText
				if last == "" {
					last = "(no messages)"
				}
				fmt.Fprintf(out, "%s %s  %s: %s\n", marker, s.ID, s.Other.Name, last)
			}
			return nil
		},
	}
	cmd.AddCommand(
		newMessagesOpenCommand(c),
		newMessagesSendCommand(c),
		newMessagesStartCommand(c),
		newMessagesDeleteCommand(c),
	)
	return cmd
}

func newMessagesOpenCommand(c *container.Container) *cobra.Command {
	var prune []string

	cmd := &cobra.Command{
		Use:   "open <conversation-id>",
		Short: "Show a conversation's messages, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.Messaging.LoadConversations(cmd.Context()); err != nil {
				return friendly(err)
			}
			msgs, err := c.Messaging.OpenThread(cmd.Context(), args[0])
			if err != nil {
				return friendly(err)
			}

			if len(prune) > 0 {
				sel := selection.NewManager()
				sel.LongPress(prune[0])
				for _, id := range prune[1:] {
					sel.Tap(id)
				}
				if err := sel.Confirm(func(ids []string) error {
					return c.Messaging.DeleteMessages(cmd.Context(), ids)
				}); err != nil {
					return friendly(err)
				}
				msgs = c.Messaging.Messages()
			}

			out := cmd.OutOrStdout()
			for _, m := range msgs {
				fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt.Format("Jan 2 15:04"), m.SenderID, m.Content)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&prune, "delete", nil, "message ids to delete from this thread")
	return cmd
}

func newMessagesSendCommand(c *container.Container) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "send <conversation-id>",
		Short: "Send a message into an existing conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.Messaging.Send(cmd.Context(), args[0], text); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sent.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "message text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newMessagesStartCommand(c *container.Container) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "start <profile-id>",
		Short: "Message a family; reuses the existing thread if there is one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.Messaging.StartConversation(cmd.Context(), args[0], text)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent. Conversation: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "message text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newMessagesDeleteCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id> [conversation-id...]",
		Short: "Delete conversations and their messages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := selection.NewManager()
			sel.LongPress(args[0])
			for _, id := range args[1:] {
				sel.Tap(id)
			}
			if err := sel.Confirm(func(ids []string) error {
				return c.Messaging.DeleteConversations(cmd.Context(), ids)
			}); err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d conversations.\n", len(args))
			return nil
		},
	}
}
