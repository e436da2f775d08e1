package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ERSinclair/haven/internal/infrastructure/container"
)

func newSettingsCommand(c *container.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change local preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := c.Settings.Preferences()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "notify-messages: %v\n", prefs.NotifyMessages)
			fmt.Fprintf(out, "notify-events:   %v\n", prefs.NotifyEvents)
			fmt.Fprintf(out, "show-on-map:     %v\n", prefs.ShowOnMap)
			fmt.Fprintf(out, "allow-messages:  %v\n", prefs.AllowMessages)
			return nil
		},
	}
	cmd.AddCommand(newSettingsSetCommand(c), newDeleteAccountCommand(c))
	return cmd
}

func newSettingsSetCommand(c *container.Container) *cobra.Command {
	var notifyMessages, notifyEvents, showOnMap, allowMessages bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences; unset flags keep their current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := c.Settings.Preferences()
			if cmd.Flags().Changed("notify-messages") {
				prefs.NotifyMessages = notifyMessages
			}
			if cmd.Flags().Changed("notify-events") {
				prefs.NotifyEvents = notifyEvents
			}
			if cmd.Flags().Changed("show-on-map") {
				prefs.ShowOnMap = showOnMap
			}
			if cmd.Flags().Changed("allow-messages") {
				prefs.AllowMessages = allowMessages
			}
			if err := c.Settings.SavePreferences(prefs); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&notifyMessages, "notify-messages", true, "notify on new messages")
	cmd.Flags().BoolVar(&notifyEvents, "notify-events", true, "notify on nearby events")
	cmd.Flags().BoolVar(&showOnMap, "show-on-map", true, "show your family on the map")
	cmd.Flags().BoolVar(&allowMessages, "allow-messages", true, "let other families message you")
	return cmd
}

func newDeleteAccountCommand(c *container.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete your account and wipe local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting an account cannot be undone; re-run with --yes to confirm")
			}
			if err := c.Settings.DeleteAccount(cmd.Context()); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted. We're sorry to see you go.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
