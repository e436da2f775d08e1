// Package cli is the command-line delivery layer. Commands stay thin:
// they parse flags, call a use case, and print; every decision lives in
// internal/usecase.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/container"
)

// NewRootCommand builds the haven command tree.
func NewRootCommand(c *container.Container) *cobra.Command {
	root := &cobra.Command{
		Use:           "haven",
		Short:         "Find and connect with homeschooling families near you",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.Settings.WelcomeCompleted() {
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Welcome to Haven, a community of homeschooling families.")
			if err := c.Settings.MarkWelcomeCompleted(); err != nil {
				c.Log.Warn("failed to record welcome", zap.Error(err))
			}
		},
	}

	root.AddCommand(
		newLoginCommand(c),
		newSignupCommand(c),
		newResumeCommand(c),
		newLogoutCommand(c),
		newProfileCommand(c),
		newDiscoverCommand(c),
		newMessagesCommand(c),
		newEventsCommand(c),
		newSettingsCommand(c),
	)
	return root
}

// friendly rewraps errors the user can act on; everything else passes
// through unchanged.
func friendly(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotSignedIn):
		return fmt.Errorf("you are not signed in; run 'haven login' first")
	case errors.Is(err, domain.ErrSessionExpired):
		return fmt.Errorf("your session has expired; run 'haven login' to sign in again")
	default:
		return err
	}
}
