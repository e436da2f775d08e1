package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ERSinclair/haven/internal/infrastructure/container"
	"github.com/ERSinclair/haven/internal/usecase/onboarding"
)

func newLoginCommand(c *container.Container) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = c.Auth.SavedEmail()
			}
			s, err := c.Auth.SignIn(cmd.Context(), email, password)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", s.Email)

			state, err := c.Onboarding.Resume(cmd.Context())
			if err == nil && state.WizardStep != 0 {
				fmt.Fprintln(cmd.OutOrStdout(), state.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (defaults to the last one used)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignupCommand(c *container.Container) *cobra.Command {
	var email, password, confirm string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and walk the profile wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = password
			}
			s, err := c.Auth.SignUp(cmd.Context(), email, password, confirm)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s\n", s.Email)
			fmt.Fprintln(cmd.OutOrStdout(), "Next: haven signup about --name ... --username ... --location ... --status ...")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (6+ characters)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	cmd.AddCommand(newSignupAboutCommand(c), newSignupKidsCommand(c), newSignupContactCommand(c))
	return cmd
}

func newSignupAboutCommand(c *container.Container) *cobra.Command {
	req := &onboarding.AboutYouRequest{}

	cmd := &cobra.Command{
		Use:   "about",
		Short: "Save the about-you step: name, username, location, status",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = strings.ToLower(strings.TrimSpace(req.Username))
			if err := c.Onboarding.SaveAboutYou(cmd.Context(), req); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved. Next: haven signup kids --ages 5,8")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "family or display name")
	cmd.Flags().StringVar(&req.Username, "username", "", "unique handle, lowercase letters and digits")
	cmd.Flags().StringVar(&req.LocationName, "location", "", "town or area, e.g. 'Fort Collins, CO'")
	cmd.Flags().StringSliceVar(&req.Status, "status", nil, "homeschooling status: considering, new, experienced, connecting")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "short bio (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newSignupKidsCommand(c *container.Container) *cobra.Command {
	req := &onboarding.KidsRequest{}

	cmd := &cobra.Command{
		Use:   "kids",
		Short: "Save the kids step: ages of your children",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Onboarding.SaveKidsAges(cmd.Context(), req); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved. Next: haven signup contact --methods app,email")
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&req.KidsAges, "ages", nil, "ages of your kids, e.g. 5,8,11")
	_ = cmd.MarkFlagRequired("ages")
	return cmd
}

func newSignupContactCommand(c *container.Container) *cobra.Command {
	req := &onboarding.ContactRequest{}

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Save the final step: how other families can reach you",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Onboarding.SaveContactMethods(cmd.Context(), req); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Your profile is complete. Run 'haven discover' to find families.")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&req.ContactMethods, "methods", nil, "contact methods: app, phone, email")
	_ = cmd.MarkFlagRequired("methods")
	return cmd
}

func newResumeCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Show where an interrupted signup should pick up",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.Onboarding.Resume(cmd.Context())
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.Message)
			if state.WizardStep != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Resume at step %d (%s)\n", state.WizardStep, state.Path)
			}
			return nil
		},
	}
}

func newLogoutCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Auth.SignOut(cmd.Context()); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
