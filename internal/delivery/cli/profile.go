package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ERSinclair/haven/internal/infrastructure/container"
	"github.com/ERSinclair/haven/internal/usecase/onboarding"
)

func newProfileCommand(c *container.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := c.Onboarding.MyProfile(cmd.Context())
			if err != nil {
				return friendly(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (@%s)\n", profile.Name, profile.Username)
			fmt.Fprintf(out, "Location: %s\n", profile.LocationName)
			fmt.Fprintf(out, "Status:   %s\n", strings.Join(profile.Status, ", "))
			fmt.Fprintf(out, "Kids:     %s\n", joinAges(profile.KidsAges))
			fmt.Fprintf(out, "Contact:  %s\n", strings.Join(profile.ContactMethods, ", "))
			if profile.Bio != "" {
				fmt.Fprintf(out, "Bio:      %s\n", profile.Bio)
			}
			return nil
		},
	}
	cmd.AddCommand(newProfileEditCommand(c))
	return cmd
}

func newProfileEditCommand(c *container.Container) *cobra.Command {
	var (
		name, location, bio     string
		status, methods, topics []string
		ages                    []int
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update profile fields; unset flags are left as they are",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &onboarding.EditProfileRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("location") {
				req.LocationName = &location
			}
			if cmd.Flags().Changed("bio") {
				req.Bio = &bio
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if cmd.Flags().Changed("ages") {
				req.KidsAges = &ages
			}
			if cmd.Flags().Changed("methods") {
				req.ContactMethods = &methods
			}
			if cmd.Flags().Changed("interests") {
				req.Interests = &topics
			}
			if err := c.Onboarding.EditProfile(cmd.Context(), req); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "family or display name")
	cmd.Flags().StringVar(&location, "location", "", "town or area")
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	cmd.Flags().StringSliceVar(&status, "status", nil, "homeschooling status tags")
	cmd.Flags().IntSliceVar(&ages, "ages", nil, "kids' ages")
	cmd.Flags().StringSliceVar(&methods, "methods", nil, "contact methods: app, phone, email")
	cmd.Flags().StringSliceVar(&topics, "interests", nil, "interest tags")
	return cmd
}

func joinAges(ages []int) string {
	if len(ages) == 0 {
		return "none listed"
	}
	parts := make([]string, len(ages))
	for i, age := range ages {
		parts[i] = fmt.Sprintf("%d", age)
	}
	return strings.Join(parts, ", ")
}
