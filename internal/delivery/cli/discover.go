package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ERSinclair/haven/internal/infrastructure/container"
	"github.com/ERSinclair/haven/internal/selection"
	"github.com/ERSinclair/haven/internal/usecase/discovery"
)

func newDiscoverCommand(c *container.Container) *cobra.Command {
	var (
		search, location, status string
		minAge, maxAge           int
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Browse homeschooling families near you",
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := c.Discovery.LoadFeed(cmd.Context())
			if err != nil {
				var incomplete *discovery.IncompleteProfileError
				if errors.As(err, &incomplete) {
					fmt.Fprintln(cmd.OutOrStdout(), "Finish your profile first: haven resume")
					return nil
				}
				return friendly(err)
			}

			filter := feed.DefaultFilter()
			filter.Search = search
			filter.Location = location
			if status != "" {
				filter.Status = status
			}
			if cmd.Flags().Changed("min-age") {
				filter.AgeRange.Min = minAge
			}
			if cmd.Flags().Changed("max-age") {
				filter.AgeRange.Max = maxAge
			}

			visible := c.Discovery.Visible(feed, filter)
			if len(visible) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No families match the current filters.")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, p := range visible {
				fmt.Fprintf(out, "%s  %s — %s (kids: %s; status: %s)\n",
					p.ID, p.Name, p.LocationName, joinAges(p.KidsAges), strings.Join(p.Status, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match against name, location, or bio")
	cmd.Flags().StringVar(&location, "location", "", "filter by location substring")
	cmd.Flags().IntVar(&minAge, "min-age", 0, "lower bound of the kids-age window")
	cmd.Flags().IntVar(&maxAge, "max-age", 18, "upper bound of the kids-age window")
	cmd.Flags().StringVar(&status, "status", "", "status tag, or 'all'")

	cmd.AddCommand(newHideCommand(c), newUnhideCommand(c))
	return cmd
}

// newHideCommand batches the given ids through the same select-confirm
// state machine the interactive feed uses: the batch applies in full or
// not at all.
func newHideCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "hide <profile-id> [profile-id...]",
		Short: "Hide families from your feed (local only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := selection.NewManager()
			sel.LongPress(args[0])
			for _, id := range args[1:] {
				sel.Tap(id)
			}
			if err := sel.Confirm(c.Discovery.Hide); err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hidden %d families.\n", len(args))
			return nil
		},
	}
}

func newUnhideCommand(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unhide",
		Short: "Clear the hidden-families list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Discovery.ClearHidden(); err != nil {
				return friendly(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All families are visible again.")
			return nil
		},
	}
}
