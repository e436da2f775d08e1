package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ERSinclair/haven/internal/infrastructure/container"
	"github.com/ERSinclair/haven/internal/usecase/events"
)

func newEventsCommand(c *container.Container) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse and host local events",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.Events.LoadEvents(cmd.Context())
			if err != nil {
				return friendly(err)
			}
			if mine {
				list, err = c.Events.MyEvents(cmd.Context())
				if err != nil {
					return friendly(err)
				}
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No upcoming events. Host one with 'haven events create'.")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, e := range list {
				marker := " "
				if e.Going {
					marker = "✓"
				}
				fmt.Fprintf(out, "%s %s  %s on %s %s at %s — hosted by %s (%d going",
					marker, e.ID, e.Title, e.EventDate, e.EventTime, e.LocationName, e.HostName, e.GoingCount)
				if e.MaxAttendees != nil {
					fmt.Fprintf(out, " of %d", *e.MaxAttendees)
				}
				fmt.Fprintln(out, ")")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only events you host or are going to")

	cmd.AddCommand(newEventsCreateCommand(c), newEventsRSVPCommand(c))
	return cmd
}

func newEventsCreateCommand(c *container.Container) *cobra.Command {
	req := &events.CreateEventRequest{}
	var maxAttendees int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Host a new event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-attendees") {
				req.MaxAttendees = &maxAttendees
			}
			summary, err := c.Events.CreateEvent(cmd.Context(), req)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", summary.Title, summary.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "event title")
	cmd.Flags().StringVar(&req.Description, "description", "", "what to expect")
	cmd.Flags().StringVar(&req.Category, "category", "", "playdate, learning, or co-op")
	cmd.Flags().StringVar(&req.EventDate, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&req.EventTime, "time", "", "start time, e.g. 10:00")
	cmd.Flags().StringVar(&req.LocationName, "location", "", "where it happens")
	cmd.Flags().StringVar(&req.LocationDetails, "location-details", "", "extra directions, shared with attendees")
	cmd.Flags().BoolVar(&req.ShowExactLocation, "show-exact-location", false, "show the precise location to everyone")
	cmd.Flags().StringVar(&req.AgeRange, "age-range", "", "suggested kids' ages, e.g. 5-10")
	cmd.Flags().IntVar(&maxAttendees, "max-attendees", 0, "cap on attendees")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newEventsRSVPCommand(c *container.Container) *cobra.Command {
	var cancel bool

	cmd := &cobra.Command{
		Use:   "rsvp <event-id>",
		Short: "Mark yourself going (or not) to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.Events.LoadEvents(cmd.Context()); err != nil {
				return friendly(err)
			}
			if err := c.Events.SetGoing(cmd.Context(), args[0], !cancel); err != nil {
				return friendly(err)
			}
			if cancel {
				fmt.Fprintln(cmd.OutOrStdout(), "RSVP cancelled.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "You're going.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cancel, "cancel", false, "withdraw your RSVP")
	return cmd
}
