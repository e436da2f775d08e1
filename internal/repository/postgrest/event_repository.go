package postgrest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/repository"
)

type EventRepository struct {
	client *Client
}

func NewEventRepository(client *Client) repository.EventRepository {
	return &EventRepository{client: client}
}

func (r *EventRepository) ListUpcoming(ctx context.Context) ([]*domain.Event, error) {
	query := url.Values{}
	query.Set("is_cancelled", eq("false"))
	query.Set("select", "*")
	query.Set("order", "event_date.asc")

	var rows []*domain.Event
	if err := r.client.Select(ctx, "events", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return rows, nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	var rows []*domain.Event
	if err := r.client.Insert(ctx, "events", event, &rows); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backend returned no representation for created event")
	}
	return rows[0], nil
}

func (r *EventRepository) GoingCount(ctx context.Context, eventID string) (int, error) {
	query := url.Values{}
	query.Set("event_id", eq(eventID))
	query.Set("status", eq(domain.RSVPGoing))
	query.Set("select", "id")

	var rows []*domain.EventRSVP
	if err := r.client.Select(ctx, "event_rsvps", query, &rows); err != nil {
		return 0, fmt.Errorf("failed to count rsvps: %w", err)
	}
	return len(rows), nil
}

func (r *EventRepository) IsGoing(ctx context.Context, eventID, profileID string) (bool, error) {
	query := url.Values{}
	query.Set("event_id", eq(eventID))
	query.Set("profile_id", eq(profileID))
	query.Set("status", eq(domain.RSVPGoing))
	query.Set("select", "id")

	var rows []*domain.EventRSVP
	if err := r.client.Select(ctx, "event_rsvps", query, &rows); err != nil {
		return false, fmt.Errorf("failed to check rsvp: %w", err)
	}
	return len(rows) > 0, nil
}

func (r *EventRepository) SetRSVP(ctx context.Context, eventID, profileID, status string) error {
	// Replace, never duplicate: the (event, profile) pair is unique, so any
	// existing row goes first.
	if err := r.ClearRSVP(ctx, eventID, profileID); err != nil {
		return err
	}
	rsvp := &domain.EventRSVP{
		EventID:   eventID,
		ProfileID: profileID,
		Status:    status,
	}
	if err := r.client.Insert(ctx, "event_rsvps", rsvp, nil); err != nil {
		return fmt.Errorf("failed to save rsvp: %w", err)
	}
	return nil
}

func (r *EventRepository) ClearRSVP(ctx context.Context, eventID, profileID string) error {
	query := url.Values{}
	query.Set("event_id", eq(eventID))
	query.Set("profile_id", eq(profileID))
	if err := r.client.Delete(ctx, "event_rsvps", query); err != nil {
		return fmt.Errorf("failed to clear rsvp: %w", err)
	}
	return nil
}
