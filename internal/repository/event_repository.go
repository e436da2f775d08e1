package repository

import (
	"context"

	"github.com/ERSinclair/haven/internal/domain"
)

type EventRepository interface {
	// ListUpcoming returns non-cancelled events ordered by date ascending.
	ListUpcoming(ctx context.Context) ([]*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	// GoingCount counts RSVPs with status going for the event.
	GoingCount(ctx context.Context, eventID string) (int, error)
	// IsGoing reports whether the profile has a going RSVP for the event.
	IsGoing(ctx context.Context, eventID, profileID string) (bool, error)
	// SetRSVP replaces any existing RSVP row for the (event, profile) pair
	// with one carrying the given status.
	SetRSVP(ctx context.Context, eventID, profileID, status string) error
	// ClearRSVP removes the pair's RSVP row if present.
	ClearRSVP(ctx context.Context, eventID, profileID string) error
}
