package events

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository"
)

// EventSummary is one feed entry: the event row enriched with the host's
// name, the going count, and whether the viewer is going.
type EventSummary struct {
	*domain.Event
	HostName   string `json:"host_name"`
	GoingCount int    `json:"going_count"`
	Going      bool   `json:"going"`
}

// EventsUseCase lists events and manages RSVPs. The local going count only
// moves on a confirmed net state change, so toggling the same state twice
// never double-counts.
type EventsUseCase struct {
	eventRepo   repository.EventRepository
	profileRepo repository.ProfileRepository
	sessions    *session.Accessor
	validate    *validator.Validate
	log         *zap.Logger

	events []*EventSummary
}

func NewEventsUseCase(
	eventRepo repository.EventRepository,
	profileRepo repository.ProfileRepository,
	sessions *session.Accessor,
	log *zap.Logger,
) *EventsUseCase {
	return &EventsUseCase{
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
		sessions:    sessions,
		validate:    validator.New(),
		log:         log,
	}
}

// LoadEvents fetches upcoming events and enriches each one. Per-event
// enrichment fails soft: a host lookup or count that errors leaves
// placeholder values rather than dropping the event.
func (uc *EventsUseCase) LoadEvents(ctx context.Context) ([]*EventSummary, error) {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}

	rows, err := uc.eventRepo.ListUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*EventSummary, 0, len(rows))
	for _, event := range rows {
		summary := &EventSummary{Event: event, HostName: "A Haven family"}

		if host, err := uc.profileRepo.GetSummary(ctx, event.HostID); err == nil {
			summary.HostName = host.Name
		} else {
			uc.log.Warn("failed to load event host", zap.String("event", event.ID), zap.Error(err))
		}
		if count, err := uc.eventRepo.GoingCount(ctx, event.ID); err == nil {
			summary.GoingCount = count
		} else {
			uc.log.Warn("failed to count rsvps", zap.String("event", event.ID), zap.Error(err))
		}
		if going, err := uc.eventRepo.IsGoing(ctx, event.ID, userID); err == nil {
			summary.Going = going
		} else {
			uc.log.Warn("failed to check own rsvp", zap.String("event", event.ID), zap.Error(err))
		}

		summaries = append(summaries, summary)
	}

	uc.events = summaries
	return summaries, nil
}

// Events returns the cached list.
func (uc *EventsUseCase) Events() []*EventSummary {
	return uc.events
}

// MyEvents returns cached events the viewer hosts or is going to.
func (uc *EventsUseCase) MyEvents(ctx context.Context) ([]*EventSummary, error) {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}
	mine := make([]*EventSummary, 0)
	for _, summary := range uc.events {
		if summary.Going || summary.HostID == userID {
			mine = append(mine, summary)
		}
	}
	return mine, nil
}

// CreateEventRequest carries a new event.
type CreateEventRequest struct {
	Title             string `json:"title" validate:"required,min=3,max=120"`
	Description       string `json:"description" validate:"omitempty,max=1000"`
	Category          string `json:"category" validate:"required,oneof=playdate learning co-op"`
	EventDate         string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime         string `json:"event_time" validate:"required"`
	LocationName      string `json:"location_name" validate:"required,max=120"`
	LocationDetails   string `json:"location_details" validate:"omitempty,max=500"`
	ShowExactLocation bool   `json:"show_exact_location"`
	AgeRange          string `json:"age_range" validate:"omitempty,max=40"`
	MaxAttendees      *int   `json:"max_attendees" validate:"omitempty,gte=1"`
}

// CreateEvent validates locally, creates the event, and appends it to the
// cached list only after the backend confirms it.
func (uc *EventsUseCase) CreateEvent(ctx context.Context, req *CreateEventRequest) (*EventSummary, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}

	created, err := uc.eventRepo.Create(ctx, &domain.Event{
		HostID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		EventDate:         req.EventDate,
		EventTime:         req.EventTime,
		LocationName:      req.LocationName,
		LocationDetails:   req.LocationDetails,
		ShowExactLocation: req.ShowExactLocation,
		AgeRange:          req.AgeRange,
		MaxAttendees:      req.MaxAttendees,
	})
	if err != nil {
		return nil, err
	}

	summary := &EventSummary{Event: created, Going: false, GoingCount: 0}
	if host, err := uc.profileRepo.GetSummary(ctx, userID); err == nil {
		summary.HostName = host.Name
	}
	uc.events = append(uc.events, summary)
	return summary, nil
}

// SetGoing toggles the viewer's RSVP. Idempotent per (event, profile):
// asking for the state the viewer is already in is a no-op, and the local
// count changes by exactly one per net state change, after the backend
// confirms.
func (uc *EventsUseCase) SetGoing(ctx context.Context, eventID string, going bool) error {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return err
	}

	var summary *EventSummary
	for _, s := range uc.events {
		if s.ID == eventID {
			summary = s
			break
		}
	}
	if summary == nil {
		return domain.ErrEventNotFound
	}
	if summary.Going == going {
		return nil
	}
	if going && summary.MaxAttendees != nil && summary.GoingCount >= *summary.MaxAttendees {
		return domain.ErrEventFull
	}

	if going {
		err = uc.eventRepo.SetRSVP(ctx, eventID, userID, domain.RSVPGoing)
	} else {
		err = uc.eventRepo.ClearRSVP(ctx, eventID, userID)
	}
	if err != nil {
		return err
	}

	summary.Going = going
	if going {
		summary.GoingCount++
	} else if summary.GoingCount > 0 {
		summary.GoingCount--
	}
	return nil
}
