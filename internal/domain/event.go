package domain

import "time"

// Event categories are a closed enumeration.
const (
	EventCategoryPlaydate = "playdate"
	EventCategoryLearning = "learning"
	EventCategoryCoOp     = "co-op"
)

// RSVP statuses.
const (
	RSVPGoing     = "going"
	RSVPMaybe     = "maybe"
	RSVPCancelled = "cancelled"
)

// Event is a gathering hosted by exactly one profile. The exact geocoded
// point is only meaningful when ShowExactLocation is set; otherwise the
// coarse LocationName is all the host shares.
type Event struct {
	ID                string    `json:"id,omitempty"`
	HostID            string    `json:"host_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Category          string    `json:"category"`
	EventDate         string    `json:"event_date"`
	EventTime         string    `json:"event_time"`
	LocationName      string    `json:"location_name"`
	LocationDetails   string    `json:"location_details,omitempty"`
	LocationLat       *float64  `json:"location_lat,omitempty"`
	LocationLng       *float64  `json:"location_lng,omitempty"`
	ShowExactLocation bool      `json:"show_exact_location"`
	AgeRange          string    `json:"age_range,omitempty"`
	MaxAttendees      *int      `json:"max_attendees,omitempty"`
	IsCancelled       bool      `json:"is_cancelled"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// EventRSVP joins an event and a profile. The pair is unique: a second
// RSVP for the same (event, profile) replaces the first rather than adding
// a row.
type EventRSVP struct {
	ID        string    `json:"id,omitempty"`
	EventID   string    `json:"event_id"`
	ProfileID string    `json:"profile_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
