package domain

import "time"

// Profile is one family's row in the hosted backend. Fields map 1:1 onto
// the backend's profiles table; ids are assigned by the backend at signup.
type Profile struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	LocationName   string    `json:"location_name"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Status         []string  `json:"status"`
	KidsAges       []int     `json:"kids_ages"`
	ContactMethods []string  `json:"contact_methods"`
	Interests      []string  `json:"interests,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	IsVerified     bool      `json:"is_verified"`
	IsBanned       bool      `json:"is_banned"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// HasStatus reports whether tag is one of the profile's status tags.
func (p *Profile) HasStatus(tag string) bool {
	for _, s := range p.Status {
		if s == tag {
			return true
		}
	}
	return false
}

// HasKidInRange reports whether at least one kid age falls inside
// [min, max] inclusive.
func (p *Profile) HasKidInRange(min, max int) bool {
	for _, age := range p.KidsAges {
		if age >= min && age <= max {
			return true
		}
	}
	return false
}

// ProfileSummary is the slim counterpart shape loaded when enriching
// conversations and events.
type ProfileSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LocationName string `json:"location_name"`
}
