package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryRegular = "Regular"
	CategoryVIP     = "VIP"
)

// Guest is the full guest record, including contact details. It never leaves
// the admin surface.
type Guest struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	AccessToken string    `json:"access_token"`
	ShortCode   string    `json:"short_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// GuestCard is what a scanning device is allowed to see about a guest.
type GuestCard struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// PublicCard backs the guest's own card page.
type PublicCard struct {
	Guest     GuestCard `json:"guest"`
	Event     Event     `json:"event"`
	ShortCode string    `json:"short_code"`
}

func (g Guest) Card() GuestCard {
	return GuestCard{ID: g.ID, Name: g.Name, Category: g.Category}
}

// GuestUpdate holds the editable guest fields. Nil fields are left as they
// are; the access token and short code never change.
type GuestUpdate struct {
	Name     *string
	Category *string
	Phone    *string
	Email    *string
}

// RosterEntry is a guest with their check-in status.
type RosterEntry struct {
	Guest
	CheckedIn  bool       `json:"checked_in"`
	AdmittedAt *time.Time `json:"admitted_at,omitempty"`
}
