package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is the party guests are invited to.
type Event struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Date              string    `json:"date,omitempty"`
	Time              string    `json:"time,omitempty"`
	Venue             string    `json:"venue,omitempty"`
	Honoree           string    `json:"honoree,omitempty"`
	DressCode         string    `json:"dress_code,omitempty"`
	Colors            string    `json:"colors,omitempty"`
	EnabledCategories []string  `json:"enabled_categories,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type Stats struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checked_in"`
	VIP       int `json:"vip"`
	Pending   int `json:"pending"`
}
