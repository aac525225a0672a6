package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a party row.
type Event struct {
	ID                uuid.UUID      `db:"id"`
	Name              string         `db:"name"`
	Date              sql.NullString `db:"date"`
	Time              sql.NullString `db:"time"`
	Venue             sql.NullString `db:"venue"`
	Honoree           sql.NullString `db:"honoree"`
	DressCode         sql.NullString `db:"dress_code"`
	Colors            sql.NullString `db:"colors"`
	EnabledCategories sql.NullString `db:"enabled_categories"`
	CreatedAt         time.Time      `db:"created_at"`
}

// OutboxEvent is a row of the transactional outbox.
type OutboxEvent struct {
	ID         uuid.UUID    `db:"id"`
	Type       string       `db:"event_type"`
	Payload    string       `db:"payload"`
	Status     string       `db:"status"`
	CreatedAt  time.Time    `db:"created_at"`
	ReservedTo sql.NullTime `db:"reserved_to"`
}
