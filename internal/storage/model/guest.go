package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Guest struct {
	ID          uuid.UUID      `db:"id"`
	EventID     uuid.UUID      `db:"event_id"`
	Name        string         `db:"name"`
	Category    string         `db:"category"`
	Phone       sql.NullString `db:"phone"`
	Email       sql.NullString `db:"email"`
	AccessToken string         `db:"access_token"`
	ShortCode   string         `db:"short_code"`
	CreatedAt   time.Time      `db:"created_at"`
}

type Admission struct {
	ID         uuid.UUID `db:"id"`
	GuestID    uuid.UUID `db:"guest_id"`
	OperatorID string    `db:"operator_id"`
	AdmittedAt time.Time `db:"admitted_at"`
}

// GuestUpdate is a partial guest update. Invalid Name and Category keep the
// stored value; Phone and Email are written only when their Set flag is on.
type GuestUpdate struct {
	Name     sql.NullString
	Category sql.NullString
	SetPhone bool
	Phone    sql.NullString
	SetEmail bool
	Email    sql.NullString
}
