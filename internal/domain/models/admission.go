package models

import (
	"time"

	"github.com/google/uuid"
)

// Admission records that a guest was let in. There is at most one per guest.
type Admission struct {
	ID         uuid.UUID `json:"id"`
	GuestID    uuid.UUID `json:"guest_id"`
	OperatorID string    `json:"operator_id"`
	AdmittedAt time.Time `json:"admitted_at"`
}

// GuestAdmitted is the payload of the guest_admitted outbox event.
type GuestAdmitted struct {
	AdmissionID uuid.UUID `json:"admission_id"`
	GuestID     uuid.UUID `json:"guest_id"`
	OperatorID  string    `json:"operator_id"`
	AdmittedAt  time.Time `json:"admitted_at"`
}

const EventTypeGuestAdmitted = "guest_admitted"

// OutboxEvent is a pending message for the broker.
type OutboxEvent struct {
	ID      uuid.UUID
	Type    string
	Payload string
}
