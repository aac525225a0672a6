package models

import (
	"time"

	"github.com/google/uuid"
)

type OutcomeKind string

const (
	OutcomeAdmitted        OutcomeKind = "admitted"
	OutcomeAlreadyAdmitted OutcomeKind = "already_admitted"
	OutcomeNotFound        OutcomeKind = "not_found"
	OutcomeInvalidInput    OutcomeKind = "invalid_input"
)

// Outcome is the answer to one scan. Guest and Timestamp are set for
// admitted and already admitted outcomes only; for a duplicate Timestamp is
// the original admission time.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	Guest     GuestCard   `json:"guest"`
	Timestamp time.Time   `json:"timestamp"`
}

func Admitted(guest GuestCard, at time.Time) Outcome {
	return Outcome{Kind: OutcomeAdmitted, Guest: guest, Timestamp: at}
}

func AlreadyAdmitted(guest GuestCard, originalAt time.Time) Outcome {
	return Outcome{Kind: OutcomeAlreadyAdmitted, Guest: guest, Timestamp: originalAt}
}

func NotFound() Outcome { return Outcome{Kind: OutcomeNotFound} }

func InvalidInput() Outcome { return Outcome{Kind: OutcomeInvalidInput} }

// ScanRecord is one entry of the scan audit log.
type ScanRecord struct {
	OperatorID string
	Token      string
	Kind       OutcomeKind
	GuestID    uuid.UUID
	Error      string
	ScannedAt  time.Time
}
