package model

import "time"

// ScanDocument is a scan audit entry as stored in mongo.
type ScanDocument struct {
	OperatorID string    `bson:"operator_id"`
	Token      string    `bson:"token"`
	Kind       string    `bson:"kind"`
	GuestID    string    `bson:"guest_id,omitempty"`
	Error      string    `bson:"error,omitempty"`
	ScannedAt  time.Time `bson:"scanned_at"`
}
