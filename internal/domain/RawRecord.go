package domain

import "time"

// RawRecord is one tenant-scoped payload emitted by upstream ingestion and
// landed in the staging_records table. Records are append-only: a late update
// from the platform arrives as a new record with a newer emission timestamp,
// never as a mutation of an existing one.
type RawRecord struct {
	ID           string
	IngestionID  string
	ConnectionID string
	Source       string
	Payload      []byte
	EmittedAt    time.Time
	ReceivedAt   time.Time
}
