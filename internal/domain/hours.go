package domain

import "time"

// HoursEntry is an immutable, append-only record of volunteered time.
// Once written it is never edited: corrections append new entries so the
// running total can only ever be moved by commutative additions.
type HoursEntry struct {
	ID          string
	VolunteerID string
	EventID     string
	Hours       float64
	EntryDate   time.Time
	Notes       string
	CreatedAt   time.Time
}
