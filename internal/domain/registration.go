package domain

import "time"

// RegistrationStatus enumerates the registration lifecycle. Rows are never
// deleted; cancellation flips the status and keeps the history.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationAttended  RegistrationStatus = "attended"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Active reports whether the status occupies the volunteer's single
// registration slot for an event.
func (s RegistrationStatus) Active() bool {
	switch s {
	case RegistrationPending, RegistrationConfirmed, RegistrationAttended:
		return true
	}
	return false
}

// Registration ties a volunteer to an event. At most one row exists per
// (event, volunteer) pair.
type Registration struct {
	ID           string
	EventID      string
	VolunteerID  string
	Status       RegistrationStatus
	RegisteredAt time.Time

	// Joined profile fields, populated by ListByEvent.
	VolunteerName  string
	VolunteerEmail string
	AvatarURL      string

	// Joined event fields, populated by ListByVolunteer.
	EventTitle    string
	EventDateTime time.Time
}

// RegistrationOutcome is the result of a Register call.
type RegistrationOutcome struct {
	Registration *Registration
	// Revived is true when a previously cancelled row was flipped back to
	// confirmed instead of a new row being inserted.
	Revived bool
}
