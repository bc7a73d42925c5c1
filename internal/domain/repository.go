package domain

import (
	"context"
	"time"
)

// EventRepository defines persistence for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	// Update applies a partial edit under the event row lock; shrinking
	// capacity below the confirmed count fails with ErrCapacityExceeded.
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	ListOpen(ctx context.Context, filter EventFilter) ([]Event, error)
}

// RegistrationRepository is the capacity ledger plus the registration rows
// it guards. RegisterConfirmed is the atomic check-and-reserve primitive:
// the capacity check and the insert happen inside one transaction holding
// the event row lock, so confirmed rows can never overshoot capacity.
type RegistrationRepository interface {
	RegisterConfirmed(ctx context.Context, eventID, volunteerID string) (*RegistrationOutcome, error)
	Cancel(ctx context.Context, eventID, volunteerID string) (cancelled bool, err error)
	MarkAttended(ctx context.Context, eventID, volunteerID string) error
	ConfirmedCount(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]Registration, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]Registration, error)
}

// HoursRepository appends immutable time entries; the append and the
// aggregate delta are one transaction.
type HoursRepository interface {
	Append(ctx context.Context, entry *HoursEntry) (*HoursEntry, error)
	SumByVolunteer(ctx context.Context, volunteerID string) (float64, error)
}

// ProfileRepository reads aggregate projections.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	TopVolunteers(ctx context.Context, n int) ([]Profile, error)
}

// NotificationRepository persists notifications with exactly-once semantics
// keyed on the dedupe key.
type NotificationRepository interface {
	// CreateOnce inserts the notification unless one with the same dedupe
	// key already exists. It reports whether a row was actually created.
	CreateOnce(ctx context.Context, n *Notification) (created bool, err error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// DonationRepository persists donations. CreateWithNotifications writes the
// donation and its notifications in a single transaction: either all rows
// commit or none do.
type DonationRepository interface {
	CreateWithNotifications(ctx context.Context, donation *Donation, notifications []Notification) (*Donation, error)
	ListByDonor(ctx context.Context, donorID string) ([]Donation, error)
}

// Clock abstracts time for services that validate against "now".
type Clock func() time.Time
