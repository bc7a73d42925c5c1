package domain

import "time"

// NotificationKind enumerates notification categories.
type NotificationKind string

const (
	NotificationDonation     NotificationKind = "donation"
	NotificationRegistration NotificationKind = "registration"
	NotificationHours        NotificationKind = "hours"
	NotificationSystem       NotificationKind = "system"
)

// Notification is a durable per-recipient record produced exactly once per
// triggering domain event. The dedupe key is derived from the triggering
// entity so retried dispatches collapse onto the existing row. The only
// legal mutation after creation is flipping Read to true.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Kind      NotificationKind
	RelatedID string
	DedupeKey string
	Read      bool
	CreatedAt time.Time
}
