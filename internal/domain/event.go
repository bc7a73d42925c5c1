package domain

import "time"

// EventStatus enumerates the event lifecycle.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a volunteering opportunity hosted by an NGO account.
// Invariant: confirmed registrations never exceed Capacity.
type Event struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Location    string
	DateTime    time.Time
	Capacity    int
	Status      EventStatus
	CreatedBy   string
	CreatedAt   time.Time

	// Registered is the confirmed-registration count, populated on reads.
	Registered int
}

// EventUpdate carries a partial event edit; nil fields stay untouched.
// Capacity changes are validated against the confirmed count under the
// event row lock, so an edit can never strand confirmed registrations
// above capacity.
type EventUpdate struct {
	Title       *string
	Description *string
	Location    *string
	DateTime    *time.Time
	Capacity    *int
	Status      *EventStatus
}

// EventSort enumerates supported list orderings.
type EventSort string

const (
	EventSortDate       EventSort = "date"
	EventSortCapacity   EventSort = "capacity"
	EventSortRegistered EventSort = "registered"
)

// EventWindow enumerates the date-window filters.
type EventWindow string

const (
	EventWindowAll EventWindow = "all"
	EventWindow7d  EventWindow = "7d"
	EventWindow30d EventWindow = "30d"
)

// EventFilter narrows ListOpenEvents.
type EventFilter struct {
	Query  string
	Window EventWindow
	Sort   EventSort
}
