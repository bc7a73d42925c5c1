package domain

import "time"

// Role enumerates the account roles supported by the platform.
type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleDonor     Role = "donor"
	RoleNGO       Role = "ngo"
)

// Identity is the resolved caller identity threaded through every core
// operation. It comes from the auth middleware, never from ambient state.
type Identity struct {
	ID       string
	Name     string
	Role     Role
	Verified bool
}

// Profile represents an account plus its volunteer aggregate columns.
// events_joined, hours_volunteered and badges are a materialized view over
// the registration and hours ledgers; they are only ever moved by
// commutative deltas applied in the same transaction as the ledger write.
type Profile struct {
	ID               string
	Name             string
	Email            string
	AvatarURL        string
	Role             Role
	Verified         bool
	EventsJoined     int
	HoursVolunteered float64
	Badges           []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
