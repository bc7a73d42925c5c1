package domain

import "time"

// Donation represents a simulated donor contribution to an NGO.
type Donation struct {
	ID        string
	DonorID   string
	NGOID     string
	Amount    float64
	Campaign  string
	Status    string
	DonatedAt time.Time
	CreatedAt time.Time
}
