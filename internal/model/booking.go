package model

import "time"

// Booking represents a booking request awaiting visitor confirmation.
type Booking struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	ConfirmationToken string    `json:"-"`
	Confirmed         bool      `json:"confirmed"`
	CreatedAt         time.Time `json:"created_at"`
}
