package model

import "time"

// Trainer is a staff member who can be assigned to a booking.  The
// hourly rate is only used by the trainer earnings report; the booking
// price itself comes from the pricing matrix.
type Trainer struct {
	ID         uint64    // trainers.id
	Name       string    // trainers.name
	Email      string    // trainers.email (unique)
	HourlyRate float64   // trainers.hourly_rate
	CreatedAt  time.Time // trainers.created_at
}
