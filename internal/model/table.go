package model

import "time"

// Table is a physical bookable table.  It carries no schedule state of
// its own; occupancy is derived from the bookings on it.
type Table struct {
	ID        uint64    // tables.id
	Name      string    // tables.name
	CreatedAt time.Time // tables.created_at
}
