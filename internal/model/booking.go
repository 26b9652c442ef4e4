package model

import "time"

// Booking records one reserved interval on one table.  The price is a
// snapshot of what the pricing matrix produced when the booking was
// created or last re-priced; it is never recomputed on read.
//
// Fields:
//  ID         – primary key identifier.
//  CustomerID – customer the slot is booked for.
//  TrainerID  – optional trainer staffing the slot.
//  TableID    – table being reserved.
//  Date       – calendar date of the slot (naive local date).
//  Time       – start time in "HH:MM" form, minute precision.
//  Duration   – slot length in minutes (30 or 60).
//  Price      – price computed at commit time.
//  Info       – free-text note.
//  CreatedAt  – creation timestamp.
type Booking struct {
	ID         uint64    // bookings.id
	CustomerID uint64    // bookings.customer_id
	TrainerID  *uint64   // bookings.trainer_id (nullable)
	TableID    uint64    // bookings.table_id
	Date       time.Time // bookings.date
	Time       string    // bookings.time
	Duration   int       // bookings.duration
	Price      float64   // bookings.price
	Info       string    // bookings.info
	CreatedAt  time.Time // bookings.created_at
}

// BookingDetail is a booking joined with the names of its customer,
// trainer and table plus the customer's abo flag, as returned by list
// and get endpoints.  TrainerHourlyRate is carried for the trainer
// earnings report and omitted from JSON.
type BookingDetail struct {
	ID                uint64   `json:"id"`
	CustomerID        uint64   `json:"customer_id"`
	CustomerName      string   `json:"customer_name"`
	TrainerID         *uint64  `json:"trainer_id"`
	TrainerName       *string  `json:"trainer_name"`
	TableID           uint64   `json:"table_id"`
	TableName         string   `json:"table_name"`
	Date              string   `json:"date"`
	Time              string   `json:"time"`
	Duration          int      `json:"duration"`
	Price             float64  `json:"price"`
	Info              string   `json:"info"`
	IsAbo             bool     `json:"is_abo"`
	CreatedAt         string   `json:"created_at"`
	TrainerHourlyRate *float64 `json:"-"`
}
