// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a booking commits. It carries
// the resolved names alongside the ids so downstream consumers can
// notify or log without querying the primary database.
type BookingCreatedEvent struct {
	BookingID    uint64  `json:"booking_id"`
	CustomerID   uint64  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	TableID      uint64  `json:"table_id"`
	TableName    string  `json:"table_name"`
	TrainerName  *string `json:"trainer_name"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Duration     int     `json:"duration"`
	Price        float64 `json:"price"`
	CreatedAt    string  `json:"created_at"`
}
