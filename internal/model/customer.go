package model

import "time"

// Customer is a club member who can book tables.  The abo fields
// describe a monthly subscription: IsAboHolder drives subscriber
// pricing at booking time, while AboStart/AboEnd bound the paid window
// and feed the abo report.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – customer display name.
//  Contact     – free-form contact info (phone or email).
//  IsAboHolder – whether subscriber pricing applies.
//  AboStart    – start of the subscription window (nullable).
//  AboEnd      – end of the subscription window (nullable).
//  CreatedAt   – creation timestamp.
type Customer struct {
	ID          uint64     // customers.id
	Name        string     // customers.name
	Contact     string     // customers.contact
	IsAboHolder bool       // customers.is_abo_holder
	AboStart    *time.Time // customers.abo_start (nullable)
	AboEnd      *time.Time // customers.abo_end (nullable)
	CreatedAt   time.Time  // customers.created_at
}
