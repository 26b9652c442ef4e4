package model

import "time"

// Settings is the process-wide configuration singleton.  Exactly one
// row exists (seeded on first start).  PricingMatrix holds the raw
// JSON of the duration/trainer/abo price table; handlers decode it
// into a schedule.PricingMatrix before use.
//
// Fields:
//  ID            – primary key identifier (always the single row).
//  PricingMatrix – JSON-encoded price lookup table.
//  MonthlyRate   – price of one month of abo subscription.
//  Language      – UI language code.
//  UpdatedAt     – timestamp of the last settings update.
type Settings struct {
	ID            uint64    // settings.id
	PricingMatrix string    // settings.pricing_matrix
	MonthlyRate   float64   // settings.monthly_rate
	Language      string    // settings.language
	UpdatedAt     time.Time // settings.updated_at
}
