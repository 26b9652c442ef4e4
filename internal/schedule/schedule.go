// Package schedule contains the pure booking core: interval arithmetic
// for detecting slot conflicts and the pricing lookup used when a
// booking is committed.  Nothing in this package touches the database;
// callers fetch the relevant rows and the pricing matrix and pass them
// in.  This keeps both functions trivially reusable for availability
// previews and reports.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// supportedDurations enumerates the slot lengths the club offers,
// in minutes.  The booking transaction rejects anything else before
// the overlap check runs.
var supportedDurations = map[int]bool{30: true, 60: true}

// SupportedDuration reports whether d is one of the bookable slot
// lengths.
func SupportedDuration(d int) bool { return supportedDurations[d] }

// ParseClock converts an "HH:MM" string into a minute-of-day value.
// It rejects malformed strings and out-of-range components.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// Interval computes the half-open interval [start, start+duration) in
// minutes of day for a booking starting at the "HH:MM" clock time.
// Duration must be strictly positive and the interval must not cross
// midnight; a booking never spans two dates.
func Interval(start string, duration int) (int, int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	if duration <= 0 {
		return 0, 0, fmt.Errorf("invalid duration %d", duration)
	}
	end := s + duration
	if end > 24*60 {
		return 0, 0, fmt.Errorf("booking crosses midnight")
	}
	return s, end, nil
}

// Overlaps is the strict half-open interval test.  Two bookings
// conflict iff one starts before the other ends and ends after the
// other starts; equal boundaries (back-to-back slots) do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// Slot is an already-booked interval on some table and date, reduced
// to what the conflict scan needs.
type Slot struct {
	ID       uint64
	StartMin int
	EndMin   int
}

// HasConflict reports whether the candidate interval [startMin, endMin)
// overlaps any existing slot.  A slot whose ID equals excludeID is
// skipped, which lets an update be checked against everyone but itself.
// Pass excludeID 0 when creating.
func HasConflict(existing []Slot, startMin, endMin int, excludeID uint64) bool {
	for _, s := range existing {
		if excludeID != 0 && s.ID == excludeID {
			continue
		}
		if Overlaps(startMin, endMin, s.StartMin, s.EndMin) {
			return true
		}
	}
	return false
}

// PricingMatrix maps composite keys of the form
// "{duration}_{trainer|no_trainer}_{abo|no_abo}" to prices.  It is the
// decoded form of the settings row's pricing_matrix column.
type PricingMatrix map[string]float64

// PriceKey builds the lookup key for a duration, trainer flag and abo
// flag.
func PriceKey(duration int, hasTrainer, isAbo bool) string {
	trainer := "no_trainer"
	if hasTrainer {
		trainer = "trainer"
	}
	abo := "no_abo"
	if isAbo {
		abo = "abo"
	}
	return fmt.Sprintf("%d_%s_%s", duration, trainer, abo)
}

// Price resolves the price for a booking from the matrix.  A missing
// key resolves to 0.0 rather than an error: an unconfigured combination
// is booked for free, and it is up to the operator to fill the matrix
// in.  No rounding is applied here.
func Price(m PricingMatrix, duration int, hasTrainer, isAbo bool) float64 {
	return m[PriceKey(duration, hasTrainer, isAbo)]
}
