package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"10:30", 630, false},
		{"23:59", 1439, false},
		{" 09:15 ", 555, false},
		{"24:00", 0, true},
		{"10:60", 0, true},
		{"1030", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestInterval(t *testing.T) {
	start, end, err := Interval("10:00", 60)
	assert.NoError(t, err)
	assert.Equal(t, 600, start)
	assert.Equal(t, 660, end)

	_, _, err = Interval("23:45", 30)
	assert.Error(t, err, "crossing midnight is rejected")

	start, end, err = Interval("23:00", 60)
	assert.NoError(t, err, "ending exactly at midnight is allowed")
	assert.Equal(t, 1380, start)
	assert.Equal(t, 1440, end)

	_, _, err = Interval("10:00", 0)
	assert.Error(t, err)
}

func TestSupportedDuration(t *testing.T) {
	assert.True(t, SupportedDuration(30))
	assert.True(t, SupportedDuration(60))
	assert.False(t, SupportedDuration(45))
	assert.False(t, SupportedDuration(90))
	assert.False(t, SupportedDuration(0))
}

func TestOverlaps(t *testing.T) {
	// 10:00-11:00 vs 10:30-11:30 conflict in both orders.
	assert.True(t, Overlaps(600, 660, 630, 690))
	assert.True(t, Overlaps(630, 690, 600, 660))

	// Back-to-back slots share a boundary and do not conflict.
	assert.False(t, Overlaps(600, 660, 660, 720))
	assert.False(t, Overlaps(660, 720, 600, 660))

	// Containment conflicts.
	assert.True(t, Overlaps(600, 720, 630, 660))
	assert.True(t, Overlaps(630, 660, 600, 720))

	// Disjoint intervals do not.
	assert.False(t, Overlaps(600, 660, 720, 780))
}

func TestHasConflict(t *testing.T) {
	existing := []Slot{
		{ID: 1, StartMin: 600, EndMin: 660},
		{ID: 2, StartMin: 720, EndMin: 750},
	}

	assert.True(t, HasConflict(existing, 630, 690, 0))
	assert.False(t, HasConflict(existing, 660, 720, 0), "exactly between the two slots")

	// Excluding a slot lets an update overlap itself.
	assert.False(t, HasConflict(existing, 600, 660, 1))
	assert.True(t, HasConflict(existing, 600, 660, 2))

	assert.False(t, HasConflict(nil, 600, 660, 0))
}

func TestPriceKey(t *testing.T) {
	assert.Equal(t, "60_trainer_abo", PriceKey(60, true, true))
	assert.Equal(t, "30_no_trainer_no_abo", PriceKey(30, false, false))
	assert.Equal(t, "60_no_trainer_abo", PriceKey(60, false, true))
	assert.Equal(t, "30_trainer_no_abo", PriceKey(30, true, false))
}

func TestPrice(t *testing.T) {
	m := PricingMatrix{
		"60_trainer_abo":       35,
		"60_trainer_no_abo":    45,
		"30_no_trainer_no_abo": 12,
	}
	assert.Equal(t, 35.0, Price(m, 60, true, true))
	assert.Equal(t, 45.0, Price(m, 60, true, false))
	assert.Equal(t, 12.0, Price(m, 30, false, false))

	// Unconfigured combinations resolve to zero, not an error.
	assert.Equal(t, 0.0, Price(m, 30, true, true))
	assert.Equal(t, 0.0, Price(nil, 60, true, true))
}
