package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthRange(t *testing.T) {
	start, end := monthRange(2026, 3)
	assert.Equal(t, "2026-03-01", start)
	assert.Equal(t, "2026-03-31", end)

	// Leap-year February.
	start, end = monthRange(2028, 2)
	assert.Equal(t, "2028-02-01", start)
	assert.Equal(t, "2028-02-29", end)

	start, end = monthRange(2026, 2)
	assert.Equal(t, "2026-02-01", start)
	assert.Equal(t, "2026-02-28", end)

	start, end = monthRange(2026, 12)
	assert.Equal(t, "2026-12-01", start)
	assert.Equal(t, "2026-12-31", end)
}

func TestParseOptDate(t *testing.T) {
	d, set, err := parseOptDate(nil)
	assert.NoError(t, err)
	assert.False(t, set)
	assert.Nil(t, d)

	empty := ""
	d, set, err = parseOptDate(&empty)
	assert.NoError(t, err)
	assert.True(t, set, "empty string clears the stored date")
	assert.Nil(t, d)

	val := "2026-03-01"
	d, set, err = parseOptDate(&val)
	assert.NoError(t, err)
	assert.True(t, set)
	if assert.NotNil(t, d) {
		assert.Equal(t, "2026-03-01", d.Format(bookingDateFmt))
	}

	bad := "01.03.2026"
	_, _, err = parseOptDate(&bad)
	assert.Error(t, err)
}
