package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/ttclub/table-booking/internal/model"
)

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, h(c))
	return rec
}

func TestBookingCreateValidation(t *testing.T) {
	h := &BookingHandler{}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{"customer_id": 1}`, "missing required fields"},
		{"bad date", `{"customer_id":1,"table_id":1,"date":"03/01/2026","time":"10:00","duration":60}`, "invalid date"},
		{"bad duration", `{"customer_id":1,"table_id":1,"date":"2026-03-01","time":"10:00","duration":45}`, "invalid duration"},
		{"bad time", `{"customer_id":1,"table_id":1,"date":"2026-03-01","time":"25:00","duration":60}`, "invalid time"},
		{"crosses midnight", `{"customer_id":1,"table_id":1,"date":"2026-03-01","time":"23:45","duration":30}`, "invalid time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Create, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.want, resp["error"])
		})
	}
}

func TestBookingUpdateInvalidID(t *testing.T) {
	h := &BookingHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseBookingPatch(t *testing.T) {
	p, err := parseBookingPatch([]byte(`{"duration": 30, "info": "rescheduled"}`))
	assert.NoError(t, err)
	assert.NotNil(t, p.Duration)
	assert.Equal(t, 30, *p.Duration)
	assert.NotNil(t, p.Info)
	assert.Equal(t, "rescheduled", *p.Info)
	assert.Nil(t, p.CustomerID)
	assert.False(t, p.TrainerSet)
}

func TestParseBookingPatchTrainerNull(t *testing.T) {
	// "trainer_id": null clears the trainer and is distinct from an
	// absent key.
	p, err := parseBookingPatch([]byte(`{"trainer_id": null}`))
	assert.NoError(t, err)
	assert.True(t, p.TrainerSet)
	assert.Nil(t, p.TrainerID)

	p, err = parseBookingPatch([]byte(`{"time": "11:00"}`))
	assert.NoError(t, err)
	assert.False(t, p.TrainerSet)
}

func TestParseBookingPatchBadJSON(t *testing.T) {
	_, err := parseBookingPatch([]byte(`{"duration": "sixty"}`))
	assert.Error(t, err)

	_, err = parseBookingPatch([]byte(`not json`))
	assert.Error(t, err)
}

func TestBookingPatchRepricing(t *testing.T) {
	dur := 30
	cust := uint64(2)

	assert.True(t, bookingPatch{Duration: &dur}.repricing())
	assert.True(t, bookingPatch{CustomerID: &cust}.repricing())
	assert.True(t, bookingPatch{TrainerSet: true}.repricing())

	info := "note"
	tm := "11:00"
	assert.False(t, bookingPatch{Info: &info, Time: &tm}.repricing(),
		"moving a booking keeps its historical price")
}

func TestMergeBooking(t *testing.T) {
	trainer := uint64(7)
	current := model.Booking{
		ID:         3,
		CustomerID: 1,
		TrainerID:  &trainer,
		TableID:    2,
		Date:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Time:       "10:00",
		Duration:   60,
		Price:      45,
		Info:       "weekly",
	}

	newTime := "14:30"
	newDur := 30
	merged, err := mergeBooking(current, bookingPatch{Time: &newTime, Duration: &newDur})
	assert.NoError(t, err)
	assert.Equal(t, "14:30", merged.Time)
	assert.Equal(t, 30, merged.Duration)
	assert.Equal(t, current.CustomerID, merged.CustomerID)
	assert.Equal(t, current.TrainerID, merged.TrainerID)
	assert.Equal(t, current.Price, merged.Price, "merge never touches the price")

	// Clearing the trainer.
	merged, err = mergeBooking(current, bookingPatch{TrainerSet: true})
	assert.NoError(t, err)
	assert.Nil(t, merged.TrainerID)

	// Bad date in the patch.
	bad := "01.03.2026"
	_, err = mergeBooking(current, bookingPatch{Date: &bad})
	assert.Error(t, err)
}
