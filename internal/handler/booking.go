package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/model"
	"github.com/ttclub/table-booking/internal/queue"
	"github.com/ttclub/table-booking/internal/repository"
	"github.com/ttclub/table-booking/internal/schedule"
	queue_publisher "github.com/ttclub/table-booking/internal/service"
)

// BookingHandler implements the booking transaction: validate the
// request, detect slot conflicts, compute the price from the current
// pricing matrix and commit, all inside one database transaction.
// The table-row lock taken at the start of the transaction serializes
// concurrent attempts on the same table, so of two conflicting
// requests exactly one commits and the other sees the winner's row in
// its overlap scan.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Customers *repository.CustomerRepo
	Trainers  *repository.TrainerRepo
	Settings  *repository.SettingsRepo
}

// NewBookingHandler constructs a new BookingHandler and panics if any
// dependency is nil.
func NewBookingHandler(bookings *repository.BookingRepo, customers *repository.CustomerRepo, trainers *repository.TrainerRepo, settings *repository.SettingsRepo) *BookingHandler {
	if bookings == nil || customers == nil || trainers == nil || settings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Customers: customers, Trainers: trainers, Settings: settings}
}

const bookingDateFmt = "2006-01-02"

type bookingCreateReq struct {
	CustomerID uint64  `json:"customer_id"`
	TrainerID  *uint64 `json:"trainer_id"`
	TableID    uint64  `json:"table_id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Duration   int     `json:"duration"`
	Info       string  `json:"info"`
}

// decodeMatrix unpacks the settings row's pricing matrix JSON.
func decodeMatrix(raw string) (schedule.PricingMatrix, error) {
	var m schedule.PricingMatrix
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Create handles POST /api/bookings.  Gate order: field presence,
// date/time shape, duration domain, slot conflict, reference lookups,
// price.  A failure at any gate leaves no partial state because the
// insert only happens after every gate inside the same transaction.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.CustomerID == 0 || req.TableID == 0 || req.Date == "" || req.Time == "" || req.Duration == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}
	date, err := time.Parse(bookingDateFmt, req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	if !schedule.SupportedDuration(req.Duration) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
	}
	startMin, endMin, err := schedule.Interval(req.Time, req.Duration)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time"})
	}

	ctx := c.Request().Context()

	// Resolve reference data before opening the transaction to keep
	// the locked section short.
	customer, err := h.Customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.TrainerID != nil {
		if _, err := h.Trainers.GetByID(ctx, *req.TrainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	settings, err := h.Settings.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsMissing) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	matrix, err := decodeMatrix(settings.PricingMatrix)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid pricing matrix"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Bookings.LockTableTx(ctx, tx, req.TableID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	slots, err := h.Bookings.SlotsForTableDateTx(ctx, tx, req.TableID, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if schedule.HasConflict(slots, startMin, endMin, 0) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time slot already booked"})
	}

	b := &model.Booking{
		CustomerID: req.CustomerID,
		TrainerID:  req.TrainerID,
		TableID:    req.TableID,
		Date:       date,
		Time:       req.Time,
		Duration:   req.Duration,
		Price:      schedule.Price(matrix, req.Duration, req.TrainerID != nil, customer.IsAboHolder),
		Info:       req.Info,
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	detail, err := h.Bookings.GetDetail(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Best effort; a broker outage never fails the booking.
	_ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:    detail.ID,
		CustomerID:   detail.CustomerID,
		CustomerName: detail.CustomerName,
		TableID:      detail.TableID,
		TableName:    detail.TableName,
		TrainerName:  detail.TrainerName,
		Date:         detail.Date,
		Time:         detail.Time,
		Duration:     detail.Duration,
		Price:        detail.Price,
		CreatedAt:    detail.CreatedAt,
	})

	return c.JSON(http.StatusCreated, detail)
}

// bookingPatch is the explicit optional-field patch for updates.  A
// nil pointer means the field was absent from the request and keeps
// its current value.  TrainerSet distinguishes "trainer_id": null
// (clear the trainer) from an absent key.
type bookingPatch struct {
	CustomerID *uint64
	TrainerID  *uint64
	TrainerSet bool
	TableID    *uint64
	Date       *string
	Time       *string
	Duration   *int
	Info       *string
}

// repricing reports whether the patch touches a price-relevant field.
// Presence in the request is what matters, matching the commit-time
// snapshot rule: untouched bookings keep their historical price.
func (p bookingPatch) repricing() bool {
	return p.CustomerID != nil || p.TrainerSet || p.Duration != nil
}

// parseBookingPatch decodes a partial update body.  Unknown keys are
// ignored.
func parseBookingPatch(body []byte) (bookingPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return bookingPatch{}, err
	}
	var p bookingPatch
	if v, ok := raw["customer_id"]; ok {
		if err := json.Unmarshal(v, &p.CustomerID); err != nil {
			return bookingPatch{}, err
		}
	}
	if v, ok := raw["trainer_id"]; ok {
		p.TrainerSet = true
		if err := json.Unmarshal(v, &p.TrainerID); err != nil {
			return bookingPatch{}, err
		}
	}
	if v, ok := raw["table_id"]; ok {
		if err := json.Unmarshal(v, &p.TableID); err != nil {
			return bookingPatch{}, err
		}
	}
	if v, ok := raw["date"]; ok {
		if err := json.Unmarshal(v, &p.Date); err != nil {
			return bookingPatch{}, err
		}
	}
	if v, ok := raw["time"]; ok {
		if err := json.Unmarshal(v, &p.Time); err != nil {
			return bookingPatch{}, err
		}
	}
	if v, ok := raw["duration"]; ok {
		if err := json.Unmarshal(v, &p.Duration); err != nil {
			return bookingPatch{}, err
		}
	}
	if v, ok := raw["info"]; ok {
		if err := json.Unmarshal(v, &p.Info); err != nil {
			return bookingPatch{}, err
		}
	}
	return p, nil
}

// mergeBooking applies the patch over the current record and returns
// the merged candidate.  The price is carried over unchanged; the
// update handler recomputes it only when the patch is repricing.
func mergeBooking(current model.Booking, p bookingPatch) (model.Booking, error) {
	merged := current
	if p.CustomerID != nil {
		merged.CustomerID = *p.CustomerID
	}
	if p.TrainerSet {
		merged.TrainerID = p.TrainerID
	}
	if p.TableID != nil {
		merged.TableID = *p.TableID
	}
	if p.Date != nil {
		d, err := time.Parse(bookingDateFmt, *p.Date)
		if err != nil {
			return merged, err
		}
		merged.Date = d
	}
	if p.Time != nil {
		merged.Time = *p.Time
	}
	if p.Duration != nil {
		merged.Duration = *p.Duration
	}
	if p.Info != nil {
		merged.Info = *p.Info
	}
	return merged, nil
}

// Update handles PUT /api/bookings/:id with partial-update semantics:
// absent fields keep their current values, the merged interval is
// re-checked for conflicts excluding the booking itself, and the price
// is recomputed only when a price-relevant field was in the request.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch, err := parseBookingPatch(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	current, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	merged, err := mergeBooking(*current, patch)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	if !schedule.SupportedDuration(merged.Duration) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
	}
	startMin, endMin, err := schedule.Interval(merged.Time, merged.Duration)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time"})
	}

	if merged.TrainerID != nil {
		if _, err := h.Trainers.GetByID(ctx, *merged.TrainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if patch.repricing() {
		customer, err := h.Customers.GetByID(ctx, merged.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		settings, err := h.Settings.Get(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrSettingsMissing) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		matrix, err := decodeMatrix(settings.PricingMatrix)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid pricing matrix"})
		}
		merged.Price = schedule.Price(matrix, merged.Duration, merged.TrainerID != nil, customer.IsAboHolder)
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Bookings.LockTableTx(ctx, tx, merged.TableID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	slots, err := h.Bookings.SlotsForTableDateTx(ctx, tx, merged.TableID, merged.Date.Format(bookingDateFmt))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if schedule.HasConflict(slots, startMin, endMin, merged.ID) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time slot already booked"})
	}

	if err := h.Bookings.UpdateTx(ctx, tx, &merged); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	detail, err := h.Bookings.GetDetail(ctx, merged.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /api/bookings/:id.  Removal is unconditional
// and has no side effects on customers, trainers or tables.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// List handles GET /api/bookings with optional start_date, end_date,
// table_id and trainer_id query filters.
func (h *BookingHandler) List(c echo.Context) error {
	var f repository.BookingFilter
	if v := c.QueryParam("start_date"); v != "" {
		if _, err := time.Parse(bookingDateFmt, v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		f.StartDate = v
	}
	if v := c.QueryParam("end_date"); v != "" {
		if _, err := time.Parse(bookingDateFmt, v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		f.EndDate = v
	}
	if v := c.QueryParam("table_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table_id"})
		}
		f.TableID = id
	}
	if v := c.QueryParam("trainer_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trainer_id"})
		}
		f.TrainerID = id
	}
	details, err := h.Bookings.ListDetails(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, details)
}
