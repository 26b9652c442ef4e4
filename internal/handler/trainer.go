package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/model"
	"github.com/ttclub/table-booking/internal/repository"
)

// TrainerHandler exposes trainer CRUD.
type TrainerHandler struct {
	Trainers *repository.TrainerRepo
}

func NewTrainerHandler(trainers *repository.TrainerRepo) *TrainerHandler {
	return &TrainerHandler{Trainers: trainers}
}

type trainerReq struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	HourlyRate *float64 `json:"hourly_rate"`
}

type trainerResp struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	HourlyRate float64 `json:"hourly_rate"`
	CreatedAt  string  `json:"created_at"`
}

func trainerToResp(t model.Trainer) trainerResp {
	return trainerResp{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		HourlyRate: t.HourlyRate,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /api/trainers.
func (h *TrainerHandler) Create(c echo.Context) error {
	var req trainerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Email == nil || strings.TrimSpace(*req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must not be negative"})
	}
	t := model.Trainer{
		Name:  strings.TrimSpace(*req.Name),
		Email: strings.TrimSpace(*req.Email),
	}
	if req.HourlyRate != nil {
		t.HourlyRate = *req.HourlyRate
	}
	if err := h.Trainers.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create trainer"})
	}
	return c.JSON(http.StatusCreated, trainerToResp(t))
}

// List handles GET /api/trainers.
func (h *TrainerHandler) List(c echo.Context) error {
	trainers, err := h.Trainers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]trainerResp, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, trainerToResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/trainers/:id.
func (h *TrainerHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trainer id"})
	}
	t, err := h.Trainers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, trainerToResp(*t))
}

// Update handles PUT /api/trainers/:id with absent fields keeping
// their current values.
func (h *TrainerHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trainer id"})
	}
	var req trainerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := h.Trainers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		t.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
		}
		t.Email = email
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must not be negative"})
		}
		t.HourlyRate = *req.HourlyRate
	}
	if err := h.Trainers.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, trainerToResp(*t))
}

// Delete handles DELETE /api/trainers/:id.  Bookings staffed by the
// trainer keep their rows; the foreign key nulls the reference.
func (h *TrainerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trainer id"})
	}
	if err := h.Trainers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "trainer deleted"})
}
