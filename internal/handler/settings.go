package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/model"
	"github.com/ttclub/table-booking/internal/repository"
	"github.com/ttclub/table-booking/internal/schedule"
)

// SettingsHandler exposes the configuration singleton.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(settings *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: settings}
}

type settingsResp struct {
	PricingMatrix schedule.PricingMatrix `json:"pricing_matrix"`
	MonthlyRate   float64                `json:"monthly_rate"`
	Language      string                 `json:"language"`
	UpdatedAt     string                 `json:"updated_at"`
}

func settingsToResp(s model.Settings) (settingsResp, error) {
	matrix, err := decodeMatrix(s.PricingMatrix)
	if err != nil {
		return settingsResp{}, err
	}
	return settingsResp{
		PricingMatrix: matrix,
		MonthlyRate:   s.MonthlyRate,
		Language:      s.Language,
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(c echo.Context) error {
	s, err := h.Settings.Get(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrSettingsMissing) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resp, err := settingsToResp(*s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid pricing matrix"})
	}
	return c.JSON(http.StatusOK, resp)
}

type settingsReq struct {
	PricingMatrix *schedule.PricingMatrix `json:"pricing_matrix"`
	MonthlyRate   *float64                `json:"monthly_rate"`
	Language      *string                 `json:"language"`
}

// Update handles PUT /api/settings.  Absent fields keep their current
// values; a provided pricing matrix replaces the stored one wholesale.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	s, err := h.Settings.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsMissing) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.PricingMatrix != nil {
		raw, err := json.Marshal(*req.PricingMatrix)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pricing matrix"})
		}
		s.PricingMatrix = string(raw)
	}
	if req.MonthlyRate != nil {
		if *req.MonthlyRate < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "monthly_rate must not be negative"})
		}
		s.MonthlyRate = *req.MonthlyRate
	}
	if req.Language != nil {
		s.Language = *req.Language
	}
	if err := h.Settings.Update(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	resp, err := settingsToResp(*s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid pricing matrix"})
	}
	return c.JSON(http.StatusOK, resp)
}
