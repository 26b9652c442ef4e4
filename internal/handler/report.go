package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/report"
	"github.com/ttclub/table-booking/internal/repository"
)

// ReportHandler serves the earnings, trainer, abo and customer
// rollups.  The heavy lifting lives in internal/report; this layer
// parses periods, fetches rows and shapes responses.
type ReportHandler struct {
	Bookings     *repository.BookingRepo
	CustomerRepo *repository.CustomerRepo
	Settings     *repository.SettingsRepo
}

func NewReportHandler(bookings *repository.BookingRepo, customers *repository.CustomerRepo, settings *repository.SettingsRepo) *ReportHandler {
	return &ReportHandler{Bookings: bookings, CustomerRepo: customers, Settings: settings}
}

// monthRange returns the first and last day of a month as date
// strings.
func monthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(bookingDateFmt), last.Format(bookingDateFmt)
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// Daily handles GET /api/reports/daily?date=.  Defaults to today.
func (h *ReportHandler) Daily(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(bookingDateFmt)
	} else if _, err := time.Parse(bookingDateFmt, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	rows, err := h.Bookings.ListDetails(c.Request().Context(), repository.BookingFilter{StartDate: date, EndDate: date})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s := report.Summarize(rows)
	return c.JSON(http.StatusOK, echo.Map{
		"date":          date,
		"earnings":      s.Earnings,
		"total":         s.Total,
		"booking_count": s.BookingCount,
	})
}

// Monthly handles GET /api/reports/monthly?year=&month=.  On top of
// the booking rollup it adds the abo subscriptions sold that month
// times the monthly rate.
func (h *ReportHandler) Monthly(c echo.Context) error {
	now := time.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil || month < 1 || month > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
	}
	start, end := monthRange(year, month)

	ctx := c.Request().Context()
	rows, err := h.Bookings.ListDetails(ctx, repository.BookingFilter{StartDate: start, EndDate: end})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s := report.Summarize(rows)

	aboCount, err := h.CustomerRepo.CountAboStartedIn(ctx, year, month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var monthlyRate float64
	if settings, err := h.Settings.Get(ctx); err == nil {
		monthlyRate = settings.MonthlyRate
	} else if !errors.Is(err, repository.ErrSettingsMissing) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	aboRevenue := float64(aboCount) * monthlyRate

	return c.JSON(http.StatusOK, echo.Map{
		"year":          year,
		"month":         month,
		"earnings":      s.Earnings,
		"total":         s.Total,
		"booking_count": s.BookingCount,
		"abo_count":     aboCount,
		"abo_revenue":   aboRevenue,
		"total_revenue": s.Total + aboRevenue,
	})
}

// Trainers handles GET /api/reports/trainers?year=&month=&trainer_id=.
// Admins may pass any trainer_id or none for all trainers; trainer
// accounts are pinned to their own linked trainer regardless of the
// query.
func (h *ReportHandler) Trainers(c echo.Context) error {
	now := time.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil || month < 1 || month > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
	}
	start, end := monthRange(year, month)

	f := repository.BookingFilter{StartDate: start, EndDate: end, StaffedOnly: true}
	if currentRole(c) == "trainer" {
		tid := currentTrainerID(c)
		if tid == nil {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no trainer linked to account"})
		}
		f.TrainerID = *tid
	} else if v := c.QueryParam("trainer_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trainer_id"})
		}
		f.TrainerID = id
	}

	rows, err := h.Bookings.ListDetails(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"year":     year,
		"month":    month,
		"trainers": report.TrainerStats(rows),
	})
}

// Abo handles GET /api/reports/abo?year=: currently active abo
// holders plus per-month subscription sales for the year.
func (h *ReportHandler) Abo(c echo.Context) error {
	year, err := queryInt(c, "year", time.Now().Year())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}
	ctx := c.Request().Context()

	active, err := h.CustomerRepo.ListActiveAbo(ctx, time.Now().Format(bookingDateFmt))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	holders := make([]customerResp, 0, len(active))
	for _, cust := range active {
		holders = append(holders, customerToResp(cust))
	}

	sales, err := h.CustomerRepo.MonthlyAboSales(ctx, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var monthlyRate float64
	if settings, err := h.Settings.Get(ctx); err == nil {
		monthlyRate = settings.MonthlyRate
	} else if !errors.Is(err, repository.ErrSettingsMissing) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"year":           year,
		"active_holders": holders,
		"monthly_sales":  sales,
		"monthly_rate":   monthlyRate,
	})
}

// Customers handles GET /api/reports/customers: every customer with
// their booking count.
func (h *ReportHandler) Customers(c echo.Context) error {
	counts, err := h.CustomerRepo.ListWithBookingCounts(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type row struct {
		customerResp
		BookingCount int `json:"booking_count"`
	}
	out := make([]row, 0, len(counts))
	for _, cc := range counts {
		out = append(out, row{customerResp: customerToResp(cc.Customer), BookingCount: cc.BookingCount})
	}
	return c.JSON(http.StatusOK, out)
}

// Download handles GET /api/reports/download?type=daily|monthly and
// streams the period's bookings as a CSV attachment.
func (h *ReportHandler) Download(c echo.Context) error {
	var (
		f        repository.BookingFilter
		filename string
	)
	switch c.QueryParam("type") {
	case "daily", "":
		date := c.QueryParam("date")
		if date == "" {
			date = time.Now().Format(bookingDateFmt)
		} else if _, err := time.Parse(bookingDateFmt, date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		f.StartDate, f.EndDate = date, date
		filename = fmt.Sprintf("report_daily_%s.csv", date)
	case "monthly":
		now := time.Now()
		year, err := queryInt(c, "year", now.Year())
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		month, err := queryInt(c, "month", int(now.Month()))
		if err != nil || month < 1 || month > 12 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
		}
		f.StartDate, f.EndDate = monthRange(year, month)
		filename = fmt.Sprintf("report_monthly_%04d-%02d.csv", year, month)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report type"})
	}

	rows, err := h.Bookings.ListDetails(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not render report"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
