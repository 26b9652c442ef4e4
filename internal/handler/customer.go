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

// CustomerHandler exposes customer CRUD.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{Customers: customers}
}

type customerReq struct {
	Name        *string `json:"name"`
	Contact     *string `json:"contact"`
	IsAboHolder *bool   `json:"is_abo_holder"`
	AboStart    *string `json:"abo_start"`
	AboEnd      *string `json:"abo_end"`
}

type customerResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Contact     string  `json:"contact"`
	IsAboHolder bool    `json:"is_abo_holder"`
	AboStart    *string `json:"abo_start"`
	AboEnd      *string `json:"abo_end"`
	CreatedAt   string  `json:"created_at"`
}

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(bookingDateFmt)
	return &s
}

func customerToResp(c model.Customer) customerResp {
	return customerResp{
		ID:          c.ID,
		Name:        c.Name,
		Contact:     c.Contact,
		IsAboHolder: c.IsAboHolder,
		AboStart:    fmtDatePtr(c.AboStart),
		AboEnd:      fmtDatePtr(c.AboEnd),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

// parseOptDate turns an optional "YYYY-MM-DD" field into a nullable
// date.  An empty string clears the stored value.
func parseOptDate(s *string) (*time.Time, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	if *s == "" {
		return nil, true, nil
	}
	d, err := time.Parse(bookingDateFmt, *s)
	if err != nil {
		return nil, false, err
	}
	return &d, true, nil
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cust := model.Customer{Name: strings.TrimSpace(*req.Name)}
	if req.Contact != nil {
		cust.Contact = *req.Contact
	}
	if req.IsAboHolder != nil {
		cust.IsAboHolder = *req.IsAboHolder
	}
	start, _, err := parseOptDate(req.AboStart)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid abo_start"})
	}
	cust.AboStart = start
	end, _, err := parseOptDate(req.AboEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid abo_end"})
	}
	cust.AboEnd = end

	if err := h.Customers.Create(c.Request().Context(), &cust); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"})
	}
	return c.JSON(http.StatusCreated, customerToResp(cust))
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]customerResp, 0, len(customers))
	for _, cust := range customers {
		out = append(out, customerToResp(cust))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customerToResp(*cust))
}

// Update handles PUT /api/customers/:id.  Absent fields keep their
// current values.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		cust.Name = name
	}
	if req.Contact != nil {
		cust.Contact = *req.Contact
	}
	if req.IsAboHolder != nil {
		cust.IsAboHolder = *req.IsAboHolder
	}
	if start, set, err := parseOptDate(req.AboStart); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid abo_start"})
	} else if set {
		cust.AboStart = start
	}
	if end, set, err := parseOptDate(req.AboEnd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid abo_end"})
	} else if set {
		cust.AboEnd = end
	}

	if err := h.Customers.Update(c.Request().Context(), cust); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, customerToResp(*cust))
}

// Delete handles DELETE /api/customers/:id.  Bookings referencing the
// customer are removed by the cascading foreign key.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted"})
}
