package handler // handler defines http handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentRole returns the role claim injected by the JWT middleware,
// or "" when absent.
func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// currentUserID returns the authenticated user's ID, or 0 when absent.
func currentUserID(c echo.Context) uint64 {
	id, _ := c.Get("user_id").(uint64)
	return id
}

// currentTrainerID returns the trainer_id claim for trainer accounts,
// or nil for everyone else.
func currentTrainerID(c echo.Context) *uint64 {
	if id, ok := c.Get("trainer_id").(uint64); ok {
		return &id
	}
	return nil
}

// pathID parses the :id route parameter into a positive integer.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
