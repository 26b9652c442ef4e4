package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/ttclub/table-booking/internal/utils"
)

func runWithAuth(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))
	return rec, c, called
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _, called := runWithAuth(t, JWTAuth("secret"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthBadToken(t *testing.T) {
	rec, _, called := runWithAuth(t, JWTAuth("secret"), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other", 1, "admin", nil, 60)
	assert.NoError(t, err)

	rec, _, called := runWithAuth(t, JWTAuth("secret"), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthSetsClaims(t *testing.T) {
	trainerID := uint64(7)
	tok, err := utils.NewAccessToken("secret", 42, "trainer", &trainerID, 60)
	assert.NoError(t, err)

	rec, c, called := runWithAuth(t, JWTAuth("secret"), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, uint64(42), c.Get("user_id"))
	assert.Equal(t, "trainer", c.Get("role"))
	assert.Equal(t, uint64(7), c.Get("trainer_id"))
}

func TestRequireRole(t *testing.T) {
	run := func(role interface{}, mw echo.MiddlewareFunc) (int, bool) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		called := false
		h := mw(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		assert.NoError(t, h(c))
		return rec.Code, called
	}

	code, called := run("admin", RequireRole("admin"))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, called)

	code, called = run("trainer", RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, called)

	code, called = run("trainer", RequireRole("admin", "trainer"))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, called)

	code, called = run(nil, RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, called)
}
