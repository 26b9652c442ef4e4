package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/config"
	"github.com/ttclub/table-booking/internal/model"
	"github.com/ttclub/table-booking/internal/repository"
	"github.com/ttclub/table-booking/internal/utils"
)

// UserHandler exposes login-account management.  All routes are
// admin-only; the role gate lives in the router.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Trainers *repository.TrainerRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, trainers *repository.TrainerRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Trainers: trainers}
}

type userReq struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	TrainerID *uint64 `json:"trainer_id"`
}

type userResp struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	TrainerID *uint64 `json:"trainer_id"`
	CreatedAt string  `json:"created_at"`
}

func userToResp(u model.User) userResp {
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		TrainerID: u.TrainerID,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func validRole(role string) bool { return role == "admin" || role == "trainer" }

// Create handles POST /api/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Username == nil || strings.TrimSpace(*req.Username) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
	}
	if req.Password == nil || *req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is required"})
	}
	role := "trainer"
	if req.Role != nil {
		role = *req.Role
	}
	if !validRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	ctx := c.Request().Context()
	if req.TrainerID != nil {
		if _, err := h.Trainers.GetByID(ctx, *req.TrainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
	}
	u := model.User{
		Username:     strings.TrimSpace(*req.Username),
		PasswordHash: hash,
		Role:         role,
		TrainerID:    req.TrainerID,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, userToResp(u))
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, userToResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, userToResp(*u))
}

// Update handles PUT /api/users/:id.  Absent fields keep their
// current values; a new password is re-hashed.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
		}
		u.Username = username
	}
	if req.Password != nil {
		if *req.Password == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must not be empty"})
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
		}
		u.PasswordHash = hash
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		u.Role = *req.Role
	}
	if req.TrainerID != nil {
		if _, err := h.Trainers.GetByID(ctx, *req.TrainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		u.TrainerID = req.TrainerID
	}
	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, userToResp(*u))
}

// Delete handles DELETE /api/users/:id.  Deleting your own account is
// rejected so an admin cannot lock themselves out mid-session.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == currentUserID(c) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete own account"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
