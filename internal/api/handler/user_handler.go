package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boloflier/bolo-system/internal/api/metrics"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// UserHandler exposes account administration. Role gating happens in the
// router; handlers only translate between HTTP and the service port.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers a new account.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.RegisterUser(c.Request().Context(), req.dto())
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, user)
}

// List returns every account.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one account by id.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ResetPassword replaces an account's credential.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.ResetPassword(c.Request().Context(), c.Param("id"), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account by id.
func (h *UserHandler) Delete(c echo.Context) error {
	receipt, err := h.users.RemoveUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, receipt)
}
