package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/boloflier/bolo-system/internal/api/metrics"
	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// AuthHandler exchanges credentials for a bearer token. Session state lives
// entirely in the signed token; the server keeps none.
type AuthHandler struct {
	users     ports.UserService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(users ports.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login authenticates a username/password pair and returns a JWT. A failed
// match answers 401 without revealing whether the account exists.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	if user == nil {
		metrics.AuthFailuresTotal.Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(h.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}
