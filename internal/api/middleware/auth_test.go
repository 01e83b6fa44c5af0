package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return c, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"uid":      "u1",
		"username": "jdoe",
		"role":     "OFFICER",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	c, err := invoke(Auth(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if got, _ := c.Get("username").(string); got != "jdoe" {
		t.Fatalf("username claim not injected, got %q", got)
	}
	if got, _ := c.Get("role").(string); got != "OFFICER" {
		t.Fatalf("role claim not injected, got %q", got)
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"uid": "u1", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"uid": "u1", "exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invoke(Auth(testSecret), tc.header)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("ADMIN", "SUPERVISOR")

	run := func(role any) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if role != nil {
			c.Set("role", role)
		}
		handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		return handler(c)
	}

	if err := run("ADMIN"); err != nil {
		t.Fatalf("allowed role rejected: %v", err)
	}
	for _, role := range []any{"OFFICER", "", nil, 42} {
		err := run(role)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusForbidden {
			t.Fatalf("role %v: expected 403, got %v", role, err)
		}
	}
}
