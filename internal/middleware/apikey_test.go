package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAdminAPIKey(t *testing.T) {
	const secret = "s3cret-admin-key"

	tests := []struct {
		name       string
		header     string
		key        string
		sendHeader string
		wantStatus int
	}{
		{"valid key default header", "X-API-KEY", secret, "X-API-KEY", http.StatusOK},
		{"missing key", "X-API-KEY", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-KEY", "not-the-key", "X-API-KEY", http.StatusUnauthorized},
		{"custom header honored", "X-Admin-Token", secret, "X-Admin-Token", http.StatusOK},
		{"key in wrong header", "X-Admin-Token", secret, "X-API-KEY", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/admin/stations/", nil)
			if tt.key != "" && tt.sendHeader != "" {
				req.Header.Set(tt.sendHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := AdminAPIKey(tt.header, secret)(okHandler)
			if err := h(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized &&
				!strings.Contains(rec.Body.String(), "invalid or missing API key") {
				t.Fatalf("body = %q, want API key error", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       interface{}
		allowed    []string
		wantStatus int
	}{
		{"admin allowed", "ADMIN", []string{"ADMIN"}, http.StatusOK},
		{"user rejected on admin route", "USER", []string{"ADMIN"}, http.StatusForbidden},
		{"user allowed on booking route", "USER", []string{"USER", "ADMIN"}, http.StatusOK},
		{"missing role", nil, []string{"USER", "ADMIN"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			h := RequireRole(tt.allowed...)(okHandler)
			if err := h(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
