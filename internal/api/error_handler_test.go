package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", domain.NotFound("table not found"), http.StatusNotFound, "table not found"},
		{"validation", domain.ValidationError("end must be after start"), http.StatusBadRequest, "end must be after start"},
		{"forbidden", domain.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"conflict", domain.Conflict("slot taken"), http.StatusConflict, "slot taken"},
		{"failure hint", domain.Failure("try again", http.StatusServiceUnavailable), http.StatusServiceUnavailable, "try again"},
		{"unexpected hides cause", domain.Unexpected(errors.New("mongo: connection refused")), http.StatusInternalServerError, "internal server error"},
		{"wrapped problem", fmt.Errorf("outer: %w", domain.NotFound("x not found")), http.StatusNotFound, "x not found"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}
