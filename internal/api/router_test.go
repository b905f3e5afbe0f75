package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

func newTestRouter(t *testing.T) client {
	t.Helper()
	e := NewRouter(MemoryStores(), Options{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
	return client{t: t, e: e}
}

func (c client) do(method, path, token, body string) (int, map[string]any) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			c.t.Fatalf("%s %s: invalid json: %v", method, path, err)
		}
	}
	return rec.Code, out
}

// signup registers and logs in a user, returning its id and token.
func (c client) signup(name, role string) (string, string) {
	c.t.Helper()
	body := `{"username":"` + name + `","password":"password123","email":"` + name + `@example.com","role":"` + role + `"}`
	code, resp := c.do(http.MethodPost, "/auth/register", "", body)
	if code != http.StatusCreated {
		c.t.Fatalf("register %s: expected 201, got %d %v", name, code, resp)
	}
	id := resp["user"].(map[string]any)["id"].(string)
	return id, c.login(name)
}

func (c client) login(name string) string {
	c.t.Helper()
	code, resp := c.do(http.MethodPost, "/auth/login", "", `{"email":"`+name+`@example.com","password":"password123"}`)
	if code != http.StatusOK {
		c.t.Fatalf("login %s: expected 200, got %d %v", name, code, resp)
	}
	return resp["token"].(string)
}

func TestRouter_Health(t *testing.T) {
	c := newTestRouter(t)

	if code, _ := c.do(http.MethodGet, "/health", "", ""); code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", code)
	}
	code, resp := c.do(http.MethodGet, "/health/ready", "", "")
	if code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("readiness without probes: expected ok, got %d %v", code, resp)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	c := newTestRouter(t)

	code, resp := c.do(http.MethodGet, "/v1/reservations/mine", "", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if resp["error"] == nil {
		t.Fatalf("expected error envelope, got %v", resp)
	}
}

func TestRouter_CustomersCannotOpenRestaurants(t *testing.T) {
	c := newTestRouter(t)
	_, token := c.signup("carla", domain.RoleCustomer)

	if code, _ := c.do(http.MethodPost, "/v1/restaurants", token, `{"name":"Nope"}`); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRouter_TableBookingFlow(t *testing.T) {
	c := newTestRouter(t)

	_, owner := c.signup("olga", domain.RoleRestaurantOwner)
	_, admin := c.signup("adam", domain.RoleAdmin)
	guestID, guest := c.signup("gina", domain.RoleCustomer)

	code, resp := c.do(http.MethodPost, "/v1/restaurants", owner, `{"name":"Trattoria"}`)
	if code != http.StatusCreated {
		t.Fatalf("create restaurant: expected 201, got %d %v", code, resp)
	}
	restaurantID := resp["id"].(string)

	code, resp = c.do(http.MethodPost, "/v1/restaurants/"+restaurantID+"/tables", owner, `{"number":1,"capacity":4}`)
	if code != http.StatusCreated {
		t.Fatalf("create table: expected 201, got %d %v", code, resp)
	}
	tableID := resp["id"].(string)

	if code, _ = c.do(http.MethodPost, "/v1/restaurants/"+restaurantID+"/tables", owner, `{"number":1,"capacity":2}`); code != http.StatusConflict {
		t.Fatalf("duplicate table number: expected 409, got %d", code)
	}

	date := domain.FormatDate(time.Now().UTC().AddDate(0, 0, 7))
	booking := func(start, end string) string {
		return `{"table_id":"` + tableID + `","date":"` + date + `","start_time":"` + start + `","end_time":"` + end +
			`","number_of_guests":2,"customer_name":"Gina","customer_email":"gina@example.com"}`
	}

	// Unverified accounts cannot book.
	if code, _ = c.do(http.MethodPost, "/v1/table-reservations", guest, booking("18:00", "19:00")); code != http.StatusForbidden {
		t.Fatalf("unverified booking: expected 403, got %d", code)
	}

	if code, _ = c.do(http.MethodPost, "/auth/users/"+guestID+"/verify", owner, ""); code != http.StatusForbidden {
		t.Fatalf("verify by non-admin: expected 403, got %d", code)
	}
	if code, _ = c.do(http.MethodPost, "/auth/users/"+guestID+"/verify", admin, ""); code != http.StatusNoContent {
		t.Fatalf("verify: expected 204, got %d", code)
	}
	guest = c.login("gina")

	code, resp = c.do(http.MethodPost, "/v1/table-reservations", guest, booking("18:00", "19:00"))
	if code != http.StatusCreated {
		t.Fatalf("book: expected 201, got %d %v", code, resp)
	}
	if resp["status"] != string(domain.StatusConfirmed) || resp["start_time"] != "18:00" {
		t.Fatalf("unexpected reservation: %v", resp)
	}
	reservationID := resp["id"].(string)

	code, resp = c.do(http.MethodPost, "/v1/table-reservations", guest, booking("18:30", "19:30"))
	if code != http.StatusConflict {
		t.Fatalf("overlap: expected 409, got %d %v", code, resp)
	}
	if code, _ = c.do(http.MethodPost, "/v1/table-reservations", guest, booking("19:00", "20:00")); code != http.StatusCreated {
		t.Fatalf("touching slot: expected 201, got %d", code)
	}

	code, resp = c.do(http.MethodGet, "/v1/restaurants/"+restaurantID+"/table-reservations?limit=1", owner, "")
	if code != http.StatusOK || resp["total"].(float64) != 2 || len(resp["items"].([]any)) != 1 {
		t.Fatalf("owner list: unexpected %d %v", code, resp)
	}
	if code, _ = c.do(http.MethodGet, "/v1/restaurants/"+restaurantID+"/table-reservations", guest, ""); code != http.StatusForbidden {
		t.Fatalf("guest list: expected 403, got %d", code)
	}

	code, resp = c.do(http.MethodPost, "/v1/table-reservations/"+reservationID+"/cancel", guest, "")
	if code != http.StatusOK || resp["status"] != string(domain.StatusCancelled) {
		t.Fatalf("cancel: unexpected %d %v", code, resp)
	}
	code, _ = c.do(http.MethodPatch, "/v1/table-reservations/"+reservationID+"/status", owner, `{"status":"confirmed"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("terminal transition: expected 400, got %d", code)
	}

	// The cancelled slot is free again.
	if code, _ = c.do(http.MethodPost, "/v1/table-reservations", guest, booking("18:00", "19:00")); code != http.StatusCreated {
		t.Fatalf("rebook: expected 201, got %d", code)
	}
}
