package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

func TestEnvelope_Shape(t *testing.T) {
	at := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	e := domain.ReservationEvent{
		Entity:       domain.EntityTableReservation,
		Action:       domain.ActionStatusChanged,
		ResourceID:   "tr-1",
		RestaurantID: "R",
		Status:       domain.StatusConfirmed,
		OccurredAt:   at,
		Data:         map[string]int{"guests": 2},
	}

	body, err := json.Marshal(envelope(e))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got["entity"] != "table_reservations" || got["action"] != "status_changed" {
		t.Errorf("unexpected routing fields: %v", got)
	}
	if got["resourceId"] != "tr-1" {
		t.Errorf("expected resourceId tr-1, got %v", got["resourceId"])
	}
	if got["topic"] != "table_reservations.status_changed" {
		t.Errorf("unexpected topic %v", got["topic"])
	}
	meta, ok := got["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata missing: %v", got)
	}
	if meta["restaurantId"] != "R" || meta["status"] != "confirmed" || meta["occurredAt"] != "2025-06-01T18:00:00Z" {
		t.Errorf("unexpected metadata: %v", meta)
	}
}

func TestPublisher_TopicPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "reservations"},
		{"restobook", "restobook.reservations"},
		{"restobook.", "restobook.reservations"},
	}
	for _, tc := range tests {
		p := NewPublisher(nil, tc.prefix)
		if got := p.topic(domain.EntityReservation); got != tc.want {
			t.Errorf("prefix %q: expected %s, got %s", tc.prefix, tc.want, got)
		}
	}
}
