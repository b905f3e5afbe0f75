package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

func iv(start, end string) domain.Interval {
	return domain.Interval{Start: domain.MustClock(start), End: domain.MustClock(end)}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b domain.Interval
		want bool
	}{
		{"touching is not overlap", iv("10:00", "11:00"), iv("11:00", "12:00"), false},
		{"strict overlap", iv("10:00", "12:00"), iv("11:00", "13:00"), true},
		{"containment", iv("10:00", "14:00"), iv("11:00", "12:00"), true},
		{"identical", iv("18:00", "19:30"), iv("18:00", "19:30"), true},
		{"disjoint", iv("08:00", "09:00"), iv("12:00", "13:00"), false},
		{"partial end overlap", iv("18:00", "19:30"), iv("19:00", "20:00"), true},
		{"back to back", iv("18:00", "19:30"), iv("19:30", "20:30"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.Overlaps(tc.a, tc.b))
			assert.Equal(t, domain.Overlaps(tc.a, tc.b), domain.Overlaps(tc.b, tc.a), "overlap must be symmetric")
		})
	}
}

func TestOverlaps_SymmetricOverGrid(t *testing.T) {
	for s1 := 0; s1 < 24*60; s1 += 45 {
		for e1 := s1 + 15; e1 <= 24*60; e1 += 90 {
			a := domain.Interval{Start: domain.ClockTime(s1), End: domain.ClockTime(e1)}
			for s2 := 0; s2 < 24*60; s2 += 60 {
				b := domain.Interval{Start: domain.ClockTime(s2), End: domain.ClockTime(s2 + 30)}
				if domain.Overlaps(a, b) != domain.Overlaps(b, a) {
					t.Fatalf("asymmetric overlap for %v and %v", a, b)
				}
			}
		}
	}
}

func TestValidateTimeRange(t *testing.T) {
	require.True(t, domain.ValidateTimeRange(domain.MustClock("12:00"), domain.MustClock("13:00")).IsOk())

	for _, tc := range []struct{ start, end string }{{"12:00", "12:00"}, {"13:00", "12:00"}} {
		res := domain.ValidateTimeRange(domain.MustClock(tc.start), domain.MustClock(tc.end))
		require.False(t, res.IsOk(), "%s-%s must be rejected", tc.start, tc.end)
		assert.Equal(t, domain.KindValidation, res.Problem().Kind)
	}
}

func TestClockTime_TextRoundTrip(t *testing.T) {
	var payload struct {
		Start domain.ClockTime `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"19:30"}`), &payload))
	assert.Equal(t, domain.ClockTime(19*60+30), payload.Start)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"19:30"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"7pm"}`), &payload))
}

func TestClockTime_On(t *testing.T) {
	date := time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)
	got := domain.MustClock("18:00").On(date)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC), got)
}
