package domain_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

func TestOutcome_Ok(t *testing.T) {
	o := domain.Ok(42)

	require.True(t, o.IsOk())
	assert.Equal(t, 42, o.Value())
	assert.Nil(t, o.Problem())

	v, err := o.Unpack()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestOutcome_ProblemStatusHints(t *testing.T) {
	cases := []struct {
		name    string
		problem *domain.Problem
		kind    domain.Kind
		status  int
	}{
		{"not found", domain.NotFound("x"), domain.KindNotFound, http.StatusNotFound},
		{"validation", domain.ValidationError("x"), domain.KindValidation, http.StatusBadRequest},
		{"forbidden", domain.Forbidden("x"), domain.KindForbidden, http.StatusForbidden},
		{"conflict", domain.Conflict("x"), domain.KindConflict, http.StatusConflict},
		{"failure with hint", domain.Failure("x", http.StatusServiceUnavailable), domain.KindFailure, http.StatusServiceUnavailable},
		{"failure without hint", domain.Failure("x", 0), domain.KindFailure, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := domain.Fail[string](tc.problem)
			require.False(t, o.IsOk())
			assert.Equal(t, tc.kind, o.Problem().Kind)
			assert.Equal(t, tc.status, o.Problem().StatusCode())
			assert.Equal(t, "x", o.Problem().Message)
		})
	}
}

func TestRebind_PreservesKindAndMessage(t *testing.T) {
	unit := domain.Fail[domain.Unit](domain.Conflict("table already booked"))

	rebound := domain.Rebind[domain.TableReservation](unit)

	require.False(t, rebound.IsOk())
	assert.Equal(t, domain.KindConflict, rebound.Problem().Kind)
	assert.Equal(t, "table already booked", rebound.Problem().Message)
	assert.Equal(t, domain.TableReservation{}, rebound.Value())
}

func TestFail_NilProblemIsNeverSuccess(t *testing.T) {
	o := domain.Fail[int](nil)
	require.False(t, o.IsOk())
	assert.Equal(t, domain.KindFailure, o.Problem().Kind)
}

func TestUnexpected_WrapsCauseWithoutLeakingIt(t *testing.T) {
	cause := errors.New("connection refused")
	p := domain.Unexpected(cause)

	assert.ErrorIs(t, p, cause)
	assert.Equal(t, "internal server error", p.Message)
	assert.Equal(t, http.StatusInternalServerError, p.StatusCode())
}

func TestMap(t *testing.T) {
	doubled := domain.Map(domain.Ok(2), func(v int) int { return v * 2 })
	assert.Equal(t, 4, doubled.Value())

	failed := domain.Map(domain.Fail[int](domain.NotFound("gone")), func(v int) string { return "never" })
	require.False(t, failed.IsOk())
	assert.Equal(t, domain.KindNotFound, failed.Problem().Kind)
}
