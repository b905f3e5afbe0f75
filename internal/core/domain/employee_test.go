package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

func TestEmployee_Holds(t *testing.T) {
	e := &domain.Employee{
		IsActive:    true,
		Permissions: []domain.Permission{{Type: domain.PermManageReservations}},
	}
	assert.True(t, e.Holds(domain.PermManageReservations))
	assert.False(t, e.Holds(domain.PermManageMenu))

	e.IsActive = false
	assert.False(t, e.Holds(domain.PermManageReservations), "inactive employees hold no permission")

	var missing *domain.Employee
	assert.False(t, missing.Holds(domain.PermManageReservations))
}

func TestPermissionType_Valid(t *testing.T) {
	for _, p := range domain.AllPermissions {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, domain.PermissionType("manage_everything").Valid())
}
