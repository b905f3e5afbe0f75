package validation

import (
	"fmt"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// DuplicateTableNumber is the problem reported when a number is taken.
func DuplicateTableNumber(number int) *domain.Problem {
	return domain.Conflict(fmt.Sprintf("table number %d already exists in this restaurant", number))
}

// DuplicatePermission is the problem reported for a second identical row.
func DuplicatePermission(perm domain.PermissionType) *domain.Problem {
	return domain.Conflict("employee already holds permission " + string(perm))
}

// AlreadyEmployed is the problem reported when a user is hired twice.
func AlreadyEmployed() *domain.Problem {
	return domain.Conflict("user is already an employee of this restaurant")
}
