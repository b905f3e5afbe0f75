// Package validation holds the checks of the validation stage: field-level
// rules on request structs, scheduling rules against restaurant settings,
// and the table conflict detector.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// Validator wraps go-playground/validator and renders failures as a single
// human readable message.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	_ = v.RegisterValidation("permission_type", validatePermissionType)
	_ = v.RegisterValidation("reservation_status", validateReservationStatus)

	return &Validator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *Validator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Check validates i and reports failures as a ValidationError.
func (ev *Validator) Check(i any) domain.Result {
	if err := ev.Validate(i); err != nil {
		return domain.Fail[domain.Unit](domain.ValidationError(err.Error()))
	}
	return domain.Done()
}

func validatePermissionType(fl validator.FieldLevel) bool {
	return domain.PermissionType(fl.Field().String()).Valid()
}

func validateReservationStatus(fl validator.FieldLevel) bool {
	return domain.ReservationStatus(fl.Field().String()).Valid()
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := snake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, snake(fe.Param()))
	case "permission_type":
		return fmt.Sprintf("%s is not a known permission type", field)
	case "reservation_status":
		return fmt.Sprintf("%s is not a known reservation status", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// snake turns a Go field name into its snake_case form ("CustomerName" ->
// "customer_name").
func snake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
