package ports

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required,min=8"`
	Email    string `validate:"required,email"`
	Role     string `validate:"required,oneof=customer restaurant_owner admin"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyEmail(ctx context.Context, userID string) error
	ParseToken(token string) (domain.Principal, error)
}
