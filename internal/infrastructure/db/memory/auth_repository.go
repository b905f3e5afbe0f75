package memory

import (
	"context"
	"strings"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// AuthRepository is the in-memory ports.AuthRepository.
type AuthRepository struct{ s *Store }

func (r *AuthRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *AuthRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *AuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) || (user.Username != "" && u.Username == user.Username) {
			return nil, domain.ErrUserExists
		}
	}
	r.s.users[user.ID] = *user
	created := *user
	return &created, nil
}

func (r *AuthRepository) MarkEmailVerified(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerified = true
	r.s.users[id] = u
	return nil
}

var _ ports.AuthRepository = (*AuthRepository)(nil)
