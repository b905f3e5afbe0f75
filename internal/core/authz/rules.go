package authz

import (
	"context"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/policy"
)

const (
	msgDenied          = "you do not have permission to perform this action"
	msgUnauthenticated = "authentication required"
	msgUnverified      = "email address must be verified"
)

// Denied is the single Forbidden problem every rule emits, so a denial never
// hints at whether the target exists.
func Denied() *domain.Problem { return domain.Forbidden(msgDenied) }

func deny() domain.Result { return domain.Fail[domain.Unit](Denied()) }

// decide turns a resolver answer into a check result.
func decide(ok bool, err error) domain.Result {
	if err != nil {
		return domain.Fail[domain.Unit](domain.Unexpected(err))
	}
	if !ok {
		return deny()
	}
	return domain.Done()
}

// Authenticated rejects anonymous principals.
func Authenticated[R any]() policy.Check[R] {
	return func(_ context.Context, p domain.Principal, _ R) domain.Result {
		if !p.Authenticated || p.UserID == "" {
			return domain.Fail[domain.Unit](domain.Forbidden(msgUnauthenticated))
		}
		return domain.Done()
	}
}

// EmailVerified rejects principals whose email address is unconfirmed.
func EmailVerified[R any]() policy.Check[R] {
	return func(_ context.Context, p domain.Principal, _ R) domain.Result {
		if !p.Authenticated || p.UserID == "" {
			return domain.Fail[domain.Unit](domain.Forbidden(msgUnauthenticated))
		}
		if !p.EmailVerified {
			return domain.Fail[domain.Unit](domain.Forbidden(msgUnverified))
		}
		return domain.Done()
	}
}

// Require demands perm at the restaurant owning the entity target picks
// from the request.
func Require[R any](r *Resolver, perm domain.PermissionType, target func(R) EntityRef) policy.Check[R] {
	return func(ctx context.Context, p domain.Principal, req R) domain.Result {
		return decide(r.Can(ctx, p, target(req), perm))
	}
}

// RequireIn demands perm at a restaurant named directly by the request.
func RequireIn[R any](r *Resolver, perm domain.PermissionType, restaurantID func(R) string) policy.Check[R] {
	return func(ctx context.Context, p domain.Principal, req R) domain.Result {
		return decide(r.CanInRestaurant(ctx, p, restaurantID(req), perm))
	}
}

// Self passes when the target entity belongs to the principal.
func Self[R any](r *Resolver, target func(R) EntityRef) policy.Check[R] {
	return func(ctx context.Context, p domain.Principal, req R) domain.Result {
		return decide(r.IsSelf(ctx, p, target(req)))
	}
}

// SelfOrRequire passes for the owner of the target or a holder of perm.
func SelfOrRequire[R any](r *Resolver, perm domain.PermissionType, target func(R) EntityRef) policy.Check[R] {
	return policy.Any(Self(r, target), Require(r, perm, target))
}

// ActingAs passes only when the principal is the user the request is made
// on behalf of.
func ActingAs[R any](userID func(R) string) policy.Check[R] {
	return func(_ context.Context, p domain.Principal, req R) domain.Result {
		if !p.Is(userID(req)) {
			return deny()
		}
		return domain.Done()
	}
}
