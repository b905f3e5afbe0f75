// Package policy implements the check pipeline wrapped around every mutating
// domain operation.
//
// A Chain is an ordered list of stages. Each stage holds checks of a single
// concern (validation or authorization). Run evaluates the checks in order
// and short-circuits on the first failure without calling the wrapped
// operation; when every check passes the operation's Outcome is returned
// unchanged.
package policy

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/api/metrics"
	"github.com/restobook/restaurant-api/internal/core/domain"
)

// Stage names the concern a group of checks belongs to.
type Stage string

const (
	StageValidation    Stage = "validation"
	StageAuthorization Stage = "authorization"
)

// Check inspects a call and returns a failed Result to reject it.
type Check[R any] func(ctx context.Context, p domain.Principal, req R) domain.Result

type stage[R any] struct {
	name   Stage
	checks []Check[R]
}

// Chain is the configured pipeline for one operation of one entity.
type Chain[R any] struct {
	entity    string
	operation string
	stages    []stage[R]
	log       zerolog.Logger
}

// Option configures a Chain.
type Option[R any] func(*Chain[R])

// Validate appends a validation stage.
func Validate[R any](checks ...Check[R]) Option[R] {
	return func(c *Chain[R]) {
		c.stages = append(c.stages, stage[R]{name: StageValidation, checks: checks})
	}
}

// Authorize appends an authorization stage.
func Authorize[R any](checks ...Check[R]) Option[R] {
	return func(c *Chain[R]) {
		c.stages = append(c.stages, stage[R]{name: StageAuthorization, checks: checks})
	}
}

// WithLogger sets the logger rejections are reported to.
func WithLogger[R any](log zerolog.Logger) Option[R] {
	return func(c *Chain[R]) { c.log = log }
}

// NewChain builds a chain; stages run in the order the options are given.
func NewChain[R any](entity, operation string, opts ...Option[R]) *Chain[R] {
	c := &Chain[R]{entity: entity, operation: operation, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stages lists the stage order, for diagnostics and tests.
func (c *Chain[R]) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.name
	}
	return out
}

// Check evaluates every check of the chain and returns the first failure.
func (c *Chain[R]) Check(ctx context.Context, p domain.Principal, req R) domain.Result {
	for _, s := range c.stages {
		for _, check := range s.checks {
			res := check(ctx, p, req)
			if res.IsOk() {
				continue
			}
			prob := res.Problem()
			metrics.PolicyRejectionsTotal.
				WithLabelValues(c.entity, c.operation, string(s.name), prob.Kind.String()).
				Inc()
			c.log.Debug().
				Str("entity", c.entity).
				Str("operation", c.operation).
				Str("stage", string(s.name)).
				Str("kind", prob.Kind.String()).
				Str("user_id", p.UserID).
				Msg(prob.Message)
			return res
		}
	}
	return domain.Done()
}

// Run executes chain and, when it passes, next. A failed check is rebound to
// the operation's payload type so kind and message survive unchanged.
func Run[R, T any](ctx context.Context, c *Chain[R], p domain.Principal, req R, next func(ctx context.Context) domain.Outcome[T]) domain.Outcome[T] {
	if res := c.Check(ctx, p, req); !res.IsOk() {
		return domain.Rebind[T](res)
	}
	return next(ctx)
}

// All combines checks into one that fails with the first failing check.
func All[R any](checks ...Check[R]) Check[R] {
	return func(ctx context.Context, p domain.Principal, req R) domain.Result {
		for _, check := range checks {
			if res := check(ctx, p, req); !res.IsOk() {
				return res
			}
		}
		return domain.Done()
	}
}

// Any passes when at least one check passes. When all fail, the first
// failure is returned.
func Any[R any](checks ...Check[R]) Check[R] {
	return func(ctx context.Context, p domain.Principal, req R) domain.Result {
		var first domain.Result
		for i, check := range checks {
			res := check(ctx, p, req)
			if res.IsOk() {
				return res
			}
			if i == 0 {
				first = res
			}
		}
		if len(checks) == 0 {
			return domain.Done()
		}
		return first
	}
}

// When applies check only to requests matching cond; others pass.
func When[R any](cond func(R) bool, check Check[R]) Check[R] {
	return func(ctx context.Context, p domain.Principal, req R) domain.Result {
		if !cond(req) {
			return domain.Done()
		}
		return check(ctx, p, req)
	}
}
