package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/core/validation"
)

// TableService performs table writes.
type TableService struct {
	repo ports.TableRepository
	log  zerolog.Logger
}

func NewTableService(repo ports.TableRepository, log zerolog.Logger) *TableService {
	return &TableService{repo: repo, log: log}
}

var _ ports.TableService = (*TableService)(nil)

func (s *TableService) Create(ctx context.Context, _ domain.Principal, in ports.CreateTableInput) domain.Outcome[*domain.Table] {
	now := time.Now().UTC()
	t := &domain.Table{
		ID:           newID(),
		RestaurantID: in.RestaurantID,
		Number:       in.Number,
		Capacity:     in.Capacity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Fail[*domain.Table](validation.DuplicateTableNumber(in.Number))
		}
		return domain.Fail[*domain.Table](domain.Unexpected(err))
	}
	s.log.Info().Str("table_id", t.ID).Str("restaurant_id", t.RestaurantID).Int("number", t.Number).Msg("table created")
	return domain.Ok(t)
}

func (s *TableService) Update(ctx context.Context, _ domain.Principal, id string, in ports.UpdateTableInput) domain.Outcome[*domain.Table] {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fail[*domain.Table](err, "table")
	}
	t.Number = in.Number
	t.Capacity = in.Capacity
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Fail[*domain.Table](validation.DuplicateTableNumber(in.Number))
		}
		return fail[*domain.Table](err, "table")
	}
	return domain.Ok(t)
}

func (s *TableService) Delete(ctx context.Context, _ domain.Principal, id string) domain.Result {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fail[domain.Unit](err, "table")
	}
	s.log.Info().Str("table_id", id).Msg("table deleted")
	return domain.Done()
}

func (s *TableService) List(ctx context.Context, _ domain.Principal, restaurantID string) domain.Outcome[[]*domain.Table] {
	tables, err := s.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return domain.Fail[[]*domain.Table](domain.Unexpected(err))
	}
	return domain.Ok(tables)
}
