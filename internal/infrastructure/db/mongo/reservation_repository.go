package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// bookingFilter translates the list parameters shared by both flavors.
func bookingFilter(f ports.ReservationFilter) bson.M {
	filter := bson.M{}
	if f.RestaurantID != "" {
		filter["restaurant_id"] = f.RestaurantID
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.TableID != "" {
		filter["table_id"] = f.TableID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	date := bson.M{}
	if !f.DateFrom.IsZero() {
		date["$gte"] = domain.Day(f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		date["$lt"] = domain.Day(f.DateTo).AddDate(0, 0, 1)
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	return filter
}

// list runs a paginated, date-ordered query and the matching count.
func list[T any](ctx context.Context, col *mongo.Collection, f ports.ReservationFilter) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bookingFilter(f)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find reservations: %w", err)
	}
	rows := []*T{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, 0, fmt.Errorf("decode reservations: %w", err)
	}
	return rows, total, nil
}

// replace swaps the document only while its stored status is still from.
// A miss on an existing id means a concurrent writer got there first.
func replace(ctx context.Context, col *mongo.Collection, id string, from domain.ReservationStatus, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id, "status": from}, doc)
	if err != nil {
		return fmt.Errorf("replace reservation: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count reservation: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrStaleWrite
}

func remove(ctx context.Context, col *mongo.Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return matched(res.DeletedCount)
}

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(collectionReservations)}
}

var _ ports.ReservationRepository = (*ReservationRepository)(nil)

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, res)
	return writeErr("insert reservation", err)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return findOne[domain.Reservation](ctx, r.col, id)
}

func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus) error {
	return replace(ctx, r.col, res.ID, from, res)
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.col, id)
}

func (r *ReservationRepository) List(ctx context.Context, f ports.ReservationFilter) ([]*domain.Reservation, int64, error) {
	return list[domain.Reservation](ctx, r.col, f)
}

type TableReservationRepository struct {
	col *mongo.Collection
}

func NewTableReservationRepository(db *mongo.Database) *TableReservationRepository {
	return &TableReservationRepository{col: db.Collection(collectionTableReservations)}
}

var _ ports.TableReservationRepository = (*TableReservationRepository)(nil)

func (r *TableReservationRepository) Create(ctx context.Context, res *domain.TableReservation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, res)
	return writeErr("insert table reservation", err)
}

func (r *TableReservationRepository) GetByID(ctx context.Context, id string) (*domain.TableReservation, error) {
	return findOne[domain.TableReservation](ctx, r.col, id)
}

func (r *TableReservationRepository) Update(ctx context.Context, res *domain.TableReservation, from domain.ReservationStatus) error {
	return replace(ctx, r.col, res.ID, from, res)
}

func (r *TableReservationRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.col, id)
}

func (r *TableReservationRepository) List(ctx context.Context, f ports.ReservationFilter) ([]*domain.TableReservation, int64, error) {
	return list[domain.TableReservation](ctx, r.col, f)
}

// ListConflicting returns the active reservations of tableID on the UTC
// day of date.
func (r *TableReservationRepository) ListConflicting(ctx context.Context, tableID string, date time.Time, excludeID string) ([]*domain.TableReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	day := domain.Day(date)
	filter := bson.M{
		"table_id": tableID,
		"date":     bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)},
		"status":   bson.M{"$ne": domain.StatusCancelled},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find conflicting reservations: %w", err)
	}
	var rows []*domain.TableReservation
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode conflicting reservations: %w", err)
	}
	return rows, nil
}
