package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// TableRepository relies on the unique (restaurant_id, number) index.
type TableRepository struct {
	col *mongo.Collection
}

func NewTableRepository(db *mongo.Database) *TableRepository {
	return &TableRepository{col: db.Collection(collectionTables)}
}

var _ ports.TableRepository = (*TableRepository)(nil)

func (r *TableRepository) Create(ctx context.Context, t *domain.Table) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	return writeErr("insert table", err)
}

func (r *TableRepository) GetByID(ctx context.Context, id string) (*domain.Table, error) {
	return findOne[domain.Table](ctx, r.col, id)
}

func (r *TableRepository) Update(ctx context.Context, t *domain.Table) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": bson.M{
		"number":     t.Number,
		"capacity":   t.Capacity,
		"updated_at": t.UpdatedAt,
	}})
	if err != nil {
		return writeErr("update table", err)
	}
	return matched(res.MatchedCount)
}

func (r *TableRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	return matched(res.DeletedCount)
}

func (r *TableRepository) NumberTaken(ctx context.Context, restaurantID string, number int, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"restaurant_id": restaurantID, "number": number}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count tables: %w", err)
	}
	return n > 0, nil
}

func (r *TableRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"restaurant_id": restaurantID}, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tables: %w", err)
	}
	var list []*domain.Table
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	return list, nil
}
