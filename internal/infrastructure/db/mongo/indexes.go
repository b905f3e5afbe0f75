package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the lookup indexes and the unique constraints the
// repositories rely on to report domain.ErrDuplicate.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionEmployees: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
		},
		collectionPermissions: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "type", Value: 1}}, Options: unique},
		},
		collectionTables: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "number", Value: 1}}, Options: unique},
		},
		collectionReservations: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionTableReservations: {
			{Keys: bson.D{{Key: "table_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionMenus:            {{Keys: bson.D{{Key: "restaurant_id", Value: 1}}}},
		collectionCategories:       {{Keys: bson.D{{Key: "menu_id", Value: 1}}}},
		collectionMenuItems:        {{Keys: bson.D{{Key: "menu_id", Value: 1}}}},
		collectionMenuItemVariants: {{Keys: bson.D{{Key: "menu_item_id", Value: 1}}}},
	}

	for coll, indexes := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
