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

type RestaurantRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewRestaurantRepository(db *mongo.Database) *RestaurantRepository {
	return &RestaurantRepository{db: db, col: db.Collection(collectionRestaurants)}
}

var _ ports.RestaurantRepository = (*RestaurantRepository)(nil)

func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rest)
	return writeErr("insert restaurant", err)
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rest domain.Restaurant
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rest); err != nil {
		return nil, notFound(err)
	}
	return &rest, nil
}

func (r *RestaurantRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count restaurants: %w", err)
	}
	return n > 0, nil
}

// Delete removes the restaurant, its settings, its employees and their
// permission rows.
func (r *RestaurantRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if err := matched(res.DeletedCount); err != nil {
		return err
	}

	if _, err := r.db.Collection(collectionSettings).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	employees := r.db.Collection(collectionEmployees)
	ids, err := employees.Distinct(ctx, "_id", bson.M{"restaurant_id": id})
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	if len(ids) > 0 {
		if _, err := r.db.Collection(collectionPermissions).DeleteMany(ctx, bson.M{"employee_id": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("delete permissions: %w", err)
		}
	}
	if _, err := employees.DeleteMany(ctx, bson.M{"restaurant_id": id}); err != nil {
		return fmt.Errorf("delete employees: %w", err)
	}
	return nil
}

type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) ForRestaurant(ctx context.Context, restaurantID string) (domain.ReservationSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.ReservationSettings
	err := r.col.FindOne(ctx, bson.M{"_id": restaurantID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return domain.DefaultSettings(restaurantID), nil
	}
	if err != nil {
		return domain.ReservationSettings{}, fmt.Errorf("find settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s domain.ReservationSettings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.RestaurantID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// MenuCatalog reads the ownership links of menu documents written by the
// catalog service.
type MenuCatalog struct {
	db *mongo.Database
}

func NewMenuCatalog(db *mongo.Database) *MenuCatalog {
	return &MenuCatalog{db: db}
}

var _ ports.MenuCatalog = (*MenuCatalog)(nil)

func findOne[T any](ctx context.Context, col *mongo.Collection, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v T
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (c *MenuCatalog) GetMenu(ctx context.Context, id string) (*domain.Menu, error) {
	return findOne[domain.Menu](ctx, c.db.Collection(collectionMenus), id)
}

func (c *MenuCatalog) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return findOne[domain.Category](ctx, c.db.Collection(collectionCategories), id)
}

func (c *MenuCatalog) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	return findOne[domain.MenuItem](ctx, c.db.Collection(collectionMenuItems), id)
}

func (c *MenuCatalog) GetMenuItemVariant(ctx context.Context, id string) (*domain.MenuItemVariant, error) {
	return findOne[domain.MenuItemVariant](ctx, c.db.Collection(collectionMenuItemVariants), id)
}
