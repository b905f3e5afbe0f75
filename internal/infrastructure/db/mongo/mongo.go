package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restobook/restaurant-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers             = "users"
	collectionRestaurants       = "restaurants"
	collectionSettings          = "reservation_settings"
	collectionEmployees         = "employees"
	collectionPermissions       = "permissions"
	collectionTables            = "tables"
	collectionReservations      = "reservations"
	collectionTableReservations = "table_reservations"
	collectionMenus             = "menus"
	collectionCategories        = "categories"
	collectionMenuItems         = "menu_items"
	collectionMenuItemVariants  = "menu_item_variants"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// notFound maps a missing document to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

// writeErr maps unique index violations to domain.ErrDuplicate.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

// matched turns an update or delete that hit nothing into domain.ErrNotFound.
func matched(n int64) error {
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
