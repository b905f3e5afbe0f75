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

type EmployeeRepository struct {
	col   *mongo.Collection
	perms *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees), perms: db.Collection(collectionPermissions)}
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, e)
	return writeErr("insert employee", err)
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return findOne[domain.Employee](ctx, r.col, id)
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": e.ID}, bson.M{"$set": bson.M{
		"role":       e.Role,
		"is_active":  e.IsActive,
		"updated_at": e.UpdatedAt,
	}})
	if err != nil {
		return writeErr("update employee", err)
	}
	return matched(res.MatchedCount)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if err := matched(res.DeletedCount); err != nil {
		return err
	}
	if _, err := r.perms.DeleteMany(ctx, bson.M{"employee_id": id}); err != nil {
		return fmt.Errorf("delete employee permissions: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"restaurant_id": restaurantID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	var list []*domain.Employee
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	for _, e := range list {
		if e.Permissions, err = r.permissionsOf(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *EmployeeRepository) GetWithPermissions(ctx context.Context, userID, restaurantID string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Employee
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID, "restaurant_id": restaurantID}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	perms, err := r.permissionsOf(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Permissions = perms
	return &e, nil
}

func (r *EmployeeRepository) permissionsOf(ctx context.Context, employeeID string) ([]domain.Permission, error) {
	cur, err := r.perms.Find(ctx, bson.M{"employee_id": employeeID})
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	var rows []domain.Permission
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return rows, nil
}

type PermissionRepository struct {
	col *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{col: db.Collection(collectionPermissions)}
}

var _ ports.PermissionRepository = (*PermissionRepository)(nil)

// Create relies on the unique (employee_id, type) index.
func (r *PermissionRepository) Create(ctx context.Context, p *domain.Permission) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return writeErr("insert permission", err)
}

func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	return findOne[domain.Permission](ctx, r.col, id)
}

func (r *PermissionRepository) Exists(ctx context.Context, employeeID string, perm domain.PermissionType) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"employee_id": employeeID, "type": perm}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count permissions: %w", err)
	}
	return n > 0, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return matched(res.DeletedCount)
}

func (r *PermissionRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"employee_id": employeeID}, options.Find().SetSort(bson.D{{Key: "type", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	var rows []*domain.Permission
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return rows, nil
}
