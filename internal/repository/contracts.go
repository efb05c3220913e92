package repository

import (
	"context"

	"github.com/maxviazov/users-admin/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserRepository declares the operations the admin pages need from the users collection.
// Implementations return domain models and surface ErrNotFound / ErrConflict from errors.go.
type UserRepository interface {
	List(ctx context.Context, p Page) (PageResult[model.User], error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, id int64, u model.UserUpdate) (model.User, error)
}
