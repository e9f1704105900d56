package storage

import (
	"context"
	"errors"

	"github.com/stockroomhq/stockroom/internal/models"
)

// ErrNotFound indicates a record does not exist, or exists under another
// owner. Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// ItemStore captures persistence operations for owner-scoped items. Every
// method that targets a single item takes both the item id and the owner id
// and must apply them in one query predicate.
type ItemStore interface {
	CreateItem(ctx context.Context, item models.Item) (models.Item, error)
	ListItems(ctx context.Context, ownerID int64) ([]models.Item, error)
	GetItem(ctx context.Context, itemID, ownerID int64) (models.Item, error)
	UpdateItem(ctx context.Context, item models.Item) (models.Item, error)
	DeleteItem(ctx context.Context, itemID, ownerID int64) error
}
