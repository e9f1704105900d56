package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/storage"
	"github.com/stockroomhq/stockroom/internal/storage/postgres/migrations"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore = (*Store)(nil)
	_ storage.ItemStore = (*Store)(nil)
)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users and items.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pgx pool and applies pending schema migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrate(ctx, databaseURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// migrate runs the embedded goose migrations. Goose needs a *sql.DB, so it
// gets its own short-lived connection via the pgx stdlib driver.
func migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// CreateItem inserts an item for the owner recorded on the model.
func (s *Store) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	const query = `
		INSERT INTO items (owner_id, name, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, price, quantity, created_at, updated_at;
	`
	row := s.pool.QueryRow(ctx, query, item.OwnerID, item.Name, item.Price, item.Quantity)
	return scanItem(row)
}

// ListItems returns every item owned by ownerID. No rows is an empty slice,
// not an error.
func (s *Store) ListItems(ctx context.Context, ownerID int64) ([]models.Item, error) {
	const query = `
		SELECT id, owner_id, name, price, quantity, created_at, updated_at
		FROM items
		WHERE owner_id = $1
		ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetItem fetches one item. The owner filter sits in the same predicate as
// the id so a foreign-owned row is indistinguishable from a missing one.
func (s *Store) GetItem(ctx context.Context, itemID, ownerID int64) (models.Item, error) {
	const query = `
		SELECT id, owner_id, name, price, quantity, created_at, updated_at
		FROM items
		WHERE id = $1 AND owner_id = $2;
	`
	return scanItem(s.pool.QueryRow(ctx, query, itemID, ownerID))
}

// UpdateItem rewrites name, price, and quantity of the row matching both the
// item id and the owner id.
func (s *Store) UpdateItem(ctx context.Context, item models.Item) (models.Item, error) {
	const query = `
		UPDATE items
		SET name = $3, price = $4, quantity = $5, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, price, quantity, created_at, updated_at;
	`
	row := s.pool.QueryRow(ctx, query, item.ID, item.OwnerID, item.Name, item.Price, item.Quantity)
	return scanItem(row)
}

// DeleteItem removes the row matching both keys. Zero rows affected maps to
// ErrNotFound so a repeated delete reports not found.
func (s *Store) DeleteItem(ctx context.Context, itemID, ownerID int64) error {
	const query = `DELETE FROM items WHERE id = $1 AND owner_id = $2;`
	tag, err := s.pool.Exec(ctx, query, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanItem(row pgx.Row) (models.Item, error) {
	var item models.Item
	if err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Price, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Item{}, storage.ErrNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}
