package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/storage"
)

// TestStoreIntegration exercises the Postgres store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_POSTGRES_INTEGRATION") != "true" {
		t.Skip("set RUN_POSTGRES_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	suffix := time.Now().UnixNano()
	alice := mustCreateUser(t, ctx, store, fmt.Sprintf("alice_%d", suffix))
	bob := mustCreateUser(t, ctx, store, fmt.Sprintf("bob_%d", suffix))

	t.Run("duplicate user conflicts", func(t *testing.T) {
		_, err := store.CreateUser(ctx, models.User{
			Username:     alice.Username,
			Email:        fmt.Sprintf("other_%d@example.com", suffix),
			PasswordHash: "x",
		})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	item, err := store.CreateItem(ctx, models.Item{
		OwnerID: alice.ID, Name: "Widget", Price: 9.99, Quantity: 5,
	})
	require.NoError(t, err)
	require.NotZero(t, item.ID)

	t.Run("owner reads own item", func(t *testing.T) {
		got, err := store.GetItem(ctx, item.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)
		assert.Equal(t, 9.99, got.Price)
		assert.Equal(t, 5, got.Quantity)
	})

	t.Run("foreign owner sees not found", func(t *testing.T) {
		_, err := store.GetItem(ctx, item.ID, bob.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("foreign update affects zero rows", func(t *testing.T) {
		_, err := store.UpdateItem(ctx, models.Item{
			ID: item.ID, OwnerID: bob.ID, Name: "Stolen", Price: 0, Quantity: 0,
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		got, err := store.GetItem(ctx, item.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)
	})

	t.Run("list is owner scoped", func(t *testing.T) {
		items, err := store.ListItems(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		items, err = store.ListItems(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, item.ID, items[0].ID)
	})

	t.Run("delete twice", func(t *testing.T) {
		require.NoError(t, store.DeleteItem(ctx, item.ID, alice.ID))
		assert.ErrorIs(t, store.DeleteItem(ctx, item.ID, alice.ID), storage.ErrNotFound)
	})
}

func mustCreateUser(t *testing.T, ctx context.Context, store *Store, username string) models.User {
	t.Helper()
	user, err := store.CreateUser(ctx, models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "integration-test-hash",
	})
	require.NoError(t, err)
	return user
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
