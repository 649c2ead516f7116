package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/models"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "cache_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestCache_EmptyBeforeFirstSave(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetMembers(ctx)
	assert.ErrorIs(t, err, storage.ErrCacheEmpty)

	_, err = store.GetOrders(ctx)
	assert.ErrorIs(t, err, storage.ErrCacheEmpty)
}

func TestCache_SaveAndGetMembers(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	fetchedAt := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)
	snap := &storage.MemberSnapshot{
		Info: storage.FetchInfo{FetchedAt: fetchedAt, Query: "all"},
		Members: []models.Member{
			{ID: "m2", Name: "Bob"},
			{ID: "m1", Name: "Alice"},
		},
	}
	require.NoError(t, store.SaveMembers(ctx, snap))

	got, err := store.GetMembers(ctx)
	require.NoError(t, err)
	assert.True(t, fetchedAt.Equal(got.Info.FetchedAt))
	assert.Equal(t, "all", got.Info.Query)
	assert.Equal(t, snap.Members, got.Members, "порядок записей сохраняется")
}

func TestCache_SaveOverwritesWholesale(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first := &storage.OrderSnapshot{
		Info: storage.FetchInfo{FetchedAt: time.Now(), Query: "2023-01-01..2025-01-01"},
		Orders: []models.Order{
			{ID: models.OrderID{OrderID: "o1", Version: 1}, CreateTime: "2024-01-01T00:00:00"},
			{ID: models.OrderID{OrderID: "o2", Version: 1}, CreateTime: "2024-01-02T00:00:00"},
			{ID: models.OrderID{OrderID: "o3", Version: 1}, CreateTime: "2024-01-03T00:00:00"},
		},
	}
	require.NoError(t, store.SaveOrders(ctx, first))

	second := &storage.OrderSnapshot{
		Info: storage.FetchInfo{FetchedAt: time.Now(), Query: "2024-06-01..2024-06-30"},
		Orders: []models.Order{
			{
				ID:         models.OrderID{OrderID: "o9", Version: 4},
				MemberID:   "m1",
				CreateTime: "2024-06-10T08:30:00",
				ExpiredAt:  "2024-07-10T08:30:00",
				Server:     "Server 2",
				Price:      2500,
				IsPaid:     1,
			},
		},
	}
	require.NoError(t, store.SaveOrders(ctx, second))

	got, err := store.GetOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01..2024-06-30", got.Info.Query)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, second.Orders[0], got.Orders[0])
}

func TestCache_SaveEmptyList(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.SaveMembers(ctx, &storage.MemberSnapshot{
		Members: []models.Member{{ID: "m1", Name: "Alice"}},
	}))
	require.NoError(t, store.SaveMembers(ctx, &storage.MemberSnapshot{}))

	got, err := store.GetMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Members)
}

func TestCache_Closed(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.GetMembers(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.SaveOrders(context.Background(), &storage.OrderSnapshot{}), storage.ErrStorageClosed)
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveMembers(ctx, &storage.MemberSnapshot{
		Members: []models.Member{{ID: "m1", Name: "Alice"}},
	}))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	got, err := reopened.GetMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Member{{ID: "m1", Name: "Alice"}}, got.Members)
}
