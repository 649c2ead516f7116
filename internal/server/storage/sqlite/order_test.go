package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/server/storage"
)

func newOrder(id, created string) *models.Order {
	return &models.Order{
		ID:         models.OrderID{OrderID: id},
		MemberID:   "m1",
		CreateTime: created,
		ExpiredAt:  "2025-12-31T00:00:00",
		Price:      1000,
	}
}

func TestOrderStorage_VersionsAreAppended(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	order := newOrder("o1", "2024-01-01T10:00:00")
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.Equal(t, int64(1), order.ID.Version)

	update := newOrder("o1", "2024-02-01T10:00:00")
	update.IsPaid = 1
	require.NoError(t, s.UpdateOrder(ctx, update))
	assert.Equal(t, int64(2), update.ID.Version)

	history, err := s.OrderHistory(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].ID.Version)
	assert.Equal(t, 0, history[0].IsPaid, "предыдущая версия не меняется")
	assert.Equal(t, 1, history[1].IsPaid)
}

func TestOrderStorage_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.UpdateOrder(ctx, newOrder("missing", "2024-01-01T10:00:00"))
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
}

func TestOrderStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateOrder(ctx, newOrder("o1", "2024-01-01T10:00:00")))

	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	deleted, err := s.DeleteOrder(ctx, "o1", at)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted.ID.Version)
	assert.True(t, deleted.Deleted())
	assert.Equal(t, "2024-03-01T08:30:00", deleted.CreateTime)
	assert.Equal(t, int64(1000), deleted.Price, "поля копируются из последней версии")

	_, err = s.DeleteOrder(ctx, "o1", at)
	assert.ErrorIs(t, err, storage.ErrOrderDeleted)

	_, err = s.DeleteOrder(ctx, "missing", at)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
}

func TestOrderStorage_FindOrders(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, o := range []*models.Order{
		newOrder("before", "2023-12-31T23:59:59"),
		newOrder("start", "2024-01-01T00:00:00"),
		newOrder("end", "2024-01-31T23:59:59"),
		newOrder("after", "2024-02-01T00:00:00"),
	} {
		require.NoError(t, s.CreateOrder(ctx, o))
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	orders, err := s.FindOrders(ctx, start, end)
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, "end", orders[0].ID.OrderID, "новые первыми")
	assert.Equal(t, "start", orders[1].ID.OrderID)
}

func TestOrderStorage_HistoryUnknown(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	history, err := s.OrderHistory(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
