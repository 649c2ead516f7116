package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophadmin/internal/models"
)

// OrderStorage defines interface for versioned order persistence.
// Rows are never updated in place: every change is a new version.
type OrderStorage interface {
	// CreateOrder stores version 1 of a new order
	CreateOrder(ctx context.Context, order *models.Order) error

	// UpdateOrder stores order as version max(version)+1 and sets order.ID.Version
	// Returns ErrOrderNotFound if order has no versions
	UpdateOrder(ctx context.Context, order *models.Order) error

	// DeleteOrder stores a copy of the latest version with is_deleted = 1
	// Returns ErrOrderNotFound or ErrOrderDeleted
	DeleteOrder(ctx context.Context, orderID string, at time.Time) (*models.Order, error)

	// FindOrders returns every version created within [start, end] days inclusive
	FindOrders(ctx context.Context, start, end time.Time) ([]models.Order, error)

	// OrderHistory returns all versions of one order, oldest first
	// Returns empty slice if order is unknown
	OrderHistory(ctx context.Context, orderID string) ([]models.Order, error)
}
