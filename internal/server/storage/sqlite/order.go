package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/server/storage"
)

const orderColumns = `order_id, version, member_id, create_time, expired_at, is_paid, is_deleted, price`

// queryer общий интерфейс *sql.DB и *sql.Tx для чтения
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateOrder stores version 1 of a new order
func (s *Storage) CreateOrder(ctx context.Context, order *models.Order) error {
	order.ID.Version = 1
	if err := insertOrder(ctx, s.db, order); err != nil {
		return err
	}
	return nil
}

// UpdateOrder stores order as the next version
func (s *Storage) UpdateOrder(ctx context.Context, order *models.Order) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		latest, err := latestOrder(ctx, tx, order.ID.OrderID)
		if err != nil {
			return err
		}
		order.ID.Version = latest.ID.Version + 1
		return insertOrder(ctx, tx, order)
	})
}

// DeleteOrder stores a copy of the latest version marked as deleted
func (s *Storage) DeleteOrder(ctx context.Context, orderID string, at time.Time) (*models.Order, error) {
	var deleted *models.Order
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		latest, err := latestOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if latest.Deleted() {
			return storage.ErrOrderDeleted
		}

		latest.ID.Version++
		latest.IsDeleted = 1
		latest.CreateTime = at.Format(models.TimeLayout)
		if err := insertOrder(ctx, tx, latest); err != nil {
			return err
		}
		deleted = latest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// FindOrders returns every version created within [start, end] days inclusive
func (s *Storage) FindOrders(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	// create_time хранится в TimeLayout, строки сравниваются лексикографически
	from := start.Format(models.TimeLayout)
	to := end.AddDate(0, 0, 1).Format(models.TimeLayout)

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE create_time >= ? AND create_time < ?
		ORDER BY create_time DESC, order_id, version`

	return queryOrders(ctx, s.db, query, from, to)
}

// OrderHistory returns all versions of one order, oldest first
func (s *Storage) OrderHistory(ctx context.Context, orderID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE order_id = ?
		ORDER BY version`

	return queryOrders(ctx, s.db, query, orderID)
}

func insertOrder(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, order *models.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, query,
		order.ID.OrderID,
		order.ID.Version,
		order.MemberID,
		order.CreateTime,
		order.ExpiredAt,
		order.IsPaid,
		order.IsDeleted,
		order.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

func latestOrder(ctx context.Context, q queryer, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE order_id = ?
		ORDER BY version DESC
		LIMIT 1`

	order, err := scanOrder(q.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func queryOrders(ctx context.Context, q queryer, query string, args ...any) ([]models.Order, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID.OrderID,
		&o.ID.Version,
		&o.MemberID,
		&o.CreateTime,
		&o.ExpiredAt,
		&o.IsPaid,
		&o.IsDeleted,
		&o.Price,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
