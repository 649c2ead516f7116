package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophadmin/internal/models"
)

//go:generate moq -out cache_mock.go . CacheStorage

// FetchInfo describes the request that produced a cached snapshot
type FetchInfo struct {
	FetchedAt time.Time `msgpack:"fetched_at"`
	Query     string    `msgpack:"query"` // human readable request parameters
}

// MemberSnapshot is the last successful member list
type MemberSnapshot struct {
	Info    FetchInfo
	Members []models.Member
}

// OrderSnapshot is the last successful order list
type OrderSnapshot struct {
	Info   FetchInfo
	Orders []models.Order
}

// CacheStorage keeps the last fetched lists for offline viewing.
// The cache is not authoritative: each save replaces the previous snapshot wholesale.
type CacheStorage interface {
	// SaveMembers replaces the cached member list
	SaveMembers(ctx context.Context, snap *MemberSnapshot) error

	// GetMembers returns the cached member list
	// Returns ErrCacheEmpty if nothing was cached yet
	GetMembers(ctx context.Context) (*MemberSnapshot, error)

	// SaveOrders replaces the cached order list
	SaveOrders(ctx context.Context, snap *OrderSnapshot) error

	// GetOrders returns the cached order list
	// Returns ErrCacheEmpty if nothing was cached yet
	GetOrders(ctx context.Context) (*OrderSnapshot, error)
}
