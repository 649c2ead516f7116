package storage

import "errors"

// Common storage errors
var (
	// ErrMemberNotFound indicates that member was not found in storage
	ErrMemberNotFound = errors.New("member not found")

	// ErrOrderNotFound indicates that order has no stored versions
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderDeleted indicates that the latest order version is already marked deleted
	ErrOrderDeleted = errors.New("order already deleted")
)
