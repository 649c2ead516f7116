package storage

import "errors"

// Common client storage errors
var (
	// ErrCacheEmpty indicates that nothing has been fetched yet
	ErrCacheEmpty = errors.New("cache is empty")

	// ErrSecretNotFound indicates that no sealed secret is stored in the profile
	ErrSecretNotFound = errors.New("secret not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
