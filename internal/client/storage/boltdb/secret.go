package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophadmin/internal/client/storage"
)

var secretKey = []byte("signing_secret")

// SaveSecret stores the sealed signing key, replacing the previous one
func (s *Storage) SaveSecret(ctx context.Context, secret *storage.SealedSecret) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfile)
		if bucket == nil {
			return fmt.Errorf("profile bucket not found")
		}

		data, err := encode(secret)
		if err != nil {
			return fmt.Errorf("failed to encode secret: %w", err)
		}

		if err := bucket.Put(secretKey, data); err != nil {
			return fmt.Errorf("failed to save secret: %w", err)
		}
		return nil
	})
}

// GetSecret returns the sealed signing key
func (s *Storage) GetSecret(ctx context.Context) (*storage.SealedSecret, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var secret *storage.SealedSecret
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfile)
		if bucket == nil {
			return fmt.Errorf("profile bucket not found")
		}

		data := bucket.Get(secretKey)
		if data == nil {
			return storage.ErrSecretNotFound
		}

		secret = &storage.SealedSecret{}
		if err := decode(data, secret); err != nil {
			return fmt.Errorf("failed to decode secret: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// DeleteSecret removes the sealed signing key
func (s *Storage) DeleteSecret(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfile)
		if bucket == nil {
			return fmt.Errorf("profile bucket not found")
		}

		// Проверяем существование данных
		if bucket.Get(secretKey) == nil {
			return storage.ErrSecretNotFound
		}

		if err := bucket.Delete(secretKey); err != nil {
			return fmt.Errorf("failed to delete secret: %w", err)
		}
		return nil
	})
}
