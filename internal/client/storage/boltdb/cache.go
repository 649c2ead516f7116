package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/models"
)

// SaveMembers replaces the cached member list in a single transaction
func (s *Storage) SaveMembers(ctx context.Context, snap *storage.MemberSnapshot) error {
	return saveList(s, bucketMembers, snap.Info, snap.Members)
}

// GetMembers returns the cached member list
func (s *Storage) GetMembers(ctx context.Context) (*storage.MemberSnapshot, error) {
	info, members, err := loadList[models.Member](s, bucketMembers)
	if err != nil {
		return nil, err
	}
	return &storage.MemberSnapshot{Info: info, Members: members}, nil
}

// SaveOrders replaces the cached order list in a single transaction
func (s *Storage) SaveOrders(ctx context.Context, snap *storage.OrderSnapshot) error {
	return saveList(s, bucketOrders, snap.Info, snap.Orders)
}

// GetOrders returns the cached order list
func (s *Storage) GetOrders(ctx context.Context) (*storage.OrderSnapshot, error) {
	info, orders, err := loadList[models.Order](s, bucketOrders)
	if err != nil {
		return nil, err
	}
	return &storage.OrderSnapshot{Info: info, Orders: orders}, nil
}

// positionKey ключ записи: позиция в списке, чтобы сохранить порядок
func positionKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}

func saveList[T any](s *Storage, name []byte, info storage.FetchInfo, list []T) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		// Старый снимок удаляется целиком
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to clear %s bucket: %w", name, err)
			}
		}
		bucket, err := tx.CreateBucket(name)
		if err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", name, err)
		}

		for i, rec := range list {
			data, err := encode(rec)
			if err != nil {
				return fmt.Errorf("failed to encode %s record: %w", name, err)
			}
			if err := bucket.Put(positionKey(i), data); err != nil {
				return fmt.Errorf("failed to save %s record: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("meta bucket not found")
		}
		data, err := encode(info)
		if err != nil {
			return fmt.Errorf("failed to encode fetch info: %w", err)
		}
		if err := meta.Put(name, data); err != nil {
			return fmt.Errorf("failed to save fetch info: %w", err)
		}
		return nil
	})
}

func loadList[T any](s *Storage, name []byte) (storage.FetchInfo, []T, error) {
	var (
		info storage.FetchInfo
		list []T
	)
	if s.db == nil {
		return info, nil, storage.ErrStorageClosed
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("meta bucket not found")
		}
		// Снимок еще ни разу не сохранялся
		data := meta.Get(name)
		if data == nil {
			return storage.ErrCacheEmpty
		}
		if err := decode(data, &info); err != nil {
			return fmt.Errorf("failed to decode fetch info: %w", err)
		}

		bucket := tx.Bucket(name)
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", name)
		}
		list = make([]T, 0, bucket.Stats().KeyN)
		return bucket.ForEach(func(k, v []byte) error {
			var rec T
			if err := decode(v, &rec); err != nil {
				return fmt.Errorf("failed to decode %s record: %w", name, err)
			}
			list = append(list, rec)
			return nil
		})
	})
	if err != nil {
		return info, nil, err
	}

	return info, list, nil
}
