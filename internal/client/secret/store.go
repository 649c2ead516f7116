// Package secret управляет ключом подписи запросов: хранит его в локальном
// профиле зашифрованным парольной фразой и выбирает источник ключа при запуске.
package secret

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/crypto"
)

// Status сведения о сохраненном ключе без его раскрытия
type Status struct {
	UpdatedAt   time.Time
	Fingerprint string
	Stored      bool
}

// Store шифрует ключ перед сохранением и расшифровывает при чтении.
// Хранилище видит только зашифрованные байты.
type Store struct {
	storage storage.SecretStorage
	now     func() time.Time
}

// NewStore создает Store поверх хранилища профиля
func NewStore(s storage.SecretStorage) *Store {
	return &Store{storage: s, now: time.Now}
}

// Save шифрует secret парольной фразой и сохраняет в профиль
func (s *Store) Save(ctx context.Context, secret, passphrase string) error {
	if secret == "" {
		return fmt.Errorf("secret cannot be empty")
	}
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	sealed, err := crypto.SealSecret(secret, passphrase)
	if err != nil {
		return fmt.Errorf("failed to seal secret: %w", err)
	}

	return s.storage.SaveSecret(ctx, &storage.SealedSecret{
		Sealed:      sealed,
		Fingerprint: crypto.Fingerprint(secret),
		UpdatedAt:   s.now().UTC(),
	})
}

// Open расшифровывает сохраненный ключ
func (s *Store) Open(ctx context.Context, passphrase string) (string, error) {
	stored, err := s.storage.GetSecret(ctx)
	if err != nil {
		return "", err
	}

	secret, err := crypto.OpenSecret(stored.Sealed, passphrase)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Clear удаляет ключ из профиля. Отсутствие ключа не ошибка.
func (s *Store) Clear(ctx context.Context) error {
	err := s.storage.DeleteSecret(ctx)
	if err != nil && !errors.Is(err, storage.ErrSecretNotFound) {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

// Status возвращает сведения о сохраненном ключе
func (s *Store) Status(ctx context.Context) (*Status, error) {
	stored, err := s.storage.GetSecret(ctx)
	if errors.Is(err, storage.ErrSecretNotFound) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return &Status{
		Stored:      true,
		Fingerprint: stored.Fingerprint,
		UpdatedAt:   stored.UpdatedAt,
	}, nil
}

// Has сообщает, сохранен ли ключ в профиле
func (s *Store) Has(ctx context.Context) (bool, error) {
	st, err := s.Status(ctx)
	if err != nil {
		return false, err
	}
	return st.Stored, nil
}
