package storage

import (
	"context"
	"time"
)

// SealedSecret is the signing key encrypted with the user's passphrase
type SealedSecret struct {
	UpdatedAt   time.Time `msgpack:"updated_at"`
	Fingerprint string    `msgpack:"fingerprint"` // fingerprint of the plaintext key
	Sealed      []byte    `msgpack:"sealed"`      // salt || nonce || ciphertext
}

// SecretStorage stores the sealed signing key in the local profile.
// It never sees the plaintext key: sealing happens in the secret service.
type SecretStorage interface {
	SaveSecret(ctx context.Context, secret *SealedSecret) error

	// GetSecret returns ErrSecretNotFound if no secret is stored
	GetSecret(ctx context.Context) (*SealedSecret, error)

	// DeleteSecret returns ErrSecretNotFound if no secret is stored
	DeleteSecret(ctx context.Context) error
}
