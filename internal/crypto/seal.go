package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для ключа, которым шифруется секрет подписи в локальном профиле
const (
	Argon2Time    = 1
	Argon2Memory  = 64 * 1024 // 64MB в KB
	Argon2Threads = 4
	KeyLen        = 32
	SaltSize      = 16
	NonceSize     = 12
)

// ErrWrongPassphrase возвращается, если сохраненный секрет не удалось расшифровать
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted secret")

// DeriveKey получает 32-байтный ключ AES из парольной фразы
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	return argon2.IDKey([]byte(passphrase), salt, Argon2Time, Argon2Memory, Argon2Threads, KeyLen), nil
}

// SealSecret шифрует секрет подписи парольной фразой.
// Формат результата: salt (16) + nonce (12) + ciphertext + auth_tag (16)
func SealSecret(secret, passphrase string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret cannot be empty")
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := make([]byte, 0, SaltSize+NonceSize+len(secret)+aesGCM.Overhead())
	sealed = append(sealed, salt...)
	sealed = append(sealed, nonce...)
	return aesGCM.Seal(sealed, nonce, []byte(secret), nil), nil
}

// OpenSecret расшифровывает результат SealSecret
func OpenSecret(sealed []byte, passphrase string) (string, error) {
	if len(sealed) < SaltSize+NonceSize {
		return "", fmt.Errorf("sealed secret too short")
	}

	key, err := DeriveKey(passphrase, sealed[:SaltSize])
	if err != nil {
		return "", err
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := sealed[SaltSize : SaltSize+NonceSize]
	plaintext, err := aesGCM.Open(nil, nonce, sealed[SaltSize+NonceSize:], nil)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

// Fingerprint возвращает короткий отпечаток секрета для вывода в status.
// Сам секрет по отпечатку не восстанавливается.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:16]
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
