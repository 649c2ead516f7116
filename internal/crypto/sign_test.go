package crypto

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_KnownVector(t *testing.T) {
	// Известный вектор HMAC-SHA256 (RFC 4231-style пример из Wikipedia)
	got := Sign("The quick brown fox jumps over the lazy dog", "key")
	assert.Equal(t, "97yD9DBThCSxMpjmqm+xQ+9NWaFJRhdZl0edvC0aPNg=", got)
}

func TestSign_Deterministic(t *testing.T) {
	msg := `{"id":"m-1","name":"alice"}`

	first := Sign(msg, "secret")
	second := Sign(msg, "secret")

	assert.Equal(t, first, second, "одинаковые входные данные должны давать одинаковую подпись")
}

func TestSign_Format(t *testing.T) {
	tests := []struct {
		name    string
		message string
		key     string
	}{
		{name: "path with query", message: "/order/findRange?startDate=2023-01-01&endDate=2024-01-01", key: "k"},
		{name: "empty key", message: "/user/getAll", key: ""},
		{name: "empty message", message: "", key: "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Sign(tt.message, tt.key)

			// 32 байта HMAC-SHA256 в base64 с паддингом всегда 44 символа
			assert.Len(t, sig, 44)
			raw, err := base64.StdEncoding.DecodeString(sig)
			require.NoError(t, err)
			assert.Len(t, raw, 32)
		})
	}
}

func TestSign_DistinctKeys(t *testing.T) {
	msg := `{"name":"bob"}`
	seen := make(map[string]string)

	for i := range 50 {
		key := fmt.Sprintf("key-%d", i)
		sig := Sign(msg, key)
		if prev, ok := seen[sig]; ok {
			t.Fatalf("keys %q and %q produced the same signature", prev, key)
		}
		seen[sig] = key
	}
}

func TestSign_WhitespaceChangesSignature(t *testing.T) {
	// Любое расхождение в байтах между подписантом и проверяющим ломает подпись
	assert.NotEqual(t, Sign(`{"a":1}`, "k"), Sign(`{"a": 1}`, "k"))
	assert.NotEqual(t, Sign(`{"a":1,"b":2}`, "k"), Sign(`{"b":2,"a":1}`, "k"))
}

func TestVerify(t *testing.T) {
	msg := "/user/delete/42"
	sig := Sign(msg, "secret")

	tests := []struct {
		name      string
		message   string
		key       string
		signature string
		want      bool
	}{
		{name: "valid", message: msg, key: "secret", signature: sig, want: true},
		{name: "wrong key", message: msg, key: "other", signature: sig, want: false},
		{name: "tampered message", message: "/user/delete/43", key: "secret", signature: sig, want: false},
		{name: "not base64", message: msg, key: "secret", signature: "%%%", want: false},
		{name: "empty signature", message: msg, key: "secret", signature: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.message, tt.key, tt.signature))
		})
	}
}
