package middleware

import (
	"testing"

	"go.uber.org/goleak"
)

// Остановленный RateLimiter не должен оставлять горутину очистки
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
