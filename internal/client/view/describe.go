package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophadmin/internal/client/resolver"
)

// Describe переводит ошибку операции в сообщение для пользователя
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var ambiguous *resolver.AmbiguousWriteError
	if errors.As(err, &ambiguous) {
		return fmt.Sprintf("write outcome unknown on %s: verify before retrying", ambiguous.Endpoint)
	}

	var appErr *resolver.ApplicationError
	if errors.As(err, &appErr) {
		return "API Error: " + appErr.Message
	}

	var formatErr *resolver.FormatError
	if errors.As(err, &formatErr) {
		return "unexpected response from " + formatErr.Endpoint
	}

	switch {
	case errors.Is(err, resolver.ErrAllUnavailable):
		return "all servers unavailable"
	case errors.Is(err, resolver.ErrNoEndpoints):
		return "no servers configured"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	}

	return err.Error()
}
