package resolver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Option настраивает Resolver
type Option func(*Resolver)

// WithHTTPClient задает HTTP клиент
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithLogger задает логгер попыток
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithAttemptTimeout ограничивает время одной попытки.
// Истечение таймаута считается транспортным сбоем. 0 - без ограничения.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.attemptTimeout = d
	}
}

// NewHTTPClient создает HTTP клиент с общим таймаутом и переносом
// заголовков подписи при редиректах
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Ограничиваем количество редиректов
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			for _, h := range []string{"X-Signature", "X-Request-ID"} {
				if v := via[0].Header.Get(h); v != "" {
					req.Header.Set(h, v)
				}
			}
			return nil
		},
	}
}
