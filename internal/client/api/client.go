// Package api реализует операции админ-панели поверх resolver:
// подпись запросов, разбор ответов и валидацию ввода.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophadmin/internal/canonical"
	"github.com/iudanet/gophadmin/internal/client/resolver"
	"github.com/iudanet/gophadmin/internal/crypto"
)

// RequestIDHeader заголовок идентификатора действия пользователя
const RequestIDHeader = "X-Request-ID"

// Client выполняет запросы к одному логическому бэкенду
type Client struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
	now      func() time.Time
	secret   string
	signing  bool
}

// Option настраивает Client
type Option func(*Client)

// WithSecret включает подпись запросов ключом secret
func WithSecret(secret string) Option {
	return func(c *Client) {
		c.secret = secret
		c.signing = true
	}
}

// WithLogger задает логгер
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock подменяет источник текущего времени (для дат по умолчанию)
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient создает клиент поверх resolver. Без WithSecret запросы не подписываются.
func NewClient(r *resolver.Resolver, opts ...Option) *Client {
	c := &Client{
		resolver: r,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Signing сообщает, подписываются ли запросы
func (c *Client) Signing() bool {
	return c.signing
}

// Endpoints возвращает реплики бэкенда
func (c *Client) Endpoints() []string {
	return c.resolver.Endpoints()
}

func (c *Client) sign(req *http.Request, message string) {
	if c.signing {
		req.Header.Set(crypto.SignatureHeader, crypto.Sign(message, c.secret))
	}
}

func target(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// read выполняет GET; подписывается путь вместе со строкой запроса
func (c *Client) read(ctx context.Context, path string, query url.Values) (*resolver.Result, error) {
	requestID := uuid.NewString()
	uri := target(path, query)
	c.logger.DebugContext(ctx, "read request",
		slog.String("request_id", requestID),
		slog.String("uri", uri))

	return c.resolver.Resolve(ctx, c.readBuilderWithID(uri, requestID))
}

func (c *Client) readBuilder(uri string) resolver.RequestBuilder {
	return c.readBuilderWithID(uri, uuid.NewString())
}

func (c *Client) readBuilderWithID(uri, requestID string) resolver.RequestBuilder {
	return func(ctx context.Context, baseURL string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+uri, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(RequestIDHeader, requestID)
		c.sign(req, uri)
		return req, nil
	}
}

// write выполняет изменяющий запрос. Тело отправляется в канонической
// форме и подписывается целиком; запрос без тела подписывает путь.
func (c *Client) write(ctx context.Context, method, path string, body any) (*resolver.Result, error) {
	requestID := uuid.NewString()

	var payload []byte
	if body != nil {
		var err error
		payload, err = canonical.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	c.logger.DebugContext(ctx, "write request",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path))

	return c.resolver.ResolveWrite(ctx, func(ctx context.Context, baseURL string) (*http.Request, error) {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, baseURL+path, bodyReader)
		if err != nil {
			return nil, err
		}
		req.Header.Set(RequestIDHeader, requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
			c.sign(req, string(payload))
		} else {
			c.sign(req, path)
		}
		return req, nil
	})
}

// upload отправляет multipart форму с файлом; подписывается путь
func (c *Client) upload(ctx context.Context, path, fileName string, content []byte) (*resolver.Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	requestID := uuid.NewString()
	body := buf.Bytes()
	contentType := mw.FormDataContentType()

	return c.resolver.ResolveWrite(ctx, func(ctx context.Context, baseURL string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(RequestIDHeader, requestID)
		c.sign(req, path)
		return req, nil
	})
}

// errorsAll объединяет ошибки всех реплик при неудачном fan-out
func errorsAll(errs []error) error {
	return fmt.Errorf("%w: %w", resolver.ErrAllUnavailable, errors.Join(errs...))
}
