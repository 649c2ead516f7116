// Package resolver выполняет запрос к одной из нескольких реплик бэкенда.
//
// Реплики опрашиваются строго по порядку и последовательно. Первый ответ
// с кодом прикладного успеха возвращается сразу, прикладная ошибка завершает
// разрешение, транспортный сбой переводит к следующей реплике. Исключение -
// Each: fan-out чтение опрашивает все реплики одновременно.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/gophadmin/pkg/api"
)

// RequestBuilder строит запрос к конкретной реплике
type RequestBuilder func(ctx context.Context, baseURL string) (*http.Request, error)

// Result успешный ответ реплики
type Result struct {
	Envelope *api.Envelope
	Endpoint string
	Index    int // позиция реплики в списке endpoints
}

// Outcome результат опроса одной реплики в режиме fan-out
type Outcome struct {
	Result   *Result
	Err      error
	Endpoint string
	Index    int
}

// RawResult сырое содержимое, отданное репликой
type RawResult struct {
	Endpoint    string
	ContentType string
	Body        []byte
	Index       int
}

// Resolver перебирает реплики одного логического бэкенда
type Resolver struct {
	httpClient     *http.Client
	logger         *slog.Logger
	endpoints      []string
	attemptTimeout time.Duration
}

// New создает resolver для упорядоченного списка базовых URL
func New(endpoints []string, opts ...Option) *Resolver {
	r := &Resolver{
		endpoints:  append([]string(nil), endpoints...),
		httpClient: NewHTTPClient(30 * time.Second),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Endpoints возвращает копию списка реплик
func (r *Resolver) Endpoints() []string {
	return append([]string(nil), r.endpoints...)
}

// Resolve выполняет идемпотентный запрос (чтение).
// Любой транспортный сбой переводит к следующей реплике.
func (r *Resolver) Resolve(ctx context.Context, build RequestBuilder) (*Result, error) {
	return r.resolve(ctx, build, false)
}

// ResolveWrite выполняет неидемпотентный запрос (создание, изменение, удаление).
// Если сбой произошел после отправки запроса, возвращается AmbiguousWriteError
// и другие реплики не опрашиваются, чтобы не применить запись дважды.
func (r *Resolver) ResolveWrite(ctx context.Context, build RequestBuilder) (*Result, error) {
	return r.resolve(ctx, build, true)
}

func (r *Resolver) resolve(ctx context.Context, build RequestBuilder, write bool) (*Result, error) {
	return run(ctx, r, write, func(endpoint string, i int) (*Result, error) {
		env, err := r.attempt(ctx, endpoint, build)
		if err != nil {
			return nil, err
		}
		return &Result{Envelope: env, Endpoint: endpoint, Index: i}, nil
	})
}

// Fetch выполняет чтение сырого содержимого (статические файлы).
// Ответ без 2xx статуса считается сбоем реплики, как и сетевая ошибка.
func (r *Resolver) Fetch(ctx context.Context, build RequestBuilder) (*RawResult, error) {
	return run(ctx, r, false, func(endpoint string, i int) (*RawResult, error) {
		return r.fetch(ctx, endpoint, i, build)
	})
}

// run общий цикл перебора реплик
func run[T any](ctx context.Context, r *Resolver, write bool, try func(endpoint string, i int) (T, error)) (T, error) {
	var zero T
	if len(r.endpoints) == 0 {
		return zero, ErrNoEndpoints
	}

	failure := &AggregateFailure{}
	for i, endpoint := range r.endpoints {
		res, err := try(endpoint, i)
		if err == nil {
			r.logger.DebugContext(ctx, "endpoint answered",
				slog.String("endpoint", endpoint),
				slog.Int("index", i))
			return res, nil
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			// Прикладная ошибка или ошибка построения запроса: дальше не идем
			return zero, err
		}

		r.logger.WarnContext(ctx, "endpoint unavailable",
			slog.String("endpoint", endpoint),
			slog.Int("index", i),
			slog.Bool("sent", transportErr.Sent),
			slog.Any("error", transportErr.Err))

		if write && transportErr.Sent {
			return zero, &AmbiguousWriteError{Endpoint: endpoint, Err: transportErr}
		}

		// Пользователь отменил действие: остальные реплики не трогаем
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		failure.Attempts = append(failure.Attempts, transportErr)
	}

	return zero, failure
}

// Each опрашивает все реплики параллельно и возвращает результат каждой
// в порядке списка. Используется только для чтения (fan-out со слиянием).
func (r *Resolver) Each(ctx context.Context, build RequestBuilder) []Outcome {
	outcomes := make([]Outcome, len(r.endpoints))

	var g errgroup.Group
	for i, endpoint := range r.endpoints {
		g.Go(func() error {
			outcomes[i] = r.each(ctx, endpoint, i, build)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (r *Resolver) each(ctx context.Context, endpoint string, i int, build RequestBuilder) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Endpoint: endpoint, Index: i, Err: err}
	}
	env, err := r.attempt(ctx, endpoint, build)
	if err != nil {
		r.logger.WarnContext(ctx, "fan-out endpoint failed",
			slog.String("endpoint", endpoint),
			slog.Any("error", err))
		return Outcome{Endpoint: endpoint, Index: i, Err: err}
	}
	return Outcome{
		Endpoint: endpoint,
		Index:    i,
		Result:   &Result{Envelope: env, Endpoint: endpoint, Index: i},
	}
}

// send строит и отправляет запрос, отмечая, был ли он записан в соединение.
// Возвращает тело ответа целиком.
func (r *Resolver) send(ctx context.Context, endpoint string, build RequestBuilder) (*http.Response, []byte, error) {
	req, err := build(ctx, endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}

	// Отслеживаем, ушел ли запрос в соединение целиком
	var sent atomic.Bool
	trace := &httptrace.ClientTrace{
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err == nil {
				sent.Store(true)
			}
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Endpoint: endpoint, Err: err, Sent: sent.Load()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response body: %w", err), Sent: true}
	}
	return resp, body, nil
}

func (r *Resolver) withAttemptTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.attemptTimeout > 0 {
		return context.WithTimeout(ctx, r.attemptTimeout)
	}
	return ctx, func() {}
}

// attempt выполняет одну попытку и классифицирует ее исход
func (r *Resolver) attempt(ctx context.Context, endpoint string, build RequestBuilder) (*api.Envelope, error) {
	attemptCtx, cancel := r.withAttemptTimeout(ctx)
	defer cancel()

	resp, body, err := r.send(attemptCtx, endpoint, build)
	if err != nil {
		return nil, err
	}

	var env api.Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code == "" {
		if err == nil {
			err = errors.New("missing result code")
		}
		return nil, &TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unparsable response (status %d): %w", resp.StatusCode, err),
			Sent:     true,
		}
	}

	if !env.Success() {
		return nil, &ApplicationError{
			Endpoint: endpoint,
			Code:     env.Code,
			Message:  env.Message,
			Status:   resp.StatusCode,
		}
	}

	return &env, nil
}

func (r *Resolver) fetch(ctx context.Context, endpoint string, i int, build RequestBuilder) (*RawResult, error) {
	attemptCtx, cancel := r.withAttemptTimeout(ctx)
	defer cancel()

	resp, body, err := r.send(attemptCtx, endpoint, build)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
			Sent:     true,
		}
	}
	return &RawResult{
		Endpoint:    endpoint,
		Index:       i,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// DecodeData раскладывает data успешного ответа в T.
// Отсутствующие данные (null) дают нулевое значение T.
func DecodeData[T any](res *Result) (T, error) {
	var out T
	data := res.Envelope.Data
	if len(data) == 0 || string(data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &FormatError{Endpoint: res.Endpoint, Err: err}
	}
	return out, nil
}
