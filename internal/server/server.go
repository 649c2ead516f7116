// Package server собирает реплику бэкенда: хранилище SQLite, обработчики
// /user, /order и /static и цепочку middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/iudanet/gophadmin/internal/server/handlers"
	"github.com/iudanet/gophadmin/internal/server/middleware"
	"github.com/iudanet/gophadmin/internal/server/storage/sqlite"
)

// Config настройки реплики
type Config struct {
	Addr            string
	DBPath          string
	Secret          string // пустой - подпись не проверяется
	StaticDir       string
	Name            string
	Version         string
	Rate            int // запросов в минуту с одного IP, 0 - без ограничения
	UploadRate      int // отдельный лимит для /static/upload
	ShutdownTimeout time.Duration
}

// Server реплика бэкенда
type Server struct {
	logger   *slog.Logger
	store    *sqlite.Storage
	handler  http.Handler
	limiters []*middleware.RateLimiter
	cfg      Config
}

// New открывает хранилище и собирает маршруты
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.StaticDir != "" {
		if err := os.MkdirAll(cfg.StaticDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create static dir: %w", err)
		}
	}

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, logger: logger, store: store}
	s.handler = s.routes()
	return s, nil
}

// routes: recovery -> logging -> rate limit -> signature -> handlers.
// /health не требует подписи.
func (s *Server) routes() http.Handler {
	members := handlers.NewMemberHandler(s.logger, s.store)
	orders := handlers.NewOrderHandler(s.logger, s.store)
	static := handlers.NewStaticHandler(s.logger, s.cfg.StaticDir)
	health := handlers.NewHealthHandler(s.logger, s.store.DB(), s.cfg.Name, s.cfg.Version)

	api := http.NewServeMux()
	api.HandleFunc("GET /user/getAll", members.List)
	api.HandleFunc("POST /user/save", members.Save)
	api.HandleFunc("POST /user/update", members.Update)
	api.HandleFunc("DELETE /user/delete/{id}", members.Delete)

	api.HandleFunc("GET /order/findRange", orders.FindRange)
	api.HandleFunc("GET /order/history", orders.History)
	api.HandleFunc("POST /order/save", orders.Save)
	api.HandleFunc("POST /order/update", orders.Update)
	api.HandleFunc("DELETE /order/delete/{orderId}", orders.Delete)

	api.HandleFunc("GET /static/lookup", static.Lookup)
	api.HandleFunc("POST /static/upload", static.Upload)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", health.Health)
	root.Handle("/", middleware.SignatureMiddleware(s.logger, s.cfg.Secret)(api))

	var h http.Handler = root
	if s.cfg.Rate > 0 {
		fallback := middleware.NewRateLimiter(s.cfg.Rate, time.Minute)
		s.limiters = append(s.limiters, fallback)

		limits := map[string]*middleware.RateLimiter{}
		if s.cfg.UploadRate > 0 {
			upload := middleware.NewRateLimiter(s.cfg.UploadRate, time.Minute)
			s.limiters = append(s.limiters, upload)
			limits["/static/upload"] = upload
		}
		h = middleware.RateLimitByPathMiddleware(limits, fallback, s.logger)(h)
	}
	h = middleware.LoggingWithSkip(s.logger, []string{"/health"})(h)
	return middleware.RecoveryMiddleware(s.logger)(h)
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает cfg.Addr до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("replica started",
			slog.String("addr", s.cfg.Addr),
			slog.String("name", s.cfg.Name),
			slog.Bool("signing", s.cfg.Secret != ""))
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down replica")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Close останавливает limiters и закрывает хранилище
func (s *Server) Close() error {
	for _, l := range s.limiters {
		l.Stop()
	}
	return s.store.Close()
}
