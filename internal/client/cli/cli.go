// Package cli собирает команды gophadmin поверх клиентов бэкендов,
// кэша последней выборки и хранилища ключа подписи.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophadmin/internal/client/api"
	"github.com/iudanet/gophadmin/internal/client/iocli"
	"github.com/iudanet/gophadmin/internal/client/resolver"
	"github.com/iudanet/gophadmin/internal/client/secret"
	"github.com/iudanet/gophadmin/internal/client/storage"
	"github.com/iudanet/gophadmin/internal/client/storage/boltdb"
	"github.com/iudanet/gophadmin/internal/config"
)

// Options значения глобальных флагов
type Options struct {
	ConfigPath     string
	Members        []string
	Orders         []string
	Static         []string
	CachePath      string
	LogLevel       string
	SecretFile     string
	Secret         string
	AttemptTimeout time.Duration
	NoSign         bool
}

// BuildInfo сведения о сборке для --version
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type Cli struct {
	io        iocli.IO
	cfg       *config.Config
	logger    *slog.Logger
	store     *boltdb.Storage
	cache     storage.CacheStorage // nil - кэш в локальной БД
	now       func() time.Time
	lookupEnv func(string) (string, bool)
	secretKey *string
	build     BuildInfo
	opts      Options
}

// New создает CLI, который пишет в io
func New(io iocli.IO, build BuildInfo) *Cli {
	return &Cli{
		io:        io,
		build:     build,
		now:       time.Now,
		lookupEnv: os.LookupEnv,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// Command строит дерево команд
func (c *Cli) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "gophadmin",
		Short:         "Admin client for member and order backends",
		Version:       c.build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("GophAdmin Client\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
		c.build.Version, c.build.BuildDate, c.build.GitCommit))
	root.SetOut(c.io)

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.ConfigPath, "config", "", "Path to config file")
	flags.StringSliceVar(&c.opts.Members, "members", nil, "Member backend replicas, in fallback order")
	flags.StringSliceVar(&c.opts.Orders, "orders", nil, "Order backend replicas, in fallback order")
	flags.StringSliceVar(&c.opts.Static, "static", nil, "Static file replicas, in fallback order")
	flags.StringVar(&c.opts.CachePath, "cache", "", "Path to local cache database")
	flags.StringVar(&c.opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.DurationVar(&c.opts.AttemptTimeout, "attempt-timeout", 0, "Timeout of a single replica attempt")
	flags.BoolVar(&c.opts.NoSign, "no-sign", false, "Send requests without signature")
	flags.StringVar(&c.opts.SecretFile, "secret-file", "", "Path to file containing the signing secret")
	flags.StringVar(&c.opts.Secret, "secret", "", "Signing secret (not recommended, use env var or file)")

	root.AddCommand(
		c.membersCommand(),
		c.ordersCommand(),
		c.staticCommand(),
		c.secretCommand(),
		c.cacheCommand(),
	)
	return root
}

// setup загружает конфигурацию: файл, затем окружение, затем флаги
func (c *Cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("members") {
		cfg.MemberEndpoints = c.opts.Members
	}
	if flags.Changed("orders") {
		cfg.OrderEndpoints = c.opts.Orders
	}
	if flags.Changed("static") {
		cfg.StaticEndpoints = c.opts.Static
	}
	if flags.Changed("cache") {
		cfg.CachePath = c.opts.CachePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.opts.LogLevel
	}
	if flags.Changed("attempt-timeout") {
		cfg.AttemptTimeout = c.opts.AttemptTimeout
	}
	if c.opts.NoSign {
		cfg.Signing.Enabled = false
	}
	if c.opts.SecretFile == "" {
		c.opts.SecretFile = cfg.Signing.SecretFile
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	c.cfg = cfg

	c.logger.Debug("configuration loaded",
		slog.String("config", cfg.ConfigPath),
		slog.Bool("signing", cfg.Signing.Enabled))
	return nil
}

// Close закрывает локальное хранилище, если оно открывалось
func (c *Cli) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// storage открывает локальную БД кэша и профиля при первом обращении
func (c *Cli) storage(ctx context.Context) (*boltdb.Storage, error) {
	if c.store != nil {
		return c.store, nil
	}
	store, err := boltdb.New(ctx, c.cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	c.store = store
	return store, nil
}

// cacheStorage возвращает хранилище последних выборок
func (c *Cli) cacheStorage(ctx context.Context) (storage.CacheStorage, error) {
	if c.cache != nil {
		return c.cache, nil
	}
	store, err := c.storage(ctx)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// signingSecret возвращает ключ подписи, спрашивая источники один раз за запуск
func (c *Cli) signingSecret(ctx context.Context) (string, error) {
	if c.secretKey != nil {
		return *c.secretKey, nil
	}

	store, err := c.storage(ctx)
	if err != nil {
		return "", err
	}
	provider := secret.NewProvider(secret.NewStore(store), c.io, c.opts.SecretFile, c.opts.Secret)
	provider.Lookup = c.lookupEnv

	key, source, err := provider.Resolve(ctx)
	if err != nil {
		return "", err
	}
	c.logger.Debug("signing secret resolved", slog.String("source", string(source)))
	c.secretKey = &key
	return key, nil
}

// client создает клиент бэкенда с заданными репликами
func (c *Cli) client(ctx context.Context, endpoints []string) (*api.Client, error) {
	r := resolver.New(endpoints,
		resolver.WithHTTPClient(resolver.NewHTTPClient(c.cfg.RequestTimeout)),
		resolver.WithAttemptTimeout(c.cfg.AttemptTimeout),
		resolver.WithLogger(c.logger),
	)

	opts := []api.Option{api.WithLogger(c.logger), api.WithClock(c.now)}
	if c.cfg.Signing.Enabled {
		key, err := c.signingSecret(ctx)
		if err != nil {
			if errors.Is(err, secret.ErrNoSecret) {
				return nil, fmt.Errorf("%w (use --no-sign for unsigned backends)", err)
			}
			return nil, err
		}
		opts = append(opts, api.WithSecret(key))
	}
	return api.NewClient(r, opts...), nil
}
