package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophadmin/internal/config"
	"github.com/iudanet/gophadmin/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// EnvServerSecret переменная окружения с ключом проверки подписи
const EnvServerSecret = "GOPHADMIN_SERVER_SECRET"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func command() *cobra.Command {
	cfg := server.Config{Version: Version}
	var logLevel string

	cmd := &cobra.Command{
		Use:           "gophadmin-server",
		Short:         "Reference member/order backend replica",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := config.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			if !cmd.Flags().Changed("secret") {
				cfg.Secret = os.Getenv(EnvServerSecret)
			}
			if cfg.Secret == "" {
				logger.Warn("request signatures are not verified: no secret configured")
			}

			srv, err := server.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logger.Error("failed to close storage", slog.Any("error", err))
				}
			}()

			return srv.Run(cmd.Context())
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("GophAdmin Server\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
		Version, BuildDate, GitCommit))

	flags := cmd.Flags()
	flags.StringVar(&cfg.Addr, "addr", ":8081", "Listen address")
	flags.StringVar(&cfg.DBPath, "db", "gophadmin-replica.db", "Path to SQLite database")
	flags.StringVar(&cfg.Secret, "secret", "", "Signing secret (default from "+EnvServerSecret+")")
	flags.StringVar(&cfg.StaticDir, "static-dir", "static", "Directory of static files")
	flags.StringVar(&cfg.Name, "name", "Server 1", "Replica name reported by /health")
	flags.IntVar(&cfg.Rate, "rate", 600, "Requests per minute per client IP, 0 disables the limit")
	flags.IntVar(&cfg.UploadRate, "upload-rate", 30, "Uploads per minute per client IP")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (default 10s)")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}
