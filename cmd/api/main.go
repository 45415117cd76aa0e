package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeremyjsx/postboard/internal/config"
	"github.com/jeremyjsx/postboard/internal/events"
	"github.com/jeremyjsx/postboard/internal/handlers"
	"github.com/jeremyjsx/postboard/internal/posts"
	"github.com/jeremyjsx/postboard/internal/server"
	"github.com/jeremyjsx/postboard/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		slog.Default().Error("api stopped", "error", err)
		os.Exit(1)
	}
}

// run wires the service and serves until ctx is cancelled. Every resource it
// opens is closed before it returns.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	sqlDB, repo, err := posts.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("closing database failed", "error", err)
		}
	}()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmq, err := events.NewRabbitMQPublisher(ctx, cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("connect to RabbitMQ: %w", err)
		}
		defer func() {
			if err := rmq.Close(); err != nil {
				logger.Warn("closing RabbitMQ publisher failed", "error", err)
			}
		}()
		publisher = rmq
	}

	var archive storage.Storage
	if cfg.S3Bucket != "" {
		client, err := storage.NewS3Client(ctx, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
		archive = storage.NewS3Storage(client, cfg.S3Bucket)
	}

	svc := posts.NewService(repo, publisher, archive, logger)
	api := handlers.NewAPI(svc, logger)
	health := handlers.Health(&handlers.HealthDeps{
		Store:       svc,
		Storage:     archive,
		RabbitMQURL: cfg.RabbitMQURL,
	})

	srv := server.New(cfg.Addr(), server.NewHandler(server.NewSharedAPI(api), health, logger), cfg.ShutdownTimeout, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
