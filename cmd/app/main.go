package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tracking/cmd"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/redis"
	"tracking/internal/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tracking",
		Short:         "Shipment unit tracking: checkpoint API, background worker and migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	cmd.RegisterFlags(root.PersistentFlags())

	load := func(c *cobra.Command) (cmd.Config, *zap.Logger, error) {
		config, err := cmd.LoadConfig(envFile, c.Flags())
		if err != nil {
			return cmd.Config{}, nil, err
		}

		log, err := logger.New(config.Environment, config.LogLevel)
		if err != nil {
			return cmd.Config{}, nil, err
		}
		return config, log, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(c *cobra.Command, _ []string) error {
				config, log, err := load(c)
				if err != nil {
					return err
				}
				defer func() { _ = log.Sync() }()

				return serve(c.Context(), config, log)
			},
		},
		&cobra.Command{
			Use:   "worker",
			Short: "Consume background jobs and run the maintenance schedule",
			RunE: func(c *cobra.Command, _ []string) error {
				config, log, err := load(c)
				if err != nil {
					return err
				}
				defer func() { _ = log.Sync() }()

				return work(c.Context(), config, log)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(c *cobra.Command, _ []string) error {
				config, log, err := load(c)
				if err != nil {
					return err
				}
				defer func() { _ = log.Sync() }()

				db, err := postgres.Open(config.Database.DSN())
				if err != nil {
					return err
				}
				defer func() { _ = postgres.Close(db) }()

				if err = postgres.Migrate(db); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				log.Info("database schema is up to date")
				return nil
			},
		},
	)

	return root
}

func connect(ctx context.Context, config cmd.Config) (*gorm.DB, *goredis.Client, error) {
	db, err := postgres.Open(config.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err = postgres.Ping(ctx, db); err != nil {
		_ = postgres.Close(db)
		return nil, nil, fmt.Errorf("database unreachable: %w", err)
	}

	client, err := redis.NewClient(config.Redis.URL)
	if err != nil {
		_ = postgres.Close(db)
		return nil, nil, err
	}
	if err = redis.Ping(ctx, client); err != nil {
		_ = client.Close()
		_ = postgres.Close(db)
		return nil, nil, err
	}

	return db, client, nil
}

func serve(parent context.Context, config cmd.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
		_ = postgres.Close(db)
	}()

	root := cmd.NewCompositionRoot(config, db, client, log)

	e, err := root.CreateRouter()
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%d", config.HTTPPort)
		log.Info("http server listening", zap.String("addr", addr))
		if startErr := e.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			errCh <- startErr
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}

func work(parent context.Context, config cmd.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, client, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
		_ = postgres.Close(db)
	}()

	root := cmd.NewCompositionRoot(config, db, client, log)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	go root.CreateHeartbeat().Run(ctx, logger.Component(log, "heartbeat"))

	log.Info("worker started",
		zap.Int("concurrency", config.Worker.Concurrency),
		zap.Duration("job_timeout", config.Worker.JobTimeout),
	)
	root.CreateWorker().Run(ctx)
	log.Info("worker stopped")

	return nil
}
