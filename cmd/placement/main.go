package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/placement/internal/agent"
	"github.com/alexanderramin/placement/internal/cli"
	"github.com/alexanderramin/placement/internal/config"
	"github.com/alexanderramin/placement/internal/db"
	"github.com/alexanderramin/placement/internal/mirror"
	"github.com/alexanderramin/placement/internal/notify"
	"github.com/alexanderramin/placement/internal/orchestrator"
	"github.com/alexanderramin/placement/internal/taskqueue"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx := context.Background()
	engine, err := orchestrator.New(cfg,
		orchestrator.WithLogger(logger),
		orchestrator.WithObserver(agent.NewSlogUseCaseObserver(logger)),
	)
	if err != nil {
		return err
	}

	// Outlets attach before Start so they see system:initialized.
	var closers []func(context.Context) error
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](closeCtx); err != nil {
				logger.Warn("shutdown step failed", "error", err.Error())
			}
		}
	}()

	if cfg.Mirror.Enabled {
		database, err := db.OpenDB(cfg.Mirror.DBPath)
		if err != nil {
			return fmt.Errorf("opening mirror database: %w", err)
		}
		closers = append(closers, func(context.Context) error { return database.Close() })

		queue := taskqueue.New(cfg.Mirror.QueueSize, cfg.Mirror.QueueWorkers, logger.With("component", "mirror"))
		closers = append(closers, queue.Close)

		m := mirror.New(db.NewSQLiteUnitOfWork(database), queue, logger)
		m.Attach(engine.Bus())
	}

	if cfg.Notify.RedisAddr != "" {
		client, err := notify.DialRedis(ctx, cfg.Notify.RedisAddr)
		if err != nil {
			// Notifications are optional; run without them.
			logger.Error("notifications disabled", "error", err.Error())
		} else {
			pub := notify.NewRedisPublisher(client)
			closers = append(closers, func(context.Context) error { return pub.Close() })

			queue := taskqueue.New(cfg.Notify.QueueSize, 1, logger.With("component", "notify"))
			closers = append(closers, queue.Close)

			d := notify.NewDispatcher(pub, queue, cfg.Notify.RedisChannel, logger)
			d.Attach(engine.Bus())
		}
	}

	if err := engine.Start(ctx); err != nil {
		return err
	}
	closers = append(closers, engine.Shutdown)

	app := &cli.App{Engine: engine}
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// newLogger picks a text handler for terminals and JSON otherwise.
func newLogger(w *os.File, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	format := strings.ToLower(cfg.LogFormat)
	if format == "auto" || format == "" {
		format = "json"
		if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
			format = "text"
		}
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
