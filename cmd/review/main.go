package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"adversarial-review/internal/client"
	"adversarial-review/internal/collector"
	"adversarial-review/internal/config"
	"adversarial-review/internal/github"
	"adversarial-review/internal/pipeline"
	"adversarial-review/internal/publisher"
	"adversarial-review/internal/reviewer"
	"adversarial-review/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

// run is separated from main so deferred cleanup executes before os.Exit.
func run() int {
	// Optional .env for local runs; CI provides the environment directly
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}

	logger, logCleanup := setupLogger(cfg)
	defer logCleanup()
	slog.SetDefault(logger)

	ctx := context.Background()

	llm, err := client.NewLLM(ctx, cfg)
	if err != nil {
		slog.Error("create llm failed", "error", err)
		return 2
	}

	var store storage.Repository
	if cfg.Storage.Driver == "sqlite" && cfg.Storage.DSN != "" {
		store, err = storage.NewSQLiteRepository(cfg.Storage.DSN, cfg.Storage.MaxStringLen)
		if err != nil {
			slog.Error("init storage failed", "error", err)
			store = nil // Persistence is optional, the review still runs
		} else {
			defer store.Close()
		}
	} else if cfg.Storage.Driver != "" && cfg.Storage.Driver != "sqlite" {
		slog.Warn("unknown storage driver", "driver", cfg.Storage.Driver)
	}

	p := pipeline.New(
		cfg,
		collector.New(cfg.Review),
		reviewer.New(llm, cfg.Review.GuidelinesFile),
		publisher.New(github.NewClient(cfg.GitHub)),
		store,
	)

	return p.Run(ctx)
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg *config.Config) (*slog.Logger, func()) {
	var writers []io.Writer
	var closers []io.Closer
	outputs := strings.Split(cfg.Log.Output, ",")

	for _, output := range outputs {
		output = strings.TrimSpace(output)
		if output == "" {
			continue
		}

		var w io.Writer
		switch output {
		case "stderr":
			w = os.Stderr
		case "stdout":
			w = os.Stdout
		default:
			// Use lumberjack for log rotation
			l := &lumberjack.Logger{
				Filename:   output,
				MaxSize:    cfg.Log.Rotation.MaxSize,
				MaxBackups: cfg.Log.Rotation.MaxBackups,
				MaxAge:     cfg.Log.Rotation.MaxAge,
				Compress:   cfg.Log.Rotation.Compress,
			}
			w = l
			closers = append(closers, l)
		}
		writers = append(writers, w)
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	multiWriter := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: cfg.GetLogLevel()}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(multiWriter, opts)
	} else {
		handler = slog.NewTextHandler(multiWriter, opts)
	}

	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	return slog.New(handler), cleanup
}
