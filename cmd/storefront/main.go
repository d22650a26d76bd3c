package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aerolite/internal/config"
	"aerolite/internal/services"
	"aerolite/internal/storage"
	"aerolite/internal/storefront"
)

func main() {
	cfg := config.NewConfig()

	// stdout carries the storefront screen
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	client := services.NewServiceClient(cfg)
	app := storefront.New(client, store, os.Stdout, storefront.Options{
		NotifyDismiss: cfg.NotifyDismiss,
		ContactDelay:  cfg.ContactDelay,
	})

	slog.Info("Starting storefront", "api", cfg.APIBaseURL, "storage", cfg.StorageBackend)
	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start storefront", "error", err)
		os.Exit(1)
	}

	fmt.Println(`Type "help" for commands.`)
	if runPrompt(ctx, app, readLines(os.Stdin), os.Stdout) {
		stop()
		slog.Info("Storefront interrupted")
	}
}

type executor interface {
	Execute(ctx context.Context, line string) error
}

// runPrompt executes input lines until quit, end of input or ctx is done.
// It reports whether it stopped because of ctx.
func runPrompt(ctx context.Context, app executor, lines <-chan string, out io.Writer) bool {
	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return true
		case l, ok := <-lines:
			if !ok {
				return false
			}
			line = l
		}

		err := app.Execute(ctx, line)
		switch {
		case errors.Is(err, storefront.ErrQuit):
			return false
		case errors.Is(err, storefront.ErrUnknownCommand), errors.Is(err, storefront.ErrBadArgument):
			fmt.Fprintln(out, err, `(type "help")`)
		case err != nil:
			slog.Debug("Command failed", "error", err)
		}
	}
}

// readLines feeds stdin to the prompt loop so that it can also wait on a
// signal. The channel closes at end of input.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			slog.Error("Input error", "error", err)
		}
	}()
	return lines
}

func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		rs, err := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisNamespace)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
		return rs, func() { rs.Close() }, nil
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	case "file", "":
		return storage.NewFileStore(cfg.StoragePath), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	slog.Info("Metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server error", "error", err)
	}
}
