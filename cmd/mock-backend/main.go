package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aerolite/internal/backend"
	"aerolite/internal/cache"
	"aerolite/internal/config"
)

func main() {
	cfg := config.NewConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	slog.Info("Starting mock backend", "port", cfg.HTTPPort, "payment_success_rate", cfg.PaymentSuccessRate)

	var limiter backend.Limiter
	if cfg.LoginRateLimit > 0 {
		l, err := cache.NewLimiter(cfg.RedisAddr, cfg.LoginRateLimit, cfg.RateLimitWindow)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer l.Close()
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr, "limit", cfg.LoginRateLimit)
		limiter = l
	}

	approver := backend.NewRandomApprover(cfg.PaymentSuccessRate, time.Now().UnixNano())
	handler := backend.NewHandler(backend.NewStore(), approver, cfg.JWTSecret, limiter)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}
