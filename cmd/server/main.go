package main

import (
	"Wishwall/internal/config"
	"Wishwall/internal/handlers"
	"Wishwall/internal/metrics"
	"Wishwall/internal/middleware"
	"Wishwall/internal/repo"
	"Wishwall/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sink, err := repo.NewSink(ctx, cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize document sink", "sink", cfg.SinkKind, "error", err)
	}

	if cfg.AdminPassword == "" {
		sugar.Warnw("ADMIN_PASSWORD is empty: replies and deletes are disabled")
	}

	collector := metrics.NewCollector("wishwall")

	opts := service.DefaultOptions(cfg.AdminPassword)
	opts.FailOpenReads = !cfg.ListStrict
	opts.SerializeWrites = !cfg.DisableWriteQueue
	opts.Observer = collector
	wishService := service.NewWishService(sink, opts, sugar)

	h := handlers.NewHandler(wishService, collector, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"Sink", cfg.SinkKind,
		"FilePath", cfg.FilePath,
		"ObjectName", cfg.ObjectName,
		"S3Bucket", cfg.S3Bucket,
		"ListStrict", cfg.ListStrict,
		"WriteQueue", !cfg.DisableWriteQueue,
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
