package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/PratikDhanave/fuel-command-center/internal/config"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/httpserver"
	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/notify"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// main boots the service: config → log store → worksheets → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Configure(cfg.Log)
	logger := logging.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("open store")
	}
	defer st.Close()

	// Create missing worksheets so a fresh workbook or database is enough.
	if err := st.EnsureSchema(ctx, store.Worksheets()...); err != nil {
		logger.Fatal().Err(err).Msg("ensure worksheets")
	}

	opts := []fuel.Option{
		fuel.WithLimits(cfg.Limits),
		fuel.WithTankers(cfg.Tankers),
		fuel.WithTankerCapacity(cfg.TankerCapacity),
	}
	if cfg.Kafka.Enabled() {
		k, err := notify.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("connect kafka")
		}
		defer k.Close()
		opts = append(opts, fuel.WithNotifier(k))
	}
	svc := fuel.NewService(st, opts...)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpserver.NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.Store.Backend).Msg("server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serve")
	}
	logger.Info().Msg("server stopped")
}
