package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventario/internal/config"
	"inventario/internal/infra"
	"inventario/internal/router"
	"inventario/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger: pretty in dev, JSON in prod
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	svcs := router.NewServicios(cfg, db, rdb)

	// Worker handlers are wired here (composition root).
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notificador worker.NotificadorAlertas
	if cfg.SMTPHost != "" {
		notificador = infra.NewMailer(cfg)
	}

	pool := worker.NewPool(rdb)
	pool.Handle(worker.JobComprobante, worker.NewComprobanteWorker(svcs.Salidas, cfg.PDFStoragePath).Process)
	pool.Handle(worker.JobAlertaStock, worker.NewAlertaStockWorker(notificador, cfg.AlertaEmail).Process)
	pool.Start(ctx, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventario listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
