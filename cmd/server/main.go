package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qbsync/internal/app/server/api"
	"qbsync/internal/app/server/config"
	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
	"qbsync/internal/domain/sync"
	"qbsync/internal/infrastructure/quickbooks"
	"qbsync/internal/infrastructure/storage/postgres"
	"qbsync/internal/utils/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := postgres.New(ctx, conf, log)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	qb, err := quickbooks.NewClient(conf.QuickBooks, log)
	if err != nil {
		log.Error("failed to init quickbooks client", "error", err)
		os.Exit(1)
	}

	registry, err := resource.Bind(qb)
	if err != nil {
		log.Error("failed to build resource registry", "error", err)
		os.Exit(1)
	}

	engine := sync.NewEngine(registry, log)
	repo := postgres.NewRecordRepository(storage.Pool(), log)
	service := record.NewService(repo, engine, registry, log)

	srv := &http.Server{
		Addr: conf.Server.RunAddress,
		Handler: api.New(api.Deps{
			DB:       storage,
			Records:  service,
			APIToken: conf.Server.APIToken,
		}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting server", "address", conf.Server.RunAddress, "env", conf.Env, "types", registry.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
