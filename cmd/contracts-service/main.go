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

	"github.com/nurpe/contracts-service/internal/auth"
	"github.com/nurpe/contracts-service/internal/config"
	"github.com/nurpe/contracts-service/internal/db"
	"github.com/nurpe/contracts-service/internal/excel"
	httphandler "github.com/nurpe/contracts-service/internal/http"
	"github.com/nurpe/contracts-service/internal/http/middleware"
	"github.com/nurpe/contracts-service/internal/logger"
	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/pdf"
	"github.com/nurpe/contracts-service/internal/persist"
	"github.com/nurpe/contracts-service/internal/service"
	"github.com/nurpe/contracts-service/internal/store"
	"github.com/nurpe/contracts-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	var backend persist.Backend
	switch cfg.Store.Backend {
	case config.StoreBackendFile:
		backend, err = persist.NewFileBackend(cfg.Store.FileDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init file storage")
		}
	default:
		backend = persist.NewGormBackend(database)
	}

	metrics := telemetry.New()
	contractStore := store.New()
	persister := persist.NewPersister(backend, cfg.Store.Namespace, log, persist.WithRecorder(metrics))

	fallback := model.EmptySnapshot()
	if cfg.Store.SeedDemo {
		fallback = store.DemoSnapshot()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	persister.Hydrate(ctx, contractStore, fallback)
	cancel()

	metrics.ObserveSnapshot(contractStore.Snapshot())
	contractStore.Subscribe(metrics.ObserveSnapshot)
	persister.Attach(contractStore)

	contractService := service.NewContractService(contractStore, excel.NewGenerator(), pdf.NewGenerator(), service.WithRecorder(metrics))
	authService := auth.NewService(auth.NewUserRepository(database), auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL))

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, authService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, httphandler.RouterConfig{
		Environment: cfg.Environment,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Metrics:     metrics,
		Log:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("store", cfg.Store.Backend).Msg("starting contracts service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("contracts service stopped")
}
