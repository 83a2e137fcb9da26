// @title        ThynkPro Portal API
// @version      1.0
// @description  Session and role-based route guarding for the ThynkPro healthcare portal.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/thynkpro/portal/internal/api"
	"github.com/thynkpro/portal/internal/app"
	"github.com/thynkpro/portal/internal/core/service"
	"github.com/thynkpro/portal/internal/infrastructure/queue"
	"github.com/thynkpro/portal/internal/pkg/config"
	"github.com/thynkpro/portal/pkg/logger"
)

func main() {
	rootCtx := context.Background()

	cfg := config.MustLoad(rootCtx)

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal",
	})

	components, err := app.Build(rootCtx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session infrastructure")
	}
	defer func() {
		if err := components.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close backends")
		}
	}()

	workerCtx, stopWorkers := context.WithCancel(rootCtx)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, components.Events, log)
	dispatcher.Start(workerCtx)

	store := service.NewSessionStore(
		components.Provider,
		components.Slot,
		components.Codec,
		service.SessionOptions{
			LoginDelay: cfg.Session.LoginDelay,
			Events:     dispatcher,
		},
		log,
	)
	store.Restore(rootCtx)

	router := api.NewRouter(api.RouterConfig{
		Session:    store,
		Guard:      service.NewRouteGuard(store),
		Log:        log,
		Production: cfg.IsProduction(),
		Checks:     components.Checks,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("HTTP server listening")

	go func() {
		if err := server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("HTTP server closed")
				return
			}
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("graceful shutdown completed")
	}

	stopWorkers()
	dispatcher.Wait()
}
