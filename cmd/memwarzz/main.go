package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/database"
	"github.com/deppfellow/memwarzz/internal/handler"
	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/logger"
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/repository"
	"github.com/deppfellow/memwarzz/internal/router"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/deppfellow/memwarzz/internal/service"
)

const (
	migrationTimeout = 60 * time.Second
	shutdownTimeout  = 30 * time.Second
)

func main() {
	cfg := config.LoadConfig()

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), migrationTimeout)
	err := database.Migrate(migrateCtx, &log, database.DSN(cfg.Database))
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	srv.Job.InitHandlers(cfg, &log, services.Battle)
	if err := srv.Job.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start background jobs")
	}

	handlers := handler.NewHandlers(srv, services)
	mws := middleware.NewMiddlewares(srv, supabase.NewClient(cfg.Supabase))
	r := router.NewRouter(srv, handlers, mws)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
