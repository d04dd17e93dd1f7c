package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/config"
	"github.com/Thyago-vibe/posto-mobile/internal/repository/postgres"
	"github.com/Thyago-vibe/posto-mobile/internal/scheduler"
	"github.com/Thyago-vibe/posto-mobile/internal/server/handlers"
	"github.com/Thyago-vibe/posto-mobile/internal/server/router"
	closingsvc "github.com/Thyago-vibe/posto-mobile/internal/service/closing"
	salessvc "github.com/Thyago-vibe/posto-mobile/internal/service/sales"
	"github.com/Thyago-vibe/posto-mobile/pkg/clients/authapi"
	"github.com/Thyago-vibe/posto-mobile/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	db, err := postgres.Connect(cfg.Database.DSN)
	if err != nil {
		baseLogger.Fatal("failed to init postgres repository", zap.Error(err))
	}
	repo := postgres.New(db)

	closingService := closingsvc.NewService(closingsvc.Stores{
		Shifts:           repo,
		Operators:        repo,
		Clients:          repo,
		Users:            repo,
		Closings:         repo,
		OperatorClosings: repo,
		CreditNotes:      repo,
	}, closingsvc.Policy{
		RequireNotesOnShortage: cfg.Closing.RequireNotesOnShortage,
		Location:               cfg.Location(),
	}, baseLogger.Named("svc.closing"))

	salesService := salessvc.NewService(repo, cfg.Location(), baseLogger.Named("svc.sales"))

	// The identity provider is optional: shared-device installs run fully
	// anonymous and the orchestrator falls back to its admin-user chain.
	var identityProvider closingsvc.IdentityProvider
	if authClient := authapi.NewClient(cfg.Auth); authClient != nil {
		identityProvider = authClient
		baseLogger.Info("hosted auth identity provider enabled")
	} else {
		baseLogger.Warn("auth api url missing, submissions resolve identity anonymously")
	}

	closingHandler := handlers.NewClosingHandler(closingService, identityProvider, baseLogger.Named("handlers.closing"))
	directoryHandler := handlers.NewDirectoryHandler(repo, cfg.Location(), baseLogger.Named("handlers.directory"))
	salesHandler := handlers.NewSalesHandler(salesService, baseLogger.Named("handlers.sales"))
	engine := router.New(closingHandler, directoryHandler, salesHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, cfg.Location(), closingService, repo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
