package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/config"
	"github.com/mamadbah2/vendsim/internal/repository/file"
	"github.com/mamadbah2/vendsim/internal/repository/mongodb"
	"github.com/mamadbah2/vendsim/internal/repository/sheets"
	"github.com/mamadbah2/vendsim/internal/scheduler"
	"github.com/mamadbah2/vendsim/internal/server/handlers"
	"github.com/mamadbah2/vendsim/internal/server/router"
	financialsvc "github.com/mamadbah2/vendsim/internal/service/financials"
	inventorysvc "github.com/mamadbah2/vendsim/internal/service/inventory"
	simulationsvc "github.com/mamadbah2/vendsim/internal/service/simulation"
	webhookclient "github.com/mamadbah2/vendsim/pkg/clients/webhook"
	"github.com/mamadbah2/vendsim/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := file.NewStore(cfg.Data.Dir, baseLogger.Named("repo.file"))
	if err != nil {
		baseLogger.Fatal("failed to init state store", zap.Error(err))
	}
	if err := store.EnsureDefaults(); err != nil {
		baseLogger.Fatal("failed to seed default state", zap.Error(err))
	}

	var integrations simulationsvc.Integrations

	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		integrations.Archiver = mongoRepo
		baseLogger.Info("day-result archive enabled")
	}

	if cfg.Sheets.SpreadsheetID != "" {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		integrations.Exporter = sheetsRepo
		baseLogger.Info("daily financial export enabled")
	}

	if cfg.Webhook.URL != "" {
		integrations.Notifier = webhookclient.NewClient(cfg.Webhook)
		baseLogger.Info("day summary webhook enabled")
	}

	simSvc := simulationsvc.NewService(store, integrations, baseLogger.Named("svc.simulation"))
	inventorySvc := inventorysvc.NewService(store, baseLogger.Named("svc.inventory"))
	financialSvc := financialsvc.NewService(store, baseLogger.Named("svc.financials"))

	simCfg, err := store.LoadConfig()
	if err != nil {
		baseLogger.Fatal("failed to load simulation config", zap.Error(err))
	}

	sched := scheduler.NewScheduler(simSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(simCfg.TickSeconds, simCfg.Simulation.Running); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := handlers.NewVendingHandler(simSvc, inventorySvc, financialSvc, sched, baseLogger.Named("handlers.vending"))
	engine := router.New(handler, baseLogger.Named("router"))

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
