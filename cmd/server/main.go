package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/config"
	"github.com/mamadbah2/feedplanner/internal/repository/mongodb"
	"github.com/mamadbah2/feedplanner/internal/repository/requirements"
	"github.com/mamadbah2/feedplanner/internal/repository/sheets"
	"github.com/mamadbah2/feedplanner/internal/scheduler"
	"github.com/mamadbah2/feedplanner/internal/server/handlers"
	"github.com/mamadbah2/feedplanner/internal/server/router"
	commandsvc "github.com/mamadbah2/feedplanner/internal/service/commands"
	exportsvc "github.com/mamadbah2/feedplanner/internal/service/export"
	plannersvc "github.com/mamadbah2/feedplanner/internal/service/planner"
	pricingsvc "github.com/mamadbah2/feedplanner/internal/service/pricing"
	whatsappsvc "github.com/mamadbah2/feedplanner/internal/service/whatsapp"
	"github.com/mamadbah2/feedplanner/pkg/clients/prices"
	whatsappclient "github.com/mamadbah2/feedplanner/pkg/clients/whatsapp"
	"github.com/mamadbah2/feedplanner/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("google sheets not configured, sheet export disabled")
	}

	plannerSvc := plannersvc.NewService(mongoRepo, mongoRepo, requirements.NewStaticTable(), logger.Named(baseLogger, "svc.planner"))

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := plannerSvc.EnsureDefaults(seedCtx); err != nil {
		baseLogger.Fatal("failed to seed ingredient catalog", zap.Error(err))
	}
	cancelSeed()

	priceClient := prices.NewClient(cfg.Prices)
	pricingSvc := pricingsvc.NewService(priceClient, mongoRepo, logger.Named(baseLogger, "svc.pricing"))
	baseLogger.Info("price source selected", zap.String("source", priceClient.Source()))

	sheetExporter := exportsvc.NewSheetExporter(sheetsRepo, logger.Named(baseLogger, "svc.export"))

	routes := router.Handlers{
		FeedPlans:   handlers.NewFeedPlanHandler(plannerSvc, sheetExporter, pricingSvc, logger.Named(baseLogger, "handlers.feed_plans")),
		Ingredients: handlers.NewIngredientHandler(plannerSvc, logger.Named(baseLogger, "handlers.ingredients")),
	}

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(plannerSvc, pricingSvc, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, whatsappsvc.NewSessionManager(time.Hour), logger.Named(baseLogger, "svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Warn("whatsapp token missing, chat assistant disabled")
	}

	engine := router.New(routes, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Prices, pricingSvc, notifier, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
