package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/config"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/handler"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/metrics"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/notify"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/service"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/telegram"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	logrus.Info("Config initialized...")

	// TranslateError maps unique-index violations to gorm.ErrDuplicatedKey,
	// which the schedule repository relies on for slot collisions.
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Foreign keys are off by default in SQLite
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	analystRepo, err := repository.NewGormAnalystRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create analyst repository")
	}

	scheduleRepo, err := repository.NewGormScheduleRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create schedule repository")
	}

	absenceRepo, err := repository.NewGormAbsenceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create absence repository")
	}

	debtRepo, err := repository.NewGormFairnessDebtRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create fairness debt repository")
	}

	replacementRepo, err := repository.NewGormReplacementRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create replacement repository")
	}

	compOffRepo, err := repository.NewGormCompOffRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create comp-off repository")
	}

	shiftDefRepo, err := repository.NewGormShiftDefinitionRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create shift definition repository")
	}

	if err := shiftDefRepo.SeedDefaults(cfg.Region); err != nil {
		logrus.Infof("Warning: Failed to seed shift definitions: %v", err)
	}

	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	notifier := notify.NewTelegramNotifier(client)

	detectorOpts := service.DetectorOptions{
		BulkEmptyThreshold: cfg.BulkEmptyThreshold,
		WeekendRule:        service.WeekendRule(cfg.WeekendRule),
	}

	ledgerService := service.NewFairnessLedgerService(debtRepo)
	compOffService := service.NewCompOffService(compOffRepo)
	detector := service.NewConflictDetectorService(scheduleRepo, detectorOpts)
	generator := service.NewScheduleGeneratorService(scheduleRepo, analystRepo, detector, detectorOpts)
	selector := service.NewReplacementSelectorService(analystRepo, scheduleRepo, absenceRepo, replacementRepo, ledgerService)
	analystService := service.NewAnalystService(analystRepo, shiftDefRepo)
	workflow := service.NewAbsenceWorkflowService(
		absenceRepo,
		scheduleRepo,
		analystRepo,
		replacementRepo,
		ledgerService,
		compOffService,
		selector,
		notifier,
	)
	impactService := service.NewImpactAnalyzerService(absenceRepo, scheduleRepo, analystRepo, selector)

	if err := analystService.InitializeLead(cfg.BaseLeadChatID); err != nil {
		logrus.Infof("Warning: Failed to initialize lead: %v", err)
	} else if cfg.BaseLeadChatID != 0 {
		logrus.Infof("Lead initialized with chat ID: %d", cfg.BaseLeadChatID)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			logrus.Infof("Metrics listening on %s/metrics", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logrus.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	botHandler := handler.NewHandler(
		client,
		analystService,
		detector,
		generator,
		workflow,
		impactService,
		ledgerService,
		compOffService,
		cfg,
	)

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
