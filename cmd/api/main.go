package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/ingestion/kafka"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/migration"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/api"
	"github.com/vfg2006/marketing-analytics-api/internal/api/handler"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/scheduler"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/attributing"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/calendar"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/merging"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/reconciling"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/tenancy"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := migration.Up(cfg.Database.DSN); err != nil {
		logrus.WithError(err).Fatal("Error applying database migrations")
	}

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	stagingRepo := repository.NewStagingRecordRepository(pgConn)
	connectionRepo := repository.NewTenantConnectionRepository(pgConn)
	campaignRepo := repository.NewCampaignFactRepository(pgConn)
	orderRepo := repository.NewOrderFactRepository(pgConn)
	attributionRepo := repository.NewAttributionRepository(pgConn)
	watermarkRepo := repository.NewWatermarkRepository(pgConn)
	dateRangeRepo := repository.NewDateRangeRepository(pgConn)

	authenticator := authenticating.NewService(&cfg.Auth)
	resolver := tenancy.NewService(connectionRepo)

	mergeService := merging.NewService(
		cfg.Sources,
		stagingRepo,
		campaignRepo,
		orderRepo,
		watermarkRepo,
		resolver,
	)

	attributionService := attributing.NewService(
		cfg.AttributionSync.WindowDays,
		cfg.AttributionSync.DecayRate,
		orderRepo,
		campaignRepo,
		attributionRepo,
	)

	reconciliationService := reconciling.NewService(
		cfg.ReconciliationSync.TolerancePct,
		mergeService,
		campaignRepo,
		orderRepo,
	)

	calendarService := calendar.NewService(cfg.CalendarSync.HorizonDays, dateRangeRepo)

	campaignMergeSync := scheduler.NewCampaignMergeSyncService(mergeService, cfg)
	orderMergeSync := scheduler.NewOrderMergeSyncService(mergeService, cfg)
	attributionSync := scheduler.NewAttributionSyncService(attributionService, cfg)
	reconciliationSync := scheduler.NewReconciliationSyncService(reconciliationService, cfg)
	calendarSync := scheduler.NewCalendarSyncService(calendarService, cfg)

	startScheduler(ctx, "campaign merge", campaignMergeSync.Start)
	startScheduler(ctx, "order merge", orderMergeSync.Start)
	startScheduler(ctx, "attribution", attributionSync.Start)
	startScheduler(ctx, "reconciliation", reconciliationSync.Start)
	startScheduler(ctx, "calendar", calendarSync.Start)

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(&cfg.Kafka, stagingRepo)
		consumer.Start(ctx)
	} else {
		logrus.Info("Kafka consumer disabled by configuration")
	}

	if cfg.Metrics.Enabled {
		observability.StartMetricsServer(cfg.Metrics.Addr)
	}

	server, err := api.New(
		cfg,
		authenticator,
		reconciliationService,
		watermarkRepo,
		handler.CronJobServices{
			CampaignMergeSyncService:  campaignMergeSync,
			OrderMergeSyncService:     orderMergeSync,
			AttributionSyncService:    attributionSync,
			ReconciliationSyncService: reconciliationSync,
			CalendarSyncService:       calendarSync,
		},
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func startScheduler(ctx context.Context, name string, start func(context.Context) error) {
	if err := start(ctx); err != nil {
		logrus.WithError(err).Errorf("Error starting %s scheduler", name)
		return
	}
	logrus.Infof("%s scheduler started", name)
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Error connecting to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Error pinging PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
