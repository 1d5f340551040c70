package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/attributing"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
)

// AttributionSyncService schedules attribution recomputation. Attribution
// reads committed fact rows only, so it can run while merges are idle or
// between them; it never writes fact tables.
type AttributionSyncService struct {
	scheduler    *gocron.Scheduler
	cronSchedule string
	syncEnabled  bool
	engine       attributing.Engine

	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunSummary     *attributing.RunSummary
	lastRunError       string
}

func NewAttributionSyncService(engine attributing.Engine, appConfig *config.Config) *AttributionSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.AttributionSync.CronSchedule,
		"sync_enabled":  appConfig.AttributionSync.Enabled,
		"window_days":   appConfig.AttributionSync.WindowDays,
		"decay_rate":    appConfig.AttributionSync.DecayRate,
	}).Info("Attribution scheduler configured")

	return &AttributionSyncService{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.AttributionSync.CronSchedule,
		syncEnabled:  appConfig.AttributionSync.Enabled,
		engine:       engine,
	}
}

func (s *AttributionSyncService) Start(ctx context.Context) error {
	if !s.syncEnabled {
		logrus.Info("Attribution sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Starting attribution scheduler")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling attribution sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping attribution scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AttributionSyncService) runSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Attribution run already in progress, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastRunStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	summary, err := s.engine.AttributeOrders(ctx)

	status := "success"
	if err != nil {
		status = "failed"
		s.lastRunError = err.Error()
		logrus.WithError(err).Error("Attribution run failed")
	} else {
		s.lastRunError = ""
		s.lastRunSummary = summary
	}

	observability.RunDuration.WithLabelValues("attribution", status).Observe(time.Since(startTime).Seconds())
	s.lastRunCompletedAt = time.Now()
}

func (s *AttributionSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Attribution run already in progress, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual attribution run")
	go s.runSync(context.Background())
}

func (s *AttributionSyncService) GetStatus() map[string]any {
	status := map[string]any{
		"sync_enabled":          s.syncEnabled,
		"sync_cron":             s.cronSchedule,
		"sync_running":          s.syncRunning,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
	}
	if s.lastRunError != "" {
		status["last_run_error"] = s.lastRunError
	}
	if s.lastRunSummary != nil {
		status["last_run_summary"] = s.lastRunSummary
	}
	return status
}
