package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/reconciling"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
)

// ReconciliationSyncService schedules the staging-vs-fact drift checks.
// Drift is reported, never auto-corrected.
type ReconciliationSyncService struct {
	scheduler    *gocron.Scheduler
	cronSchedule string
	syncEnabled  bool
	checker      reconciling.Checker

	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunError       string
}

func NewReconciliationSyncService(checker reconciling.Checker, appConfig *config.Config) *ReconciliationSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.ReconciliationSync.CronSchedule,
		"sync_enabled":  appConfig.ReconciliationSync.Enabled,
		"tolerance_pct": appConfig.ReconciliationSync.TolerancePct,
	}).Info("Reconciliation scheduler configured")

	return &ReconciliationSyncService{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.ReconciliationSync.CronSchedule,
		syncEnabled:  appConfig.ReconciliationSync.Enabled,
		checker:      checker,
	}
}

func (s *ReconciliationSyncService) Start(ctx context.Context) error {
	if !s.syncEnabled {
		logrus.Info("Reconciliation sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Starting reconciliation scheduler")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling reconciliation sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping reconciliation scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ReconciliationSyncService) runSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reconciliation run already in progress, skipping")
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

	report, err := s.checker.RunChecks(ctx)

	status := "success"
	if err != nil {
		status = "failed"
		s.lastRunError = err.Error()
		logrus.WithError(err).Error("Reconciliation run failed")
	} else {
		s.lastRunError = ""
		if !report.Passed {
			logrus.WithField("run_id", report.RunID).Warn("Reconciliation report has failing checks")
		}
	}

	observability.RunDuration.WithLabelValues("reconciliation", status).Observe(time.Since(startTime).Seconds())
	s.lastRunCompletedAt = time.Now()
}

func (s *ReconciliationSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reconciliation run already in progress, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual reconciliation run")
	go s.runSync(context.Background())
}

func (s *ReconciliationSyncService) GetStatus() map[string]any {
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
	if report := s.checker.LatestReport(); report != nil {
		status["last_report_passed"] = report.Passed
		status["last_report_run_id"] = report.RunID
	}
	return status
}
