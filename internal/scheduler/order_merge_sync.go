package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/merging"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
)

// OrderMergeSyncService schedules the incremental order merge.
type OrderMergeSyncService struct {
	scheduler    *gocron.Scheduler
	cronSchedule string
	syncEnabled  bool
	merger       merging.Merger

	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunSummary     *merging.RunSummary
	lastRunError       string
}

func NewOrderMergeSyncService(merger merging.Merger, appConfig *config.Config) *OrderMergeSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.OrderMergeSync.CronSchedule,
		"sync_enabled":  appConfig.OrderMergeSync.Enabled,
	}).Info("Order merge scheduler configured")

	return &OrderMergeSyncService{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.OrderMergeSync.CronSchedule,
		syncEnabled:  appConfig.OrderMergeSync.Enabled,
		merger:       merger,
	}
}

func (s *OrderMergeSyncService) Start(ctx context.Context) error {
	if !s.syncEnabled {
		logrus.Info("Order merge sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Starting order merge scheduler")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.runSync(context.Background(), false)
	})
	if err != nil {
		return fmt.Errorf("scheduling order merge sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping order merge scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *OrderMergeSyncService) runSync(ctx context.Context, fullRefresh bool) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Order merge already running, skipping")
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

	summary, err := s.merger.MergeOrders(ctx, fullRefresh)

	status := "success"
	if err != nil {
		status = "failed"
		s.lastRunError = err.Error()
		logrus.WithError(err).Error("Order merge run failed")
	} else {
		s.lastRunError = ""
		s.lastRunSummary = summary
	}

	observability.RunDuration.WithLabelValues("order_merge", status).Observe(time.Since(startTime).Seconds())
	s.lastRunCompletedAt = time.Now()
}

func (s *OrderMergeSyncService) TriggerManualSync(fullRefresh bool) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Order merge already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.WithField("full_refresh", fullRefresh).Info("Starting manual order merge")
	go s.runSync(context.Background(), fullRefresh)
}

func (s *OrderMergeSyncService) GetStatus() map[string]any {
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
