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

// CampaignMergeSyncService schedules the incremental campaign-performance
// merge. Overlapping runs of the same entity are refused; upserts to one fact
// table must stay serialized per run.
type CampaignMergeSyncService struct {
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

func NewCampaignMergeSyncService(merger merging.Merger, appConfig *config.Config) *CampaignMergeSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.CampaignMergeSync.CronSchedule,
		"sync_enabled":  appConfig.CampaignMergeSync.Enabled,
	}).Info("Campaign merge scheduler configured")

	return &CampaignMergeSyncService{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.CampaignMergeSync.CronSchedule,
		syncEnabled:  appConfig.CampaignMergeSync.Enabled,
		merger:       merger,
	}
}

func (s *CampaignMergeSyncService) Start(ctx context.Context) error {
	if !s.syncEnabled {
		logrus.Info("Campaign merge sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Starting campaign merge scheduler")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.runSync(context.Background(), false)
	})
	if err != nil {
		return fmt.Errorf("scheduling campaign merge sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping campaign merge scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *CampaignMergeSyncService) runSync(ctx context.Context, fullRefresh bool) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Campaign merge already running, skipping")
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

	summary, err := s.merger.MergeCampaignPerformance(ctx, fullRefresh)

	status := "success"
	if err != nil {
		status = "failed"
		s.lastRunError = err.Error()
		logrus.WithError(err).Error("Campaign merge run failed")
	} else {
		s.lastRunError = ""
		s.lastRunSummary = summary
	}

	observability.RunDuration.WithLabelValues("campaign_merge", status).Observe(time.Since(startTime).Seconds())
	s.lastRunCompletedAt = time.Now()
}

// TriggerManualSync starts a merge run outside the schedule. Full refresh
// disables the watermark filter and reprocesses the whole staging history.
func (s *CampaignMergeSyncService) TriggerManualSync(fullRefresh bool) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Campaign merge already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.WithField("full_refresh", fullRefresh).Info("Starting manual campaign merge")
	go s.runSync(context.Background(), fullRefresh)
}

func (s *CampaignMergeSyncService) GetStatus() map[string]any {
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
