package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/calendar"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
)

// CalendarSyncService schedules the wholesale regeneration of the date-range
// dimension.
type CalendarSyncService struct {
	scheduler    *gocron.Scheduler
	cronSchedule string
	syncEnabled  bool
	generator    calendar.Generator

	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunRows        int
	lastRunError       string
}

func NewCalendarSyncService(generator calendar.Generator, appConfig *config.Config) *CalendarSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.CalendarSync.CronSchedule,
		"sync_enabled":  appConfig.CalendarSync.Enabled,
		"horizon_days":  appConfig.CalendarSync.HorizonDays,
	}).Info("Calendar scheduler configured")

	return &CalendarSyncService{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.CalendarSync.CronSchedule,
		syncEnabled:  appConfig.CalendarSync.Enabled,
		generator:    generator,
	}
}

func (s *CalendarSyncService) Start(ctx context.Context) error {
	if !s.syncEnabled {
		logrus.Info("Calendar sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Starting calendar scheduler")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling calendar sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping calendar scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *CalendarSyncService) runSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Calendar regeneration already in progress, skipping")
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

	rows, err := s.generator.Regenerate(ctx)

	status := "success"
	if err != nil {
		status = "failed"
		s.lastRunError = err.Error()
		logrus.WithError(err).Error("Calendar regeneration failed")
	} else {
		s.lastRunError = ""
		s.lastRunRows = rows
	}

	observability.RunDuration.WithLabelValues("calendar", status).Observe(time.Since(startTime).Seconds())
	s.lastRunCompletedAt = time.Now()
}

func (s *CalendarSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Calendar regeneration already in progress, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual calendar regeneration")
	go s.runSync(context.Background())
}

func (s *CalendarSyncService) GetStatus() map[string]any {
	status := map[string]any{
		"sync_enabled":          s.syncEnabled,
		"sync_cron":             s.cronSchedule,
		"sync_running":          s.syncRunning,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_run_rows":         s.lastRunRows,
	}
	if s.lastRunError != "" {
		status["last_run_error"] = s.lastRunError
	}
	return status
}
