package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

// regenerate runs one generation with a pinned clock and returns the generated
// rows grouped by period type.
func regenerate(t *testing.T, horizonDays int, today time.Time) map[domain.PeriodType][]*domain.DateRange {
	t.Helper()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var captured []*domain.DateRange
	repo := mocks.NewMockDateRangeRepository(ctrl)
	repo.EXPECT().ReplaceAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ranges []*domain.DateRange) error {
			captured = ranges
			return nil
		})

	service := NewService(horizonDays, repo)
	service.now = func() time.Time { return today }

	rows, err := service.Regenerate(context.Background())
	require.NoError(t, err)
	require.Len(t, captured, rows)

	byType := make(map[domain.PeriodType][]*domain.DateRange)
	for _, r := range captured {
		byType[r.PeriodType] = append(byType[r.PeriodType], r)
	}
	return byType
}

func findLabel(ranges []*domain.DateRange, label string) *domain.DateRange {
	for _, r := range ranges {
		if r.PeriodLabel == label {
			return r
		}
	}
	return nil
}

func TestRegenerate_DailyRangesCoverTheHorizon(t *testing.T) {
	today := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	byType := regenerate(t, 30, today)

	daily := byType[domain.PeriodDaily]
	assert.Len(t, daily, 31)

	first := daily[0]
	assert.Equal(t, "2026-02-13", first.PeriodLabel)

	last := daily[len(daily)-1]
	assert.Equal(t, "2026-03-15", last.PeriodLabel)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), last.PeriodStart)
	assert.Equal(t, last.PeriodStart, last.PeriodEnd)

	// Prior period of a day is the previous day.
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), last.PriorPeriodStart)
	assert.Equal(t, last.PriorPeriodStart, last.PriorPeriodEnd)
}

func TestRegenerate_WeeklyRangesAreISOWeeks(t *testing.T) {
	// 2026-03-15 is a Sunday; its ISO week starts Monday 2026-03-09.
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	byType := regenerate(t, 30, today)

	week := findLabel(byType[domain.PeriodWeekly], "2026-W11")
	require.NotNil(t, week)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), week.PeriodStart)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), week.PeriodEnd)

	// Prior week is the seven days immediately before.
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), week.PriorPeriodStart)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), week.PriorPeriodEnd)
}

func TestRegenerate_MonthlyPriorPeriodIsCalendarAligned(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	byType := regenerate(t, 60, today)

	march := findLabel(byType[domain.PeriodMonthly], "2026-03")
	require.NotNil(t, march)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), march.PeriodStart)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), march.PeriodEnd)

	// Prior period of March is all of February, not the trailing 31 days.
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), march.PriorPeriodStart)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), march.PriorPeriodEnd)
}

func TestRegenerate_QuarterlyAndYearlyRanges(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	byType := regenerate(t, 365, today)

	q1 := findLabel(byType[domain.PeriodQuarterly], "2026-Q1")
	require.NotNil(t, q1)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), q1.PeriodStart)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), q1.PeriodEnd)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), q1.PriorPeriodStart)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), q1.PriorPeriodEnd)

	year := findLabel(byType[domain.PeriodYearly], "2026")
	require.NotNil(t, year)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), year.PeriodStart)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), year.PeriodEnd)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), year.PriorPeriodStart)
}

func TestRegenerate_RollingWindowsEndToday(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	byType := regenerate(t, 30, today)

	rolling := byType[domain.PeriodRolling]
	assert.Len(t, rolling, len(rollingWindows))

	window := findLabel(rolling, "rolling_7d")
	require.NotNil(t, window)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), window.PeriodStart)
	assert.Equal(t, today, window.PeriodEnd)

	// Prior window is the seven days immediately before, symmetric in length.
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), window.PriorPeriodStart)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), window.PriorPeriodEnd)
}

func TestRegenerate_IDsAreStableAcrossRuns(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	first := regenerate(t, 30, today)
	second := regenerate(t, 30, today.Add(2*time.Hour))

	firstDay := findLabel(first[domain.PeriodDaily], "2026-03-15")
	secondDay := findLabel(second[domain.PeriodDaily], "2026-03-15")
	require.NotNil(t, firstDay)
	require.NotNil(t, secondDay)
	assert.Equal(t, firstDay.ID, secondDay.ID)
}
