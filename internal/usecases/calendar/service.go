// Package calendar generates the date_ranges dimension: one row per
// reporting period with its symmetric prior period, regenerated wholesale on
// each run.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/identity"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

var rollingWindows = []int{7, 14, 28, 30, 90}

type Generator interface {
	Regenerate(ctx context.Context) (int, error)
}

type Service struct {
	horizonDays   int
	dateRangeRepo repository.DateRangeRepository
	now           func() time.Time
}

func NewService(horizonDays int, dateRangeRepo repository.DateRangeRepository) *Service {
	return &Service{
		horizonDays:   horizonDays,
		dateRangeRepo: dateRangeRepo,
		now:           time.Now,
	}
}

// Regenerate rebuilds the whole dimension back from today over the configured
// horizon and replaces the stored rows in one transaction. Returns the number
// of rows generated.
func (s *Service) Regenerate(ctx context.Context) (int, error) {
	today := utils.DateOnly(s.now().UTC())
	generatedAt := s.now()
	horizonStart := today.AddDate(0, 0, -s.horizonDays)

	ranges := make([]*domain.DateRange, 0)
	ranges = append(ranges, dailyRanges(today, horizonStart, generatedAt)...)
	ranges = append(ranges, weeklyRanges(today, horizonStart, generatedAt)...)
	ranges = append(ranges, monthlyRanges(today, horizonStart, generatedAt)...)
	ranges = append(ranges, quarterlyRanges(today, horizonStart, generatedAt)...)
	ranges = append(ranges, yearlyRanges(today, horizonStart, generatedAt)...)
	ranges = append(ranges, rollingRanges(today, generatedAt)...)

	if err := s.dateRangeRepo.ReplaceAll(ctx, ranges); err != nil {
		return 0, errors.Wrap(err, "replacing date ranges")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"rows":         len(ranges),
		"horizon_days": s.horizonDays,
	}).Info("Date range dimension regenerated")

	return len(ranges), nil
}

func newRange(periodType domain.PeriodType, label string, start, end time.Time, generatedAt time.Time) *domain.DateRange {
	// Prior period has the same length and ends the day before start.
	length := int(end.Sub(start).Hours()/24) + 1
	priorEnd := start.AddDate(0, 0, -1)
	priorStart := priorEnd.AddDate(0, 0, -(length - 1))

	return &domain.DateRange{
		ID:               identity.Hash(string(periodType), label),
		PeriodType:       periodType,
		PeriodLabel:      label,
		PeriodStart:      start,
		PeriodEnd:        end,
		PriorPeriodStart: priorStart,
		PriorPeriodEnd:   priorEnd,
		GeneratedAt:      generatedAt,
	}
}

func dailyRanges(today, horizonStart, generatedAt time.Time) []*domain.DateRange {
	ranges := make([]*domain.DateRange, 0)
	for day := horizonStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		label := day.Format("2006-01-02")
		ranges = append(ranges, newRange(domain.PeriodDaily, label, day, day, generatedAt))
	}
	return ranges
}

// weeklyRanges emits ISO weeks (Monday start) overlapping the horizon.
func weeklyRanges(today, horizonStart, generatedAt time.Time) []*domain.DateRange {
	start := mondayOf(horizonStart)

	ranges := make([]*domain.DateRange, 0)
	for ; !start.After(today); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)
		year, week := start.ISOWeek()
		label := fmt.Sprintf("%d-W%02d", year, week)
		ranges = append(ranges, newRange(domain.PeriodWeekly, label, start, end, generatedAt))
	}
	return ranges
}

func monthlyRanges(today, horizonStart, generatedAt time.Time) []*domain.DateRange {
	start := time.Date(horizonStart.Year(), horizonStart.Month(), 1, 0, 0, 0, 0, time.UTC)

	ranges := make([]*domain.DateRange, 0)
	for ; !start.After(today); start = start.AddDate(0, 1, 0) {
		end := start.AddDate(0, 1, -1)
		label := start.Format("2006-01")
		ranges = append(ranges, newMonthAlignedRange(domain.PeriodMonthly, label, start, end, generatedAt))
	}
	return ranges
}

func quarterlyRanges(today, horizonStart, generatedAt time.Time) []*domain.DateRange {
	quarterMonth := time.Month(((int(horizonStart.Month())-1)/3)*3 + 1)
	start := time.Date(horizonStart.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)

	ranges := make([]*domain.DateRange, 0)
	for ; !start.After(today); start = start.AddDate(0, 3, 0) {
		end := start.AddDate(0, 3, -1)
		label := fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
		ranges = append(ranges, newMonthAlignedRange(domain.PeriodQuarterly, label, start, end, generatedAt))
	}
	return ranges
}

func yearlyRanges(today, horizonStart, generatedAt time.Time) []*domain.DateRange {
	start := time.Date(horizonStart.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	ranges := make([]*domain.DateRange, 0)
	for ; !start.After(today); start = start.AddDate(1, 0, 0) {
		end := start.AddDate(1, 0, -1)
		label := start.Format("2006")
		ranges = append(ranges, newMonthAlignedRange(domain.PeriodYearly, label, start, end, generatedAt))
	}
	return ranges
}

// rollingRanges emits trailing windows ending today, compared against the
// window of the same length immediately before.
func rollingRanges(today time.Time, generatedAt time.Time) []*domain.DateRange {
	ranges := make([]*domain.DateRange, 0, len(rollingWindows))
	for _, days := range rollingWindows {
		start := today.AddDate(0, 0, -(days - 1))
		label := fmt.Sprintf("rolling_%dd", days)
		ranges = append(ranges, newRange(domain.PeriodRolling, label, start, today, generatedAt))
	}
	return ranges
}

// newMonthAlignedRange keeps the prior period calendar-aligned instead of
// day-count aligned: the prior period of 2024-03 is 2024-02, not the trailing
// 31 days.
func newMonthAlignedRange(periodType domain.PeriodType, label string, start, end time.Time, generatedAt time.Time) *domain.DateRange {
	var priorStart, priorEnd time.Time
	switch periodType {
	case domain.PeriodMonthly:
		priorStart = start.AddDate(0, -1, 0)
		priorEnd = start.AddDate(0, 0, -1)
	case domain.PeriodQuarterly:
		priorStart = start.AddDate(0, -3, 0)
		priorEnd = start.AddDate(0, 0, -1)
	case domain.PeriodYearly:
		priorStart = start.AddDate(-1, 0, 0)
		priorEnd = start.AddDate(0, 0, -1)
	default:
		return newRange(periodType, label, start, end, generatedAt)
	}

	return &domain.DateRange{
		ID:               identity.Hash(string(periodType), label),
		PeriodType:       periodType,
		PeriodLabel:      label,
		PeriodStart:      start,
		PeriodEnd:        end,
		PriorPeriodStart: priorStart,
		PriorPeriodEnd:   priorEnd,
		GeneratedAt:      generatedAt,
	}
}

func mondayOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
