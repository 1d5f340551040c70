package domain

import "time"

// PeriodType classifies a generated date-range dimension row.
type PeriodType string

const (
	PeriodDaily     PeriodType = "daily"
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
	PeriodRolling   PeriodType = "rolling"
)

// DateRange describes one reporting period and its symmetric prior period for
// period-over-period comparison. Rows are immutable once generated; the whole
// dimension is regenerated on each run, not incrementally mutated.
type DateRange struct {
	ID               string
	PeriodType       PeriodType
	PeriodLabel      string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	PriorPeriodStart time.Time
	PriorPeriodEnd   time.Time
	GeneratedAt      time.Time
}
