// Package reconciling compares canonical fact totals against staging totals
// recomputed with the merge engine's own extraction and filter rules. Drift
// beyond the tolerance is surfaced for human triage, never auto-corrected.
package reconciling

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/merging"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

const (
	CheckCampaignSpend   = "campaign_spend"
	CheckOrderNetRevenue = "order_net_revenue"
)

// CheckResult is the full diagnostic payload of one staging-vs-fact check.
type CheckResult struct {
	Check        string    `json:"check"`
	FactTable    string    `json:"fact_table"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	StagingTotal float64   `json:"staging_total"`
	FactTotal    float64   `json:"fact_total"`
	StagingRows  int64     `json:"staging_rows"`
	FactRows     int64     `json:"fact_rows"`
	AbsDiff      float64   `json:"abs_diff"`
	PctDiff      float64   `json:"pct_diff"`
	TolerancePct float64   `json:"tolerance_pct"`
	Passed       bool      `json:"passed"`
	Skipped      bool      `json:"skipped"`
}

// Report is one reconciliation run over all registered checks.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Passed      bool           `json:"passed"`
	Checks      []*CheckResult `json:"checks"`
}

type Checker interface {
	RunChecks(ctx context.Context) (*Report, error)
	LatestReport() *Report
}

type Service struct {
	tolerancePct float64
	staging      merging.StagingAggregator
	campaignRepo repository.CampaignFactRepository
	orderRepo    repository.OrderFactRepository

	reportMutex  sync.RWMutex
	latestReport *Report
}

func NewService(
	tolerancePct float64,
	staging merging.StagingAggregator,
	campaignRepo repository.CampaignFactRepository,
	orderRepo repository.OrderFactRepository,
) *Service {
	return &Service{
		tolerancePct: tolerancePct,
		staging:      staging,
		campaignRepo: campaignRepo,
		orderRepo:    orderRepo,
	}
}

// RunChecks executes every registered check and keeps the report available
// for the ops API. The report fails when any non-skipped check drifts beyond
// the tolerance.
func (s *Service) RunChecks(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:       utils.GenerateRunID(),
		GeneratedAt: time.Now(),
		Passed:      true,
	}
	logger := log.ForContext(ctx).WithFields(log.Fields{"run_id": report.RunID})

	campaignCheck, err := s.checkCampaignSpend(ctx)
	if err != nil {
		return nil, err
	}
	report.Checks = append(report.Checks, campaignCheck)

	orderCheck, err := s.checkOrderRevenue(ctx)
	if err != nil {
		return nil, err
	}
	report.Checks = append(report.Checks, orderCheck)

	for _, check := range report.Checks {
		if !check.Passed {
			report.Passed = false
			logger.WithFields(log.Fields{
				"check":         check.Check,
				"staging_total": check.StagingTotal,
				"fact_total":    check.FactTotal,
				"abs_diff":      check.AbsDiff,
				"pct_diff":      check.PctDiff,
				"staging_rows":  check.StagingRows,
				"fact_rows":     check.FactRows,
			}).Error("Reconciliation drift beyond tolerance")
		}
	}

	s.reportMutex.Lock()
	s.latestReport = report
	s.reportMutex.Unlock()

	logger.WithFields(log.Fields{"passed": report.Passed}).Info("Reconciliation run finished")

	return report, nil
}

// LatestReport returns the most recent report, or nil before the first run.
func (s *Service) LatestReport() *Report {
	s.reportMutex.RLock()
	defer s.reportMutex.RUnlock()
	return s.latestReport
}

// checkCampaignSpend restricts staging and facts to the fact table's observed
// [min_date, max_date] and compares total spend.
func (s *Service) checkCampaignSpend(ctx context.Context) (*CheckResult, error) {
	factTotals, err := s.campaignRepo.SpendTotals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading campaign fact totals")
	}

	if factTotals.Rows == 0 {
		return s.skippedCheck(CheckCampaignSpend, merging.FactTableCampaignPerformance), nil
	}

	stagingTotals, err := s.staging.StagingCampaignSpend(ctx, factTotals.MinDate, factTotals.MaxDate)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating staging campaign spend")
	}

	return s.evaluate(CheckCampaignSpend, merging.FactTableCampaignPerformance, stagingTotals, factTotals), nil
}

// checkOrderRevenue mirrors checkCampaignSpend for order net revenue.
func (s *Service) checkOrderRevenue(ctx context.Context) (*CheckResult, error) {
	factTotals, err := s.orderRepo.RevenueTotals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading order fact totals")
	}

	if factTotals.Rows == 0 {
		return s.skippedCheck(CheckOrderNetRevenue, merging.FactTableOrders), nil
	}

	stagingTotals, err := s.staging.StagingOrderRevenue(ctx, factTotals.MinDate, factTotals.MaxDate)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating staging order revenue")
	}

	return s.evaluate(CheckOrderNetRevenue, merging.FactTableOrders, stagingTotals, factTotals), nil
}

// evaluate applies the percentage-tolerance rule. The tolerance is relative
// because absolute thresholds do not scale across tenants with widely
// different volumes.
func (s *Service) evaluate(
	check string,
	factTable string,
	stagingTotals *merging.StagingTotals,
	factTotals *repository.FactTotals,
) *CheckResult {
	result := &CheckResult{
		Check:        check,
		FactTable:    factTable,
		WindowStart:  factTotals.MinDate,
		WindowEnd:    factTotals.MaxDate,
		StagingTotal: stagingTotals.Total,
		FactTotal:    factTotals.Total,
		StagingRows:  stagingTotals.Rows,
		FactRows:     factTotals.Rows,
		TolerancePct: s.tolerancePct,
	}

	result.AbsDiff = math.Abs(stagingTotals.Total - factTotals.Total)

	var pctDiff float64
	if stagingTotals.Total == 0 {
		if factTotals.Total != 0 {
			pctDiff = 100
		}
	} else {
		pctDiff = result.AbsDiff / math.Abs(stagingTotals.Total) * 100
	}

	// Pass/fail and the gauge use the exact drift; the report rounds for
	// readability.
	result.Passed = pctDiff <= s.tolerancePct
	result.PctDiff = utils.RoundWithTwoDecimalPlace(pctDiff)
	observability.ReconciliationDrift.WithLabelValues(check).Set(pctDiff)

	return result
}

func (s *Service) skippedCheck(check, factTable string) *CheckResult {
	return &CheckResult{
		Check:        check,
		FactTable:    factTable,
		TolerancePct: s.tolerancePct,
		Passed:       true,
		Skipped:      true,
	}
}
