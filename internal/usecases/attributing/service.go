// Package attributing allocates order revenue across campaigns under three
// competing models: last-click baseline, linear multi-touch and exponential
// time-decay. Multi-touch credit comes from campaign-activity windows, not
// real click sequences; a campaign's presence in the window is measured by
// days with spend.
package attributing

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/identity"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

// RunSummary is the outcome of one attribution run.
type RunSummary struct {
	RunID           string         `json:"run_id"`
	StartedAt       time.Time      `json:"started_at"`
	Duration        time.Duration  `json:"duration"`
	OrdersProcessed int            `json:"orders_processed"`
	FallbackOrders  int            `json:"fallback_orders"`
	RecordsWritten  map[string]int `json:"records_written"`
}

type Engine interface {
	AttributeOrders(ctx context.Context) (*RunSummary, error)
}

type Service struct {
	windowDays      int
	decayRate       float64
	orderRepo       repository.OrderFactRepository
	campaignRepo    repository.CampaignFactRepository
	attributionRepo repository.AttributionRepository
}

func NewService(
	windowDays int,
	decayRate float64,
	orderRepo repository.OrderFactRepository,
	campaignRepo repository.CampaignFactRepository,
	attributionRepo repository.AttributionRepository,
) *Service {
	return &Service{
		windowDays:      windowDays,
		decayRate:       decayRate,
		orderRepo:       orderRepo,
		campaignRepo:    campaignRepo,
		attributionRepo: attributionRepo,
	}
}

// AttributeOrders recomputes attribution for every canonical order. Each
// model writes one record per (order, campaign); record ids are
// deterministic, so reruns refresh weights in place.
func (s *Service) AttributeOrders(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:          utils.GenerateRunID(),
		StartedAt:      time.Now(),
		RecordsWritten: make(map[string]int),
	}
	logger := log.ForContext(ctx).WithFields(log.Fields{"run_id": summary.RunID})

	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing order facts")
	}

	windows, err := s.preloadWindows(ctx, orders)
	if err != nil {
		return nil, err
	}

	computedAt := time.Now()

	for _, order := range orders {
		records := s.attributeOrder(order, windows[order.TenantID], computedAt, summary)

		for _, record := range records {
			if err := s.attributionRepo.SaveOrUpdate(ctx, record); err != nil {
				return nil, errors.Wrapf(err, "upserting attribution record %s", record.ID)
			}
			summary.RecordsWritten[string(record.Model)]++
			observability.AttributionRecordsWritten.WithLabelValues(string(record.Model)).Inc()
		}

		summary.OrdersProcessed++
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.WithFields(log.Fields{
		"orders_processed": summary.OrdersProcessed,
		"fallback_orders":  summary.FallbackOrders,
		"records_written":  summary.RecordsWritten,
	}).Info("Attribution run finished")

	return summary, nil
}

// preloadWindows fetches each tenant's spend-positive campaign rows covering
// every order's attribution window in one query per tenant.
func (s *Service) preloadWindows(
	ctx context.Context,
	orders []*domain.OrderFact,
) (map[string][]*domain.CampaignPerformanceFact, error) {
	type span struct {
		min time.Time
		max time.Time
	}

	spans := make(map[string]span)
	for _, order := range orders {
		current, ok := spans[order.TenantID]
		if !ok {
			spans[order.TenantID] = span{min: order.OrderedAt, max: order.OrderedAt}
			continue
		}
		if order.OrderedAt.Before(current.min) {
			current.min = order.OrderedAt
		}
		if order.OrderedAt.After(current.max) {
			current.max = order.OrderedAt
		}
		spans[order.TenantID] = current
	}

	windows := make(map[string][]*domain.CampaignPerformanceFact, len(spans))
	for tenantID, tenantSpan := range spans {
		start := tenantSpan.min.AddDate(0, 0, -s.windowDays)

		facts, err := s.campaignRepo.ListWithSpendInRange(ctx, tenantID, start, tenantSpan.max)
		if err != nil {
			return nil, errors.Wrapf(err, "preloading campaign window for tenant %s", tenantID)
		}
		windows[tenantID] = facts
	}

	return windows, nil
}

// attributeOrder computes all three models for one order. Every order gets a
// last-click record; only attributed orders proceed into the multi-touch
// models.
func (s *Service) attributeOrder(
	order *domain.OrderFact,
	tenantFacts []*domain.CampaignPerformanceFact,
	computedAt time.Time,
	summary *RunSummary,
) []*domain.AttributionRecord {
	records := []*domain.AttributionRecord{
		s.newRecord(order, domain.ModelLastClick, order.LastClickCampaignKey, order.LastClickCampaignNativeID,
			1.0, order.NetRevenue, 1, computedAt),
	}

	if order.AttributionStatus != domain.AttributionStatusAttributed {
		return records
	}

	entries := windowEntries(order, tenantFacts, s.windowDays)
	if len(entries) == 0 {
		summary.FallbackOrders++
		for _, model := range []domain.AttributionModel{domain.ModelLinear, domain.ModelTimeDecay} {
			records = append(records, s.newRecord(order, model,
				order.LastClickCampaignKey, order.LastClickCampaignNativeID,
				1.0, order.NetRevenue, 1, computedAt))
		}
		return records
	}

	records = append(records, s.linearRecords(order, entries, computedAt)...)
	records = append(records, s.timeDecayRecords(order, entries, computedAt)...)

	return records
}

// windowEntry is one (campaign, date) row inside an order's attribution
// window. A campaign active on three of the window days contributes three
// entries; credit follows days of activity, not unique campaign count.
type windowEntry struct {
	campaignKey      string
	campaignNativeID string
	daysBeforeOrder  int
}

func windowEntries(
	order *domain.OrderFact,
	tenantFacts []*domain.CampaignPerformanceFact,
	windowDays int,
) []windowEntry {
	start := utils.DateOnly(order.OrderedAt).AddDate(0, 0, -windowDays)
	end := utils.DateOnly(order.OrderedAt)

	entries := make([]windowEntry, 0)
	for _, fact := range tenantFacts {
		date := utils.DateOnly(fact.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		entries = append(entries, windowEntry{
			campaignKey:      fact.CampaignKey,
			campaignNativeID: fact.CampaignNativeID,
			daysBeforeOrder:  utils.DaysBetween(date, end),
		})
	}

	return entries
}

// linearRecords spreads credit evenly across window entries: each of the N
// entries carries weight 1/N, summed per campaign, so weights total 1.0 by
// construction.
func (s *Service) linearRecords(
	order *domain.OrderFact,
	entries []windowEntry,
	computedAt time.Time,
) []*domain.AttributionRecord {
	n := float64(len(entries))

	weights := make(map[string]float64)
	nativeIDs := make(map[string]string)
	for _, entry := range entries {
		weights[entry.campaignKey] += 1.0 / n
		nativeIDs[entry.campaignKey] = entry.campaignNativeID
	}

	return s.recordsFromWeights(order, domain.ModelLinear, weights, nativeIDs, len(entries), computedAt)
}

// timeDecayRecords weights each window entry by exp(-λ·days_before_order)
// and normalizes over the order's entries, so recent activity earns more
// credit and weights still total 1.0.
func (s *Service) timeDecayRecords(
	order *domain.OrderFact,
	entries []windowEntry,
	computedAt time.Time,
) []*domain.AttributionRecord {
	var totalRaw float64
	raw := make([]float64, len(entries))
	for i, entry := range entries {
		raw[i] = math.Exp(-s.decayRate * float64(entry.daysBeforeOrder))
		totalRaw += raw[i]
	}

	weights := make(map[string]float64)
	nativeIDs := make(map[string]string)
	for i, entry := range entries {
		weights[entry.campaignKey] += raw[i] / totalRaw
		nativeIDs[entry.campaignKey] = entry.campaignNativeID
	}

	return s.recordsFromWeights(order, domain.ModelTimeDecay, weights, nativeIDs, len(entries), computedAt)
}

func (s *Service) recordsFromWeights(
	order *domain.OrderFact,
	model domain.AttributionModel,
	weights map[string]float64,
	nativeIDs map[string]string,
	totalEntries int,
	computedAt time.Time,
) []*domain.AttributionRecord {
	records := make([]*domain.AttributionRecord, 0, len(weights))
	for campaignKey, weight := range weights {
		key := campaignKey
		nativeID := nativeIDs[campaignKey]
		records = append(records, s.newRecord(order, model, &key, &nativeID,
			weight, order.NetRevenue*weight, totalEntries, computedAt))
	}

	return records
}

func (s *Service) newRecord(
	order *domain.OrderFact,
	model domain.AttributionModel,
	campaignKey *string,
	campaignNativeID *string,
	weight float64,
	revenue float64,
	totalInWindow int,
	computedAt time.Time,
) *domain.AttributionRecord {
	return &domain.AttributionRecord{
		ID:                     identity.AttributionRecordID(order.OrderKey, campaignKey, order.TenantID, string(model)),
		TenantID:               order.TenantID,
		OrderKey:               order.OrderKey,
		OrderNativeID:          order.OrderNativeID,
		CampaignKey:            campaignKey,
		CampaignNativeID:       campaignNativeID,
		Model:                  model,
		AttributionWeight:      weight,
		AttributedRevenue:      utils.RoundWithFourDecimalPlace(revenue),
		TotalCampaignsInWindow: totalInWindow,
		AttributionStatus:      order.AttributionStatus,
		ComputedAt:             computedAt,
	}
}
