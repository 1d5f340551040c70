// Package merging implements the incremental fact-merge engine: staging
// records in, canonical fact rows out. Each run is watermark-bounded,
// lookback-corrected and idempotent; re-running over the same staging set
// changes nothing.
package merging

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/channel"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/identity"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/tenancy"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

const (
	FactTableCampaignPerformance = "campaign_performance_facts"
	FactTableOrders              = "order_facts"
)

// RunSummary is the outcome of one merge run, returned to the scheduler and
// the ops API.
type RunSummary struct {
	RunID          string         `json:"run_id"`
	Entity         domain.Entity  `json:"entity"`
	FullRefresh    bool           `json:"full_refresh"`
	StartedAt      time.Time      `json:"started_at"`
	Duration       time.Duration  `json:"duration"`
	RecordsScanned int            `json:"records_scanned"`
	RowsMerged     int            `json:"rows_merged"`
	RowsDropped    map[string]int `json:"rows_dropped"`
	Watermark      time.Time      `json:"watermark"`
}

// StagingTotals is a staging-side aggregate over the same filters the merge
// applies, used by reconciliation to compare against the fact tables.
type StagingTotals struct {
	Total float64
	Rows  int64
}

type Merger interface {
	MergeCampaignPerformance(ctx context.Context, fullRefresh bool) (*RunSummary, error)
	MergeOrders(ctx context.Context, fullRefresh bool) (*RunSummary, error)
}

// StagingAggregator re-runs the merge extraction over the full staging
// history so reconciliation compares like with like.
type StagingAggregator interface {
	StagingCampaignSpend(ctx context.Context, from, to time.Time) (*StagingTotals, error)
	StagingOrderRevenue(ctx context.Context, from, to time.Time) (*StagingTotals, error)
}

type Service struct {
	sources       map[string]config.Source
	stagingRepo   repository.StagingRecordRepository
	campaignRepo  repository.CampaignFactRepository
	orderRepo     repository.OrderFactRepository
	watermarkRepo repository.WatermarkRepository
	resolver      tenancy.Resolver
}

func NewService(
	sources map[string]config.Source,
	stagingRepo repository.StagingRecordRepository,
	campaignRepo repository.CampaignFactRepository,
	orderRepo repository.OrderFactRepository,
	watermarkRepo repository.WatermarkRepository,
	resolver tenancy.Resolver,
) *Service {
	return &Service{
		sources:       sources,
		stagingRepo:   stagingRepo,
		campaignRepo:  campaignRepo,
		orderRepo:     orderRepo,
		watermarkRepo: watermarkRepo,
		resolver:      resolver,
	}
}

// MergeCampaignPerformance runs one incremental (or full-refresh) merge of
// ad-platform staging records into campaign_performance_facts. Ad-level rows
// collapse to campaign-date grain; additive metrics are summed, descriptive
// attributes take the latest emission; the recomputed aggregate replaces the
// stored row by surrogate key.
func (s *Service) MergeCampaignPerformance(ctx context.Context, fullRefresh bool) (*RunSummary, error) {
	summary := s.newSummary(domain.EntityCampaignPerformance, fullRefresh)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"run_id": summary.RunID,
		"entity": summary.Entity,
	})

	watermark, err := s.loadWatermark(ctx, FactTableCampaignPerformance, fullRefresh)
	if err != nil {
		return nil, err
	}

	// Registry edits made since the previous run take effect now.
	s.resolver.InvalidateCache()

	aggregates, maxEmitted, err := s.buildCampaignAggregates(ctx, watermark, summary)
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(aggregates) {
		fact := aggregates[key]
		fact.DeriveMetrics()
		if err := s.campaignRepo.SaveOrUpdate(ctx, fact); err != nil {
			return nil, errors.Wrapf(err, "upserting campaign fact %s", fact.SurrogateKey)
		}
		summary.RowsMerged++
	}

	observability.RowsMerged.
		WithLabelValues(string(domain.EntityCampaignPerformance)).
		Add(float64(summary.RowsMerged))

	if err := s.advanceWatermark(ctx, FactTableCampaignPerformance, watermark, maxEmitted, summary); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.WithFields(log.Fields{
		"records_scanned": summary.RecordsScanned,
		"rows_merged":     summary.RowsMerged,
		"rows_dropped":    summary.RowsDropped,
		"watermark":       summary.Watermark,
	}).Info("Campaign performance merge finished")

	return summary, nil
}

// MergeOrders runs one incremental (or full-refresh) merge of commerce
// staging records into order_facts. Orders are never summed; the latest
// emission of an order replaces the previous values.
func (s *Service) MergeOrders(ctx context.Context, fullRefresh bool) (*RunSummary, error) {
	summary := s.newSummary(domain.EntityOrders, fullRefresh)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"run_id": summary.RunID,
		"entity": summary.Entity,
	})

	watermark, err := s.loadWatermark(ctx, FactTableOrders, fullRefresh)
	if err != nil {
		return nil, err
	}

	s.resolver.InvalidateCache()

	aggregates, maxEmitted, err := s.buildOrderAggregates(ctx, watermark, summary)
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(aggregates) {
		if err := s.orderRepo.SaveOrUpdate(ctx, aggregates[key]); err != nil {
			return nil, errors.Wrapf(err, "upserting order fact %s", key)
		}
		summary.RowsMerged++
	}

	observability.RowsMerged.
		WithLabelValues(string(domain.EntityOrders)).
		Add(float64(summary.RowsMerged))

	if err := s.advanceWatermark(ctx, FactTableOrders, watermark, maxEmitted, summary); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.WithFields(log.Fields{
		"records_scanned": summary.RecordsScanned,
		"rows_merged":     summary.RowsMerged,
		"rows_dropped":    summary.RowsDropped,
		"watermark":       summary.Watermark,
	}).Info("Order merge finished")

	return summary, nil
}

// StagingCampaignSpend re-aggregates the full campaign staging history with
// the merge's own extraction and dedup rules, then sums spend over fact rows
// dated within [from, to].
func (s *Service) StagingCampaignSpend(ctx context.Context, from, to time.Time) (*StagingTotals, error) {
	summary := s.newSummary(domain.EntityCampaignPerformance, true)

	aggregates, _, err := s.buildCampaignAggregates(ctx, time.Time{}, summary)
	if err != nil {
		return nil, err
	}

	totals := &StagingTotals{}
	for _, fact := range aggregates {
		if fact.Date.Before(from) || fact.Date.After(to) {
			continue
		}
		totals.Total += fact.Spend
		totals.Rows++
	}

	return totals, nil
}

// StagingOrderRevenue mirrors StagingCampaignSpend for order net revenue.
func (s *Service) StagingOrderRevenue(ctx context.Context, from, to time.Time) (*StagingTotals, error) {
	summary := s.newSummary(domain.EntityOrders, true)

	aggregates, _, err := s.buildOrderAggregates(ctx, time.Time{}, summary)
	if err != nil {
		return nil, err
	}

	totals := &StagingTotals{}
	for _, fact := range aggregates {
		if fact.OrderedAt.Before(from) || fact.OrderedAt.After(to) {
			continue
		}
		totals.Total += fact.NetRevenue
		totals.Rows++
	}

	return totals, nil
}

// buildCampaignAggregates scans every campaign-performance source and folds
// valid rows into campaign-date aggregates keyed by surrogate key. A zero
// watermark scans the full history.
func (s *Service) buildCampaignAggregates(
	ctx context.Context,
	watermark time.Time,
	summary *RunSummary,
) (map[string]*domain.CampaignPerformanceFact, time.Time, error) {
	aggregates := make(map[string]*domain.CampaignPerformanceFact)
	resolutions := make(map[string]sourceResolution)

	var maxEmitted time.Time

	for _, sourceName := range s.sourceNames(domain.EntityCampaignPerformance) {
		source := s.sources[sourceName]

		records, err := s.stagingRepo.ListBySourceSince(ctx, sourceName, sinceFor(watermark, source))
		if err != nil {
			return nil, time.Time{}, errors.Wrapf(err, "listing staging records for %s", sourceName)
		}

		for _, record := range records {
			summary.RecordsScanned++
			if record.EmittedAt.After(maxEmitted) {
				maxEmitted = record.EmittedAt
			}

			row, dropReason := extractCampaignRow(record, source)
			if dropReason == "" {
				var tenantID string
				tenantID, dropReason, err = s.resolveTenant(ctx, record, resolutions)
				if err != nil {
					return nil, time.Time{}, err
				}
				if dropReason == "" {
					s.foldCampaignRow(aggregates, tenantID, source.Platform, row)
					continue
				}
			}
			s.dropRow(summary, dropReason)
		}
	}

	return aggregates, maxEmitted, nil
}

// foldCampaignRow merges one ad-level row into its campaign-date aggregate:
// SUM for additive metrics, latest emission for descriptive attributes.
func (s *Service) foldCampaignRow(
	aggregates map[string]*domain.CampaignPerformanceFact,
	tenantID string,
	platform string,
	row *campaignRow,
) {
	date := row.Date.Format("2006-01-02")
	surrogateKey := identity.SurrogateKey(tenantID, platform, row.AccountNativeID, row.CampaignNativeID, date)

	fact, ok := aggregates[surrogateKey]
	if !ok {
		fact = &domain.CampaignPerformanceFact{
			SurrogateKey:     surrogateKey,
			TenantID:         tenantID,
			Platform:         platform,
			AccountNativeID:  row.AccountNativeID,
			AccountKey:       *identity.Normalize(tenantID, platform, row.AccountNativeID),
			CampaignNativeID: row.CampaignNativeID,
			CampaignKey:      *identity.Normalize(tenantID, platform, row.CampaignNativeID),
			Date:             row.Date,
		}
		aggregates[surrogateKey] = fact
	}

	fact.Spend += row.Spend
	fact.Impressions += row.Impressions
	fact.Clicks += row.Clicks
	fact.Conversions += row.Conversions
	fact.ConversionValue += row.ConversionValue

	if !row.EmittedAt.Before(fact.EmittedAt) {
		fact.AccountName = row.AccountName
		fact.CampaignName = row.CampaignName
		fact.Currency = row.Currency
		fact.CanonicalChannel = channel.Classify(domain.Platform(platform), row.RawChannel)
		fact.EmittedAt = row.EmittedAt
	}
}

// buildOrderAggregates scans every order source and keeps, per order, the row
// with the latest emission timestamp.
func (s *Service) buildOrderAggregates(
	ctx context.Context,
	watermark time.Time,
	summary *RunSummary,
) (map[string]*domain.OrderFact, time.Time, error) {
	aggregates := make(map[string]*domain.OrderFact)
	resolutions := make(map[string]sourceResolution)

	var maxEmitted time.Time

	for _, sourceName := range s.sourceNames(domain.EntityOrders) {
		source := s.sources[sourceName]

		records, err := s.stagingRepo.ListBySourceSince(ctx, sourceName, sinceFor(watermark, source))
		if err != nil {
			return nil, time.Time{}, errors.Wrapf(err, "listing staging records for %s", sourceName)
		}

		for _, record := range records {
			summary.RecordsScanned++
			if record.EmittedAt.After(maxEmitted) {
				maxEmitted = record.EmittedAt
			}

			row, dropReason := extractOrderRow(record, source)
			if dropReason == "" {
				var tenantID string
				tenantID, dropReason, err = s.resolveTenant(ctx, record, resolutions)
				if err != nil {
					return nil, time.Time{}, err
				}
				if dropReason == "" {
					s.foldOrderRow(aggregates, tenantID, source.Platform, row)
					continue
				}
			}
			s.dropRow(summary, dropReason)
		}
	}

	return aggregates, maxEmitted, nil
}

// foldOrderRow keeps the latest emission of each order. Orders are replaced
// wholesale, never summed.
func (s *Service) foldOrderRow(
	aggregates map[string]*domain.OrderFact,
	tenantID string,
	platform string,
	row *orderRow,
) {
	surrogateKey := identity.SurrogateKey(tenantID, platform, row.OrderNativeID)

	if existing, ok := aggregates[surrogateKey]; ok && row.EmittedAt.Before(existing.EmittedAt) {
		return
	}

	fact := &domain.OrderFact{
		SurrogateKey:  surrogateKey,
		TenantID:      tenantID,
		Platform:      platform,
		OrderNativeID: row.OrderNativeID,
		OrderKey:      *identity.Normalize(tenantID, platform, row.OrderNativeID),
		Currency:      row.Currency,
		GrossRevenue:  row.GrossRevenue,
		NetRevenue:    row.NetRevenue,
		UTMSource:     row.UTMSource,
		UTMMedium:     row.UTMMedium,
		UTMCampaign:   row.UTMCampaign,
		UTMContent:    row.UTMContent,
		UTMTerm:       row.UTMTerm,
		OrderedAt:     row.OrderedAt,
		CancelledAt:   row.CancelledAt,
		ClosedAt:      row.ClosedAt,
		EmittedAt:     row.EmittedAt,

		AttributionStatus: domain.AttributionStatusUnattributed,
	}

	if row.CustomerNativeID != nil {
		fact.CustomerKey = identity.Normalize(tenantID, platform, *row.CustomerNativeID)
	}

	if row.LastClickCampaignID != nil {
		fact.LastClickCampaignNativeID = row.LastClickCampaignID
		fact.LastClickCampaignKey = identity.Normalize(tenantID, platform, *row.LastClickCampaignID)
		fact.AttributionStatus = domain.AttributionStatusAttributed
	}

	aggregates[surrogateKey] = fact
}

type sourceResolution struct {
	tenantID   string
	dropReason string
}

// resolveTenant maps a staging record to its tenant, through the record's
// connection id when present, otherwise through the single-active-connection
// lookup for the source. Unresolvable and ambiguous records are dropped;
// registry infrastructure failures abort the run.
func (s *Service) resolveTenant(
	ctx context.Context,
	record *domain.RawRecord,
	resolutions map[string]sourceResolution,
) (string, string, error) {
	if record.ConnectionID != "" {
		tenantID, err := s.resolver.Resolve(ctx, record.ConnectionID)
		if err != nil {
			if errors.Is(err, tenancy.ErrUnresolvedTenant) {
				return "", dropReasonUnresolvedTenant, nil
			}
			return "", "", errors.Wrap(err, "resolving tenant by connection")
		}
		return tenantID, "", nil
	}

	if cached, ok := resolutions[record.Source]; ok {
		return cached.tenantID, cached.dropReason, nil
	}

	tenantID, err := s.resolver.ResolveBySource(ctx, record.Source)
	if err != nil {
		switch {
		case errors.Is(err, tenancy.ErrUnresolvedTenant):
			resolutions[record.Source] = sourceResolution{dropReason: dropReasonUnresolvedTenant}
			return "", dropReasonUnresolvedTenant, nil
		case errors.Is(err, tenancy.ErrAmbiguousConnection):
			resolutions[record.Source] = sourceResolution{dropReason: dropReasonAmbiguousTenant}
			return "", dropReasonAmbiguousTenant, nil
		default:
			return "", "", errors.Wrap(err, "resolving tenant by source")
		}
	}

	resolutions[record.Source] = sourceResolution{tenantID: tenantID}
	return tenantID, "", nil
}

func (s *Service) newSummary(entity domain.Entity, fullRefresh bool) *RunSummary {
	return &RunSummary{
		RunID:       utils.GenerateRunID(),
		Entity:      entity,
		FullRefresh: fullRefresh,
		StartedAt:   time.Now(),
		RowsDropped: make(map[string]int),
	}
}

func (s *Service) dropRow(summary *RunSummary, reason string) {
	summary.RowsDropped[reason]++
	observability.RowsDropped.WithLabelValues(string(summary.Entity), reason).Inc()
}

// loadWatermark returns the stored watermark of a fact table, or zero for a
// full-refresh run or a table that has never been merged.
func (s *Service) loadWatermark(ctx context.Context, factTable string, fullRefresh bool) (time.Time, error) {
	if fullRefresh {
		return time.Time{}, nil
	}

	stored, err := s.watermarkRepo.Get(ctx, factTable)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "loading watermark for %s", factTable)
	}
	if stored == nil {
		return time.Time{}, nil
	}

	return stored.Watermark, nil
}

// advanceWatermark persists the max emission timestamp seen this run. The
// watermark never moves backwards, so an empty incremental run is a no-op.
func (s *Service) advanceWatermark(
	ctx context.Context,
	factTable string,
	previous time.Time,
	maxEmitted time.Time,
	summary *RunSummary,
) error {
	summary.Watermark = previous
	if !maxEmitted.After(previous) {
		return nil
	}

	if err := s.watermarkRepo.Save(ctx, factTable, maxEmitted); err != nil {
		return errors.Wrapf(err, "saving watermark for %s", factTable)
	}

	observability.WatermarkTimestamp.WithLabelValues(factTable).Set(float64(maxEmitted.Unix()))
	summary.Watermark = maxEmitted

	return nil
}

// sinceFor applies the per-source lookback to the stored watermark. Zero
// watermark means full history.
func sinceFor(watermark time.Time, source config.Source) time.Time {
	if watermark.IsZero() {
		return time.Time{}
	}
	return watermark.Add(-time.Duration(source.LookbackDays) * 24 * time.Hour)
}

// sourceNames returns the configured sources for an entity type in stable
// order.
func (s *Service) sourceNames(entity domain.Entity) []string {
	names := make([]string, 0, len(s.sources))
	for name, source := range s.sources {
		if source.Entity == entity {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
