package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

const campaignFactsTable = "campaign_performance_facts"

// FactTotals carries the aggregate side of a reconciliation check.
type FactTotals struct {
	Total   float64
	Rows    int64
	MinDate time.Time
	MaxDate time.Time
}

type CampaignFactRepository interface {
	SaveOrUpdate(ctx context.Context, fact *domain.CampaignPerformanceFact) error
	GetBySurrogateKey(ctx context.Context, surrogateKey string) (*domain.CampaignPerformanceFact, error)
	ListWithSpendInRange(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]*domain.CampaignPerformanceFact, error)
	SpendTotals(ctx context.Context) (*FactTotals, error)
}

type campaignFactRepository struct {
	conn *postgres.Connection
}

func NewCampaignFactRepository(conn *postgres.Connection) CampaignFactRepository {
	return &campaignFactRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts one canonical row by surrogate key. On conflict the
// additive metrics and descriptive attributes are replaced, not summed: the
// incoming aggregate is the corrected truth for that (tenant, platform,
// campaign, date) within the lookback window.
func (r *campaignFactRepository) SaveOrUpdate(ctx context.Context, fact *domain.CampaignPerformanceFact) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(campaignFactsTable).
		Columns(
			"surrogate_key", "tenant_id", "platform",
			"account_native_id", "account_key", "account_name",
			"campaign_native_id", "campaign_key", "campaign_name",
			"date", "canonical_channel", "currency",
			"spend", "impressions", "clicks", "conversions", "conversion_value",
			"cpm", "cpc", "ctr", "cpa", "platform_roas",
			"emitted_at",
		).
		Values(
			fact.SurrogateKey, fact.TenantID, fact.Platform,
			fact.AccountNativeID, fact.AccountKey, fact.AccountName,
			fact.CampaignNativeID, fact.CampaignKey, fact.CampaignName,
			fact.Date.Format("2006-01-02"), fact.CanonicalChannel, fact.Currency,
			fact.Spend, fact.Impressions, fact.Clicks, fact.Conversions, fact.ConversionValue,
			fact.CPM, fact.CPC, fact.CTR, fact.CPA, fact.PlatformROAS,
			fact.EmittedAt,
		).
		Suffix(`
			ON CONFLICT (surrogate_key) DO UPDATE SET
				account_name = EXCLUDED.account_name,
				campaign_name = EXCLUDED.campaign_name,
				canonical_channel = EXCLUDED.canonical_channel,
				currency = EXCLUDED.currency,
				spend = EXCLUDED.spend,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				conversion_value = EXCLUDED.conversion_value,
				cpm = EXCLUDED.cpm,
				cpc = EXCLUDED.cpc,
				ctr = EXCLUDED.ctr,
				cpa = EXCLUDED.cpa,
				platform_roas = EXCLUDED.platform_roas,
				emitted_at = EXCLUDED.emitted_at,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

func (r *campaignFactRepository) GetBySurrogateKey(ctx context.Context, surrogateKey string) (*domain.CampaignPerformanceFact, error) {
	query, args, err := squirrel.
		Select(factColumns()...).
		From(campaignFactsTable).
		Where(squirrel.Eq{"surrogate_key": surrogateKey}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating rows: %w", err)
		}
		return nil, nil
	}

	return r.scanFact(rows)
}

// ListWithSpendInRange returns the tenant's campaign-date rows with spend > 0
// inside [startDate, endDate]. Spend is the activity signal the attribution
// window is built from; zero-spend rows are excluded even when clicks or
// impressions are nonzero.
func (r *campaignFactRepository) ListWithSpendInRange(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]*domain.CampaignPerformanceFact, error) {
	query, args, err := squirrel.
		Select(factColumns()...).
		From(campaignFactsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Gt{"spend": 0}).
		Where(squirrel.GtOrEq{"date": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"date": endDate.Format("2006-01-02")}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	facts := make([]*domain.CampaignPerformanceFact, 0)
	for rows.Next() {
		fact, err := r.scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning campaign fact: %w", err)
		}
		facts = append(facts, fact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return facts, nil
}

// SpendTotals sums spend over the whole canonical table together with its
// observed date window, for reconciliation against staging.
func (r *campaignFactRepository) SpendTotals(ctx context.Context) (*FactTotals, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(spend), 0)", "COUNT(*)", "MIN(date)", "MAX(date)").
		From(campaignFactsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	totals := &FactTotals{}
	var minDate, maxDate sql.NullTime

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&totals.Total, &totals.Rows, &minDate, &maxDate)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}

	if minDate.Valid {
		totals.MinDate = minDate.Time
	}
	if maxDate.Valid {
		totals.MaxDate = maxDate.Time
	}

	return totals, nil
}

func factColumns() []string {
	return []string{
		"surrogate_key", "tenant_id", "platform",
		"account_native_id", "account_key", "account_name",
		"campaign_native_id", "campaign_key", "campaign_name",
		"date", "canonical_channel", "currency",
		"spend", "impressions", "clicks", "conversions", "conversion_value",
		"cpm", "cpc", "ctr", "cpa", "platform_roas",
		"emitted_at", "created_at", "updated_at",
	}
}

func (r *campaignFactRepository) scanFact(rows *sql.Rows) (*domain.CampaignPerformanceFact, error) {
	fact := &domain.CampaignPerformanceFact{}

	err := rows.Scan(
		&fact.SurrogateKey, &fact.TenantID, &fact.Platform,
		&fact.AccountNativeID, &fact.AccountKey, &fact.AccountName,
		&fact.CampaignNativeID, &fact.CampaignKey, &fact.CampaignName,
		&fact.Date, &fact.CanonicalChannel, &fact.Currency,
		&fact.Spend, &fact.Impressions, &fact.Clicks, &fact.Conversions, &fact.ConversionValue,
		&fact.CPM, &fact.CPC, &fact.CTR, &fact.CPA, &fact.PlatformROAS,
		&fact.EmittedAt, &fact.CreatedAt, &fact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return fact, nil
}
