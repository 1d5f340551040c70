package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

const orderFactsTable = "order_facts"

type OrderFactRepository interface {
	SaveOrUpdate(ctx context.Context, fact *domain.OrderFact) error
	List(ctx context.Context) ([]*domain.OrderFact, error)
	RevenueTotals(ctx context.Context) (*FactTotals, error)
}

type orderFactRepository struct {
	conn *postgres.Connection
}

func NewOrderFactRepository(conn *postgres.Connection) OrderFactRepository {
	return &orderFactRepository{
		conn: conn,
	}
}

func (r *orderFactRepository) SaveOrUpdate(ctx context.Context, fact *domain.OrderFact) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(orderFactsTable).
		Columns(
			"surrogate_key", "tenant_id", "platform",
			"order_native_id", "order_key", "customer_key", "currency",
			"gross_revenue", "net_revenue",
			"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
			"last_click_campaign_native_id", "last_click_campaign_key", "attribution_status",
			"ordered_at", "cancelled_at", "closed_at", "emitted_at",
		).
		Values(
			fact.SurrogateKey, fact.TenantID, fact.Platform,
			fact.OrderNativeID, fact.OrderKey, fact.CustomerKey, fact.Currency,
			fact.GrossRevenue, fact.NetRevenue,
			fact.UTMSource, fact.UTMMedium, fact.UTMCampaign, fact.UTMContent, fact.UTMTerm,
			fact.LastClickCampaignNativeID, fact.LastClickCampaignKey, fact.AttributionStatus,
			fact.OrderedAt.Format("2006-01-02"), fact.CancelledAt, fact.ClosedAt, fact.EmittedAt,
		).
		Suffix(`
			ON CONFLICT (surrogate_key) DO UPDATE SET
				customer_key = EXCLUDED.customer_key,
				currency = EXCLUDED.currency,
				gross_revenue = EXCLUDED.gross_revenue,
				net_revenue = EXCLUDED.net_revenue,
				utm_source = EXCLUDED.utm_source,
				utm_medium = EXCLUDED.utm_medium,
				utm_campaign = EXCLUDED.utm_campaign,
				utm_content = EXCLUDED.utm_content,
				utm_term = EXCLUDED.utm_term,
				last_click_campaign_native_id = EXCLUDED.last_click_campaign_native_id,
				last_click_campaign_key = EXCLUDED.last_click_campaign_key,
				attribution_status = EXCLUDED.attribution_status,
				cancelled_at = EXCLUDED.cancelled_at,
				closed_at = EXCLUDED.closed_at,
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

func (r *orderFactRepository) List(ctx context.Context) ([]*domain.OrderFact, error) {
	query, args, err := squirrel.
		Select(
			"surrogate_key", "tenant_id", "platform",
			"order_native_id", "order_key", "customer_key", "currency",
			"gross_revenue", "net_revenue",
			"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
			"last_click_campaign_native_id", "last_click_campaign_key", "attribution_status",
			"ordered_at", "cancelled_at", "closed_at",
			"emitted_at", "created_at", "updated_at",
		).
		From(orderFactsTable).
		OrderBy("ordered_at ASC").
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

	facts := make([]*domain.OrderFact, 0)
	for rows.Next() {
		fact := &domain.OrderFact{}
		err := rows.Scan(
			&fact.SurrogateKey, &fact.TenantID, &fact.Platform,
			&fact.OrderNativeID, &fact.OrderKey, &fact.CustomerKey, &fact.Currency,
			&fact.GrossRevenue, &fact.NetRevenue,
			&fact.UTMSource, &fact.UTMMedium, &fact.UTMCampaign, &fact.UTMContent, &fact.UTMTerm,
			&fact.LastClickCampaignNativeID, &fact.LastClickCampaignKey, &fact.AttributionStatus,
			&fact.OrderedAt, &fact.CancelledAt, &fact.ClosedAt,
			&fact.EmittedAt, &fact.CreatedAt, &fact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order fact: %w", err)
		}
		facts = append(facts, fact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return facts, nil
}

// RevenueTotals sums net revenue over the whole canonical table together with
// its observed order-date window, for reconciliation against staging.
func (r *orderFactRepository) RevenueTotals(ctx context.Context) (*FactTotals, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(net_revenue), 0)", "COUNT(*)", "MIN(ordered_at)", "MAX(ordered_at)").
		From(orderFactsTable).
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
