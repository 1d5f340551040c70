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

const attributionRecordsTable = "attribution_records"

type AttributionRepository interface {
	SaveOrUpdate(ctx context.Context, record *domain.AttributionRecord) error
	ListByOrderKey(ctx context.Context, orderKey string) ([]*domain.AttributionRecord, error)
}

type attributionRepository struct {
	conn *postgres.Connection
}

func NewAttributionRepository(conn *postgres.Connection) AttributionRepository {
	return &attributionRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts one attribution row by its deterministic id, so
// repeated attribution runs refresh weights instead of duplicating rows.
func (r *attributionRepository) SaveOrUpdate(ctx context.Context, record *domain.AttributionRecord) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(attributionRecordsTable).
		Columns(
			"id", "tenant_id", "order_key", "order_native_id",
			"campaign_key", "campaign_native_id", "model",
			"attribution_weight", "attributed_revenue",
			"total_campaigns_in_window", "attribution_status", "computed_at",
		).
		Values(
			record.ID, record.TenantID, record.OrderKey, record.OrderNativeID,
			record.CampaignKey, record.CampaignNativeID, record.Model,
			record.AttributionWeight, record.AttributedRevenue,
			record.TotalCampaignsInWindow, record.AttributionStatus, record.ComputedAt,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				attribution_weight = EXCLUDED.attribution_weight,
				attributed_revenue = EXCLUDED.attributed_revenue,
				total_campaigns_in_window = EXCLUDED.total_campaigns_in_window,
				attribution_status = EXCLUDED.attribution_status,
				computed_at = EXCLUDED.computed_at
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

func (r *attributionRepository) ListByOrderKey(ctx context.Context, orderKey string) ([]*domain.AttributionRecord, error) {
	query, args, err := squirrel.
		Select(
			"id", "tenant_id", "order_key", "order_native_id",
			"campaign_key", "campaign_native_id", "model",
			"attribution_weight", "attributed_revenue",
			"total_campaigns_in_window", "attribution_status", "computed_at",
		).
		From(attributionRecordsTable).
		Where(squirrel.Eq{"order_key": orderKey}).
		OrderBy("model ASC", "attribution_weight DESC").
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

	records := make([]*domain.AttributionRecord, 0)
	for rows.Next() {
		record := &domain.AttributionRecord{}
		err := rows.Scan(
			&record.ID, &record.TenantID, &record.OrderKey, &record.OrderNativeID,
			&record.CampaignKey, &record.CampaignNativeID, &record.Model,
			&record.AttributionWeight, &record.AttributedRevenue,
			&record.TotalCampaignsInWindow, &record.AttributionStatus, &record.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning attribution record: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return records, nil
}
