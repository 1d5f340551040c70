package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

const dateRangesTable = "date_ranges"

type DateRangeRepository interface {
	ReplaceAll(ctx context.Context, ranges []*domain.DateRange) error
	CountByType(ctx context.Context, periodType domain.PeriodType) (int64, error)
}

type dateRangeRepository struct {
	conn *postgres.Connection
}

func NewDateRangeRepository(conn *postgres.Connection) DateRangeRepository {
	return &dateRangeRepository{
		conn: conn,
	}
}

// ReplaceAll regenerates the dimension wholesale: delete everything, insert
// the new rows, one transaction. Readers never see a half-built dimension.
func (r *dateRangeRepository) ReplaceAll(ctx context.Context, ranges []*domain.DateRange) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteQuery, deleteArgs, err := squirrel.
			Delete(dateRangesTable).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building delete query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("clearing date ranges: %w", err)
		}

		builder := squirrel.StatementBuilder.
			Insert(dateRangesTable).
			Columns(
				"id", "period_type", "period_label",
				"period_start", "period_end",
				"prior_period_start", "prior_period_end",
				"generated_at",
			).
			PlaceholderFormat(squirrel.Dollar)

		for _, dr := range ranges {
			builder = builder.Values(
				dr.ID, dr.PeriodType, dr.PeriodLabel,
				dr.PeriodStart.Format("2006-01-02"), dr.PeriodEnd.Format("2006-01-02"),
				dr.PriorPeriodStart.Format("2006-01-02"), dr.PriorPeriodEnd.Format("2006-01-02"),
				dr.GeneratedAt,
			)
		}

		insertQuery, insertArgs, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("building insert query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("inserting date ranges: %w", err)
		}

		return nil
	})
}

func (r *dateRangeRepository) CountByType(ctx context.Context, periodType domain.PeriodType) (int64, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(dateRangesTable).
		Where(squirrel.Eq{"period_type": periodType}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("executing query: %w", err)
	}

	return count, nil
}
