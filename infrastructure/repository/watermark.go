package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/database/postgres"
)

const mergeWatermarksTable = "merge_watermarks"

// Watermark is the stored high-water emission timestamp of one fact table.
type Watermark struct {
	FactTable string
	Watermark time.Time
	UpdatedAt time.Time
}

type WatermarkRepository interface {
	Get(ctx context.Context, factTable string) (*Watermark, error)
	Save(ctx context.Context, factTable string, watermark time.Time) error
	List(ctx context.Context) ([]*Watermark, error)
}

type watermarkRepository struct {
	conn *postgres.Connection
}

func NewWatermarkRepository(conn *postgres.Connection) WatermarkRepository {
	return &watermarkRepository{
		conn: conn,
	}
}

// Get returns the stored watermark for a fact table, or nil when the table
// has never been merged (a full historical run).
func (r *watermarkRepository) Get(ctx context.Context, factTable string) (*Watermark, error) {
	query, args, err := squirrel.
		Select("fact_table", "watermark", "updated_at").
		From(mergeWatermarksTable).
		Where(squirrel.Eq{"fact_table": factTable}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	watermark := &Watermark{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&watermark.FactTable,
		&watermark.Watermark,
		&watermark.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning watermark: %w", err)
	}

	return watermark, nil
}

func (r *watermarkRepository) Save(ctx context.Context, factTable string, watermark time.Time) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(mergeWatermarksTable).
		Columns("fact_table", "watermark").
		Values(factTable, watermark).
		Suffix(`
			ON CONFLICT (fact_table) DO UPDATE SET
				watermark = EXCLUDED.watermark,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

func (r *watermarkRepository) List(ctx context.Context) ([]*Watermark, error) {
	query, args, err := squirrel.
		Select("fact_table", "watermark", "updated_at").
		From(mergeWatermarksTable).
		OrderBy("fact_table ASC").
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

	watermarks := make([]*Watermark, 0)
	for rows.Next() {
		watermark := &Watermark{}
		if err := rows.Scan(&watermark.FactTable, &watermark.Watermark, &watermark.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning watermark: %w", err)
		}
		watermarks = append(watermarks, watermark)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return watermarks, nil
}
