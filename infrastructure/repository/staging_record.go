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

const stagingRecordsTable = "staging_records"

type StagingRecordRepository interface {
	Insert(ctx context.Context, record *domain.RawRecord) (bool, error)
	ListBySourceSince(ctx context.Context, source string, since time.Time) ([]*domain.RawRecord, error)
	CountBySource(ctx context.Context, source string) (int64, error)
}

type stagingRecordRepository struct {
	conn *postgres.Connection
}

func NewStagingRecordRepository(conn *postgres.Connection) StagingRecordRepository {
	return &stagingRecordRepository{
		conn: conn,
	}
}

// Insert lands a raw record in staging. Duplicate ingestion ids are a no-op,
// which makes at-least-once consumption from the ingestion stream safe.
// Returns whether a row was actually inserted.
func (r *stagingRecordRepository) Insert(ctx context.Context, record *domain.RawRecord) (bool, error) {
	query, args, err := squirrel.StatementBuilder.
		Insert(stagingRecordsTable).
		Columns("id", "ingestion_id", "connection_id", "source", "payload", "emitted_at", "received_at").
		Values(
			record.ID,
			record.IngestionID,
			record.ConnectionID,
			record.Source,
			record.Payload,
			record.EmittedAt,
			record.ReceivedAt,
		).
		Suffix(`ON CONFLICT (ingestion_id) DO NOTHING`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return false, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return false, fmt.Errorf("executing query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return affected > 0, nil
}

// ListBySourceSince returns staging records for a source with emission
// timestamp strictly after since, oldest first. A zero since returns the full
// history (full-refresh mode).
func (r *stagingRecordRepository) ListBySourceSince(ctx context.Context, source string, since time.Time) ([]*domain.RawRecord, error) {
	builder := squirrel.
		Select("id", "ingestion_id", "connection_id", "source", "payload", "emitted_at", "received_at").
		From(stagingRecordsTable).
		Where(squirrel.Eq{"source": source}).
		OrderBy("emitted_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if !since.IsZero() {
		builder = builder.Where(squirrel.Gt{"emitted_at": since})
	}

	query, args, err := builder.ToSql()
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

	records := make([]*domain.RawRecord, 0)
	for rows.Next() {
		record := &domain.RawRecord{}
		err := rows.Scan(
			&record.ID,
			&record.IngestionID,
			&record.ConnectionID,
			&record.Source,
			&record.Payload,
			&record.EmittedAt,
			&record.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning staging record: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return records, nil
}

func (r *stagingRecordRepository) CountBySource(ctx context.Context, source string) (int64, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(stagingRecordsTable).
		Where(squirrel.Eq{"source": source}).
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
