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

const tenantConnectionsTable = "tenant_connections"

type TenantConnectionRepository interface {
	GetByConnectionID(ctx context.Context, connectionID string) (*domain.TenantConnection, error)
	ListActiveBySource(ctx context.Context, source string) ([]*domain.TenantConnection, error)
	SaveOrUpdate(ctx context.Context, connection *domain.TenantConnection) error
}

type tenantConnectionRepository struct {
	conn *postgres.Connection
}

func NewTenantConnectionRepository(conn *postgres.Connection) TenantConnectionRepository {
	return &tenantConnectionRepository{
		conn: conn,
	}
}

func (r *tenantConnectionRepository) GetByConnectionID(ctx context.Context, connectionID string) (*domain.TenantConnection, error) {
	query, args, err := squirrel.
		Select("id", "connection_id", "source", "tenant_id", "status", "created_at", "updated_at").
		From(tenantConnectionsTable).
		Where(squirrel.Eq{"connection_id": connectionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRowContext(ctx, query, args...)
	connection, err := r.scanConnection(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning tenant connection: %w", err)
	}

	return connection, nil
}

func (r *tenantConnectionRepository) ListActiveBySource(ctx context.Context, source string) ([]*domain.TenantConnection, error) {
	query, args, err := squirrel.
		Select("id", "connection_id", "source", "tenant_id", "status", "created_at", "updated_at").
		From(tenantConnectionsTable).
		Where(squirrel.Eq{"source": source, "status": domain.ConnectionStatusActive}).
		OrderBy("created_at ASC").
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

	connections := make([]*domain.TenantConnection, 0)
	for rows.Next() {
		connection := &domain.TenantConnection{}
		err := rows.Scan(
			&connection.ID,
			&connection.ConnectionID,
			&connection.Source,
			&connection.TenantID,
			&connection.Status,
			&connection.CreatedAt,
			&connection.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning tenant connection: %w", err)
		}
		connections = append(connections, connection)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return connections, nil
}

func (r *tenantConnectionRepository) SaveOrUpdate(ctx context.Context, connection *domain.TenantConnection) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(tenantConnectionsTable).
		Columns("id", "connection_id", "source", "tenant_id", "status").
		Values(
			connection.ID,
			connection.ConnectionID,
			connection.Source,
			connection.TenantID,
			connection.Status,
		).
		Suffix(`
			ON CONFLICT (connection_id) DO UPDATE SET
				source = EXCLUDED.source,
				tenant_id = EXCLUDED.tenant_id,
				status = EXCLUDED.status,
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

func (r *tenantConnectionRepository) scanConnection(row *sql.Row) (*domain.TenantConnection, error) {
	connection := &domain.TenantConnection{}

	err := row.Scan(
		&connection.ID,
		&connection.ConnectionID,
		&connection.Source,
		&connection.TenantID,
		&connection.Status,
		&connection.CreatedAt,
		&connection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return connection, nil
}
