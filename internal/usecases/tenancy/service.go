// Package tenancy resolves ingestion connections to tenants. Resolution is a
// hard requirement for every downstream stage: rows whose connection cannot be
// resolved to exactly one tenant are excluded from all facts, never attributed
// to a default or most-recent tenant.
package tenancy

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

var (
	// ErrUnresolvedTenant means no active connection maps to a tenant.
	ErrUnresolvedTenant = errors.New("no active tenant connection found")

	// ErrAmbiguousConnection means more than one active connection exists for
	// a source type without per-record connection metadata. This is a hard
	// failure: picking the first active connection silently mixes tenants.
	ErrAmbiguousConnection = errors.New("ambiguous tenant connection for source")
)

type Resolver interface {
	Resolve(ctx context.Context, connectionID string) (string, error)
	ResolveBySource(ctx context.Context, source string) (string, error)
	InvalidateCache()
}

type Service struct {
	connectionRepo repository.TenantConnectionRepository

	cacheMutex sync.RWMutex
	cache      map[string]string
}

func NewService(connectionRepo repository.TenantConnectionRepository) *Service {
	return &Service{
		connectionRepo: connectionRepo,
		cache:          make(map[string]string),
	}
}

// Resolve maps a connection id to its tenant. Disabled or unknown connections
// resolve to ErrUnresolvedTenant.
func (s *Service) Resolve(ctx context.Context, connectionID string) (string, error) {
	if connectionID == "" {
		return "", ErrUnresolvedTenant
	}

	s.cacheMutex.RLock()
	if tenantID, ok := s.cache[connectionID]; ok {
		s.cacheMutex.RUnlock()
		return tenantID, nil
	}
	s.cacheMutex.RUnlock()

	connection, err := s.connectionRepo.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return "", errors.Wrap(err, "looking up tenant connection")
	}

	if connection == nil || connection.Status != domain.ConnectionStatusActive {
		return "", ErrUnresolvedTenant
	}

	s.cacheMutex.Lock()
	s.cache[connectionID] = connection.TenantID
	s.cacheMutex.Unlock()

	return connection.TenantID, nil
}

// ResolveBySource handles sources whose records carry no connection id. It
// succeeds only when exactly one active connection exists for the source;
// anything else is unresolvable. With several active connections there is no
// safe way to pick one, so the rows are dropped and the ambiguity is surfaced
// for an operator to fix the registry.
func (s *Service) ResolveBySource(ctx context.Context, source string) (string, error) {
	connections, err := s.connectionRepo.ListActiveBySource(ctx, source)
	if err != nil {
		return "", errors.Wrap(err, "listing tenant connections for source")
	}

	switch len(connections) {
	case 0:
		return "", ErrUnresolvedTenant
	case 1:
		return connections[0].TenantID, nil
	default:
		logrus.WithFields(logrus.Fields{
			"source":             source,
			"active_connections": len(connections),
		}).Error("Multiple active connections for source without connection-level tagging; rows will be dropped until the registry is disambiguated")
		return "", ErrAmbiguousConnection
	}
}

// InvalidateCache drops the in-memory connection cache. Called between
// scheduled runs so registry edits take effect without a restart.
func (s *Service) InvalidateCache() {
	s.cacheMutex.Lock()
	s.cache = make(map[string]string)
	s.cacheMutex.Unlock()
}
