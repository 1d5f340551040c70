package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		connectionID string
		setup        func(repo *mocks.MockTenantConnectionRepository)
		wantTenant   string
		wantErr      error
	}{
		{
			name:         "active connection resolves to its tenant",
			connectionID: "conn-1",
			setup: func(repo *mocks.MockTenantConnectionRepository) {
				repo.EXPECT().GetByConnectionID(gomock.Any(), "conn-1").Return(&domain.TenantConnection{
					ConnectionID: "conn-1",
					TenantID:     "tenant-a",
					Status:       domain.ConnectionStatusActive,
				}, nil)
			},
			wantTenant: "tenant-a",
		},
		{
			name:         "unknown connection is unresolved",
			connectionID: "conn-missing",
			setup: func(repo *mocks.MockTenantConnectionRepository) {
				repo.EXPECT().GetByConnectionID(gomock.Any(), "conn-missing").Return(nil, nil)
			},
			wantErr: ErrUnresolvedTenant,
		},
		{
			name:         "disabled connection is unresolved",
			connectionID: "conn-2",
			setup: func(repo *mocks.MockTenantConnectionRepository) {
				repo.EXPECT().GetByConnectionID(gomock.Any(), "conn-2").Return(&domain.TenantConnection{
					ConnectionID: "conn-2",
					TenantID:     "tenant-b",
					Status:       domain.ConnectionStatusDisabled,
				}, nil)
			},
			wantErr: ErrUnresolvedTenant,
		},
		{
			name:         "empty connection id is unresolved without a lookup",
			connectionID: "",
			setup:        func(repo *mocks.MockTenantConnectionRepository) {},
			wantErr:      ErrUnresolvedTenant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockTenantConnectionRepository(ctrl)
			tt.setup(repo)

			service := NewService(repo)

			tenantID, err := service.Resolve(ctx, tt.connectionID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTenant, tenantID)
		})
	}
}

func TestService_Resolve_CachesActiveConnections(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockTenantConnectionRepository(ctrl)
	repo.EXPECT().GetByConnectionID(gomock.Any(), "conn-1").Return(&domain.TenantConnection{
		ConnectionID: "conn-1",
		TenantID:     "tenant-a",
		Status:       domain.ConnectionStatusActive,
	}, nil).Times(1)

	service := NewService(repo)

	for i := 0; i < 3; i++ {
		tenantID, err := service.Resolve(ctx, "conn-1")
		assert.NoError(t, err)
		assert.Equal(t, "tenant-a", tenantID)
	}
}

func TestService_ResolveBySource(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		connections []*domain.TenantConnection
		wantTenant  string
		wantErr     error
	}{
		{
			name:    "no active connections is unresolved",
			wantErr: ErrUnresolvedTenant,
		},
		{
			name: "single active connection resolves",
			connections: []*domain.TenantConnection{
				{ConnectionID: "conn-1", TenantID: "tenant-a", Status: domain.ConnectionStatusActive},
			},
			wantTenant: "tenant-a",
		},
		{
			name: "multiple active connections fail hard instead of picking the first",
			connections: []*domain.TenantConnection{
				{ConnectionID: "conn-1", TenantID: "tenant-a", Status: domain.ConnectionStatusActive},
				{ConnectionID: "conn-2", TenantID: "tenant-b", Status: domain.ConnectionStatusActive},
			},
			wantErr: ErrAmbiguousConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockTenantConnectionRepository(ctrl)
			repo.EXPECT().ListActiveBySource(gomock.Any(), "shopify_orders").Return(tt.connections, nil)

			service := NewService(repo)

			tenantID, err := service.ResolveBySource(ctx, "shopify_orders")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTenant, tenantID)
		})
	}
}
