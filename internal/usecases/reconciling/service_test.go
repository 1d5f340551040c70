package reconciling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/merging"
	"go.uber.org/mock/gomock"
)

// stubAggregator returns fixed staging totals and records the windows it was
// asked about.
type stubAggregator struct {
	campaignTotals *merging.StagingTotals
	orderTotals    *merging.StagingTotals

	campaignFrom time.Time
	campaignTo   time.Time
}

func (s *stubAggregator) StagingCampaignSpend(_ context.Context, from, to time.Time) (*merging.StagingTotals, error) {
	s.campaignFrom = from
	s.campaignTo = to
	return s.campaignTotals, nil
}

func (s *stubAggregator) StagingOrderRevenue(_ context.Context, _, _ time.Time) (*merging.StagingTotals, error) {
	return s.orderTotals, nil
}

func TestRunChecks_MatchingTotalsPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	minDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	maxDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	campaignRepo := mocks.NewMockCampaignFactRepository(ctrl)
	campaignRepo.EXPECT().SpendTotals(gomock.Any()).Return(&repository.FactTotals{
		Total: 1000.0, Rows: 40, MinDate: minDate, MaxDate: maxDate,
	}, nil)

	orderRepo := mocks.NewMockOrderFactRepository(ctrl)
	orderRepo.EXPECT().RevenueTotals(gomock.Any()).Return(&repository.FactTotals{
		Total: 5000.0, Rows: 120, MinDate: minDate, MaxDate: maxDate,
	}, nil)

	staging := &stubAggregator{
		campaignTotals: &merging.StagingTotals{Total: 1000.0, Rows: 40},
		orderTotals:    &merging.StagingTotals{Total: 5000.0, Rows: 120},
	}

	service := NewService(1.0, staging, campaignRepo, orderRepo)

	report, err := service.RunChecks(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Passed)
	require.Len(t, report.Checks, 2)

	for _, check := range report.Checks {
		assert.True(t, check.Passed, check.Check)
		assert.False(t, check.Skipped, check.Check)
		assert.Equal(t, 0.0, check.PctDiff, check.Check)
	}

	// The staging side is restricted to the fact table's observed date span.
	assert.Equal(t, minDate, staging.campaignFrom)
	assert.Equal(t, maxDate, staging.campaignTo)

	assert.Same(t, report, service.LatestReport())
}

func TestRunChecks_DriftBeyondToleranceFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	minDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	maxDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	campaignRepo := mocks.NewMockCampaignFactRepository(ctrl)
	campaignRepo.EXPECT().SpendTotals(gomock.Any()).Return(&repository.FactTotals{
		Total: 950.0, Rows: 40, MinDate: minDate, MaxDate: maxDate,
	}, nil)

	orderRepo := mocks.NewMockOrderFactRepository(ctrl)
	orderRepo.EXPECT().RevenueTotals(gomock.Any()).Return(&repository.FactTotals{
		Total: 5000.0, Rows: 120, MinDate: minDate, MaxDate: maxDate,
	}, nil)

	// Facts are 5% below staging against a 1% tolerance.
	staging := &stubAggregator{
		campaignTotals: &merging.StagingTotals{Total: 1000.0, Rows: 40},
		orderTotals:    &merging.StagingTotals{Total: 5000.0, Rows: 120},
	}

	service := NewService(1.0, staging, campaignRepo, orderRepo)

	report, err := service.RunChecks(context.Background())

	require.NoError(t, err)
	assert.False(t, report.Passed)

	var campaignCheck *CheckResult
	for _, check := range report.Checks {
		if check.Check == CheckCampaignSpend {
			campaignCheck = check
		}
	}
	require.NotNil(t, campaignCheck)

	assert.False(t, campaignCheck.Passed)
	assert.Equal(t, 1000.0, campaignCheck.StagingTotal)
	assert.Equal(t, 950.0, campaignCheck.FactTotal)
	assert.InDelta(t, 50.0, campaignCheck.AbsDiff, 1e-9)
	assert.InDelta(t, 5.0, campaignCheck.PctDiff, 1e-9)
	assert.Equal(t, 1.0, campaignCheck.TolerancePct)
}

func TestRunChecks_EmptyFactTableIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignRepo := mocks.NewMockCampaignFactRepository(ctrl)
	campaignRepo.EXPECT().SpendTotals(gomock.Any()).Return(&repository.FactTotals{}, nil)

	orderRepo := mocks.NewMockOrderFactRepository(ctrl)
	orderRepo.EXPECT().RevenueTotals(gomock.Any()).Return(&repository.FactTotals{}, nil)

	// Neither staging aggregation runs when both fact tables are empty.
	staging := &stubAggregator{}

	service := NewService(1.0, staging, campaignRepo, orderRepo)

	report, err := service.RunChecks(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Passed)
	for _, check := range report.Checks {
		assert.True(t, check.Skipped, check.Check)
		assert.True(t, check.Passed, check.Check)
	}
}

func TestRunChecks_EmptyStagingWithNonEmptyFactsIsFullDrift(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	minDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	maxDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	campaignRepo := mocks.NewMockCampaignFactRepository(ctrl)
	campaignRepo.EXPECT().SpendTotals(gomock.Any()).Return(&repository.FactTotals{
		Total: 500.0, Rows: 10, MinDate: minDate, MaxDate: maxDate,
	}, nil)

	orderRepo := mocks.NewMockOrderFactRepository(ctrl)
	orderRepo.EXPECT().RevenueTotals(gomock.Any()).Return(&repository.FactTotals{}, nil)

	staging := &stubAggregator{
		campaignTotals: &merging.StagingTotals{},
	}

	service := NewService(1.0, staging, campaignRepo, orderRepo)

	report, err := service.RunChecks(context.Background())

	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Equal(t, 100.0, report.Checks[0].PctDiff)
}

func TestLatestReport_NilBeforeFirstRun(t *testing.T) {
	service := NewService(1.0, &stubAggregator{}, nil, nil)
	assert.Nil(t, service.LatestReport())
}
