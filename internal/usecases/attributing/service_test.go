package attributing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/identity"
	"go.uber.org/mock/gomock"
)

const testTenant = "tenant-a"

func attributedOrder(orderNativeID string, netRevenue float64, orderedAt time.Time, lastClickCampaignID string) *domain.OrderFact {
	order := &domain.OrderFact{
		TenantID:          testTenant,
		Platform:          "shopify",
		OrderNativeID:     orderNativeID,
		OrderKey:          *identity.Normalize(testTenant, "shopify", orderNativeID),
		NetRevenue:        netRevenue,
		OrderedAt:         orderedAt,
		AttributionStatus: domain.AttributionStatusUnattributed,
	}

	if lastClickCampaignID != "" {
		order.LastClickCampaignNativeID = &lastClickCampaignID
		order.LastClickCampaignKey = identity.Normalize(testTenant, "shopify", lastClickCampaignID)
		order.AttributionStatus = domain.AttributionStatusAttributed
	}

	return order
}

func campaignFact(campaignNativeID string, date time.Time) *domain.CampaignPerformanceFact {
	return &domain.CampaignPerformanceFact{
		TenantID:         testTenant,
		Platform:         "meta",
		CampaignNativeID: campaignNativeID,
		CampaignKey:      *identity.Normalize(testTenant, "meta", campaignNativeID),
		Date:             date,
		Spend:            25.0,
	}
}

// runAttribution executes one run against mocked repositories and returns the
// written records grouped by model.
func runAttribution(
	t *testing.T,
	windowDays int,
	decayRate float64,
	orders []*domain.OrderFact,
	facts []*domain.CampaignPerformanceFact,
) (map[domain.AttributionModel][]*domain.AttributionRecord, *RunSummary) {
	t.Helper()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderFactRepository(ctrl)
	campaignRepo := mocks.NewMockCampaignFactRepository(ctrl)
	attributionRepo := mocks.NewMockAttributionRepository(ctrl)

	orderRepo.EXPECT().List(gomock.Any()).Return(orders, nil)
	campaignRepo.EXPECT().
		ListWithSpendInRange(gomock.Any(), testTenant, gomock.Any(), gomock.Any()).
		Return(facts, nil)

	written := make(map[domain.AttributionModel][]*domain.AttributionRecord)
	attributionRepo.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record *domain.AttributionRecord) error {
			written[record.Model] = append(written[record.Model], record)
			return nil
		}).AnyTimes()

	service := NewService(windowDays, decayRate, orderRepo, campaignRepo, attributionRepo)

	summary, err := service.AttributeOrders(context.Background())
	require.NoError(t, err)

	return written, summary
}

func weightByCampaign(records []*domain.AttributionRecord) map[string]*domain.AttributionRecord {
	byCampaign := make(map[string]*domain.AttributionRecord, len(records))
	for _, record := range records {
		key := "none"
		if record.CampaignNativeID != nil {
			key = *record.CampaignNativeID
		}
		byCampaign[key] = record
	}
	return byCampaign
}

func assertWeightsSumToOne(t *testing.T, records []*domain.AttributionRecord) {
	t.Helper()

	var total float64
	for _, record := range records {
		total += record.AttributionWeight
	}
	assert.InDelta(t, 1.0, total, 1e-4)
}

func TestAttributeOrders_UnattributedOrderGetsOnlyLastClick(t *testing.T) {
	orderedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	order := attributedOrder("ord_1", 80.0, orderedAt, "")

	written, summary := runAttribution(t, 7, 0.3,
		[]*domain.OrderFact{order},
		[]*domain.CampaignPerformanceFact{campaignFact("cmp_A", orderedAt)},
	)

	assert.Equal(t, 1, summary.OrdersProcessed)
	assert.Equal(t, 0, summary.FallbackOrders)
	assert.Empty(t, written[domain.ModelLinear])
	assert.Empty(t, written[domain.ModelTimeDecay])

	require.Len(t, written[domain.ModelLastClick], 1)
	record := written[domain.ModelLastClick][0]
	assert.Nil(t, record.CampaignKey)
	assert.Nil(t, record.CampaignNativeID)
	assert.Equal(t, 1.0, record.AttributionWeight)
	assert.Equal(t, 80.0, record.AttributedRevenue)
	assert.Equal(t, domain.AttributionStatusUnattributed, record.AttributionStatus)
}

func TestAttributeOrders_EmptyWindowFallsBackToLastClickCampaign(t *testing.T) {
	orderedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	order := attributedOrder("ord_1", 120.0, orderedAt, "cmp_A")

	// The only campaign activity is outside the 7-day window.
	outside := campaignFact("cmp_B", orderedAt.AddDate(0, 0, -10))

	written, summary := runAttribution(t, 7, 0.3,
		[]*domain.OrderFact{order},
		[]*domain.CampaignPerformanceFact{outside},
	)

	assert.Equal(t, 1, summary.FallbackOrders)

	for _, model := range []domain.AttributionModel{domain.ModelLinear, domain.ModelTimeDecay} {
		require.Len(t, written[model], 1, string(model))
		record := written[model][0]
		require.NotNil(t, record.CampaignNativeID)
		assert.Equal(t, "cmp_A", *record.CampaignNativeID)
		assert.Equal(t, 1.0, record.AttributionWeight)
		assert.Equal(t, 120.0, record.AttributedRevenue)
		assert.Equal(t, 1, record.TotalCampaignsInWindow)
	}
}

func TestAttributeOrders_LinearSpreadsCreditByActiveDays(t *testing.T) {
	orderedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	order := attributedOrder("ord_1", 100.0, orderedAt, "cmp_A")

	// Four (campaign, date) entries in the window: cmp_A on three days,
	// cmp_B on one. Credit follows days of activity.
	facts := []*domain.CampaignPerformanceFact{
		campaignFact("cmp_A", orderedAt),
		campaignFact("cmp_A", orderedAt.AddDate(0, 0, -1)),
		campaignFact("cmp_A", orderedAt.AddDate(0, 0, -2)),
		campaignFact("cmp_B", orderedAt.AddDate(0, 0, -1)),
	}

	written, _ := runAttribution(t, 7, 0.3, []*domain.OrderFact{order}, facts)

	linear := written[domain.ModelLinear]
	require.Len(t, linear, 2)
	assertWeightsSumToOne(t, linear)

	byCampaign := weightByCampaign(linear)
	require.Contains(t, byCampaign, "cmp_A")
	require.Contains(t, byCampaign, "cmp_B")

	assert.InDelta(t, 0.75, byCampaign["cmp_A"].AttributionWeight, 1e-9)
	assert.InDelta(t, 0.25, byCampaign["cmp_B"].AttributionWeight, 1e-9)
	assert.InDelta(t, 75.0, byCampaign["cmp_A"].AttributedRevenue, 1e-4)
	assert.InDelta(t, 25.0, byCampaign["cmp_B"].AttributedRevenue, 1e-4)
	assert.Equal(t, 4, byCampaign["cmp_A"].TotalCampaignsInWindow)
}

func TestAttributeOrders_TimeDecayFavorsRecentActivity(t *testing.T) {
	orderedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	order := attributedOrder("ord_1", 90.0, orderedAt, "cmp_B")

	// cmp_A was active one day before the order, cmp_B on the order day.
	facts := []*domain.CampaignPerformanceFact{
		campaignFact("cmp_A", orderedAt.AddDate(0, 0, -1)),
		campaignFact("cmp_B", orderedAt),
	}

	decayRate := 1.0
	written, _ := runAttribution(t, 7, decayRate, []*domain.OrderFact{order}, facts)

	records := written[domain.ModelTimeDecay]
	require.Len(t, records, 2)
	assertWeightsSumToOne(t, records)

	rawA := math.Exp(-decayRate * 1)
	rawB := math.Exp(-decayRate * 0)
	total := rawA + rawB

	byCampaign := weightByCampaign(records)
	assert.InDelta(t, rawA/total, byCampaign["cmp_A"].AttributionWeight, 1e-9)
	assert.InDelta(t, rawB/total, byCampaign["cmp_B"].AttributionWeight, 1e-9)
	assert.InDelta(t, 90.0*rawA/total, byCampaign["cmp_A"].AttributedRevenue, 1e-4)
	assert.InDelta(t, 90.0*rawB/total, byCampaign["cmp_B"].AttributedRevenue, 1e-4)

	// Older activity never outweighs newer activity.
	assert.Less(t,
		byCampaign["cmp_A"].AttributionWeight,
		byCampaign["cmp_B"].AttributionWeight,
	)
}

func TestAttributeOrders_TwoCampaignWindowSplitsRevenue(t *testing.T) {
	orderedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	order := attributedOrder("ord_1", 90.0, orderedAt, "cmp_1")

	// cmp_1 active three days before the order, cmp_2 one day before.
	facts := []*domain.CampaignPerformanceFact{
		campaignFact("cmp_1", orderedAt.AddDate(0, 0, -3)),
		campaignFact("cmp_2", orderedAt.AddDate(0, 0, -1)),
	}

	decayRate := 0.5
	written, _ := runAttribution(t, 7, decayRate, []*domain.OrderFact{order}, facts)

	linear := weightByCampaign(written[domain.ModelLinear])
	assert.InDelta(t, 0.5, linear["cmp_1"].AttributionWeight, 1e-9)
	assert.InDelta(t, 0.5, linear["cmp_2"].AttributionWeight, 1e-9)
	assert.InDelta(t, 45.0, linear["cmp_1"].AttributedRevenue, 1e-4)
	assert.InDelta(t, 45.0, linear["cmp_2"].AttributedRevenue, 1e-4)

	raw1 := math.Exp(-decayRate * 3)
	raw2 := math.Exp(-decayRate * 1)
	total := raw1 + raw2

	decay := weightByCampaign(written[domain.ModelTimeDecay])
	assert.InDelta(t, raw1/total, decay["cmp_1"].AttributionWeight, 1e-9)
	assert.InDelta(t, raw2/total, decay["cmp_2"].AttributionWeight, 1e-9)
	assert.InDelta(t, 90.0*raw1/total, decay["cmp_1"].AttributedRevenue, 1e-4)
	assert.InDelta(t, 90.0*raw2/total, decay["cmp_2"].AttributedRevenue, 1e-4)

	assertWeightsSumToOne(t, written[domain.ModelLinear])
	assertWeightsSumToOne(t, written[domain.ModelTimeDecay])
}

func TestAttributeOrders_RecordIDsAreDeterministic(t *testing.T) {
	orderedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	order := attributedOrder("ord_1", 100.0, orderedAt, "cmp_A")
	facts := []*domain.CampaignPerformanceFact{campaignFact("cmp_A", orderedAt)}

	firstRun, _ := runAttribution(t, 7, 0.3, []*domain.OrderFact{order}, facts)
	secondRun, _ := runAttribution(t, 7, 0.3, []*domain.OrderFact{order}, facts)

	for _, model := range []domain.AttributionModel{domain.ModelLastClick, domain.ModelLinear, domain.ModelTimeDecay} {
		require.Len(t, firstRun[model], 1, string(model))
		require.Len(t, secondRun[model], 1, string(model))
		assert.Equal(t, firstRun[model][0].ID, secondRun[model][0].ID, string(model))
		assert.NotEmpty(t, firstRun[model][0].ID)
	}

	// Models never collide with each other on the same (order, campaign).
	assert.NotEqual(t, firstRun[domain.ModelLastClick][0].ID, firstRun[domain.ModelLinear][0].ID)
	assert.NotEqual(t, firstRun[domain.ModelLinear][0].ID, firstRun[domain.ModelTimeDecay][0].ID)
}
