package domain

import "time"

// AttributionModel names one of the competing revenue-allocation models.
type AttributionModel string

const (
	ModelLastClick AttributionModel = "last_click"
	ModelLinear    AttributionModel = "linear"
	ModelTimeDecay AttributionModel = "time_decay"
)

// AttributionRecord is one row per (order, assigned campaign, model). For a
// given order and model the weights across all records sum to 1.0 whenever the
// order is attributed; an order with no campaign activity in the lookback
// window gets a single fallback row with weight 1.0. The ID is a deterministic
// hash so repeated runs upsert instead of duplicating.
type AttributionRecord struct {
	ID            string
	TenantID      string
	OrderKey      string
	OrderNativeID string

	CampaignKey      *string
	CampaignNativeID *string

	Model                  AttributionModel
	AttributionWeight      float64
	AttributedRevenue      float64
	TotalCampaignsInWindow int
	AttributionStatus      AttributionStatus

	ComputedAt time.Time
}
