package domain

import "time"

// AttributionStatus marks whether an order carries a resolved last-click
// campaign assignment.
type AttributionStatus string

const (
	AttributionStatusAttributed   AttributionStatus = "attributed"
	AttributionStatusUnattributed AttributionStatus = "unattributed"
)

// OrderFact is one canonical row per order. Repeated emissions of the same
// order replace the previous values (latest emission wins); orders are never
// summed. The last-click campaign assignment comes from upstream
// UTM-to-campaign resolution and is the seed for the multi-touch models.
type OrderFact struct {
	SurrogateKey  string
	TenantID      string
	Platform      string
	OrderNativeID string
	OrderKey      string
	CustomerKey   *string
	Currency      string

	GrossRevenue float64
	NetRevenue   float64

	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	UTMContent  *string
	UTMTerm     *string

	LastClickCampaignNativeID *string
	LastClickCampaignKey      *string
	AttributionStatus         AttributionStatus

	OrderedAt   time.Time
	CancelledAt *time.Time
	ClosedAt    *time.Time

	EmittedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
