package domain

// Platform identifies the advertising or commerce platform a record came from.
type Platform string

const (
	PlatformMeta      Platform = "meta"
	PlatformGoogleAds Platform = "google_ads"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformShopify   Platform = "shopify"
)

// Channel is the platform-independent marketing channel category dashboards
// group by. Raw placement strings are mapped here by the channel classifier.
type Channel string

const (
	ChannelPaidSocial   Channel = "paid_social"
	ChannelPaidSearch   Channel = "paid_search"
	ChannelPaidVideo    Channel = "paid_video"
	ChannelPaidShopping Channel = "paid_shopping"
	ChannelDisplay      Channel = "display"
	ChannelOther        Channel = "other"
)

// Entity names the canonical table an incremental merge run targets.
type Entity string

const (
	EntityCampaignPerformance Entity = "campaign_performance"
	EntityOrders              Entity = "orders"
)
