package domain

import "time"

// CampaignPerformanceFact is one canonical row per (tenant, platform, account,
// campaign, date). Additive metrics are summed from ad-level staging rows;
// descriptive attributes carry the value from the latest emission. Derived
// ratios are nullable: a zero denominator yields nil, never zero or an error.
type CampaignPerformanceFact struct {
	SurrogateKey     string
	TenantID         string
	Platform         string
	AccountNativeID  string
	AccountKey       string
	AccountName      string
	CampaignNativeID string
	CampaignKey      string
	CampaignName     string
	Date             time.Time
	CanonicalChannel Channel
	Currency         string

	Spend           float64
	Impressions     int64
	Clicks          int64
	Conversions     float64
	ConversionValue float64

	CPM          *float64
	CPC          *float64
	CTR          *float64
	CPA          *float64
	PlatformROAS *float64

	EmittedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveMetrics recomputes the ratio columns from the additive metrics.
// Must be called after any change to spend/impressions/clicks/conversions.
func (f *CampaignPerformanceFact) DeriveMetrics() {
	f.CPM = SafeDivide(f.Spend*1000, float64(f.Impressions))
	f.CPC = SafeDivide(f.Spend, float64(f.Clicks))
	f.CTR = SafeDivide(float64(f.Clicks)*100, float64(f.Impressions))
	f.CPA = SafeDivide(f.Spend, f.Conversions)
	f.PlatformROAS = SafeDivide(f.ConversionValue, f.Spend)
}

// SafeDivide returns num/den, or nil when the denominator is zero. Null-guarded
// division keeps a campaign with zero impressions from producing a fake zero
// CPM in downstream averages.
func SafeDivide(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}
