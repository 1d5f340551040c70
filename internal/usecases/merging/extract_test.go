package merging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name string
		raw  rawScalar
		want *float64
	}{
		{
			name: "plain integer",
			raw:  "42",
			want: floatPtr(42),
		},
		{
			name: "decimal",
			raw:  "12.50",
			want: floatPtr(12.5),
		},
		{
			name: "negative decimal",
			raw:  "-3.75",
			want: floatPtr(-3.75),
		},
		{
			name: "scientific notation",
			raw:  "12.5e3",
			want: floatPtr(12500),
		},
		{
			name: "value above the cap is clamped",
			raw:  "9e15",
			want: floatPtr(1e12),
		},
		{
			name: "value below the negative cap is clamped",
			raw:  "-9e15",
			want: floatPtr(-1e12),
		},
		{
			name: "surrounding whitespace is tolerated",
			raw:  "  7.5  ",
			want: floatPtr(7.5),
		},
		{
			name: "empty string is null",
			raw:  "",
			want: nil,
		},
		{
			name: "words are null",
			raw:  "abc",
			want: nil,
		},
		{
			name: "currency symbol is null",
			raw:  "$12.50",
			want: nil,
		},
		{
			name: "thousands separator is null",
			raw:  "1,200",
			want: nil,
		},
		{
			name: "trailing garbage is null",
			raw:  "12.5x",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNumeric(tt.raw)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{
			name: "bare calendar date",
			raw:  "2026-03-15",
			want: timePtr(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "timestamp is truncated to its date",
			raw:  "2026-03-15T10:30:00Z",
			want: timePtr(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "not a date",
			raw:  "not-a-date",
			want: nil,
		},
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
		{
			name: "month out of range",
			raw:  "2026-13-01",
			want: nil,
		},
		{
			name: "epoch-style integer",
			raw:  "1760000000",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.raw)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "valid code passes through", raw: "USD", want: "USD"},
		{name: "lowercase code is uppercased", raw: "eur", want: "EUR"},
		{name: "empty falls back to the source default", raw: "", want: "BRL"},
		{name: "symbol falls back to the source default", raw: "$", want: "BRL"},
		{name: "too long falls back to the source default", raw: "USDT", want: "BRL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCurrency(tt.raw, "BRL"))
		})
	}
}

func TestExtractCampaignRow(t *testing.T) {
	source := config.Source{Platform: "meta", Entity: "campaign_performance", DefaultCurrency: "USD"}
	emittedAt := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		payload        string
		wantDropReason string
		validate       func(t *testing.T, row *campaignRow)
	}{
		{
			name: "full row with string-typed numerics",
			payload: `{
				"account_id": "act_1",
				"account_name": "Acme",
				"campaign_id": "cmp_1",
				"campaign_name": "Spring Sale",
				"ad_id": "ad_9",
				"date": "2026-03-15",
				"channel": "paid_social",
				"currency": "usd",
				"spend": "125.40",
				"impressions": "10000",
				"clicks": "320",
				"conversions": "12",
				"conversion_value": "890.10"
			}`,
			validate: func(t *testing.T, row *campaignRow) {
				assert.Equal(t, "act_1", row.AccountNativeID)
				assert.Equal(t, "cmp_1", row.CampaignNativeID)
				assert.Equal(t, "Spring Sale", row.CampaignName)
				assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), row.Date)
				assert.Equal(t, "USD", row.Currency)
				assert.Equal(t, 125.40, row.Spend)
				assert.Equal(t, int64(10000), row.Impressions)
				assert.Equal(t, int64(320), row.Clicks)
				assert.Equal(t, 12.0, row.Conversions)
				assert.Equal(t, 890.10, row.ConversionValue)
				assert.Equal(t, emittedAt, row.EmittedAt)
			},
		},
		{
			name: "number-typed metrics and malformed spend",
			payload: `{
				"account_id": "act_1",
				"campaign_id": "cmp_1",
				"date": "2026-03-15",
				"spend": "$12.50",
				"impressions": 500,
				"clicks": 20
			}`,
			validate: func(t *testing.T, row *campaignRow) {
				assert.Equal(t, 0.0, row.Spend)
				assert.Equal(t, int64(500), row.Impressions)
				assert.Equal(t, int64(20), row.Clicks)
				assert.Equal(t, "USD", row.Currency)
			},
		},
		{
			name:           "missing account id drops the row",
			payload:        `{"campaign_id": "cmp_1", "date": "2026-03-15"}`,
			wantDropReason: dropReasonMissingAccountID,
		},
		{
			name:           "whitespace-only campaign id drops the row",
			payload:        `{"account_id": "act_1", "campaign_id": "   ", "date": "2026-03-15"}`,
			wantDropReason: dropReasonMissingCampaignID,
		},
		{
			name:           "unparseable date drops the row",
			payload:        `{"account_id": "act_1", "campaign_id": "cmp_1", "date": "not-a-date"}`,
			wantDropReason: dropReasonMissingDate,
		},
		{
			name:           "invalid json drops the row",
			payload:        `{"account_id": `,
			wantDropReason: dropReasonBadPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &domain.RawRecord{
				ID:        "rec-1",
				Source:    "meta_ads",
				Payload:   []byte(tt.payload),
				EmittedAt: emittedAt,
			}

			row, dropReason := extractCampaignRow(record, source)

			assert.Equal(t, tt.wantDropReason, dropReason)
			if tt.wantDropReason != "" {
				assert.Nil(t, row)
				return
			}
			require.NotNil(t, row)
			tt.validate(t, row)
		})
	}
}

func TestExtractOrderRow(t *testing.T) {
	source := config.Source{Platform: "shopify", Entity: "orders", DefaultCurrency: "USD"}
	emittedAt := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		payload        string
		wantDropReason string
		validate       func(t *testing.T, row *orderRow)
	}{
		{
			name: "attributed order",
			payload: `{
				"order_id": "ord_1",
				"customer_id": "cust_1",
				"currency": "USD",
				"gross_revenue": "150.00",
				"net_revenue": "135.00",
				"utm_source": "facebook",
				"utm_medium": "cpc",
				"utm_campaign": "spring_sale",
				"last_click_campaign_id": "cmp_1",
				"ordered_at": "2026-03-15T14:22:00Z"
			}`,
			validate: func(t *testing.T, row *orderRow) {
				assert.Equal(t, "ord_1", row.OrderNativeID)
				require.NotNil(t, row.CustomerNativeID)
				assert.Equal(t, "cust_1", *row.CustomerNativeID)
				assert.Equal(t, 150.0, row.GrossRevenue)
				assert.Equal(t, 135.0, row.NetRevenue)
				require.NotNil(t, row.LastClickCampaignID)
				assert.Equal(t, "cmp_1", *row.LastClickCampaignID)
				require.NotNil(t, row.UTMSource)
				assert.Equal(t, "facebook", *row.UTMSource)
				assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), row.OrderedAt)
				assert.Nil(t, row.CancelledAt)
			},
		},
		{
			name: "organic order with blank touch fields",
			payload: `{
				"order_id": "ord_2",
				"net_revenue": "80.00",
				"utm_source": "   ",
				"last_click_campaign_id": "",
				"ordered_at": "2026-03-15"
			}`,
			validate: func(t *testing.T, row *orderRow) {
				assert.Nil(t, row.UTMSource)
				assert.Nil(t, row.LastClickCampaignID)
				assert.Nil(t, row.CustomerNativeID)
				assert.Equal(t, "USD", row.Currency)
			},
		},
		{
			name: "cancelled order keeps its cancellation timestamp",
			payload: `{
				"order_id": "ord_3",
				"net_revenue": "0",
				"ordered_at": "2026-03-10",
				"cancelled_at": "2026-03-12T09:00:00Z"
			}`,
			validate: func(t *testing.T, row *orderRow) {
				require.NotNil(t, row.CancelledAt)
				assert.Equal(t, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), *row.CancelledAt)
			},
		},
		{
			name:           "missing order id drops the row",
			payload:        `{"net_revenue": "10.00", "ordered_at": "2026-03-15"}`,
			wantDropReason: dropReasonMissingOrderID,
		},
		{
			name:           "unparseable ordered_at drops the row",
			payload:        `{"order_id": "ord_4", "ordered_at": "yesterday"}`,
			wantDropReason: dropReasonMissingDate,
		},
		{
			name:           "invalid json drops the row",
			payload:        `not json`,
			wantDropReason: dropReasonBadPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &domain.RawRecord{
				ID:        "rec-1",
				Source:    "shopify_orders",
				Payload:   []byte(tt.payload),
				EmittedAt: emittedAt,
			}

			row, dropReason := extractOrderRow(record, source)

			assert.Equal(t, tt.wantDropReason, dropReason)
			if tt.wantDropReason != "" {
				assert.Nil(t, row)
				return
			}
			require.NotNil(t, row)
			tt.validate(t, row)
		})
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}
