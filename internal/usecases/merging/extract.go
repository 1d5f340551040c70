package merging

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Numeric policy: an optional exponent is accepted, so "12.5e3" parses to
// 12500. Parsed values are clamped to [-1e12, 1e12]; anything the guard
// rejects becomes null, never zero.
var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// currencyPattern accepts ISO 4217 alpha codes after uppercasing.
var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// datePrefixPattern requires a YYYY-MM-DD prefix; longer timestamps are
// truncated to the calendar date.
var datePrefixPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

const maxAbsNumeric = 1e12

// Drop reasons, used both as metric labels and RunSummary keys.
const (
	dropReasonBadPayload        = "bad_payload"
	dropReasonUnresolvedTenant  = "unresolved_tenant"
	dropReasonAmbiguousTenant   = "ambiguous_tenant"
	dropReasonMissingAccountID  = "missing_account_id"
	dropReasonMissingCampaignID = "missing_campaign_id"
	dropReasonMissingOrderID    = "missing_order_id"
	dropReasonMissingDate       = "missing_date"
)

// rawScalar tolerates upstream payloads that serialize numbers either as JSON
// numbers or as strings. It keeps the raw token; the field-level parsers
// decide validity.
type rawScalar string

func (s *rawScalar) UnmarshalJSON(data []byte) error {
	token := strings.TrimSpace(string(data))
	if token == "null" {
		*s = ""
		return nil
	}
	if len(token) >= 2 && token[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		*s = rawScalar(unquoted)
		return nil
	}
	*s = rawScalar(token)
	return nil
}

type campaignPayload struct {
	AccountID       string    `json:"account_id"`
	AccountName     string    `json:"account_name"`
	CampaignID      string    `json:"campaign_id"`
	CampaignName    string    `json:"campaign_name"`
	AdID            string    `json:"ad_id"`
	Date            string    `json:"date"`
	Channel         string    `json:"channel"`
	Currency        string    `json:"currency"`
	Spend           rawScalar `json:"spend"`
	Impressions     rawScalar `json:"impressions"`
	Clicks          rawScalar `json:"clicks"`
	Conversions     rawScalar `json:"conversions"`
	ConversionValue rawScalar `json:"conversion_value"`
}

type orderPayload struct {
	OrderID             string    `json:"order_id"`
	CustomerID          string    `json:"customer_id"`
	Currency            string    `json:"currency"`
	GrossRevenue        rawScalar `json:"gross_revenue"`
	NetRevenue          rawScalar `json:"net_revenue"`
	UTMSource           string    `json:"utm_source"`
	UTMMedium           string    `json:"utm_medium"`
	UTMCampaign         string    `json:"utm_campaign"`
	UTMContent          string    `json:"utm_content"`
	UTMTerm             string    `json:"utm_term"`
	LastClickCampaignID string    `json:"last_click_campaign_id"`
	OrderedAt           string    `json:"ordered_at"`
	CancelledAt         string    `json:"cancelled_at"`
	ClosedAt            string    `json:"closed_at"`
}

// campaignRow is one validated ad-level staging row, before tenant resolution
// and before aggregation to campaign-date grain.
type campaignRow struct {
	AccountNativeID  string
	AccountName      string
	CampaignNativeID string
	CampaignName     string
	Date             time.Time
	RawChannel       string
	Currency         string
	Spend            float64
	Impressions      int64
	Clicks           int64
	Conversions      float64
	ConversionValue  float64
	EmittedAt        time.Time
}

// orderRow is one validated order staging row before tenant resolution.
type orderRow struct {
	OrderNativeID       string
	CustomerNativeID    *string
	Currency            string
	GrossRevenue        float64
	NetRevenue          float64
	UTMSource           *string
	UTMMedium           *string
	UTMCampaign         *string
	UTMContent          *string
	UTMTerm             *string
	LastClickCampaignID *string
	OrderedAt           time.Time
	CancelledAt         *time.Time
	ClosedAt            *time.Time
	EmittedAt           time.Time
}

// parseNumeric applies the guard regex and the clamp. Nil means the value is
// absent or malformed; callers substitute per field policy.
func parseNumeric(raw rawScalar) *float64 {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}
	if !numericPattern.MatchString(trimmed) {
		return nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}

	if value > maxAbsNumeric {
		value = maxAbsNumeric
	}
	if value < -maxAbsNumeric {
		value = -maxAbsNumeric
	}

	return &value
}

func numericOrZero(raw rawScalar) float64 {
	if v := parseNumeric(raw); v != nil {
		return *v
	}
	return 0
}

func integerOrZero(raw rawScalar) int64 {
	if v := parseNumeric(raw); v != nil {
		return int64(*v)
	}
	return 0
}

// parseDate requires a YYYY-MM-DD prefix. "not-a-date" yields nil and the row
// is excluded from the aggregate, never defaulted to epoch or today.
func parseDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if !datePrefixPattern.MatchString(trimmed) {
		return nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", trimmed[:10], time.UTC)
	if err != nil {
		return nil
	}

	return &parsed
}

// parseTimestamp accepts RFC 3339 or a bare calendar date.
func parseTimestamp(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		parsed = parsed.UTC()
		return &parsed
	}

	return parseDate(trimmed)
}

func parseCurrency(raw string, fallback string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if currencyPattern.MatchString(code) {
		return code
	}
	return fallback
}

// normalizeText trims and maps whitespace-only strings to nil.
func normalizeText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func textOrEmpty(raw string) string {
	if v := normalizeText(raw); v != nil {
		return *v
	}
	return ""
}

// extractCampaignRow parses and validates one campaign-performance staging
// record. The returned drop reason is empty on success. Malformed numerics
// become zero contributions; a missing join key drops the whole row.
func extractCampaignRow(record *domain.RawRecord, source config.Source) (*campaignRow, string) {
	var payload campaignPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return nil, dropReasonBadPayload
	}

	accountID := textOrEmpty(payload.AccountID)
	if accountID == "" {
		return nil, dropReasonMissingAccountID
	}

	campaignID := textOrEmpty(payload.CampaignID)
	if campaignID == "" {
		return nil, dropReasonMissingCampaignID
	}

	date := parseDate(payload.Date)
	if date == nil {
		return nil, dropReasonMissingDate
	}

	return &campaignRow{
		AccountNativeID:  accountID,
		AccountName:      textOrEmpty(payload.AccountName),
		CampaignNativeID: campaignID,
		CampaignName:     textOrEmpty(payload.CampaignName),
		Date:             *date,
		RawChannel:       textOrEmpty(payload.Channel),
		Currency:         parseCurrency(payload.Currency, source.DefaultCurrency),
		Spend:            numericOrZero(payload.Spend),
		Impressions:      integerOrZero(payload.Impressions),
		Clicks:           integerOrZero(payload.Clicks),
		Conversions:      numericOrZero(payload.Conversions),
		ConversionValue:  numericOrZero(payload.ConversionValue),
		EmittedAt:        record.EmittedAt,
	}, ""
}

// extractOrderRow parses and validates one order staging record.
func extractOrderRow(record *domain.RawRecord, source config.Source) (*orderRow, string) {
	var payload orderPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return nil, dropReasonBadPayload
	}

	orderID := textOrEmpty(payload.OrderID)
	if orderID == "" {
		return nil, dropReasonMissingOrderID
	}

	orderedAt := parseDate(payload.OrderedAt)
	if orderedAt == nil {
		return nil, dropReasonMissingDate
	}

	return &orderRow{
		OrderNativeID:       orderID,
		CustomerNativeID:    normalizeText(payload.CustomerID),
		Currency:            parseCurrency(payload.Currency, source.DefaultCurrency),
		GrossRevenue:        numericOrZero(payload.GrossRevenue),
		NetRevenue:          numericOrZero(payload.NetRevenue),
		UTMSource:           normalizeText(payload.UTMSource),
		UTMMedium:           normalizeText(payload.UTMMedium),
		UTMCampaign:         normalizeText(payload.UTMCampaign),
		UTMContent:          normalizeText(payload.UTMContent),
		UTMTerm:             normalizeText(payload.UTMTerm),
		LastClickCampaignID: normalizeText(payload.LastClickCampaignID),
		OrderedAt:           *orderedAt,
		CancelledAt:         parseTimestamp(payload.CancelledAt),
		ClosedAt:            parseTimestamp(payload.ClosedAt),
		EmittedAt:           record.EmittedAt,
	}, ""
}
