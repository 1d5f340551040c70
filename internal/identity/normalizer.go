// Package identity derives the stable cross-platform identifiers every join
// in the canonical layer is keyed on. All hashes are 128-bit MD5 digests of
// pipe-joined, trimmed components; the function must never change once fact
// rows exist, or every historical join breaks.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const separator = "|"

// Normalize hashes a (tenant, platform, platform-native id) triple into the
// stable identifier used for cross-platform entity joins. Returns nil when any
// component is empty after trimming: absence of a valid identifier is
// represented as nil and filtered out downstream, never coerced.
func Normalize(tenantID, platform, nativeID string) *string {
	tenantID = strings.TrimSpace(tenantID)
	platform = strings.TrimSpace(platform)
	nativeID = strings.TrimSpace(nativeID)

	if tenantID == "" || platform == "" || nativeID == "" {
		return nil
	}

	h := Hash(tenantID, platform, nativeID)
	return &h
}

// SurrogateKey hashes a natural-key tuple into the upsert identity of a
// canonical fact row. Same tuple, same key: repeated merges of the same
// logical row are idempotent upserts, not duplicate inserts.
func SurrogateKey(parts ...string) string {
	return Hash(parts...)
}

// AttributionRecordID builds the deterministic id of an attribution row.
// campaignKey may be nil for fallback/unattributed rows; it hashes as "none"
// so the unattributed row of an order is as stable as any other.
func AttributionRecordID(orderKey string, campaignKey *string, tenantID, model string) string {
	campaign := "none"
	if campaignKey != nil && *campaignKey != "" {
		campaign = *campaignKey
	}
	return Hash(orderKey, campaign, tenantID, model)
}

// Hash is the single digest primitive behind every derived identifier.
func Hash(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, separator)))
	return hex.EncodeToString(sum[:])
}
