package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Deterministic(t *testing.T) {
	first := Normalize("tenant-a", "meta", "act_123")
	second := Normalize("tenant-a", "meta", "act_123")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Len(t, *first, 32) // 128-bit digest, hex encoded
}

func TestNormalize_TrimsBeforeHashing(t *testing.T) {
	plain := Normalize("tenant-a", "meta", "act_123")
	padded := Normalize("  tenant-a ", " meta", "act_123  ")

	require.NotNil(t, plain)
	require.NotNil(t, padded)
	assert.Equal(t, *plain, *padded)
}

func TestNormalize_InjectiveInEachArgument(t *testing.T) {
	base := Normalize("tenant-a", "meta", "act_123")
	require.NotNil(t, base)

	tests := []struct {
		name     string
		tenantID string
		platform string
		nativeID string
	}{
		{"different tenant", "tenant-b", "meta", "act_123"},
		{"different platform", "tenant-a", "google_ads", "act_123"},
		{"different native id", "tenant-a", "meta", "act_124"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := Normalize(tt.tenantID, tt.platform, tt.nativeID)
			require.NotNil(t, other)
			assert.NotEqual(t, *base, *other)
		})
	}
}

func TestNormalize_ComponentBoundariesMatter(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide: the separator keeps component
	// boundaries part of the hashed content.
	first := Normalize("t", "ab", "c")
	second := Normalize("t", "a", "bc")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEqual(t, *first, *second)
}

func TestNormalize_NullOnBlankInput(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		platform string
		nativeID string
	}{
		{"empty tenant", "", "meta", "act_123"},
		{"empty platform", "tenant-a", "", "act_123"},
		{"empty native id", "tenant-a", "meta", ""},
		{"whitespace only tenant", "   ", "meta", "act_123"},
		{"whitespace only native id", "tenant-a", "meta", "\t "},
		{"all empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Normalize(tt.tenantID, tt.platform, tt.nativeID))
		})
	}
}

func TestAttributionRecordID_NilCampaignIsStable(t *testing.T) {
	withNil := AttributionRecordID("order-1", nil, "tenant-a", "linear")
	empty := ""
	withEmpty := AttributionRecordID("order-1", &empty, "tenant-a", "linear")

	assert.Equal(t, withNil, withEmpty)

	campaign := "camp-1"
	withCampaign := AttributionRecordID("order-1", &campaign, "tenant-a", "linear")
	assert.NotEqual(t, withNil, withCampaign)
}

func TestSurrogateKey_MatchesHash(t *testing.T) {
	assert.Equal(t,
		Hash("tenant-a", "meta", "camp-1", "2024-01-15"),
		SurrogateKey("tenant-a", "meta", "camp-1", "2024-01-15"),
	)
}
