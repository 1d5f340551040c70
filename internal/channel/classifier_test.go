package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		platform   domain.Platform
		rawChannel string
		expected   domain.Channel
	}{
		{"meta feed", domain.PlatformMeta, "feed", domain.ChannelPaidSocial},
		{"meta audience network", domain.PlatformMeta, "audience_network", domain.ChannelDisplay},
		{"meta case insensitive", domain.PlatformMeta, "FEED", domain.ChannelPaidSocial},
		{"meta padded", domain.PlatformMeta, "  Reels ", domain.ChannelPaidSocial},
		{"meta unmapped falls back to platform default", domain.PlatformMeta, "some_new_placement", domain.ChannelPaidSocial},
		{"google search", domain.PlatformGoogleAds, "search", domain.ChannelPaidSearch},
		{"google youtube", domain.PlatformGoogleAds, "youtube", domain.ChannelPaidVideo},
		{"google shopping", domain.PlatformGoogleAds, "shopping", domain.ChannelPaidShopping},
		{"google unmapped falls back to paid_search", domain.PlatformGoogleAds, "discovery", domain.ChannelPaidSearch},
		{"tiktok unmapped falls back to paid_video", domain.PlatformTikTok, "unknown", domain.ChannelPaidVideo},
		{"linkedin text ads", domain.PlatformLinkedIn, "text_ads", domain.ChannelDisplay},
		{"linkedin unmapped falls back to paid_social", domain.PlatformLinkedIn, "whatever", domain.ChannelPaidSocial},
		{"unknown platform yields other", domain.Platform("bing_ads"), "search", domain.ChannelOther},
		{"unknown platform empty channel yields other", domain.Platform(""), "", domain.ChannelOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.platform, tt.rawChannel))
		})
	}
}

func TestClassify_PlatformDefaultsDiffer(t *testing.T) {
	// The fallback is deliberately per-platform: the same unmapped string
	// lands on a different canonical channel depending on the source.
	raw := "brand_new_placement"

	assert.Equal(t, domain.ChannelPaidSocial, Classify(domain.PlatformMeta, raw))
	assert.Equal(t, domain.ChannelPaidSearch, Classify(domain.PlatformGoogleAds, raw))
	assert.Equal(t, domain.ChannelPaidVideo, Classify(domain.PlatformTikTok, raw))
}
