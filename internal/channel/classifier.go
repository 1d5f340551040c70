// Package channel maps platform-specific placement strings onto the canonical
// marketing channels. Each platform carries its own mapping table and its own
// documented default: an unmapped placement falls back to the platform default,
// not to a single global one. Only an unrecognized platform yields "other".
package channel

import (
	"strings"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

type platformMapping struct {
	channels map[string]domain.Channel
	fallback domain.Channel
}

var mappings = map[domain.Platform]platformMapping{
	domain.PlatformMeta: {
		channels: map[string]domain.Channel{
			"feed":             domain.ChannelPaidSocial,
			"stories":          domain.ChannelPaidSocial,
			"reels":            domain.ChannelPaidSocial,
			"messenger":        domain.ChannelPaidSocial,
			"marketplace":      domain.ChannelPaidSocial,
			"audience_network": domain.ChannelDisplay,
			"in_stream_video":  domain.ChannelPaidVideo,
		},
		fallback: domain.ChannelPaidSocial,
	},
	domain.PlatformGoogleAds: {
		channels: map[string]domain.Channel{
			"search":          domain.ChannelPaidSearch,
			"search_partners": domain.ChannelPaidSearch,
			"display":         domain.ChannelDisplay,
			"youtube":         domain.ChannelPaidVideo,
			"video":           domain.ChannelPaidVideo,
			"shopping":        domain.ChannelPaidShopping,
			"performance_max": domain.ChannelPaidShopping,
		},
		fallback: domain.ChannelPaidSearch,
	},
	domain.PlatformTikTok: {
		channels: map[string]domain.Channel{
			"in_feed":    domain.ChannelPaidVideo,
			"top_view":   domain.ChannelPaidVideo,
			"spark_ads":  domain.ChannelPaidSocial,
			"pangle":     domain.ChannelDisplay,
			"global_app": domain.ChannelDisplay,
		},
		fallback: domain.ChannelPaidVideo,
	},
	domain.PlatformLinkedIn: {
		channels: map[string]domain.Channel{
			"sponsored_content":   domain.ChannelPaidSocial,
			"sponsored_messaging": domain.ChannelPaidSocial,
			"text_ads":            domain.ChannelDisplay,
			"dynamic_ads":         domain.ChannelDisplay,
		},
		fallback: domain.ChannelPaidSocial,
	},
}

// Classify resolves a raw placement string to its canonical channel. The
// lookup is case-insensitive and whitespace-tolerant.
func Classify(platform domain.Platform, rawChannel string) domain.Channel {
	mapping, ok := mappings[platform]
	if !ok {
		return domain.ChannelOther
	}

	key := strings.ToLower(strings.TrimSpace(rawChannel))
	if canonical, ok := mapping.channels[key]; ok {
		return canonical
	}

	return mapping.fallback
}
