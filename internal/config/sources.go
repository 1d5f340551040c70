package config

import (
	"fmt"
	"os"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// Source is the typed per-source transform configuration: one entry per
// upstream connector, consumed by the generic merge function instead of
// per-source code. The YAML file overrides the built-in defaults.
type Source struct {
	Platform        string        `yaml:"platform"`
	Entity          domain.Entity `yaml:"entity"`
	LookbackDays    int           `yaml:"lookback_days"`
	DefaultCurrency string        `yaml:"default_currency"`
}

type sourcesFile struct {
	Sources map[string]Source `yaml:"sources"`
}

// DefaultSources returns the built-in connector registry. Lookback days model
// each platform's expected late-arrival delay: ad platforms restate
// conversions for a few days, commerce orders mutate until closed.
func DefaultSources(defaultLookbackDays int) map[string]Source {
	return map[string]Source{
		"meta_ads": {
			Platform:        string(domain.PlatformMeta),
			Entity:          domain.EntityCampaignPerformance,
			LookbackDays:    defaultLookbackDays,
			DefaultCurrency: "USD",
		},
		"google_ads": {
			Platform:        string(domain.PlatformGoogleAds),
			Entity:          domain.EntityCampaignPerformance,
			LookbackDays:    defaultLookbackDays,
			DefaultCurrency: "USD",
		},
		"tiktok_ads": {
			Platform:        string(domain.PlatformTikTok),
			Entity:          domain.EntityCampaignPerformance,
			LookbackDays:    defaultLookbackDays,
			DefaultCurrency: "USD",
		},
		"linkedin_ads": {
			Platform:        string(domain.PlatformLinkedIn),
			Entity:          domain.EntityCampaignPerformance,
			LookbackDays:    defaultLookbackDays,
			DefaultCurrency: "USD",
		},
		"shopify_orders": {
			Platform:        string(domain.PlatformShopify),
			Entity:          domain.EntityOrders,
			LookbackDays:    defaultLookbackDays,
			DefaultCurrency: "USD",
		},
	}
}

// LoadSources merges the optional YAML file over the built-in registry.
// Entries in the file replace the default entry of the same name; lookback
// days of zero fall back to the default.
func LoadSources(path string, defaultLookbackDays int) (map[string]Source, error) {
	sources := DefaultSources(defaultLookbackDays)

	if path == "" {
		return sources, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file %s: %w", path, err)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	for name, src := range parsed.Sources {
		if src.LookbackDays <= 0 {
			src.LookbackDays = defaultLookbackDays
		}
		if src.DefaultCurrency == "" {
			src.DefaultCurrency = "USD"
		}
		sources[name] = src
	}

	return sources, nil
}
