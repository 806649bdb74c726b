package analysis

import (
	"strings"
	"time"

	"github.com/opendata-mcp/pkg/catalog/models"
)

// Frequency is an update-cadence category. The first six come from a
// declared refresh rate; frequent/infrequent are inferred from record
// staleness and use a distinct vocabulary on purpose, so callers can
// tell a stated schedule from a guess.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyAnnually   Frequency = "annually"
	FrequencyIrregular  Frequency = "irregular"
	FrequencyFrequent   Frequency = "frequent"
	FrequencyInfrequent Frequency = "infrequent"
	FrequencyUnknown    Frequency = "unknown"
)

// FrequencyConfig holds the recency thresholds for cadence inference
type FrequencyConfig struct {
	FrequentWithin  time.Duration
	MonthlyWithin   time.Duration
	QuarterlyWithin time.Duration
}

func DefaultFrequencyConfig() FrequencyConfig {
	return FrequencyConfig{
		FrequentWithin:  7 * 24 * time.Hour,
		MonthlyWithin:   30 * 24 * time.Hour,
		QuarterlyWithin: 90 * 24 * time.Hour,
	}
}

// refreshKeywords is checked in order: a declared refresh rate could
// contain several keywords, and the earlier category must win. A slice,
// not a map; iteration order is part of the contract.
var refreshKeywords = []struct {
	category Frequency
	keywords []string
}{
	{FrequencyDaily, []string{"daily", "real-time"}},
	{FrequencyWeekly, []string{"weekly"}},
	{FrequencyMonthly, []string{"monthly"}},
	{FrequencyQuarterly, []string{"quarterly"}},
	{FrequencyAnnually, []string{"annual", "yearly"}},
	{FrequencyIrregular, []string{"irregular", "as needed"}},
}

// Classifier maps a package to exactly one Frequency. The clock is
// injectable so threshold behavior can be tested at fixed instants.
type Classifier struct {
	cfg FrequencyConfig
	now func() time.Time
}

func NewClassifier(cfg FrequencyConfig) *Classifier {
	return &Classifier{cfg: cfg, now: time.Now}
}

// NewClassifierAt builds a classifier with a fixed clock, for tests
func NewClassifierAt(cfg FrequencyConfig, now func() time.Time) *Classifier {
	return &Classifier{cfg: cfg, now: now}
}

// Classify is total: every package lands in exactly one category. A
// declared refresh rate is authoritative; recency is only a fallback.
func (c *Classifier) Classify(pkg *models.Package) Frequency {
	if pkg.RefreshRate != "" {
		rate := strings.ToLower(pkg.RefreshRate)
		for _, entry := range refreshKeywords {
			for _, keyword := range entry.keywords {
				if strings.Contains(rate, keyword) {
					return entry.category
				}
			}
		}
		// Declared but unrecognized; fall through to recency
	}

	latest := pkg.MetadataModified.Time
	if pkg.LastRefreshed.After(latest) {
		latest = pkg.LastRefreshed.Time
	}
	if latest.IsZero() {
		return FrequencyUnknown
	}

	age := c.now().Sub(latest)
	switch {
	case age < c.cfg.FrequentWithin:
		return FrequencyFrequent
	case age < c.cfg.MonthlyWithin:
		return FrequencyMonthly
	case age < c.cfg.QuarterlyWithin:
		return FrequencyQuarterly
	default:
		return FrequencyInfrequent
	}
}
