package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opendata-mcp/pkg/catalog/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClassifier() *Classifier {
	return NewClassifierAt(DefaultFrequencyConfig(), func() time.Time { return testNow })
}

func modifiedDaysAgo(days int) models.CustomTime {
	return models.CustomTime{Time: testNow.AddDate(0, 0, -days)}
}

func TestClassifyDeclaredRefreshRate(t *testing.T) {
	c := fixedClassifier()

	tests := []struct {
		rate     string
		expected Frequency
	}{
		{"Daily", FrequencyDaily},
		{"Updated Daily", FrequencyDaily},
		{"Real-time", FrequencyDaily},
		{"Weekly", FrequencyWeekly},
		{"Monthly", FrequencyMonthly},
		{"Quarterly", FrequencyQuarterly},
		{"Annually", FrequencyAnnually},
		{"Yearly", FrequencyAnnually},
		{"Irregular", FrequencyIrregular},
		{"As needed", FrequencyIrregular},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			pkg := models.Package{RefreshRate: tt.rate}
			assert.Equal(t, tt.expected, c.Classify(&pkg))
		})
	}
}

func TestClassifyDeclaredRateBeatsStaleness(t *testing.T) {
	c := fixedClassifier()
	pkg := models.Package{
		RefreshRate:      "Updated Daily",
		MetadataModified: modifiedDaysAgo(400),
	}

	assert.Equal(t, FrequencyDaily, c.Classify(&pkg))
}

func TestClassifyKeywordPriorityOrder(t *testing.T) {
	c := fixedClassifier()
	// A rate containing several keywords resolves to the earliest category
	pkg := models.Package{RefreshRate: "daily, with monthly backfill"}

	assert.Equal(t, FrequencyDaily, c.Classify(&pkg))
}

func TestClassifyRecencyThresholds(t *testing.T) {
	c := fixedClassifier()

	tests := []struct {
		daysAgo  int
		expected Frequency
	}{
		{5, FrequencyFrequent},
		{6, FrequencyFrequent},
		{7, FrequencyMonthly},
		{29, FrequencyMonthly},
		{40, FrequencyQuarterly},
		{89, FrequencyQuarterly},
		{90, FrequencyInfrequent},
		{100, FrequencyInfrequent},
	}

	for _, tt := range tests {
		pkg := models.Package{MetadataModified: modifiedDaysAgo(tt.daysAgo)}
		assert.Equal(t, tt.expected, c.Classify(&pkg), "at %d days", tt.daysAgo)
	}
}

func TestClassifyUsesMostRecentTimestamp(t *testing.T) {
	c := fixedClassifier()
	// metadata_modified is stale but the maintainer refreshed recently
	pkg := models.Package{
		MetadataModified: modifiedDaysAgo(200),
		LastRefreshed:    modifiedDaysAgo(3),
	}

	assert.Equal(t, FrequencyFrequent, c.Classify(&pkg))
}

func TestClassifyNoTimestampIsUnknown(t *testing.T) {
	c := fixedClassifier()
	pkg := models.Package{}

	assert.Equal(t, FrequencyUnknown, c.Classify(&pkg))
}

func TestClassifyUnrecognizedRateFallsBackToRecency(t *testing.T) {
	c := fixedClassifier()
	pkg := models.Package{
		RefreshRate:      "whenever the stars align",
		MetadataModified: modifiedDaysAgo(5),
	}

	assert.Equal(t, FrequencyFrequent, c.Classify(&pkg))
}

func TestClassifyIsTotal(t *testing.T) {
	c := fixedClassifier()
	valid := map[Frequency]bool{
		FrequencyDaily: true, FrequencyWeekly: true, FrequencyMonthly: true,
		FrequencyQuarterly: true, FrequencyAnnually: true, FrequencyIrregular: true,
		FrequencyFrequent: true, FrequencyInfrequent: true, FrequencyUnknown: true,
	}

	pkgs := []models.Package{
		{},
		{RefreshRate: "gibberish"},
		{MetadataModified: modifiedDaysAgo(1)},
		{RefreshRate: "weekly", MetadataModified: modifiedDaysAgo(500)},
	}
	for i := range pkgs {
		assert.True(t, valid[c.Classify(&pkgs[i])], "package %d", i)
	}
}

func TestClassifyAlternateThresholds(t *testing.T) {
	cfg := FrequencyConfig{
		FrequentWithin:  24 * time.Hour,
		MonthlyWithin:   48 * time.Hour,
		QuarterlyWithin: 72 * time.Hour,
	}
	c := NewClassifierAt(cfg, func() time.Time { return testNow })

	pkg := models.Package{MetadataModified: modifiedDaysAgo(2)}
	assert.Equal(t, FrequencyQuarterly, c.Classify(&pkg))
}
