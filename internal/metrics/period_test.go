package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		preset   Preset
		wantDays int
	}{
		{Preset7d, 7},
		{Preset30d, 30},
		{Preset90d, 90},
		{Preset1y, 365},
		{Preset("bogus"), 7},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			p := ResolvePeriod(tt.preset, now, time.Time{}, time.Time{})
			assert.Equal(t, now, p.End)
			assert.Equal(t, tt.wantDays, p.Days())
		})
	}

	custom := ResolvePeriod(PresetCustom, now, now, now.AddDate(0, 0, -3))
	assert.True(t, custom.Start.Before(custom.End))
	assert.Equal(t, 3, custom.Days())
}

func TestPeriodPrevious(t *testing.T) {
	p := ResolvePeriod(Preset7d, now, time.Time{}, time.Time{})
	prev := p.Previous()

	assert.Equal(t, p.Start.AddDate(0, 0, -7), prev.Start)
	assert.True(t, prev.End.Before(p.Start))
	assert.False(t, prev.Contains(p.Start))
	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("30d")
	require.NoError(t, err)
	assert.Equal(t, Preset30d, p)

	_, err = ParsePreset("2w")
	assert.Error(t, err)
}

func TestBucketCount(t *testing.T) {
	tests := []struct {
		days, want int
	}{
		{1, 1},
		{7, 7},
		{14, 14},
		{15, 3},
		{30, 5},
		{90, 13},
		{92, 14},
		{93, 12},
		{365, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketCount(tt.days), "days=%d", tt.days)
	}
}

func TestBucketsIndexClamps(t *testing.T) {
	b := newBuckets(ResolvePeriod(Preset7d, now, time.Time{}, time.Time{}))
	assert.Equal(t, 0, b.index(now.AddDate(0, 0, -30)))
	assert.Equal(t, 6, b.index(now))
	assert.Equal(t, 6, b.index(now.Add(time.Hour)))
	assert.Equal(t, 3, b.index(now.AddDate(0, 0, -4).Add(time.Minute)))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		cur, prev     float64
		lowerIsBetter bool
		want          VariationType
	}{
		{"sin decrease is progress", 9, 10, true, VariationProgress},
		{"sin increase is regression", 11, 10, true, VariationRegression},
		{"sin small change is stable", 9.5, 10, true, VariationStable},
		{"good increase is progress", 11, 10, false, VariationProgress},
		{"good decrease is regression", 9, 10, false, VariationRegression},
		{"both zero", 0, 0, true, VariationStable},
		{"new sins", 3, 0, true, VariationRegression},
		{"new good works", 3, 0, false, VariationProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.cur, tt.prev, tt.lowerIsBetter).Type)
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.0%", FormatPercent(-0.04))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "+12.5%", FormatPercent(12.5))
	assert.Equal(t, "-3.0%", FormatPercent(-3))
	assert.Zero(t, Percent(5, 0))
	assert.InDelta(t, 25, Percent(1, 4), 1e-9)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter([]string{"person-type=a, b", "gravity=mortal", "person-type=c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, f[DimPersonType])
	assert.Equal(t, "gravity=mortal person-type=a,b,c", f.String())
	assert.False(t, f.Empty())

	_, err = ParseFilter([]string{"colour=red"})
	assert.Error(t, err)
	_, err = ParseFilter([]string{"gravity"})
	assert.Error(t, err)

	assert.True(t, Filter{}.Empty())
	assert.True(t, Filter{DimGravity: nil}.Matches(values{}))
}

func TestFilterMatches(t *testing.T) {
	v := values{DimPersonType: {"A"}, DimTerm: {"god", "self"}}
	assert.True(t, Filter{DimTerm: {"self"}}.Matches(v))
	assert.False(t, Filter{DimTerm: {"self"}, DimPersonType: {"B"}}.Matches(v))
	assert.False(t, Filter{DimActivity: {"work"}}.Matches(v))
}
