package services

import (
	"testing"
	"time"

	"coal-market-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("  ", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("2024/03/05", time.UTC)
	assert.Error(t, err)
}

func TestFilterAndAggregateWildcardIsIdentity(t *testing.T) {
	engine := newTestEngine(NewRandomSource(3))
	dataset := engine.GenerateHistoricalData(200)

	for _, selector := range []string{"", models.WildcardSelector, "ALL"} {
		filtered, stats := engine.FilterAndAggregate(dataset, models.FilterCriteria{
			Location: selector,
			Type:     selector,
		})
		assert.Equal(t, dataset, filtered)
		assert.Equal(t, len(dataset), stats.Count)
	}
}

func TestFilterAndAggregateSelectors(t *testing.T) {
	engine := newTestEngine(NewRandomSource(11))
	dataset := engine.GenerateHistoricalData(1000)

	filtered, stats := engine.FilterAndAggregate(dataset, models.FilterCriteria{
		Location: "榆林",
		Type:     "动力煤",
	})
	require.NotEmpty(t, filtered)
	assert.Equal(t, len(filtered), stats.Count)
	for i, r := range filtered {
		assert.Equal(t, "榆林", r.Location)
		assert.Contains(t, r.Type, "动力煤")
		if i > 0 {
			assert.LessOrEqual(t, r.Timestamp, filtered[i-1].Timestamp)
		}
	}

	assert.LessOrEqual(t, stats.Min, stats.Avg)
	assert.LessOrEqual(t, stats.Avg, stats.Max)
	assert.Equal(t, filtered[0].Price, stats.Current)
	assert.Equal(t, filtered[0].ChangeRate, stats.Change)
}

func TestFilterAndAggregateDateBounds(t *testing.T) {
	engine := newTestEngine(&scriptedSource{})
	at := func(day, hour, minute, sec int) models.PriceRecord {
		ts := time.Date(2024, time.January, day, hour, minute, sec, 0, time.UTC)
		return models.PriceRecord{Timestamp: ts.UnixMilli(), Price: 100 * day, Location: "黄骅港", Type: "动力煤 Q5500"}
	}
	dataset := []models.PriceRecord{
		at(11, 0, 0, 0),
		at(10, 23, 59, 59),
		at(9, 12, 0, 0),
		at(5, 0, 0, 0),
		at(4, 23, 59, 59),
	}

	filtered, stats := engine.FilterAndAggregate(dataset, models.FilterCriteria{
		Start: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
	})

	require.Len(t, filtered, 3)
	assert.Equal(t, dataset[1:4], filtered)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1000, stats.Current)
}

func TestFilterAndAggregateNoMatch(t *testing.T) {
	engine := newTestEngine(NewRandomSource(5))
	dataset := engine.GenerateHistoricalData(50)

	filtered, stats := engine.FilterAndAggregate(dataset, models.FilterCriteria{Location: "不存在的港口"})
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
	assert.Equal(t, models.Stats{}, stats)
}

func TestCalculateStats(t *testing.T) {
	records := []models.PriceRecord{
		{Price: 900, ChangeRate: 1.5},
		{Price: 800, ChangeRate: -0.4},
		{Price: 850, ChangeRate: 0.2},
	}
	assert.Equal(t, models.Stats{
		Avg:     850,
		Max:     900,
		Min:     800,
		Count:   3,
		Current: 900,
		Change:  1.5,
	}, CalculateStats(records))

	// 平均は四捨五入
	assert.Equal(t, 2, CalculateStats([]models.PriceRecord{{Price: 1}, {Price: 2}}).Avg)
	assert.Equal(t, models.Stats{}, CalculateStats(nil))
}

func TestFilterByDateRange(t *testing.T) {
	engine := newTestEngine(&scriptedSource{})
	dataset := priceSeries("炼焦煤 主焦", 1800, 1810, 1820, 1830)

	out := engine.FilterByDateRange(dataset, time.Time{}, time.Time{})
	assert.Equal(t, dataset, out)

	out = engine.FilterByDateRange(dataset, testNow.AddDate(0, 0, -2), time.Time{})
	assert.Len(t, out, 2)
}

func TestQuickDateRange(t *testing.T) {
	engine := NewMarketAnalyticsService(&scriptedSource{},
		WithClock(func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }),
		WithLocation(time.UTC),
	)

	testCases := []struct {
		days      int
		wantStart string
	}{
		{7, "2024-03-08"},
		{30, "2024-02-14"},
		{90, "2023-12-16"},
		{365, "2024-01-01"},
	}
	for _, tc := range testCases {
		start, end := engine.QuickDateRange(tc.days)
		assert.Equal(t, tc.wantStart, start, "days=%d", tc.days)
		assert.Equal(t, "2024-03-15", end)
	}
}
