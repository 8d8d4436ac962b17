package services

import (
	"regexp"
	"testing"
	"time"

	"coal-market-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)

func TestBaselineFor(t *testing.T) {
	winter := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	summer := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		coalType      string
		at            time.Time
		wantPrice     int
		wantCalorific int
	}{
		{"thermal winter", "动力煤 Q5500", winter, 850, 5500},
		{"thermal summer", "动力煤 Q5500", summer, 780, 5500},
		{"coking", "炼焦煤 主焦", winter, 1800, 6500},
		{"anthracite winter", "无烟煤 块煤", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 1450, 7000},
		{"anthracite spring", "无烟煤 块煤", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 1380, 7000},
		{"pci", "喷吹煤 PCI", summer, 1100, 6000},
		{"lignite fallback", "褐煤 Q3500", winter, 400, 3500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, cal := BaselineFor(tc.coalType, tc.at)
			assert.Equal(t, tc.wantPrice, price)
			assert.Equal(t, tc.wantCalorific, cal)
		})
	}
}

func TestGenerateHistoricalDataEmpty(t *testing.T) {
	engine := newTestEngine(NewRandomSource(1))

	for _, n := range []int{0, -5} {
		data := engine.GenerateHistoricalData(n)
		assert.NotNil(t, data)
		assert.Empty(t, data)
	}
}

func TestGenerateHistoricalData(t *testing.T) {
	engine := newTestEngine(NewRandomSource(42))
	catalog := engine.Catalog()

	data := engine.GenerateHistoricalData(500)
	require.Len(t, data, 500)

	earliest := testNow.AddDate(-2, 0, 0).UnixMilli()
	for i, r := range data {
		if i > 0 {
			assert.LessOrEqual(t, r.Timestamp, data[i-1].Timestamp, "records must be newest first")
		}
		assert.GreaterOrEqual(t, r.Timestamp, earliest)
		assert.LessOrEqual(t, r.Timestamp, testNow.UnixMilli())

		assert.Regexp(t, idPattern, r.ID)
		assert.Contains(t, catalog.CoalTypes, r.Type)
		assert.Contains(t, catalog.Locations, r.Location)
		assert.Contains(t, catalog.Sources, r.Source)
		at := r.Time().In(time.UTC)
		assert.Equal(t, at.Format(historicalTimeStr), r.TimeStr)

		basePrice, baseCal := BaselineFor(r.Type, at)
		assert.InDelta(t, basePrice, r.Price, independentVariance)
		assert.InDelta(t, baseCal, r.Calorific, calorificNoise)
		assert.GreaterOrEqual(t, r.Sulfur, 0.6)
		assert.LessOrEqual(t, r.Sulfur, 1.0)
		assert.GreaterOrEqual(t, r.ChangeRate, -2.0)
		assert.LessOrEqual(t, r.ChangeRate, 2.0)
	}
}

func TestGenerateHistoricalDataIsDeterministicPerSeed(t *testing.T) {
	a := newTestEngine(NewRandomSource(7)).GenerateHistoricalData(20)
	b := newTestEngine(NewRandomSource(7)).GenerateHistoricalData(20)
	assert.Equal(t, a, b)
}

func TestCreateNewDataPointContinuesSameType(t *testing.T) {
	rng := &scriptedSource{
		ints:   []int{14}, // drift +7
		floats: []float64{0.5, 0.75},
	}
	engine := newTestEngine(rng)
	last := models.PriceRecord{Type: "动力煤 Q5500", Price: 900}

	r := engine.CreateNewDataPoint(&last, "动力煤", "秦皇岛港")

	assert.Equal(t, "动力煤 Q5500", r.Type)
	assert.Equal(t, "秦皇岛港", r.Location)
	assert.Equal(t, 907, r.Price)
	assert.Equal(t, 5400, r.Calorific)
	assert.Equal(t, 0.8, r.Sulfur)
	assert.Equal(t, 1.0, r.ChangeRate)
	assert.Equal(t, models.StreamingSource, r.Source)
	assert.Equal(t, "00000000", r.ID)
	assert.Equal(t, "2024/01/15 10:30:45", r.TimeStr)
	assert.Equal(t, testNow.UnixMilli(), r.Timestamp)

	// 煤種と地点が指定されていれば抽選しない。価格・発熱量・ID(8)のみ
	assert.Equal(t, []int{15, 201, 36, 36, 36, 36, 36, 36, 36, 36}, rng.intN)
}

func TestCreateNewDataPointIndependentDraw(t *testing.T) {
	testCases := []struct {
		name string
		last *models.PriceRecord
	}{
		{"no previous record", nil},
		{"type changed", &models.PriceRecord{Type: "炼焦煤 主焦", Price: 5000}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedSource{ints: []int{60, 100}}
			engine := newTestEngine(rng)

			r := engine.CreateNewDataPoint(tc.last, "动力煤", "榆林")

			// 1月は冬季なので 800 + 50、ばらつき 0
			assert.Equal(t, 850, r.Price)
			assert.Equal(t, 5500, r.Calorific)
			assert.Equal(t, 121, rng.intN[0])
		})
	}
}

func TestCreateNewDataPointRandomTypeKeepsWalk(t *testing.T) {
	// 煤種の抽選で直前と同じ煤種（index 2）が出た場合はランダムウォーク
	rng := &scriptedSource{ints: []int{2, 0, 0}}
	engine := newTestEngine(rng)
	last := models.PriceRecord{Type: "无烟煤 块煤", Price: 1500}

	r := engine.CreateNewDataPoint(&last, models.WildcardSelector, models.WildcardSelector)

	assert.Equal(t, "无烟煤 块煤", r.Type)
	assert.Equal(t, "秦皇岛港", r.Location)
	assert.Equal(t, 1493, r.Price)
}

func TestCreateNewDataPointDriftBounds(t *testing.T) {
	engine := newTestEngine(NewRandomSource(99))
	last := engine.CreateNewDataPoint(nil, "喷吹煤", "")

	for i := 0; i < 300; i++ {
		next := engine.CreateNewDataPoint(&last, "喷吹煤", "")
		assert.Equal(t, last.Type, next.Type)
		assert.InDelta(t, last.Price, next.Price, continuationDrift)
		last = next
	}
}

func TestResolveType(t *testing.T) {
	engine := newTestEngine(&scriptedSource{})

	assert.Equal(t, "炼焦煤 主焦", engine.resolveType("焦煤"))
	assert.Equal(t, "喷吹煤 PCI", engine.resolveType("PCI"))
	// 該当なしはカタログ先頭
	assert.Equal(t, "动力煤 Q5500", engine.resolveType("泥煤"))
}
