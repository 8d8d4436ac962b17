package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coal-market-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestRandomID(t *testing.T) {
	rng := &scriptedSource{ints: []int{0, 9, 10, 35, 1, 2, 3, 4}}
	assert.Equal(t, "09AZ1234", randomID(rng))
	assert.Regexp(t, idPattern, randomID(NewRandomSource(1)))
}

func TestRandomInRange(t *testing.T) {
	rng := NewRandomSource(2)
	for i := 0; i < 1000; i++ {
		v := randomInRange(rng, -7, 7)
		assert.GreaterOrEqual(t, v, -7)
		assert.LessOrEqual(t, v, 7)
	}
	assert.Equal(t, -60, randomInRange(&scriptedSource{}, -60, 60))
	assert.Equal(t, 60, randomInRange(&scriptedSource{ints: []int{120}}, -60, 60))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.73, round2(0.7251))
	assert.Equal(t, -1.99, round2(-1.9949))
	assert.Equal(t, 1.0, round2(0.999))
}

func TestPickEmpty(t *testing.T) {
	assert.Equal(t, "", pick(NewRandomSource(1), nil))
}

func TestMarketMetrics(t *testing.T) {
	var nilMetrics *MarketMetrics
	// nil でも記録呼び出しは安全
	nilMetrics.RecordStreamed(1)
	nilMetrics.SetDatasetSize(1)
	nilMetrics.RecordAnalysis(models.TrendBullish)
	nilMetrics.RecordExport()

	m := NewMarketMetrics()
	m.SetDatasetSize(800)
	m.RecordStreamed(801)
	m.RecordAnalysis(models.TrendBearish)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "coal_market_dataset_size 801")
	assert.Contains(t, body, "coal_market_streamed_records_total 1")
	assert.Contains(t, body, `coal_market_analysis_reports_total{trend="bearish"} 1`)
}
