package services

import (
	"testing"

	"coal-market-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictNextDayEmpty(t *testing.T) {
	engine := newTestEngine(&scriptedSource{})
	_, err := engine.PredictNextDay(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestPredictNextDay(t *testing.T) {
	testCases := []struct {
		name          string
		chronological []int
		wantDirection string
		wantTrend     string
	}{
		{"newest above mean", []int{800, 800, 800, 800, 800, 800, 800, 800, 800, 900}, models.DirectionUp, "震荡上行"},
		{"newest below mean", []int{800, 800, 800, 800, 800, 800, 800, 800, 800, 700}, models.DirectionDown, "承压回调"},
		{"newest equals mean", []int{800, 800, 800}, models.DirectionDown, "承压回调"},
		// 11件目（最古）は無視される
		{"only ten newest count", []int{99999, 800, 800, 800, 800, 800, 800, 800, 800, 800, 801}, models.DirectionUp, "震荡上行"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedSource{ints: []int{13}}
			engine := newTestEngine(rng)

			p, err := engine.PredictNextDay(priceSeries("动力煤 Q5500", tc.chronological...))
			require.NoError(t, err)

			assert.Equal(t, tc.wantDirection, p.Direction)
			assert.Equal(t, tc.wantTrend, p.Factors.Trend30d)
			assert.Equal(t, 13, p.PredictedChange)
			assert.Equal(t, "2024/1/16", p.TargetDate)
			assert.Equal(t, predictionReasoning, p.Reasoning)
			assert.Equal(t, "安监趋严", p.Factors.Policy)
			assert.Equal(t, []int{maxPredictedChange}, rng.intN)
		})
	}
}

func TestPredictNextDayMagnitudeRange(t *testing.T) {
	engine := newTestEngine(NewRandomSource(8))
	data := engine.GenerateHistoricalData(30)
	for i := 0; i < 100; i++ {
		p, err := engine.PredictNextDay(data)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.PredictedChange, 0)
		assert.Less(t, p.PredictedChange, maxPredictedChange)
	}
}

func TestGeneratePolicyNews(t *testing.T) {
	engine := newTestEngine(&scriptedSource{})
	items := engine.GeneratePolicyNews()

	require.Len(t, items, 3)
	assert.Equal(t, "2024-01-15", items[0].Date)
	assert.Equal(t, "2024-01-14", items[1].Date)
	assert.Equal(t, "2024-01-13", items[2].Date)
	assert.Equal(t, models.ImpactNegative, items[0].Impact)
	assert.Equal(t, models.ImpactNegative, items[1].Impact)
	assert.Equal(t, models.ImpactPositive, items[2].Impact)
	assert.Equal(t, TiltBearish, PolicyTiltOf(items))
}
