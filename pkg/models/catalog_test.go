package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWildcard(t *testing.T) {
	for _, s := range []string{"", " ", WildcardSelector, "all", "All"} {
		assert.True(t, IsWildcard(s), "%q", s)
	}
	for _, s := range []string{"秦皇岛港", "动力煤", "allx"} {
		assert.False(t, IsWildcard(s), "%q", s)
	}
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "动力煤", TypeLabel("动力煤 Q5500"))
	assert.Equal(t, "褐煤", TypeLabel("褐煤"))
}

func TestDefaultMarketCatalog(t *testing.T) {
	c := DefaultMarketCatalog()
	assert.Len(t, c.CoalTypes, 5)
	assert.Len(t, c.Locations, 8)
	assert.Len(t, c.Sources, 5)
	assert.NotContains(t, c.Sources, StreamingSource)
}

func TestPriceRecordJSONFieldNames(t *testing.T) {
	r := PriceRecord{ID: "ABCDEFGH", Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(), ChangeRate: -1.25}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "location", "timestamp", "timeStr", "type", "price", "calorific", "sulfur", "source", "changeRate"} {
		assert.Contains(t, fields, key)
	}
	assert.True(t, r.Time().Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestChartPointNullMovingAverages(t *testing.T) {
	raw, err := json.Marshal(ChartPoint{Price: 800})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ma5":null`)
	assert.Contains(t, string(raw), `"ma10":null`)
}
