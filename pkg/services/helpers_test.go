package services

import (
	"time"

	"coal-market-api/pkg/models"
)

// scriptedSource は決まった値を順に返す乱数源です。値が尽きたら 0 を返します。
type scriptedSource struct {
	ints   []int
	floats []float64
	intN   []int // Intn に渡された n の履歴
}

func (s *scriptedSource) Intn(n int) int {
	s.intN = append(s.intN, n)
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

var testNow = time.Date(2024, time.January, 15, 10, 30, 45, 0, time.UTC)

func newTestEngine(rng RandomSource) *MarketAnalyticsService {
	return NewMarketAnalyticsService(rng,
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
}

// priceSeries は古い順の価格から、新しい順のレコード列を作ります（1日間隔）。
func priceSeries(coalType string, prices ...int) []models.PriceRecord {
	base := testNow.AddDate(0, 0, -len(prices))
	out := make([]models.PriceRecord, len(prices))
	for i, p := range prices {
		at := base.AddDate(0, 0, i)
		out[len(prices)-1-i] = models.PriceRecord{
			ID:        "R" + at.Format("0102"),
			Location:  "秦皇岛港",
			Timestamp: at.UnixMilli(),
			TimeStr:   at.Format(historicalTimeStr),
			Type:      coalType,
			Price:     p,
		}
	}
	return out
}
