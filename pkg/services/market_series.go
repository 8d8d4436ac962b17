package services

import (
	"math"
	"sort"
	"strings"

	"coal-market-api/pkg/models"
)

// 移動平均の期間
const (
	ShortMAPeriod = 5
	LongMAPeriod  = 10
)

// sortChronological returns a copy sorted oldest-first.
func sortChronological(records []models.PriceRecord) []models.PriceRecord {
	sorted := make([]models.PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// trailingMean は index を末尾とする period 件の平均（四捨五入）を返します。
// index+1 < period の場合は定義されないため nil。
func trailingMean(prices []int, index, period int) *int {
	if period <= 0 || index < period-1 {
		return nil
	}
	sum := 0
	for _, p := range prices[index-period+1 : index+1] {
		sum += p
	}
	v := int(math.Round(float64(sum) / float64(period)))
	return &v
}

// PrepareChartSeries 絞り込み結果を古い順に並べ、MA5/MA10 を付与したチャート系列を返す
func (s *MarketAnalyticsService) PrepareChartSeries(filtered []models.PriceRecord) []models.ChartPoint {
	sorted := sortChronological(filtered)
	prices := make([]int, len(sorted))
	for i, r := range sorted {
		prices[i] = r.Price
	}

	points := make([]models.ChartPoint, len(sorted))
	for i, r := range sorted {
		day := r.TimeStr
		if idx := strings.Index(day, " "); idx >= 0 {
			day = day[:idx]
		}
		points[i] = models.ChartPoint{
			Time:     day,
			FullTime: r.TimeStr,
			Price:    r.Price,
			MA5:      trailingMean(prices, i, ShortMAPeriod),
			MA10:     trailingMean(prices, i, LongMAPeriod),
			Type:     models.TypeLabel(r.Type),
		}
	}
	return points
}
