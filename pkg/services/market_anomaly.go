package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"coal-market-api/pkg/models"
)

// 集約粒度
const (
	GranularityDaily   = "daily"
	GranularityWeekly  = "weekly"
	GranularityMonthly = "monthly"
)

// anomalyWindow 粒度ごとの移動平均ウィンドウと乖離率の閾値
type anomalyWindow struct {
	size      int
	threshold float64
}

var anomalyWindows = map[string]anomalyWindow{
	GranularityDaily:   {size: 10, threshold: 0.06},
	GranularityWeekly:  {size: 4, threshold: 0.05},
	GranularityMonthly: {size: 3, threshold: 0.04},
}

// IsValidGranularity reports whether g is daily, weekly or monthly.
func IsValidGranularity(g string) bool {
	_, ok := anomalyWindows[g]
	return ok
}

// periodKey は粒度に応じた集約キーを返します。
func periodKey(t time.Time, granularity string) string {
	switch granularity {
	case GranularityWeekly:
		// 月曜始まりの週番号
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GranularityMonthly:
		return t.Format("2006-01")
	default:
		return t.Format(DateLayout)
	}
}

// pricePeriods は1煤種の期間別平均価格（古い順）
type pricePeriods struct {
	keys   []string
	prices []float64
}

// aggregatePrices は時系列順のレコードを煤種ごと・期間ごとの平均価格にまとめます。
func (s *MarketAnalyticsService) aggregatePrices(sorted []models.PriceRecord, granularity string) map[string]*pricePeriods {
	sums := make(map[string]map[string][]float64)
	out := make(map[string]*pricePeriods)

	for _, r := range sorted {
		key := periodKey(r.Time().In(s.loc), granularity)
		byPeriod, ok := sums[r.Type]
		if !ok {
			byPeriod = make(map[string][]float64)
			sums[r.Type] = byPeriod
			out[r.Type] = &pricePeriods{}
		}
		if _, seen := byPeriod[key]; !seen {
			out[r.Type].keys = append(out[r.Type].keys, key)
		}
		byPeriod[key] = append(byPeriod[key], float64(r.Price))
	}

	for coalType, periods := range out {
		periods.prices = make([]float64, len(periods.keys))
		for i, key := range periods.keys {
			periods.prices[i] = calculateMean(sums[coalType][key])
		}
	}
	return out
}

// severityFor は z スコアの絶対値から深刻度を決めます。
func severityFor(absZScore float64) string {
	switch {
	case absZScore > 4.0:
		return models.SeverityCritical
	case absZScore > 3.5:
		return models.SeverityHigh
	case absZScore > 3.0:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// DetectPriceAnomalies は煤種ごとに期間平均価格を集約し、直前ウィンドウの移動平均から
// 閾値以上乖離した期間を返します。結果は期間、煤種の順に並びます。
func (s *MarketAnalyticsService) DetectPriceAnomalies(filtered []models.PriceRecord, granularity string) []models.PriceAnomaly {
	if granularity == "" {
		granularity = GranularityWeekly
	}
	window, ok := anomalyWindows[granularity]
	if !ok {
		window = anomalyWindows[GranularityWeekly]
	}

	anomalies := []models.PriceAnomaly{}
	for coalType, periods := range s.aggregatePrices(sortChronological(filtered), granularity) {
		for i := window.size; i < len(periods.prices); i++ {
			recent := periods.prices[i-window.size : i]
			mean := calculateMean(recent)
			current := periods.prices[i]
			deviation := current - mean

			if mean <= 0 || math.Abs(deviation) <= mean*window.threshold {
				continue
			}

			// z スコアは参考値（ウィンドウ内の標準偏差）
			var zScore float64
			if sd := deviationAround(recent, mean); sd > 0 {
				zScore = deviation / sd
			}
			direction := models.AnomalySpike
			if deviation < 0 {
				direction = models.AnomalyDrop
			}

			anomalies = append(anomalies, models.PriceAnomaly{
				Period:        periods.keys[i],
				Type:          coalType,
				ActualPrice:   round2(current),
				ExpectedPrice: round2(mean),
				Deviation:     round2(math.Abs(deviation)),
				ZScore:        round2(zScore),
				Direction:     direction,
				Severity:      severityFor(math.Abs(zScore)),
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		if anomalies[i].Period != anomalies[j].Period {
			return anomalies[i].Period < anomalies[j].Period
		}
		return anomalies[i].Type < anomalies[j].Type
	})
	return anomalies
}
