package services

import (
	"sort"
	"strings"
	"time"

	"coal-market-api/pkg/models"
)

const (
	historyYears        = 2
	historicalTimeStr   = "2006/01/02 15:04"
	streamingTimeStr    = "2006/01/02 15:04:05"
	winterPremium       = 50
	offSeasonDiscount   = -20
	independentVariance = 60 // 独立抽選時の価格ばらつき ±60
	continuationDrift   = 7  // ランダムウォーク時のドリフト ±7
	calorificNoise      = 100
)

// coalBaseline 煤種ごとの基準価格と発熱量
type coalBaseline struct {
	keyword   string
	price     int
	calorific int
	seasonal  bool
}

var coalBaselines = []coalBaseline{
	{keyword: "动力煤", price: 800, calorific: 5500, seasonal: true},
	{keyword: "炼焦煤", price: 1800, calorific: 6500},
	{keyword: "无烟煤", price: 1400, calorific: 7000, seasonal: true},
	{keyword: "喷吹煤", price: 1100, calorific: 6000},
}

var fallbackBaseline = coalBaseline{price: 400, calorific: 3500}

// isWinter reports whether the month is Nov, Dec, Jan or Feb.
func isWinter(m time.Month) bool {
	return m >= time.November || m <= time.February
}

// BaselineFor returns the base price and calorific value of a coal type at the given instant.
func BaselineFor(coalType string, at time.Time) (price, calorific int) {
	b := fallbackBaseline
	for _, candidate := range coalBaselines {
		if strings.Contains(coalType, candidate.keyword) {
			b = candidate
			break
		}
	}
	price = b.price
	if b.seasonal {
		if isWinter(at.Month()) {
			price += winterPremium
		} else {
			price += offSeasonDiscount
		}
	}
	return price, b.calorific
}

// dataPointInput Factory への入力
type dataPointInput struct {
	at           time.Time
	continuation *models.PriceRecord
	typeFilter   string
	locFilter    string
	streaming    bool
}

// resolveType picks the first catalog entry containing the override, or a random entry.
func (s *MarketAnalyticsService) resolveType(override string) string {
	if models.IsWildcard(override) {
		return pick(s.rng, s.catalog.CoalTypes)
	}
	for _, t := range s.catalog.CoalTypes {
		if strings.Contains(t, override) {
			return t
		}
	}
	return s.catalog.CoalTypes[0]
}

func (s *MarketAnalyticsService) resolveLocation(override string) string {
	if models.IsWildcard(override) {
		return pick(s.rng, s.catalog.Locations)
	}
	return override
}

// newDataPoint は1件の PriceRecord を生成します（Data Point Factory）。
func (s *MarketAnalyticsService) newDataPoint(in dataPointInput) models.PriceRecord {
	at := in.at.In(s.loc)
	coalType := s.resolveType(in.typeFilter)
	location := s.resolveLocation(in.locFilter)
	basePrice, baseCal := BaselineFor(coalType, at)

	var price int
	if in.continuation != nil && in.continuation.Type == coalType {
		// 同じ煤種なら直前価格からのランダムウォーク
		price = in.continuation.Price + randomInRange(s.rng, -continuationDrift, continuationDrift)
	} else {
		price = basePrice + randomInRange(s.rng, -independentVariance, independentVariance)
	}

	calorific := baseCal + randomInRange(s.rng, -calorificNoise, calorificNoise)
	sulfur := round2(0.6 + s.rng.Float64()*0.4)
	changeRate := round2(s.rng.Float64()*4 - 2)

	source := models.StreamingSource
	layout := streamingTimeStr
	if !in.streaming {
		source = pick(s.rng, s.catalog.Sources)
		layout = historicalTimeStr
	}

	return models.PriceRecord{
		ID:         randomID(s.rng),
		Location:   location,
		Timestamp:  at.UnixMilli(),
		TimeStr:    at.Format(layout),
		Type:       coalType,
		Price:      price,
		Calorific:  calorific,
		Sulfur:     sulfur,
		Source:     source,
		ChangeRate: changeRate,
	}
}

// GenerateHistoricalData 直近2年間にランダムに分布した count 件の履歴データを新しい順で返す
func (s *MarketAnalyticsService) GenerateHistoricalData(count int) []models.PriceRecord {
	if count <= 0 {
		return []models.PriceRecord{}
	}

	end := s.Now()
	start := end.AddDate(-historyYears, 0, 0)
	span := end.Sub(start)

	data := make([]models.PriceRecord, 0, count)
	for i := 0; i < count; i++ {
		offset := time.Duration(s.rng.Float64() * float64(span))
		data = append(data, s.newDataPoint(dataPointInput{at: start.Add(offset)}))
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Timestamp > data[j].Timestamp
	})
	return data
}

// CreateNewDataPoint はストリーミング用に現在時刻の新しいレコードを1件生成します。
// last が nil の場合、または煤種が変わった場合は基準価格から独立抽選します。
func (s *MarketAnalyticsService) CreateNewDataPoint(last *models.PriceRecord, typeFilter, locationFilter string) models.PriceRecord {
	return s.newDataPoint(dataPointInput{
		at:           s.Now(),
		continuation: last,
		typeFilter:   typeFilter,
		locFilter:    locationFilter,
		streaming:    true,
	})
}
