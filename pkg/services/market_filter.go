package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"coal-market-api/pkg/models"
)

// DateLayout 日付入力の形式
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" label in loc. An empty label yields the zero time.
func ParseDate(label string, loc *time.Location) (time.Time, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, label, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("日付の形式が不正です (YYYY-MM-DD): %q", label)
	}
	return t, nil
}

// endOfDay forces the time of day to 23:59:59.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// Bounds は絞り込みの開始・終了時刻を返します。
// 開始未指定は 2000-01-01、終了未指定は現在時刻、終了日は 23:59:59 まで含みます。
func (s *MarketAnalyticsService) Bounds(criteria models.FilterCriteria) (time.Time, time.Time) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, s.loc)
	if !criteria.Start.IsZero() {
		start = criteria.Start
	}
	end := s.Now()
	if !criteria.End.IsZero() {
		end = endOfDay(criteria.End.In(s.loc))
	}
	return start, end
}

// matchesSelectors reports whether a record satisfies the location and type selectors.
func matchesSelectors(r models.PriceRecord, criteria models.FilterCriteria) bool {
	if !models.IsWildcard(criteria.Location) && r.Location != criteria.Location {
		return false
	}
	if !models.IsWildcard(criteria.Type) && !strings.Contains(r.Type, criteria.Type) {
		return false
	}
	return true
}

// FilterAndAggregate は条件に合うレコードを元の順序（新しい順）のまま抽出し、集計値を計算します。
func (s *MarketAnalyticsService) FilterAndAggregate(dataset []models.PriceRecord, criteria models.FilterCriteria) ([]models.PriceRecord, models.Stats) {
	start, end := s.Bounds(criteria)
	startMs, endMs := start.UnixMilli(), end.UnixMilli()

	filtered := make([]models.PriceRecord, 0, len(dataset))
	for _, r := range dataset {
		if r.Timestamp < startMs || r.Timestamp > endMs {
			continue
		}
		if !matchesSelectors(r, criteria) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, CalculateStats(filtered)
}

// CalculateStats 集計値を計算（空の場合はすべて0）
func CalculateStats(filtered []models.PriceRecord) models.Stats {
	if len(filtered) == 0 {
		return models.Stats{}
	}

	sum := 0
	minPrice, maxPrice := filtered[0].Price, filtered[0].Price
	for _, r := range filtered {
		sum += r.Price
		if r.Price < minPrice {
			minPrice = r.Price
		}
		if r.Price > maxPrice {
			maxPrice = r.Price
		}
	}

	latest := filtered[0]
	return models.Stats{
		Avg:     int(math.Round(float64(sum) / float64(len(filtered)))),
		Max:     maxPrice,
		Min:     minPrice,
		Count:   len(filtered),
		Current: latest.Price,
		Change:  latest.ChangeRate,
	}
}

// FilterByDateRange は日付範囲のみで抽出します（エクスポート用）。
func (s *MarketAnalyticsService) FilterByDateRange(dataset []models.PriceRecord, start, end time.Time) []models.PriceRecord {
	out, _ := s.FilterAndAggregate(dataset, models.FilterCriteria{Start: start, End: end})
	return out
}

// QuickDateRange は「直近N日」ボタン相当の期間を返します。365 は今年の1月1日から。
func (s *MarketAnalyticsService) QuickDateRange(days int) (string, string) {
	end := s.Now()
	var start time.Time
	if days == 365 {
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
	} else {
		start = end.AddDate(0, 0, -days)
	}
	return start.Format(DateLayout), end.Format(DateLayout)
}
