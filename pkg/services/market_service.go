package services

// 煤炭市場分析エンジンは以下のファイルに分割されています：
//
// - market_service.go: MarketAnalyticsService構造体と生成関連の依存
// - market_generator.go: データポイント生成、履歴生成、ストリーミング継続生成
// - market_filter.go: 絞り込みと集計
// - market_series.go: チャート系列と移動平均
// - market_analysis.go: トレンド分類とレポート文面
// - market_prediction.go: 翌日予測と政策ニュース
// - market_anomaly.go: 期間平均価格の異常検知
//
// いずれも内部状態を持たず、データセットは呼び出し側が所有します。

import (
	"time"

	"coal-market-api/pkg/models"
)

// DefaultTimezone 表示・日付境界に使うタイムゾーン
const DefaultTimezone = "Asia/Shanghai"

// MarketAnalyticsService 煤炭価格の合成データ生成と分析を行うサービス
type MarketAnalyticsService struct {
	rng     RandomSource
	catalog models.MarketCatalog
	loc     *time.Location
	now     func() time.Time
}

// MarketOption configures a MarketAnalyticsService.
type MarketOption func(*MarketAnalyticsService)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) MarketOption {
	return func(s *MarketAnalyticsService) {
		s.now = now
	}
}

// WithLocation sets the time zone used for display strings and date bounds.
func WithLocation(loc *time.Location) MarketOption {
	return func(s *MarketAnalyticsService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(catalog models.MarketCatalog) MarketOption {
	return func(s *MarketAnalyticsService) {
		if len(catalog.CoalTypes) > 0 {
			s.catalog.CoalTypes = catalog.CoalTypes
		}
		if len(catalog.Locations) > 0 {
			s.catalog.Locations = catalog.Locations
		}
		if len(catalog.Sources) > 0 {
			s.catalog.Sources = catalog.Sources
		}
	}
}

// NewMarketAnalyticsService 新しい市場分析サービスを作成
func NewMarketAnalyticsService(rng RandomSource, opts ...MarketOption) *MarketAnalyticsService {
	if rng == nil {
		rng = NewRandomSource(0)
	}
	s := &MarketAnalyticsService{
		rng:     rng,
		catalog: models.DefaultMarketCatalog(),
		loc:     LoadLocation(DefaultTimezone),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog in use.
func (s *MarketAnalyticsService) Catalog() models.MarketCatalog {
	return s.catalog
}

// Location returns the time zone in use.
func (s *MarketAnalyticsService) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the service time zone.
func (s *MarketAnalyticsService) Now() time.Time {
	return s.now().In(s.loc)
}

// LoadLocation はタイムゾーンを読み込み、失敗した場合は UTC を返します。
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
