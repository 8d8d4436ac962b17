package services

import (
	"errors"
	"time"

	"coal-market-api/pkg/models"
)

// ErrEmptyDataset は空のデータセットで予測を要求した場合のエラーです。
var ErrEmptyDataset = errors.New("データセットが空のため予測できません")

const (
	predictionWindow    = 10
	maxPredictedChange  = 20
	predictionReasoning = "综合研判：产地安监力度加大与下游补库需求共振。"
	targetDateLayout    = "2006/1/2"
)

// PredictNextDay は全データ（新しい順）の直近10件の平均と最新価格を比べて方向を決めます。
// 変動幅は方向とは独立した乱数で、説明用の値です。
func (s *MarketAnalyticsService) PredictNextDay(dataset []models.PriceRecord) (models.PredictionResult, error) {
	if len(dataset) == 0 {
		return models.PredictionResult{}, ErrEmptyDataset
	}

	recent := dataset
	if len(recent) > predictionWindow {
		recent = recent[:predictionWindow]
	}
	prices := make([]int, len(recent))
	for i, r := range recent {
		prices[i] = r.Price
	}
	avg := calculateMean(toFloats(prices))

	direction := models.DirectionDown
	trend30d := "承压回调"
	if float64(recent[0].Price) > avg {
		direction = models.DirectionUp
		trend30d = "震荡上行"
	}

	return models.PredictionResult{
		TargetDate:      s.Now().Add(24 * time.Hour).Format(targetDateLayout),
		PredictedChange: s.rng.Intn(maxPredictedChange),
		Direction:       direction,
		Reasoning:       predictionReasoning,
		Factors: models.PredictionFactors{
			Inventory:   "580万吨 (低位)",
			Consumption: "82万吨 (高位)",
			Policy:      "安监趋严",
			Trend30d:    trend30d,
		},
	}, nil
}

// GeneratePolicyNews 説明用の固定政策ニュースを返す（日付は現在日基準）
func (s *MarketAnalyticsService) GeneratePolicyNews() []models.PolicyItem {
	today := s.Now()
	day := func(offset int) string {
		return today.AddDate(0, 0, -offset).Format(DateLayout)
	}
	return []models.PolicyItem{
		{
			ID:      "1",
			Title:   "国家能源局：全力做好迎峰度夏煤炭电力保供工作",
			Source:  "国家能源局官网",
			Date:    day(0),
			Impact:  models.ImpactNegative,
			Summary: "强调增加产能释放，确保电厂存煤在安全水平之上。",
		},
		{
			ID:      "2",
			Title:   "陕西省发改委发布关于开展煤炭市场价格巡查的通知",
			Source:  "陕西省发改委",
			Date:    day(1),
			Impact:  models.ImpactNegative,
			Summary: "严厉打击囤积居奇、哄抬煤价等违法行为，稳定市场预期。",
		},
		{
			ID:      "3",
			Title:   "近期产地安监力度加大，部分中小煤矿停产整顿",
			Source:  "中国煤炭资源网",
			Date:    day(2),
			Impact:  models.ImpactPositive,
			Summary: "受事故影响，榆林地区开展为期一周的安全生产大检查。",
		},
	}
}
