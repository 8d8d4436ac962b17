package services

import (
	"fmt"
	"math"
	"strings"

	"coal-market-api/pkg/models"
)

// レポートの固定文言
const (
	NoDataSummary    = "所选范围内无数据，请调整筛选条件。"
	NoDataSuggestion = "无数据"
	NoDataRangeText  = "--"
	defaultRangeText = "当前周期"
)

const (
	trendThreshold     = 3.0  // |changePct| がこれを超えると強気/弱気
	confidenceBase     = 60.0 // データがある場合の最低信頼度
	confidenceSlope    = 5.0
	confidenceCeiling  = 95.0
	highVolatility     = 10.0
	volatileMoveLimit  = 5.0
	strongMoveLimit    = 8.0
	moderateMoveLimit  = 2.0
	supportLevelFactor = 0.95
)

// ClassifyTrend は変化率のみでトレンドを判定します。
func ClassifyTrend(changePct float64) string {
	switch {
	case changePct > trendThreshold:
		return models.TrendBullish
	case changePct < -trendThreshold:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// ConfidenceFor maps momentum strength to the 60-95 confidence band.
func ConfidenceFor(changePct float64) float64 {
	return math.Min(math.Abs(changePct)*confidenceSlope+confidenceBase, confidenceCeiling)
}

// TrendDescription 変化率とボラティリティから文面用の定性ラベルを選ぶ
func TrendDescription(changePct, volatility float64) string {
	if volatility > highVolatility {
		switch {
		case changePct > volatileMoveLimit:
			return "高波动上涨"
		case changePct < -volatileMoveLimit:
			return "高波动下跌"
		default:
			return "宽幅剧烈震荡"
		}
	}
	switch {
	case changePct > strongMoveLimit:
		return "单边强势拉升"
	case changePct > moderateMoveLimit:
		return "温和震荡上行"
	case changePct < -strongMoveLimit:
		return "加速单边下行"
	case changePct < -moderateMoveLimit:
		return "阴跌探底"
	default:
		return "窄幅横盘整理"
	}
}

// PolicyTilt 政策シグナルの件数から導く文面上の方向性（トレンド値には影響しない）
type PolicyTilt int

const (
	TiltBalanced PolicyTilt = iota
	TiltBearish
	TiltBullish
)

// PolicyTiltOf counts policy impacts. More "negative" items tilt bearish.
func PolicyTiltOf(items []models.PolicyItem) PolicyTilt {
	negative, positive := 0, 0
	for _, p := range items {
		switch p.Impact {
		case models.ImpactNegative:
			negative++
		case models.ImpactPositive:
			positive++
		}
	}
	switch {
	case negative > positive:
		return TiltBearish
	case positive > negative:
		return TiltBullish
	default:
		return TiltBalanced
	}
}

// Sentence returns the narrative sentence for the tilt.
func (t PolicyTilt) Sentence() string {
	switch t {
	case TiltBearish:
		return "政策端偏空，国家发改委及能源局强调保供稳价，加强市场监管，对高价形成压制。"
	case TiltBullish:
		return "政策端扰动增加，安监力度加大导致局部供应收缩，对价格形成支撑。"
	default:
		return "政策面相对平静，市场主要受供需基本面主导。"
	}
}

// windowSummary 分析対象期間の数値サマリー
type windowSummary struct {
	avg        int
	min        int
	max        int
	volatility float64
	changePct  float64
}

// summarizeWindow は時系列順の価格からサマリーを作ります。平均や始値が0なら false。
func summarizeWindow(sorted []models.PriceRecord) (windowSummary, bool) {
	if len(sorted) == 0 {
		return windowSummary{}, false
	}
	prices := make([]int, len(sorted))
	for i, r := range sorted {
		prices[i] = r.Price
	}
	values := toFloats(prices)
	avg := math.Round(calculateMean(values))
	first := float64(prices[0])
	if avg == 0 || first == 0 {
		return windowSummary{}, false
	}
	lo, hi := minMax(prices)
	last := float64(prices[len(prices)-1])
	return windowSummary{
		avg:        int(avg),
		min:        lo,
		max:        hi,
		volatility: deviationAround(values, avg) / avg * 100,
		changePct:  (last - first) / first * 100,
	}, true
}

// syntheticFundamentals レポート用の合成在庫・日耗データ
type syntheticFundamentals struct {
	inventory   int
	consumption int
}

func (s *MarketAnalyticsService) drawFundamentals() syntheticFundamentals {
	return syntheticFundamentals{
		inventory:   500 + s.rng.Intn(150),
		consumption: 70 + s.rng.Intn(20),
	}
}

// rangeLabel は表示用の期間ラベルを返します。
func rangeLabel(startLabel, endLabel string) string {
	if startLabel != "" && endLabel != "" {
		return fmt.Sprintf("%s 至 %s", startLabel, endLabel)
	}
	return defaultRangeText
}

func marketReviewBlock(rangeText, trendDesc string, w windowSummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("【市场回顾】在 %s 统计区间内，煤炭价格呈现“%s”态势。\n", rangeText, trendDesc))
	sb.WriteString(fmt.Sprintf("• 价格区间：￥%d - ￥%d (均价 ￥%d)\n", w.min, w.max, w.avg))
	sb.WriteString(fmt.Sprintf("• 波动特征：波动率 %.1f%%，市场情绪分歧较大，资金博弈激烈。\n\n", w.volatility))
	return sb.String()
}

func fundamentalsSentence(f syntheticFundamentals) string {
	return fmt.Sprintf("港口库存当前维持在%.1f万吨，电厂日耗%d万吨。", float64(f.inventory)/100, f.consumption)
}

// scaledLevel は支撑位の目安（価格 × 0.95、整数に丸め）です。
func scaledLevel(price int) int {
	return int(math.Round(float64(price) * supportLevelFactor))
}

func forwardSentence(trend string, w windowSummary) string {
	switch trend {
	case models.TrendBullish:
		return fmt.Sprintf("当前价格有效突破均线压制，叠加安监导致供给收缩，预计短期内煤价仍有上行惯性，下方支撑位看至 ￥%d。", scaledLevel(w.max))
	case models.TrendBearish:
		return fmt.Sprintf("随着港口库存累积及政策监管加强，市场悲观情绪浓厚。预计短期内煤价仍有下行压力，建议关注 ￥%d 一线支撑。", scaledLevel(w.min))
	default:
		return fmt.Sprintf("多空双方力量均衡，缺乏明确的消息面驱动。预计短期将围绕均价 ￥%d 维持窄幅震荡整理格局。", w.avg)
	}
}

// SuggestionFor returns the fixed suggestion template for a trend.
func SuggestionFor(trend string) string {
	switch trend {
	case models.TrendBullish:
		return "建议：当前处于右侧上涨通道，建议下游企业按需加大采购比例，锁定长协兑现率。激进投资者可关注逢低做多机会。"
	case models.TrendBearish:
		return "建议：市场处于去库周期，建议维持极低库存运行，暂缓大额现货采购。采取“即买即用”策略，防范存货跌价风险。"
	default:
		return "建议：市场方向不明，建议保持中性仓位。操作上适合区间内高抛低吸，避免单边押注。"
	}
}

// outlookLine は翌日予測の1行サマリーです。
func outlookLine(p *models.PredictionResult) string {
	if p == nil {
		return ""
	}
	verb := "持平"
	switch p.Direction {
	case models.DirectionUp:
		verb = "上涨"
	case models.DirectionDown:
		verb = "下跌"
	}
	return fmt.Sprintf("【次日展望】预计 %s 煤价%s约 ￥%d/吨。", p.TargetDate, verb, p.PredictedChange)
}

// NoDataReport returns the fixed report for an empty window.
func NoDataReport() models.AIReport {
	return models.AIReport{
		Summary:    NoDataSummary,
		Trend:      models.TrendNeutral,
		Suggestion: NoDataSuggestion,
		Confidence: 0,
		RangeText:  NoDataRangeText,
	}
}

// GenerateAIAnalysis 絞り込み結果・期間ラベル・政策・予測から分析レポートを生成
func (s *MarketAnalyticsService) GenerateAIAnalysis(
	filtered []models.PriceRecord,
	startLabel, endLabel string,
	policies []models.PolicyItem,
	prediction *models.PredictionResult,
) models.AIReport {
	w, ok := summarizeWindow(sortChronological(filtered))
	if !ok {
		return NoDataReport()
	}

	rangeText := rangeLabel(startLabel, endLabel)
	trend := ClassifyTrend(w.changePct)
	fundamentals := s.drawFundamentals()

	var sb strings.Builder
	sb.WriteString(marketReviewBlock(rangeText, TrendDescription(w.changePct, w.volatility), w))
	sb.WriteString(fmt.Sprintf("【趋势预测】%s %s ", PolicyTiltOf(policies).Sentence(), fundamentalsSentence(fundamentals)))
	sb.WriteString(forwardSentence(trend, w))

	return models.AIReport{
		Summary:    sb.String(),
		Trend:      trend,
		Suggestion: SuggestionFor(trend),
		Confidence: ConfidenceFor(w.changePct),
		RangeText:  rangeText,
		Outlook:    outlookLine(prediction),
	}
}
