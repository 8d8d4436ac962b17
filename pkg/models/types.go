package models

import "time"

// PriceRecord は1件の煤炭報価を表します。生成後は変更しません。
type PriceRecord struct {
	ID         string  `json:"id"`         // ランダムな8桁トークン
	Location   string  `json:"location"`   // 産地 / 港
	Timestamp  int64   `json:"timestamp"`  // 観測時刻（epoch ミリ秒）
	TimeStr    string  `json:"timeStr"`    // 表示用の時刻文字列
	Type       string  `json:"type"`       // 煤種（例: "动力煤 5500"）
	Price      int     `json:"price"`      // 元/トン
	Calorific  int     `json:"calorific"`  // kcal/kg
	Sulfur     float64 `json:"sulfur"`     // 硫分（%、小数2桁）
	Source     string  `json:"source"`     // 出所ラベル
	ChangeRate float64 `json:"changeRate"` // 前期比（%、小数2桁）
}

// Time returns the observation instant.
func (r PriceRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// FilterCriteria 絞り込み条件
// Start/End がゼロ値の場合は上限・下限なしとして扱います。
type FilterCriteria struct {
	Location string    `json:"location"`
	Type     string    `json:"type"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Stats 絞り込み結果の集計値
type Stats struct {
	Avg     int     `json:"avg"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
	Count   int     `json:"count"`
	Current int     `json:"current"`
	Change  float64 `json:"change"`
}

// ChartPoint はチャート描画用の1点です。MA5/MA10 は未定義の間 nil（JSON では null）。
type ChartPoint struct {
	Time     string `json:"time"`
	FullTime string `json:"fullTime"`
	Price    int    `json:"price"`
	MA5      *int   `json:"ma5"`
	MA10     *int   `json:"ma10"`
	Type     string `json:"type"`
}

// Trend labels
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

// AIReport ルールベースの市場分析レポート
type AIReport struct {
	Summary    string  `json:"summary"`
	Trend      string  `json:"trend"` // bullish, bearish, neutral
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"` // 0-100
	RangeText  string  `json:"rangeText"`
	Outlook    string  `json:"outlook,omitempty"`
}

// Policy impact values. "positive" is bullish for price, "negative" bearish.
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

// PolicyItem 政策・ニュースシグナル
type PolicyItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Impact  string `json:"impact"` // positive, negative, neutral
	Summary string `json:"summary"`
}

// Prediction directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// PredictionFactors 予測の裏付けとなる（合成された）ファンダメンタルズ
type PredictionFactors struct {
	Inventory   string `json:"inventory"`
	Consumption string `json:"consumption"`
	Policy      string `json:"policy"`
	Trend30d    string `json:"trend30d"`
}

// PredictionResult 翌日予測
type PredictionResult struct {
	TargetDate      string            `json:"targetDate"`
	PredictedChange int               `json:"predictedChange"` // 元/トン
	Direction       string            `json:"direction"`       // up, down, flat
	Reasoning       string            `json:"reasoning"`
	Factors         PredictionFactors `json:"factors"`
}

// StreamFilters ストリーミング生成時に適用する煤種・地点の指定
type StreamFilters struct {
	Type     string `json:"type"`
	Location string `json:"location"`
}

// StreamStatus ストリームの状態
type StreamStatus struct {
	Running   bool          `json:"running"`
	SessionID string        `json:"session_id,omitempty"`
	ScanCount int           `json:"scan_count"`
	Size      int           `json:"size"`
	Filters   StreamFilters `json:"filters"`
	StartedAt *time.Time    `json:"started_at,omitempty"`
}

// 価格異常の方向
const (
	AnomalySpike = "急涨"
	AnomalyDrop  = "急跌"
)

// 異常の深刻度
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// PriceAnomaly は移動平均から大きく乖離した期間平均価格です。
type PriceAnomaly struct {
	Period        string  `json:"period"` // 日付 / ISO週 / 月
	Type          string  `json:"type"`
	ActualPrice   float64 `json:"actualPrice"`
	ExpectedPrice float64 `json:"expectedPrice"` // 直前ウィンドウの移動平均
	Deviation     float64 `json:"deviation"`
	ZScore        float64 `json:"zScore"`
	Direction     string  `json:"direction"`
	Severity      string  `json:"severity"`
}
