package services

import "math"

// toFloats converts integer prices to float64 values.
func toFloats(prices []int) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = float64(p)
	}
	return out
}

// calculateMean パッケージ内部用のヘルパー関数：平均値を計算
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// deviationAround は center を中心とした母標準偏差を返します。
func deviationAround(values []float64, center float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - center
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

// minMax returns the smallest and largest price. Callers guarantee len(prices) > 0.
func minMax(prices []int) (int, int) {
	lo, hi := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi
}
