package aggregate

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// DefaultHistogramBins 直方图默认分箱数
const DefaultHistogramBins = 30

// Histogram 等宽分箱，区间为 [lower, upper)，最后一箱包含最大值
func Histogram(values []float64, bins int) []model.HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []model.HistogramBin{{Lower: lo, Upper: lo + 1, Count: len(sorted)}}
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	if math.IsInf(hi-lo, 0) {
		// 跨度溢出时按比例插值，避免步长为 Inf
		for i := range dividers {
			frac := float64(i) / float64(bins)
			dividers[i] = lo*(1-frac) + hi*frac
		}
	}
	// stat.Histogram 要求 x < 最后一个分界点
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	if !validDividers(dividers) {
		return []model.HistogramBin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]model.HistogramBin, bins)
	for i := 0; i < bins; i++ {
		upper := dividers[i+1]
		if i == bins-1 {
			upper = hi
		}
		out[i] = model.HistogramBin{
			Lower: dividers[i],
			Upper: upper,
			Count: int(counts[i]),
		}
	}
	return out
}

// validDividers 分界点非递减且除末位外均为有限值
func validDividers(dividers []float64) bool {
	for i, d := range dividers {
		if math.IsNaN(d) {
			return false
		}
		if i < len(dividers)-1 && math.IsInf(d, 0) {
			return false
		}
		if i > 0 && d < dividers[i-1] {
			return false
		}
	}
	return true
}

// Box 五数概括，无数据返回 nil
func Box(values []float64) *model.BoxSummary {
	if len(values) == 0 {
		return nil
	}
	data := stats.Float64Data(values)
	minV, _ := data.Min()
	maxV, _ := data.Max()
	median, _ := data.Median()
	if len(values) < 2 {
		return &model.BoxSummary{Min: minV, Q1: minV, Median: median, Q3: maxV, Max: maxV}
	}
	q, err := stats.Quartile(data)
	if err != nil {
		return &model.BoxSummary{Min: minV, Q1: minV, Median: median, Q3: maxV, Max: maxV}
	}
	return &model.BoxSummary{
		Min:    minV,
		Q1:     q.Q1,
		Median: median,
		Q3:     q.Q3,
		Max:    maxV,
	}
}
