package aggregate

import (
	"math"
	"regexp"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// closedPattern "已关闭"口径：Broad Status 包含 Closed 或 Joined（不区分大小写，子串匹配）
var closedPattern = regexp.MustCompile(`(?i)closed|joined`)

// CountRows 行数
func CountRows(table *model.Table) int {
	return table.Len()
}

// CountClosed 统计状态文本匹配 closed/joined 的行数，非文本与缺失值不计
func CountClosed(table *model.Table, column string) int {
	n := 0
	for _, cell := range table.Column(column) {
		if cell.Kind != model.CellString {
			continue
		}
		if closedPattern.MatchString(cell.Text) {
			n++
		}
	}
	return n
}

// Numbers 取列中可解析为数值的单元格，其他值丢弃
func Numbers(table *model.Table, column string) []float64 {
	cells := table.Column(column)
	out := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if v, ok := cell.Float(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Mean 数值均值，无有效值或结果溢出时返回 false
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	m, err := stats.Mean(values)
	if err != nil || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, false
	}
	return m, true
}

// Sum 数值合计，无有效值时为 0
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return s
}

// CountCategories 按分类计数，按数量降序（稳定排序，并列按首次出现顺序），topN > 0 时截断
// 缺失值不计入
func CountCategories(table *model.Table, column string, topN int) []model.CategoryCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, cell := range table.Column(column) {
		if cell.IsMissing() {
			continue
		}
		label := cell.String()
		if _, exists := counts[label]; !exists {
			order = append(order, label)
		}
		counts[label]++
	}

	out := make([]model.CategoryCount, 0, len(order))
	for _, label := range order {
		out = append(out, model.CategoryCount{Label: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
