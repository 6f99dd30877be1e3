package model

import (
	"sort"
	"time"
)

// AllValue 筛选哨兵值：不限制
const AllValue = "All"

// Selection 筛选条件：列名 -> 选中值
type Selection map[string]string

// Active 返回生效的筛选列（值非空且不为 All），按列名排序
func (s Selection) Active() []string {
	cols := make([]string, 0, len(s))
	for col, val := range s {
		if val == "" || val == AllValue {
			continue
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Section 聚合结果所属区域
type Section string

const (
	SectionMetric Section = "metric"
	SectionChart  Section = "chart"
)

// ResultKind 聚合结果类型
type ResultKind string

const (
	KindScalar       ResultKind = "scalar"
	KindCounts       ResultKind = "counts"
	KindSeries       ResultKind = "series"
	KindDistribution ResultKind = "distribution"
)

// CategoryCount 分类计数
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SeriesPoint 时间序列点（按月，Period 为月末日期）
type SeriesPoint struct {
	Period time.Time `json:"period"`
	Label  string    `json:"label"`
	Count  int       `json:"count"`
}

// HistogramBin 直方图分箱 [Lower, Upper)
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// BoxSummary 箱线图五数概括
type BoxSummary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Distribution 数值分布
type Distribution struct {
	Values    []float64      `json:"values"`
	Histogram []HistogramBin `json:"histogram,omitempty"`
	Box       *BoxSummary    `json:"box,omitempty"`
}

// Result 单个聚合器的输出
type Result struct {
	Key     string     `json:"key"`
	Title   string     `json:"title"`
	Section Section    `json:"section"`
	Chart   string     `json:"chart"`
	Kind    ResultKind `json:"kind"`

	// scalar：Value 为 nil 表示不可用
	Value   *float64 `json:"value,omitempty"`
	Display string   `json:"display,omitempty"`

	Counts       []CategoryCount `json:"counts,omitempty"`
	Series       []SeriesPoint   `json:"series,omitempty"`
	Distribution *Distribution   `json:"distribution,omitempty"`

	NoData  bool   `json:"noData,omitempty"`
	Message string `json:"message,omitempty"`
}

// Total 分类计数合计
func (r Result) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c.Count
	}
	return n
}

// Dashboard 一次流水线运行的全部输出
type Dashboard struct {
	Available bool      `json:"available"`
	Selection Selection `json:"selection"`
	RowCount  int       `json:"rowCount"`
	TotalRows int       `json:"totalRows"`
	Metrics   []Result  `json:"metrics"`
	Charts    []Result  `json:"charts"`
}

// Lookup 按 key 查找结果
func (d *Dashboard) Lookup(key string) (Result, bool) {
	for _, r := range d.Metrics {
		if r.Key == key {
			return r, true
		}
	}
	for _, r := range d.Charts {
		if r.Key == key {
			return r, true
		}
	}
	return Result{}, false
}
