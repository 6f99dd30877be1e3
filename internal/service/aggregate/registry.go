package aggregate

import (
	"fmt"
	"strconv"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// Aggregator 聚合器声明：所需列 + 计算函数
// 所需列缺失时聚合器不运行，对应图表整体省略
type Aggregator struct {
	Key      string
	Title    string
	Section  model.Section
	Chart    string
	Requires []string
	Compute  func(table *model.Table) model.Result
}

// Supports 表中是否包含全部所需列
func (a Aggregator) Supports(table *model.Table) bool {
	for _, col := range a.Requires {
		if !table.HasColumn(col) {
			return false
		}
	}
	return true
}

// Run 计算并补全结果的元信息
func (a Aggregator) Run(table *model.Table) model.Result {
	res := a.Compute(table)
	res.Key = a.Key
	res.Title = a.Title
	res.Section = a.Section
	res.Chart = a.Chart
	return res
}

// Options 目录参数
type Options struct {
	HistogramBins int
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{HistogramBins: DefaultHistogramBins}
}

// Catalog 仪表盘聚合器目录，顺序即展示顺序
func Catalog(opts Options) []Aggregator {
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = DefaultHistogramBins
	}

	return []Aggregator{
		// KPI
		{
			Key: "total_requisitions", Title: "Total Requisitions",
			Section: model.SectionMetric, Chart: "metric",
			Compute: func(t *model.Table) model.Result {
				return countResult(CountRows(t))
			},
		},
		{
			Key: "closed_positions", Title: "Closed Positions",
			Section: model.SectionMetric, Chart: "metric",
			Requires: []string{model.ColBroadStatus},
			Compute: func(t *model.Table) model.Result {
				return countResult(CountClosed(t, model.ColBroadStatus))
			},
		},
		{
			Key: "avg_tat", Title: "Avg TAT (Days)",
			Section: model.SectionMetric, Chart: "metric",
			Requires: []string{model.ColCurrentTAT},
			Compute: func(t *model.Table) model.Result {
				mean, ok := Mean(Numbers(t, model.ColCurrentTAT))
				if !ok {
					return model.Result{Kind: model.KindScalar, Display: "N/A"}
				}
				return model.Result{Kind: model.KindScalar, Value: &mean, Display: fmt.Sprintf("%.1f", mean)}
			},
		},
		{
			Key: "profiles_shared", Title: "Total Profiles Shared",
			Section: model.SectionMetric, Chart: "metric",
			Requires: []string{model.ColProfilesShared},
			Compute: func(t *model.Table) model.Result {
				return countResult(int(Sum(Numbers(t, model.ColProfilesShared))))
			},
		},
		{
			Key: "interviewed", Title: "Candidates Interviewed",
			Section: model.SectionMetric, Chart: "metric",
			Requires: []string{model.ColInterviewed},
			Compute: func(t *model.Table) model.Result {
				return countResult(int(Sum(Numbers(t, model.ColInterviewed))))
			},
		},

		// 图表
		categoryAggregator("status_breakdown", "Requisitions by Status", "pie", model.ColBroadStatus, 0),
		categoryAggregator("business_unit", "Requisitions by Business Unit", "bar", model.ColBusinessUnit, 10),
		categoryAggregator("location", "Requisitions by Location", "bar", model.ColLocation, 10),
		categoryAggregator("gender", "Gender Distribution", "pie", model.ColGender, 0),
		{
			Key: "requisition_trend", Title: "Requisition Trends Over Time",
			Section: model.SectionChart, Chart: "line",
			Requires: []string{model.ColReqDate},
			Compute: func(t *model.Table) model.Result {
				series := MonthlyCounts(t, model.ColReqDate)
				if len(series) == 0 {
					return model.Result{
						Kind:    model.KindSeries,
						NoData:  true,
						Message: "No valid date data available for trend analysis",
					}
				}
				return model.Result{Kind: model.KindSeries, Series: series}
			},
		},
		categoryAggregator("candidate_source", "Candidate Sources", "barh", model.ColCandidateSource, 8),
		categoryAggregator("new_vs_replacement", "New vs Replacement", "bar", model.ColNewOrReplacement, 0),
		{
			Key: "tat_distribution", Title: "TAT Distribution",
			Section: model.SectionChart, Chart: "histogram",
			Requires: []string{model.ColCurrentTAT},
			Compute: func(t *model.Table) model.Result {
				values := Numbers(t, model.ColCurrentTAT)
				return model.Result{
					Kind: model.KindDistribution,
					Distribution: &model.Distribution{
						Values:    values,
						Histogram: Histogram(values, opts.HistogramBins),
					},
				}
			},
		},
		{
			Key: "joining_tat_distribution", Title: "Joining TAT Distribution",
			Section: model.SectionChart, Chart: "box",
			Requires: []string{model.ColJoiningTAT},
			Compute: func(t *model.Table) model.Result {
				values := Numbers(t, model.ColJoiningTAT)
				return model.Result{
					Kind: model.KindDistribution,
					Distribution: &model.Distribution{
						Values: values,
						Box:    Box(values),
					},
				}
			},
		},
		categoryAggregator("department", "Top 10 Departments by Requisition Count", "bar", model.ColDepartment, 10),
	}
}

func categoryAggregator(key, title, chart, column string, topN int) Aggregator {
	return Aggregator{
		Key:      key,
		Title:    title,
		Section:  model.SectionChart,
		Chart:    chart,
		Requires: []string{column},
		Compute: func(t *model.Table) model.Result {
			return model.Result{
				Kind:   model.KindCounts,
				Counts: CountCategories(t, column, topN),
			}
		},
	}
}

func countResult(n int) model.Result {
	v := float64(n)
	return model.Result{Kind: model.KindScalar, Value: &v, Display: strconv.Itoa(n)}
}

// Available 过滤出表中所需列齐全的聚合器
func Available(catalog []Aggregator, table *model.Table) []Aggregator {
	out := make([]Aggregator, 0, len(catalog))
	for _, a := range catalog {
		if a.Supports(table) {
			out = append(out, a)
		}
	}
	return out
}
