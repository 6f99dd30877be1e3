package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/aggregate"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/excel"
)

func sampleTable() *model.Table {
	return excel.BuildTable([][]string{
		{model.ColReqDate, model.ColBusinessUnit, model.ColLocation, model.ColBroadStatus, model.ColCurrentTAT},
		{"15-Jan-24", "Sales", "Pune", "Closed", "5"},
		{"20-Jan-24", "Sales", "Delhi", "Open", "NA"},
		{"05-Feb-24", "Ops", "Pune", "Joined", "10"},
		{"", "Sales", "Pune", "Open", "20"},
	})
}

func TestRun_NoFilter(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	dash, filtered, err := Default().Run(context.Background(), tbl, model.Selection{model.ColBusinessUnit: model.AllValue})
	require.NoError(t, err)

	assert.Same(t, tbl, filtered)
	assert.True(t, dash.Available)
	assert.Equal(t, 4, dash.RowCount)
	assert.Equal(t, 4, dash.TotalRows)

	total, ok := dash.Lookup("total_requisitions")
	require.True(t, ok)
	assert.Equal(t, "4", total.Display)

	closed, _ := dash.Lookup("closed_positions")
	assert.Equal(t, "2", closed.Display)

	avg, _ := dash.Lookup("avg_tat")
	assert.Equal(t, "11.7", avg.Display)

	// 缺少所需列的图表省略
	_, ok = dash.Lookup("gender")
	assert.False(t, ok)
	_, ok = dash.Lookup("department")
	assert.False(t, ok)
}

func TestRun_FilteredConsistency(t *testing.T) {
	t.Parallel()

	sel := model.Selection{model.ColBusinessUnit: "Sales", model.ColLocation: "Pune"}
	dash, filtered, err := Default().Run(context.Background(), sampleTable(), sel)
	require.NoError(t, err)

	assert.Equal(t, 2, filtered.Len())
	assert.Equal(t, 2, dash.RowCount)
	assert.Equal(t, 4, dash.TotalRows)

	// 所有聚合器基于同一筛选结果
	total, _ := dash.Lookup("total_requisitions")
	assert.Equal(t, "2", total.Display)

	bu, _ := dash.Lookup("business_unit")
	assert.Equal(t, []model.CategoryCount{{Label: "Sales", Count: 2}}, bu.Counts)
	assert.Equal(t, dash.RowCount, bu.Total())

	trend, _ := dash.Lookup("requisition_trend")
	require.Len(t, trend.Series, 1)
	assert.Equal(t, 1, trend.Series[0].Count)
}

func TestRun_SectionsKeepCatalogOrder(t *testing.T) {
	t.Parallel()

	dash, _, err := Default().Run(context.Background(), sampleTable(), nil)
	require.NoError(t, err)

	metricKeys := make([]string, 0, len(dash.Metrics))
	for _, r := range dash.Metrics {
		assert.Equal(t, model.SectionMetric, r.Section)
		metricKeys = append(metricKeys, r.Key)
	}
	assert.Equal(t, []string{"total_requisitions", "closed_positions", "avg_tat"}, metricKeys)

	chartKeys := make([]string, 0, len(dash.Charts))
	for _, r := range dash.Charts {
		chartKeys = append(chartKeys, r.Key)
	}
	assert.Equal(t, []string{"status_breakdown", "business_unit", "location", "requisition_trend", "tat_distribution"}, chartKeys)
}

func TestRun_EmptySelectionResult(t *testing.T) {
	t.Parallel()

	dash, _, err := Default().Run(context.Background(), sampleTable(), model.Selection{model.ColLocation: "Mumbai"})
	require.NoError(t, err)

	assert.Equal(t, 0, dash.RowCount)
	avg, _ := dash.Lookup("avg_tat")
	assert.Equal(t, "N/A", avg.Display)
	trend, _ := dash.Lookup("requisition_trend")
	assert.True(t, trend.NoData)
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Default().Run(ctx, sampleTable(), nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_ExtremeTATValues(t *testing.T) {
	t.Parallel()

	tbl := excel.BuildTable([][]string{
		{model.ColCurrentTAT},
		{"-1e308"},
		{"1e308"},
	})
	dash, _, err := Default().Run(context.Background(), tbl, nil)
	require.NoError(t, err)

	dist, ok := dash.Lookup("tat_distribution")
	require.True(t, ok)
	require.NotNil(t, dist.Distribution)
	total := 0
	for _, b := range dist.Distribution.Histogram {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestRun_AggregatorPanic(t *testing.T) {
	t.Parallel()

	catalog := []aggregate.Aggregator{
		{
			Key:     "rows",
			Section: model.SectionMetric,
			Compute: func(*model.Table) model.Result { return model.Result{Kind: model.KindScalar} },
		},
		{
			Key:     "broken",
			Section: model.SectionChart,
			Compute: func(*model.Table) model.Result { panic("dividers are not sorted") },
		},
	}

	dash, _, err := New(catalog).Run(context.Background(), sampleTable(), nil)
	require.Error(t, err)
	assert.Nil(t, dash)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "dividers are not sorted")
}
