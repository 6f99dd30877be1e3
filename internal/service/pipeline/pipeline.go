package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/aggregate"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/filter"
)

// maxParallel 并发计算的聚合器上限
const maxParallel = 4

// Pipeline 筛选 + 聚合流水线
type Pipeline struct {
	catalog []aggregate.Aggregator
}

// New 创建流水线
func New(catalog []aggregate.Aggregator) *Pipeline {
	return &Pipeline{catalog: catalog}
}

// Default 使用默认目录创建流水线
func Default() *Pipeline {
	return New(aggregate.Catalog(aggregate.DefaultOptions()))
}

// Run 对记录表应用筛选，再在同一筛选结果上运行全部可用聚合器
// 聚合器之间无依赖，并发执行；结果顺序与目录一致
func (p *Pipeline) Run(ctx context.Context, table *model.Table, sel model.Selection) (*model.Dashboard, *model.Table, error) {
	start := time.Now()

	filtered := filter.Apply(table, sel)
	available := aggregate.Available(p.catalog, filtered)

	results := make([]model.Result, len(available))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, agg := range available {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := runSafely(agg, filtered)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	dash := &model.Dashboard{
		Available: true,
		Selection: sel,
		RowCount:  filtered.Len(),
		TotalRows: table.Len(),
		Metrics:   make([]model.Result, 0),
		Charts:    make([]model.Result, 0),
	}
	for _, r := range results {
		if r.Section == model.SectionMetric {
			dash.Metrics = append(dash.Metrics, r)
		} else {
			dash.Charts = append(dash.Charts, r)
		}
	}

	log.Printf("[Pipeline] %d/%d rows, %d aggregators in %.2fms",
		filtered.Len(), table.Len(), len(available), float64(time.Since(start).Nanoseconds())/1e6)
	return dash, filtered, nil
}

// runSafely 运行单个聚合器，panic 转为错误返回
func runSafely(agg aggregate.Aggregator, table *model.Table) (res model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Pipeline] aggregator %s panicked: %v", agg.Key, r)
			err = fmt.Errorf("aggregator %s failed: %v", agg.Key, r)
		}
	}()
	return agg.Run(table), nil
}
