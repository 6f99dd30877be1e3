package aggregate

import (
	"time"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// monthEnd 所在月份的最后一天
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// MonthlyCounts 按月（月末）统计有日期的行数
// 缺失日期的行先剔除；区间内没有记录的月份计 0，保证月份连续；无有效日期返回 nil
func MonthlyCounts(table *model.Table, column string) []model.SeriesPoint {
	counts := make(map[time.Time]int)
	var first, last time.Time
	for _, cell := range table.Column(column) {
		if cell.Kind != model.CellDate {
			continue
		}
		end := monthEnd(cell.Time)
		counts[end]++
		if first.IsZero() || end.Before(first) {
			first = end
		}
		if last.IsZero() || end.After(last) {
			last = end
		}
	}
	if len(counts) == 0 {
		return nil
	}

	var series []model.SeriesPoint
	for m := first; !m.After(last); m = monthEnd(m.AddDate(0, 0, 1)) {
		series = append(series, model.SeriesPoint{
			Period: m,
			Label:  m.Format("2006-01"),
			Count:  counts[m],
		})
	}
	return series
}
