package filter

import (
	"sort"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// QueryParams 筛选列与请求参数名的对应关系
var QueryParams = map[string]string{
	model.ColBusinessUnit: "businessUnit",
	model.ColDepartment:   "department",
	model.ColLocation:     "location",
}

// Option 侧边栏单个筛选项
type Option struct {
	Column string   `json:"column"`
	Param  string   `json:"param"`
	Values []string `json:"values"`
}

// Apply 按筛选条件过滤记录表
// 各条件 AND 组合；值为 All / 空或列不存在的条件忽略；单元格文本需完全相等
// 不修改原表，无生效条件时原样返回
func Apply(table *model.Table, sel model.Selection) *model.Table {
	if table == nil {
		return nil
	}

	type constraint struct {
		idx   int
		value string
	}
	var constraints []constraint
	for _, col := range sel.Active() {
		idx, ok := table.ColumnIndex(col)
		if !ok {
			continue
		}
		constraints = append(constraints, constraint{idx: idx, value: sel[col]})
	}
	if len(constraints) == 0 {
		return table
	}

	rows := make([][]model.Cell, 0, len(table.Rows))
	for _, row := range table.Rows {
		pass := true
		for _, c := range constraints {
			if c.idx >= len(row) || row[c.idx].IsMissing() || row[c.idx].String() != c.value {
				pass = false
				break
			}
		}
		if pass {
			rows = append(rows, row)
		}
	}
	return table.WithRows(rows)
}

// Options 生成可筛选列的选项：All + 去重排序后的非缺失值
func Options(table *model.Table) []Option {
	out := make([]Option, 0, len(model.FilterColumns))
	for _, col := range model.FilterColumns {
		if !table.HasColumn(col) {
			continue
		}
		seen := make(map[string]bool)
		values := make([]string, 0)
		for _, cell := range table.Column(col) {
			if cell.IsMissing() {
				continue
			}
			v := cell.String()
			if seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		sort.Strings(values)
		out = append(out, Option{
			Column: col,
			Param:  QueryParams[col],
			Values: append([]string{model.AllValue}, values...),
		})
	}
	return out
}

// SelectionFromQuery 从请求参数构造筛选条件，缺省为 All
func SelectionFromQuery(get func(string) string) model.Selection {
	sel := make(model.Selection, len(model.FilterColumns))
	for _, col := range model.FilterColumns {
		v := get(QueryParams[col])
		if v == "" {
			v = model.AllValue
		}
		sel[col] = v
	}
	return sel
}
