package model

import (
	"strconv"
	"time"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellMissing CellKind = iota
	CellString
	CellNumber
	CellDate
)

// DateLayout 日期单元格的规范文本格式（导出 / 展示）
const DateLayout = "2006-01-02"

// Cell 单元格（动态类型）
type Cell struct {
	Kind CellKind
	Text string // 原始文本（字符串 / 数值）
	Num  float64
	Time time.Time
}

// MissingCell 缺失值
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// StringCell 字符串值，空串视为缺失
func StringCell(s string) Cell {
	if s == "" {
		return MissingCell()
	}
	return Cell{Kind: CellString, Text: s}
}

// NumberCell 数值，text 为原始文本（可为空）
func NumberCell(v float64, text string) Cell {
	return Cell{Kind: CellNumber, Num: v, Text: text}
}

// DateCell 日期值
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsMissing 是否缺失
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// Float 返回数值（仅数值单元格）
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	return c.Num, true
}

// String 单元格的规范文本（筛选比较、分类标签、CSV 导出共用）
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format(DateLayout)
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Table 记录表：列顺序与行顺序均与源文件一致
// 加载完成后只读，筛选结果共享行数据但从不修改
type Table struct {
	Columns []string
	Rows    [][]Cell

	index map[string]int
}

// NewTable 创建记录表
func NewTable(columns []string, rows [][]Cell) *Table {
	t := &Table{Columns: columns, Rows: rows}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex 列下标（按精确列名）
func (t *Table) ColumnIndex(column string) (int, bool) {
	if t == nil {
		return -1, false
	}
	if t.index == nil {
		for i, col := range t.Columns {
			if col == column {
				return i, true
			}
		}
		return -1, false
	}
	idx, ok := t.index[column]
	return idx, ok
}

// HasColumn 是否包含列
func (t *Table) HasColumn(column string) bool {
	_, ok := t.ColumnIndex(column)
	return ok
}

// Value 取单元格；行越界或列不存在时返回缺失值
func (t *Table) Value(row int, column string) Cell {
	idx, ok := t.ColumnIndex(column)
	if !ok || row < 0 || row >= len(t.Rows) {
		return MissingCell()
	}
	r := t.Rows[row]
	if idx >= len(r) {
		return MissingCell()
	}
	return r[idx]
}

// Column 按行序返回整列
func (t *Table) Column(column string) []Cell {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for i, r := range t.Rows {
		if idx < len(r) {
			out[i] = r[idx]
		}
	}
	return out
}

// WithRows 以相同列构造子表（行切片为新分配，单元格共享）
func (t *Table) WithRows(rows [][]Cell) *Table {
	return &Table{Columns: t.Columns, Rows: rows, index: t.index}
}
