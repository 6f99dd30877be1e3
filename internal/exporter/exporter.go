package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// DefaultSheetName 导出工作表名
const DefaultSheetName = "Filtered Data"

// dateNumFmt 内置格式 15：d-mmm-yy，与源表 DD-MMM-YY 一致
const dateNumFmt = 15

// FileName 下载文件名：recruitment_data_YYYYMMDD.<ext>
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("recruitment_data_%s.%s", now.Format("20060102"), ext)
}

// WriteCSV 将记录表写为 CSV：列、行及顺序与表一致；日期 YYYY-MM-DD，缺失为空
func WriteCSV(w io.Writer, table *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			if i < len(row) {
				record[i] = row[i].String()
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSXOptions Excel 导出选项
type XLSXOptions struct {
	SheetName string
	Progress  func(ProgressEvent)
}

// WriteXLSX 将记录表导出为工作簿，日期列以真实日期写入
func WriteXLSX(table *model.Table, opts XLSXOptions) (*excelize.File, error) {
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: dateNumFmt})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}
	for i, col := range table.Columns {
		if !model.IsDateColumn(col) {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		if err := f.SetColStyle(sheet, name, dateStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to style column %s: %w", name, err)
		}
	}

	total := len(table.Rows)
	step := total/20 + 1
	for r, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for i := range values {
			if i >= len(row) {
				continue
			}
			values[i] = cellValue(row[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
		if (r+1)%step == 0 {
			reportProgress(opts.Progress, r+1, total, "writing rows")
		}
	}

	reportProgress(opts.Progress, total, total, "done")
	return f, nil
}

func cellValue(c model.Cell) interface{} {
	switch c.Kind {
	case model.CellString:
		return c.Text
	case model.CellNumber:
		return c.Num
	case model.CellDate:
		return c.Time
	default:
		return nil
	}
}
