package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/parser"
)

// Format 表格文件格式
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ErrUnsupportedFormat 不支持的文件格式
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DetectFormat 先按扩展名，再按文件头判断格式
func DetectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// ReadTable 解析第一个工作表为记录表
func ReadTable(name string, data []byte) (*model.Table, error) {
	format, err := DetectFormat(name, data)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSXRows(data)
	case FormatXLS:
		rows, err = readXLSRows(data)
	case FormatCSV:
		rows, err = readCSVRows(data)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty sheet")
	}
	return BuildTable(rows), nil
}

func readXLSXRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no worksheet found")
	}
	// 原始值：日期为序列号，数值不带显示格式
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLSRows(data []byte) (rows [][]string, err error) {
	// xls 库对损坏文件可能 panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("no worksheet found")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// BuildTable 将原始行（首行为表头）转换为记录表
// 日期列逐格解析，无法解析的单元格记为缺失；全空行跳过
func BuildTable(rows [][]string) *model.Table {
	width := 0
	for _, r := range rows {
		if n := trimmedLen(r); n > width {
			width = n
		}
	}

	columns := buildHeader(rows[0], width)
	dateCol := make([]bool, width)
	for i, col := range columns {
		dateCol[i] = model.IsDateColumn(col)
	}

	data := make([][]model.Cell, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		if trimmedLen(raw) == 0 {
			continue
		}
		row := make([]model.Cell, width)
		for i := 0; i < width; i++ {
			text := ""
			if i < len(raw) {
				text = raw[i]
			}
			if dateCol[i] {
				row[i] = parser.CoerceDateCell(text)
			} else {
				row[i] = parser.CoerceCell(text)
			}
		}
		data = append(data, row)
	}

	return model.NewTable(columns, data)
}

// buildHeader 空表头命名为 "Unnamed: N"，重复表头追加 ".N" 后缀
func buildHeader(raw []string, width int) []string {
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = parser.NormalizeHeader(raw[i])
		}
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}

func trimmedLen(r []string) int {
	n := len(r)
	for n > 0 && strings.TrimSpace(r[n-1]) == "" {
		n--
	}
	return n
}
