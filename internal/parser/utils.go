package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// Excel 序列日期的合法范围（1900-01-01 ~ 9999-12-31）
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// dateLayouts 文本日期支持的格式，按优先级尝试
var dateLayouts = []string{
	"02-Jan-06",
	"2-Jan-06",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"02.01.2006",
}

// yearOnly 仅含年份的文本
var yearOnly = regexp.MustCompile(`^[0-9]{4}$`)

// nullTokens 视为缺失的文本（与常见表格工具的默认缺失标记一致）
var nullTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"<NA>":     true,
	"N/A":      true,
	"n/a":      true,
	"NA":       true,
	"NULL":     true,
	"null":     true,
	"NaN":      true,
	"nan":      true,
	"-NaN":     true,
	"-nan":     true,
	"None":     true,
	"NaT":      true,
}

// IsNullToken 是否为缺失值占位文本
func IsNullToken(text string) bool {
	return nullTokens[strings.TrimSpace(text)]
}

// ParseNumber 宽松解析数值，失败返回 false（不报错）
func ParseNumber(text string) (float64, bool) {
	val := strings.TrimSpace(text)
	if IsNullToken(val) {
		return 0, false
	}
	// 移除千分位分隔符
	val = strings.ReplaceAll(val, ",", "")
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDate 宽松解析日期：Excel 序列号或常见文本格式，失败返回 false
func ParseDate(text string) (time.Time, bool) {
	val := strings.TrimSpace(text)
	if IsNullToken(val) {
		return time.Time{}, false
	}

	// 四位整数视为年份（当年 1 月 1 日），不按序列号解析
	if yearOnly.MatchString(val) {
		if t, err := time.Parse("2006", val); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(val, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.Round(time.Second), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceCell 普通列的单元格推断：空 -> 缺失，数值 -> 数值（保留原文），其他 -> 字符串
func CoerceCell(text string) model.Cell {
	if IsNullToken(text) {
		return model.MissingCell()
	}
	if f, ok := ParseNumber(text); ok {
		return model.NumberCell(f, strings.TrimSpace(text))
	}
	return model.StringCell(text)
}

// CoerceDateCell 日期列的单元格解析，无法解析时为缺失
func CoerceDateCell(text string) model.Cell {
	t, ok := ParseDate(text)
	if !ok {
		return model.MissingCell()
	}
	return model.DateCell(t)
}

// NormalizeHeader 规范化表头：仅统一换行符，保留列名中的换行与空格
func NormalizeHeader(name string) string {
	name = strings.ReplaceAll(name, "_x000D_\n", "\n")
	name = strings.ReplaceAll(name, "\r\n", "\n")
	return strings.ReplaceAll(name, "\r", "\n")
}
