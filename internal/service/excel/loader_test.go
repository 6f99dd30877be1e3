package excel_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/excel"
	memstore "github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/store"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := wb.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow %s failed: %v", cell, err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func sampleRows() [][]interface{} {
	return [][]interface{}{
		{model.ColReqDate, model.ColBusinessUnit, model.ColBroadStatus, model.ColCurrentTAT},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Sales", "Closed", 5},
		{"TBD", "Ops", "Open", "NA"},
		{time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "Sales", "Joined", 10},
	}
}

func TestReadTable_XLSX(t *testing.T) {
	t.Parallel()

	tbl, err := excel.ReadTable("data.xlsx", buildWorkbook(t, sampleRows()))
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	wantCols := []string{model.ColReqDate, model.ColBusinessUnit, model.ColBroadStatus, model.ColCurrentTAT}
	if len(tbl.Columns) != len(wantCols) {
		t.Fatalf("columns = %q", tbl.Columns)
	}
	for i, c := range wantCols {
		if tbl.Columns[i] != c {
			t.Fatalf("column %d = %q want %q", i, tbl.Columns[i], c)
		}
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d want 3", tbl.Len())
	}

	d := tbl.Value(0, model.ColReqDate)
	if d.Kind != model.CellDate || d.String() != "2024-01-15" {
		t.Fatalf("row 0 date = %+v", d)
	}
	if d := tbl.Value(1, model.ColReqDate); !d.IsMissing() {
		t.Fatalf("unparsable date should be missing, got %+v", d)
	}
	if v, ok := tbl.Value(0, model.ColCurrentTAT).Float(); !ok || v != 5 {
		t.Fatalf("TAT = %v %v", v, ok)
	}
	if v := tbl.Value(1, model.ColCurrentTAT); !v.IsMissing() {
		t.Fatalf("NA should be missing, got %+v", v)
	}
	if got := tbl.Value(2, model.ColBusinessUnit).String(); got != "Sales" {
		t.Fatalf("BU = %q", got)
	}
}

func TestReadTable_CSV(t *testing.T) {
	t.Parallel()

	data := []byte("\xef\xbb\xbf" + "\"Req Date\n (DD-MMM-YY)\",Business Unit,,Business Unit\n" +
		"15-Jan-24,Sales,x,dup\n" +
		",,,\n" +
		"bad,Ops,y,dup2\n")

	tbl, err := excel.ReadTable("data.csv", data)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	want := []string{model.ColReqDate, "Business Unit", "Unnamed: 2", "Business Unit.1"}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Fatalf("column %d = %q want %q", i, tbl.Columns[i], c)
		}
	}
	// 全空行跳过
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d want 2", tbl.Len())
	}
	if d := tbl.Value(0, model.ColReqDate); d.String() != "2024-01-15" {
		t.Fatalf("date = %+v", d)
	}
	if d := tbl.Value(1, model.ColReqDate); !d.IsMissing() {
		t.Fatalf("bad date should be missing")
	}
}

func TestReadTable_Unreadable(t *testing.T) {
	t.Parallel()

	if _, err := excel.ReadTable("broken.xlsx", []byte("not a workbook")); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := excel.ReadTable("notes.txt", []byte("hello")); !errors.Is(err, excel.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := excel.ReadTable("empty.csv", nil); err == nil {
		t.Fatalf("expected error for empty csv")
	}
}

func TestDetectFormat_Magic(t *testing.T) {
	t.Parallel()

	f, err := excel.DetectFormat("upload", buildWorkbook(t, sampleRows()))
	if err != nil || f != excel.FormatXLSX {
		t.Fatalf("zip magic: %v %v", f, err)
	}
	f, err = excel.DetectFormat("upload", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0})
	if err != nil || f != excel.FormatXLS {
		t.Fatalf("ole magic: %v %v", f, err)
	}
}

func TestLoader_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	noDefault := excel.NewLoader("", nil)
	if _, err := noDefault.Resolve(nil); !errors.Is(err, excel.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	missing := excel.NewLoader(filepath.Join(dir, "datafile.xlsx"), nil)
	if _, err := missing.Resolve(nil); !errors.Is(err, excel.ErrNoData) {
		t.Fatalf("expected ErrNoData for missing file, got %v", err)
	}

	path := filepath.Join(dir, "datafile.xlsx")
	if err := os.WriteFile(path, buildWorkbook(t, sampleRows()), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := excel.NewLoader(path, nil)

	src, err := loader.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Kind != model.SourceDefault {
		t.Fatalf("kind = %s", src.Kind)
	}

	// 上传优先
	up := excel.UploadSource("mine.xlsx", []byte("x"))
	got, err := loader.Resolve(up)
	if err != nil || got != up {
		t.Fatalf("upload should win: %v %v", got, err)
	}
}

func TestLoader_CacheHit(t *testing.T) {
	t.Parallel()

	cache := memstore.NewTableCache()
	loader := excel.NewLoader("", cache)
	data := buildWorkbook(t, sampleRows())

	first, err := loader.Load(excel.UploadSource("a.xlsx", data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.Kind != model.SourceUpload || first.ID == "" || first.Hash == "" {
		t.Fatalf("unexpected dataset: %+v", first)
	}

	// 相同内容命中缓存
	second, err := loader.Load(excel.UploadSource("a.xlsx", data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if second != first {
		t.Fatalf("expected cached dataset")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache len = %d", cache.Len())
	}
}

func TestLoader_DefaultFileChanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "datafile.xlsx")
	if err := os.WriteFile(path, buildWorkbook(t, sampleRows()), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := excel.NewLoader(path, memstore.NewTableCache())
	first, err := loader.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if first.Table.Len() != 3 {
		t.Fatalf("rows = %d", first.Table.Len())
	}

	rows := sampleRows()[:2]
	if err := os.WriteFile(path, buildWorkbook(t, rows), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	second, err := loader.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if second == first || second.Table.Len() != 1 {
		t.Fatalf("expected reparse, rows = %d", second.Table.Len())
	}
}

func TestLoader_Unreadable(t *testing.T) {
	t.Parallel()

	cache := memstore.NewTableCache()
	loader := excel.NewLoader("", cache)

	_, err := loader.Load(excel.UploadSource("broken.xlsx", []byte("garbage")))
	if !errors.Is(err, excel.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("failed load must not be cached")
	}

	if _, err := loader.Load(nil); !errors.Is(err, excel.ErrNoData) {
		t.Fatalf("nil source should be ErrNoData, got %v", err)
	}
}
