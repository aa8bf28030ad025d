package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const sampleCSV = "WORK_DATE,ENTITY_DESCRIPTION_SHORT,WAIT_TIME_MAX\n" +
	"2023-07-15,Space Mountain,30\n" +
	"2023-07-15,Big Thunder,45\n"

func TestReadCSVToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waits.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	df, err := ReadCSVToDataFrame(path, "")
	if err != nil {
		t.Fatalf("ReadCSVToDataFrame: %v", err)
	}

	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("shape: got %dx%d, want 2x3", df.Nrow(), df.Ncol())
	}
	if got := df.Elem(0, 1).String(); got != "Space Mountain" {
		t.Errorf("cell (0,1): %q", got)
	}
	// numeric columns stay strings; typing happens in the processor
	if got := df.Elem(1, 2).String(); got != "45" {
		t.Errorf("cell (1,2): %q", got)
	}
}

func TestReadCSVGBK(t *testing.T) {
	// the legacy export path delivers GBK; transcode a known sample
	utf8Row := "WORK_DATE,ENTITY_DESCRIPTION_SHORT,WAIT_TIME_MAX\n2023-07-15,飞跃地平线,60\n"
	gbkBytes, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(utf8Row))
	if err != nil {
		t.Fatalf("encode sample: %v", err)
	}

	df, err := ReadCSVBytes(gbkBytes, "gbk")
	if err != nil {
		t.Fatalf("ReadCSVBytes: %v", err)
	}
	if got := df.Elem(0, 1).String(); got != "飞跃地平线" {
		t.Errorf("gbk decode: %q", got)
	}
}

func TestReadCSVUnsupportedCharset(t *testing.T) {
	if _, err := ReadCSVBytes([]byte("a,b\n1,2\n"), "latin-9"); err == nil {
		t.Error("expected charset error")
	}
}

func TestReadXLSXToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waits.xlsx")

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "waits")
	rows := [][]interface{}{
		{"WORK_DATE", "ENTITY_DESCRIPTION_SHORT", "WAIT_TIME_MAX"},
		{"2023-07-15", "Space Mountain", "30"},
		{"2023-07-16", "Big Thunder", "45"},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue("waits", cell, v)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("write sample workbook: %v", err)
	}
	f.Close()

	df, err := ReadXLSXToDataFrame(path, "waits")
	if err != nil {
		t.Fatalf("ReadXLSXToDataFrame: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("shape: got %dx%d, want 2x3", df.Nrow(), df.Ncol())
	}
	if got := df.Elem(1, 1).String(); got != "Big Thunder" {
		t.Errorf("cell (1,1): %q", got)
	}
}

func TestReadExportDispatch(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "waits.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadExport(csvPath, "", ""); err != nil {
		t.Errorf("csv dispatch: %v", err)
	}
	if _, err := ReadExport(filepath.Join(dir, "waits.pdf"), "", ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsExport(t *testing.T) {
	for _, name := range []string{"a.csv", "b.CSV", "c.xlsx", "d.txt"} {
		if !isExport(name) {
			t.Errorf("isExport(%q) = false", name)
		}
	}
	for _, name := range []string{"a.pdf", "b.log", "c"} {
		if isExport(name) {
			t.Errorf("isExport(%q) = true", name)
		}
	}
}
