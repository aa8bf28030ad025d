package file

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ReadExport loads a raw wait-time export into a DataFrame, dispatching
// on the file extension. CSV is the normal delivery format; some parks
// still mail xlsx workbooks, hence the sheet name.
func ReadExport(path, sheetName, charset string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSVToDataFrame(path, charset)
	case ".xlsx":
		return ReadXLSXToDataFrame(path, sheetName)
	default:
		return dataframe.New(), fmt.Errorf("unsupported export format: %s", path)
	}
}

// ReadCSVToDataFrame reads a delimited export. Every column is kept as a
// string series; type validation happens row by row in the processor so
// that a malformed row drops that row only.
func ReadCSVToDataFrame(filePath, charset string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	return readCSV(f, charset)
}

// ReadCSVBytes is the in-memory variant used for mail attachments.
func ReadCSVBytes(data []byte, charset string) (dataframe.DataFrame, error) {
	return readCSV(bytes.NewReader(data), charset)
}

func readCSV(r io.Reader, charset string) (dataframe.DataFrame, error) {
	decoded, err := decodeReader(r, charset)
	if err != nil {
		return dataframe.New(), err
	}

	df := dataframe.ReadCSV(decoded,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.New(), fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// decodeReader transcodes legacy GBK exports to UTF-8.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return r, nil
	case "gbk", "gb2312":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
}

// ReadXLSXToDataFrame reads one sheet of an xlsx export.
func ReadXLSXToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("xlsx open file: %w", err)
	}

	return sheetToDataFrame(xlFile, sheetName)
}

// ReadXLSXBytes is the in-memory variant used for mail attachments.
func ReadXLSXBytes(data []byte, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.New(), fmt.Errorf("xlsx open binary: %w", err)
	}

	return sheetToDataFrame(xlFile, sheetName)
}

// sheetToDataFrame converts an xlsx sheet to a string-typed DataFrame.
// The first row is the header.
func sheetToDataFrame(xlFile *xlsx.File, sheetName string) (dataframe.DataFrame, error) {
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("workbook has no sheets")
	}

	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		// fall back to the first sheet when the configured name is absent
		sheet = xlFile.Sheets[0]
	}
	if len(sheet.Rows) < 2 {
		return dataframe.New(), fmt.Errorf("sheet %q has no data rows", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			v := ""
			if i < len(row.Cells) {
				v = row.Cells[i].Value
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.New(), fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}
