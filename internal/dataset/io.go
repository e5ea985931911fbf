package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the file format from the extension; anything that is not
// .xlsx is treated as CSV.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ReadFile loads a dataset with a header row. limit > 0 caps the number of
// data rows read. Every column is read as String.
func ReadFile(path string, limit int) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch FormatOf(path) {
	case FormatXLSX:
		t, err = readXLSX(path, limit)
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		t, err = ReadCSV(f, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

func ReadCSV(r io.Reader, limit int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty dataset: missing header row")
	}
	if err != nil {
		return nil, err
	}

	t := New(StringColumns(header...)...)
	for limit <= 0 || len(t.Rows) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

func readXLSX(path string, limit int) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty dataset: missing header row")
	}

	t := New(StringColumns(rows[0]...)...)
	width := len(rows[0])
	for _, row := range rows[1:] {
		if limit > 0 && len(t.Rows) >= limit {
			break
		}
		// GetRows trims trailing empty cells.
		cells := make([]string, width)
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// WriteFile writes the table with a header row, creating parent directories.
func WriteFile(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if FormatOf(path) == FormatXLSX {
		return writeXLSX(t, path)
	}

	var buf bytes.Buffer
	if err := WriteCSV(t, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func WriteCSV(t *Table, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

func writeXLSX(t *Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, name := range t.Names() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}

	for i, row := range t.Rows {
		r := i + 2
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if t.Columns[c].Kind == Int {
				_ = f.SetCellValue(sheet, cell, mustAtoi(value))
				continue
			}
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	return f.SaveAs(path)
}

func mustAtoi(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
