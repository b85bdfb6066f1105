// Package ingest parses uploaded spreadsheet bytes into tables. Files are
// parsed whole, in memory; only previews are capped, further up the stack.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
)

const (
	// CSVSheetName is the conventional sheet name given to a parsed CSV file.
	CSVSheetName = "sheet1"

	FileTypeCSV   = "csv"
	FileTypeExcel = "xlsx"
)

// Sheet is one named table of a parsed workbook.
type Sheet struct {
	Name  string
	Table *dataframe.Table
}

// Workbook is every sheet of an uploaded file, in file order. A CSV file
// yields a single sheet named sheet1.
type Workbook struct {
	Sheets []Sheet
}

func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet returns the named sheet's table.
func (w *Workbook) Sheet(name string) (*dataframe.Table, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s.Table, true
		}
	}
	return nil, false
}

// Parse parses file bytes according to the filename extension.
func Parse(filename string, data []byte) (*Workbook, error) {
	const op errs.Op = "ingest.Parse"

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		table, err := parseCSV(data)
		if err != nil {
			return nil, errs.E(op, err)
		}
		return &Workbook{Sheets: []Sheet{{Name: CSVSheetName, Table: table}}}, nil
	case ".xlsx":
		return parseExcel(data)
	default:
		return nil, errs.E(op, errs.Unsupported, "Unsupported file type")
	}
}

// ParseType re-parses previously uploaded bytes for one chosen sheet. The
// sheet name is ignored for CSV, which only ever has one.
func ParseType(fileType, sheetName string, data []byte) (*dataframe.Table, error) {
	const op errs.Op = "ingest.ParseType"

	if fileType == FileTypeCSV {
		table, err := parseCSV(data)
		if err != nil {
			return nil, errs.E(op, err)
		}
		return table, nil
	}

	wb, err := parseExcel(data)
	if err != nil {
		return nil, errs.E(op, err)
	}
	table, ok := wb.Sheet(sheetName)
	if !ok {
		return nil, errs.E(op, errs.NotExist, fmt.Errorf("no such sheet: %s", sheetName))
	}
	return table, nil
}

func parseCSV(data []byte) (*dataframe.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return dataframe.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	table := dataframe.New(dedupeColumns(header)...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		table.AppendRow(typeCells(record)...)
	}

	return table, nil
}

func parseExcel(data []byte) (*Workbook, error) {
	const op errs.Op = "ingest.parseExcel"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.E(op, errs.InvalidRequest, fmt.Errorf("opening workbook: %w", err))
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errs.E(op, fmt.Errorf("reading sheet %s: %w", name, err))
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Table: tableFromRows(rows)})
	}

	return wb, nil
}

func tableFromRows(rows [][]string) *dataframe.Table {
	if len(rows) == 0 {
		return dataframe.New()
	}
	table := dataframe.New(dedupeColumns(rows[0])...)
	for _, row := range rows[1:] {
		table.AppendRow(typeCells(row)...)
	}
	return table
}

// dedupeColumns renames repeated header cells to name.1, name.2, ... so that
// every column stays addressable; a table cannot hold two columns with the
// same name.
func dedupeColumns(header []string) []string {
	seen := make(map[string]bool, len(header))
	counts := make(map[string]int)
	out := make([]string, len(header))
	for i, name := range header {
		candidate := name
		for seen[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}

// typeCells infers cell types: numbers become float64, everything else stays
// a string. Empty cells become nil.
func typeCells(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			out[i] = f
			continue
		}
		out[i] = cell
	}
	return out
}
