package sheetmap

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

/* =========================================================
 *  XLSX Collaborator (excelize)
 * ========================================================= */

// XLSXWorkbook adapts an excelize file to the Workbook contract, for both
// the read and the write direction.
type XLSXWorkbook struct {
	f        *excelize.File
	fileName string
}

// OpenFile opens an xlsx workbook from a file path.
func OpenFile(path string) (*XLSXWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &XLSXWorkbook{f: f, fileName: filepath.Base(path)}, nil
}

// OpenReader opens an xlsx workbook from an io.Reader (e.g. an HTTP upload).
func OpenReader(r io.Reader) (*XLSXWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &XLSXWorkbook{f: f, fileName: "workbook"}, nil
}

// NewXLSX creates an empty workbook for the write direction.
func NewXLSX() *XLSXWorkbook {
	return &XLSXWorkbook{f: excelize.NewFile(), fileName: "workbook"}
}

// Close releases the underlying file.
func (b *XLSXWorkbook) Close() error { return b.f.Close() }

// FileName identifies the workbook for provenance.
func (b *XLSXWorkbook) FileName() string { return b.fileName }

// Sheets materializes the workbook's sheets in file order with raw cell
// values.
func (b *XLSXWorkbook) Sheets() ([]NamedSheet, error) {
	names := b.f.GetSheetList()
	out := make([]NamedSheet, 0, len(names))
	for _, name := range names {
		rows, err := b.f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		out = append(out, NamedSheet{
			Name:  name,
			Sheet: &xlsxSheet{f: b.f, name: name, rows: rows},
		})
	}
	return out, nil
}

type xlsxSheet struct {
	f    *excelize.File
	name string
	rows [][]string
}

func (s *xlsxSheet) RowCount() int { return len(s.rows) }

func (s *xlsxSheet) Row(index int) (RawRow, bool) {
	if index < 0 || index >= len(s.rows) {
		return nil, false
	}
	return &xlsxRow{sheet: s, idx: index}, true
}

type xlsxRow struct {
	sheet *xlsxSheet
	idx   int
}

func (r *xlsxRow) LastCol() int {
	cells := r.sheet.rows[r.idx]
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i] != "" {
			return i
		}
	}
	return UnknownIndex
}

func (r *xlsxRow) Cell(index int) (RawCell, bool) {
	if index < 0 || index > r.LastCol() {
		return RawCell{}, false
	}
	raw := r.sheet.rows[r.idx][index]
	cellName, err := excelize.CoordinatesToCellName(index+1, r.idx+1)
	if err != nil {
		return RawCell{}, false
	}
	return r.sheet.classify(cellName, raw), true
}

// classify maps one excelize cell onto the RawCell contract. Formulas are
// detected first since a formula cell's type tag reflects its cached result.
func (s *xlsxSheet) classify(cellName, raw string) RawCell {
	if formula, err := s.f.GetCellFormula(s.name, cellName); err == nil && formula != "" {
		return RawCell{Kind: RawFormula, Text: formula}
	}

	ctype, err := s.f.GetCellType(s.name, cellName)
	if err != nil {
		ctype = excelize.CellTypeUnset
	}

	switch ctype {
	case excelize.CellTypeBool:
		return RawCell{Kind: RawBool, Bool: raw == "1" || strings.EqualFold(raw, "true")}

	case excelize.CellTypeError:
		return RawCell{Kind: RawError, Text: raw, Number: excelErrorCode(raw)}

	case excelize.CellTypeDate:
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			return RawCell{Kind: RawDate, Number: serial}
		}
		return RawCell{Kind: RawText, Text: raw}

	case excelize.CellTypeInlineString, excelize.CellTypeSharedString, excelize.CellTypeFormula:
		return RawCell{Kind: RawText, Text: raw}
	}

	// CellTypeNumber and CellTypeUnset: blank, numeric (possibly
	// date-styled) or a literal string without a type tag.
	if raw == "" {
		return RawCell{Kind: RawBlank}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return RawCell{Kind: RawText, Text: raw}
	}
	if s.isDateStyled(cellName) {
		return RawCell{Kind: RawDate, Number: f}
	}
	return RawCell{Kind: RawNumber, Number: f}
}

// isDateStyled reports whether the cell's number format marks it as a date
// or time value.
func (s *xlsxSheet) isDateStyled(cellName string) bool {
	styleID, err := s.f.GetCellStyle(s.name, cellName)
	if err != nil {
		return false
	}
	style, err := s.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if isBuiltinDateFmt(style.NumFmt) {
		return true
	}
	if style.CustomNumFmt != nil {
		return strings.ContainsAny(strings.ToLower(*style.CustomNumFmt), "ymdhs")
	}
	return false
}

// Builtin xlsx number formats that render dates or times.
func isBuiltinDateFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// excelErrorCode maps an error literal to its stored numeric error code.
// The codes match the xlsx/BIFF error code enumeration.
func excelErrorCode(lit string) float64 {
	switch strings.ToUpper(strings.TrimSpace(lit)) {
	case "#NULL!":
		return 0
	case "#DIV/0!":
		return 7
	case "#VALUE!":
		return 15
	case "#REF!":
		return 23
	case "#NAME?":
		return 29
	case "#NUM!":
		return 36
	case "#N/A":
		return 42
	}
	return 255
}

/* =========================================================
 *  XLSX Write Direction
 * ========================================================= */

// SheetWriter returns a writer for the named sheet, creating it if needed.
func (b *XLSXWorkbook) SheetWriter(name string) (SheetWriter, error) {
	if _, err := b.f.NewSheet(name); err != nil {
		return nil, err
	}
	return &xlsxSheetWriter{f: b.f, name: name}, nil
}

// SaveAs writes the workbook to a file path.
func (b *XLSXWorkbook) SaveAs(path string) error {
	b.fileName = filepath.Base(path)
	return b.f.SaveAs(path)
}

// SaveTo writes the workbook to w.
func (b *XLSXWorkbook) SaveTo(w io.Writer) error { return b.f.Write(w) }

type xlsxSheetWriter struct {
	f    *excelize.File
	name string
}

func (s *xlsxSheetWriter) CreateRow(index int) (RowWriter, error) {
	return &xlsxRowWriter{f: s.f, name: s.name, row: index}, nil
}

type xlsxRowWriter struct {
	f    *excelize.File
	name string
	row  int
}

func (r *xlsxRowWriter) CreateCell(index int) (CellWriter, error) {
	cellName, err := excelize.CoordinatesToCellName(index+1, r.row+1)
	if err != nil {
		return nil, err
	}
	return &xlsxCellWriter{f: r.f, name: r.name, cell: cellName}, nil
}

type xlsxCellWriter struct {
	f    *excelize.File
	name string
	cell string
}

func (c *xlsxCellWriter) SetBool(v bool) error {
	return c.f.SetCellBool(c.name, c.cell, v)
}

func (c *xlsxCellWriter) SetString(v string) error {
	return c.f.SetCellStr(c.name, c.cell, v)
}

func (c *xlsxCellWriter) SetInt(v int64) error {
	return c.f.SetCellInt(c.name, c.cell, int(v))
}

func (c *xlsxCellWriter) SetFloat(v float64) error {
	return c.f.SetCellFloat(c.name, c.cell, v, -1, 64)
}

func (c *xlsxCellWriter) SetTime(v time.Time) error {
	return c.f.SetCellValue(c.name, c.cell, v)
}
