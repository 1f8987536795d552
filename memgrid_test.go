package sheetmap

import (
	"time"
)

// In-memory collaborator used across tests: a raw grid for the read
// direction and a capturing writer for the write direction.

type memBook struct {
	name   string
	sheets []NamedSheet
}

func (b *memBook) FileName() string { return b.name }

func (b *memBook) Sheets() ([]NamedSheet, error) { return b.sheets, nil }

type memSheet struct {
	rows [][]RawCell
}

func (s *memSheet) RowCount() int { return len(s.rows) }

func (s *memSheet) Row(index int) (RawRow, bool) {
	if index < 0 || index >= len(s.rows) {
		return nil, false
	}
	return &memRow{cells: s.rows[index]}, true
}

type memRow struct {
	cells []RawCell
}

func (r *memRow) LastCol() int { return len(r.cells) - 1 }

func (r *memRow) Cell(index int) (RawCell, bool) {
	if index < 0 || index >= len(r.cells) {
		return RawCell{}, false
	}
	return r.cells[index], true
}

func rawBlank() RawCell { return RawCell{Kind: RawBlank} }

func rawBool(b bool) RawCell { return RawCell{Kind: RawBool, Bool: b} }

func rawText(s string) RawCell { return RawCell{Kind: RawText, Text: s} }

func rawNum(f float64) RawCell { return RawCell{Kind: RawNumber, Number: f} }

func rawDate(serial float64) RawCell { return RawCell{Kind: RawDate, Number: serial} }

func rawFormula(expr string) RawCell { return RawCell{Kind: RawFormula, Text: expr} }

func rawErr(lit string, code float64) RawCell {
	return RawCell{Kind: RawError, Text: lit, Number: code}
}

// decodeGrid decodes a raw grid into a SheetGrid with the given options (or
// defaults when none given).
func decodeGrid(sheetName string, rows [][]RawCell, opts ...Option) SheetGrid {
	o, err := buildOptions(opts)
	if err != nil {
		panic(err)
	}
	named := NamedSheet{Name: sheetName, Sheet: &memSheet{rows: rows}}
	return DecodeSheet("book.xlsx", named, o)
}

/* ---- write direction ---- */

type memSheetWriter struct {
	rows map[int]map[int]CellValue
}

func newMemSheetWriter() *memSheetWriter {
	return &memSheetWriter{rows: map[int]map[int]CellValue{}}
}

func (w *memSheetWriter) CreateRow(index int) (RowWriter, error) {
	if _, ok := w.rows[index]; !ok {
		w.rows[index] = map[int]CellValue{}
	}
	return &memRowWriter{cells: w.rows[index]}, nil
}

type memRowWriter struct {
	cells map[int]CellValue
}

func (r *memRowWriter) CreateCell(index int) (CellWriter, error) {
	return &memCellWriter{cells: r.cells, col: index}, nil
}

type memCellWriter struct {
	cells map[int]CellValue
	col   int
}

func (c *memCellWriter) SetBool(v bool) error { c.cells[c.col] = Bool(v); return nil }

func (c *memCellWriter) SetString(v string) error { c.cells[c.col] = Text(v); return nil }

func (c *memCellWriter) SetInt(v int64) error { c.cells[c.col] = Int(v); return nil }

func (c *memCellWriter) SetFloat(v float64) error { c.cells[c.col] = Number(v); return nil }

func (c *memCellWriter) SetTime(v time.Time) error {
	c.cells[c.col] = DateTime(v)
	return nil
}

// timeToSerial is the inverse of excelSerialToTime, for write/read round
// trips through the fake.
func timeToSerial(t time.Time) float64 {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return t.UTC().Sub(base).Hours() / 24
}

// rawRows converts the captured writes back into a raw grid, so a written
// table can be decoded and mapified again.
func (w *memSheetWriter) rawRows() [][]RawCell {
	maxRow := -1
	for r := range w.rows {
		if r > maxRow {
			maxRow = r
		}
	}
	out := make([][]RawCell, maxRow+1)
	for r := 0; r <= maxRow; r++ {
		cells := w.rows[r]
		maxCol := -1
		for c := range cells {
			if c > maxCol {
				maxCol = c
			}
		}
		row := make([]RawCell, maxCol+1)
		for c := 0; c <= maxCol; c++ {
			v, ok := cells[c]
			if !ok {
				row[c] = rawBlank()
				continue
			}
			switch v.Kind {
			case KindBool:
				row[c] = rawBool(v.Bool)
			case KindText:
				row[c] = rawText(v.Text)
			case KindInt:
				row[c] = rawNum(float64(v.Int))
			case KindNumber:
				row[c] = rawNum(v.Number)
			case KindDateTime:
				row[c] = rawDate(timeToSerial(v.Time))
			default:
				row[c] = rawBlank()
			}
		}
		out[r] = row
	}
	return out
}
