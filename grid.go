package sheetmap

import "time"

/* =========================================================
 *  Collaborator Contract (raw grid I/O)
 * ========================================================= */

// RawKind is the type tag a collaborator reports for one raw cell.
type RawKind int

const (
	RawBlank RawKind = iota
	RawBool
	RawText
	RawNumber
	RawDate // numeric cell carrying a date-formatted serial
	RawFormula
	RawError
)

// RawCell is one untyped cell as reported by the collaborator. Kind selects
// which of the value fields is meaningful: Bool for RawBool, Text for
// RawText/RawFormula/RawError (the error literal), Number for
// RawNumber/RawDate (the serial) and RawError (the numeric error code).
type RawCell struct {
	Kind   RawKind
	Bool   bool
	Text   string
	Number float64
}

// Workbook is the read-direction collaborator: an ordered set of named
// sheets backed by some external file reader.
type Workbook interface {
	// FileName identifies the workbook for provenance.
	FileName() string
	// Sheets returns the workbook's sheets in file order.
	Sheets() ([]NamedSheet, error)
}

// NamedSheet pairs a sheet with its name.
type NamedSheet struct {
	Name  string
	Sheet RawSheet
}

// RawSheet exposes ordered row access.
type RawSheet interface {
	RowCount() int
	// Row returns the row at index, or ok=false past the end.
	Row(index int) (RawRow, bool)
}

// RawRow exposes ordered cell access.
type RawRow interface {
	// LastCol is the last populated column index, or UnknownIndex for an
	// empty row.
	LastCol() int
	// Cell returns the raw cell at index, or ok=false past LastCol.
	Cell(index int) (RawCell, bool)
}

// SheetWriter is the write-direction collaborator: rows are created at
// increasing indices and filled cell by cell.
type SheetWriter interface {
	CreateRow(index int) (RowWriter, error)
}

// RowWriter creates cells within one row.
type RowWriter interface {
	CreateCell(index int) (CellWriter, error)
}

// CellWriter sets a newly created cell's content, one method per CellValue
// variant the export path produces.
type CellWriter interface {
	SetBool(v bool) error
	SetString(v string) error
	SetInt(v int64) error
	SetFloat(v float64) error
	SetTime(v time.Time) error
}

/* =========================================================
 *  Decoded Grid
 * ========================================================= */

// SheetGrid is one fully decoded sheet: ordered rows of located cell values,
// tagged with a sheet-granularity Origin.
type SheetGrid struct {
	Name   string
	Rows   [][]Located[CellValue]
	Origin *Origin
}

// Book is a fully decoded workbook, tagged with a workbook-granularity
// Origin. Sheets keep their file order.
type Book struct {
	FileName string
	Sheets   []SheetGrid
	Origin   *Origin
}

// SheetNamed returns the sheet with the given name.
func (b *Book) SheetNamed(name string) (SheetGrid, bool) {
	for _, s := range b.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetGrid{}, false
}

// DecodeRow decodes one raw row into located cell values, attaching a
// cell-granularity Origin to each.
func DecodeRow(fileName, sheetName string, rowIdx int, row RawRow, o *Options) []Located[CellValue] {
	last := row.LastCol()
	if last < 0 {
		return nil
	}
	cells := make([]Located[CellValue], 0, last+1)
	for col := 0; col <= last; col++ {
		origin := CellOrigin(fileName, sheetName, rowIdx, col)
		raw, ok := row.Cell(col)
		if !ok {
			cells = append(cells, Locate(Empty(), origin))
			continue
		}
		cells = append(cells, DecodeCell(origin, raw, o))
	}
	return cells
}

// DecodeSheet decodes every row of a raw sheet in order.
func DecodeSheet(fileName string, named NamedSheet, o *Options) SheetGrid {
	count := named.Sheet.RowCount()
	rows := make([][]Located[CellValue], 0, count)
	for i := 0; i < count; i++ {
		row, ok := named.Sheet.Row(i)
		if !ok {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, DecodeRow(fileName, named.Name, i, row, o))
	}
	return SheetGrid{
		Name:   named.Name,
		Rows:   rows,
		Origin: SheetOrigin(fileName, named.Name),
	}
}

// Decode walks a collaborator workbook and decodes every sheet. Ambiguous
// cells (errors, formulas, numeric-vs-date, numeric-vs-integer) resolve per
// the configured policy; strict-mode failures are embedded in the grid and
// surface when consumed.
func Decode(wb Workbook, opts ...Option) (*Book, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	named, err := wb.Sheets()
	if err != nil {
		return nil, err
	}
	fileName := wb.FileName()
	book := &Book{
		FileName: fileName,
		Sheets:   make([]SheetGrid, 0, len(named)),
		Origin:   WorkbookOrigin(fileName),
	}
	for _, ns := range named {
		book.Sheets = append(book.Sheets, DecodeSheet(fileName, ns, o))
	}
	return book, nil
}

/* =========================================================
 *  Grid Normalizer
 * ========================================================= */

// IsBlankRow reports whether the row is empty or every cell decoded to
// Empty. Embedded failures count as content so trimming never hides them.
func IsBlankRow(row []Located[CellValue]) bool {
	for _, cell := range row {
		if !cell.Value.IsEmpty() {
			return false
		}
	}
	return true
}

// TrimTrailing drops elements from the end of seq while pred holds,
// preserving the retained prefix in order. It never mutates seq and is
// idempotent.
func TrimTrailing[T any](pred func(T) bool, seq []T) []T {
	end := len(seq)
	for end > 0 && pred(seq[end-1]) {
		end--
	}
	return seq[:end]
}

// trimBlankRows strips trailing blank rows from a sheet so ragged input does
// not produce spurious records.
func trimBlankRows(rows [][]Located[CellValue]) [][]Located[CellValue] {
	return TrimTrailing(IsBlankRow, rows)
}

// trimBlankCells strips trailing blank cells from a row so short rows
// validate against synthesized Empty cells instead of failing on length.
func trimBlankCells(cells []Located[CellValue]) []Located[CellValue] {
	return TrimTrailing(func(c Located[CellValue]) bool { return c.Value.IsEmpty() }, cells)
}

// unwrapRow discards provenance from a whole row, for skip checkers.
func unwrapRow(cells []Located[CellValue]) []CellValue {
	out := make([]CellValue, len(cells))
	for i, c := range cells {
		out[i] = c.Value
	}
	return out
}
