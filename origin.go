package sheetmap

import (
	"fmt"
	"strings"
)

/* =========================================================
 *  Provenance: Origin & Located
 * ========================================================= */

// OriginKind identifies the kind of source a value was read from.
type OriginKind int

const (
	// OriginSpreadsheet is the only kind currently produced: a cell, row,
	// sheet or workbook inside a spreadsheet file.
	OriginSpreadsheet OriginKind = iota
)

// Granularity records which traversal level produced a value.
type Granularity int

const (
	GranularityCell Granularity = iota
	GranularityRow
	GranularitySheet
	GranularityWorkbook
)

// UnknownIndex marks a row or column index that has not been resolved yet.
const UnknownIndex = -1

// Origin describes where a value came from. It is created at decode time and
// only ever copied or coarsened, never mutated in place. Origins exist purely
// for diagnostics: every error raised while processing a located value must
// carry one.
type Origin struct {
	Kind      OriginKind
	FileName  string
	SheetName string      // empty until resolved
	Row       int         // 0-based; UnknownIndex if not applicable
	Col       int         // 0-based; UnknownIndex if not applicable
	Level     Granularity // traversal level that produced the value
}

// CellOrigin returns a cell-granularity Origin.
func CellOrigin(fileName, sheetName string, row, col int) *Origin {
	return &Origin{
		Kind:      OriginSpreadsheet,
		FileName:  fileName,
		SheetName: sheetName,
		Row:       row,
		Col:       col,
		Level:     GranularityCell,
	}
}

// RowOrigin returns a row-granularity Origin (column unknown).
func RowOrigin(fileName, sheetName string, row int) *Origin {
	return &Origin{
		Kind:      OriginSpreadsheet,
		FileName:  fileName,
		SheetName: sheetName,
		Row:       row,
		Col:       UnknownIndex,
		Level:     GranularityRow,
	}
}

// SheetOrigin returns a sheet-granularity Origin.
func SheetOrigin(fileName, sheetName string) *Origin {
	return &Origin{
		Kind:      OriginSpreadsheet,
		FileName:  fileName,
		SheetName: sheetName,
		Row:       UnknownIndex,
		Col:       UnknownIndex,
		Level:     GranularitySheet,
	}
}

// WorkbookOrigin returns a workbook-granularity Origin.
func WorkbookOrigin(fileName string) *Origin {
	return &Origin{
		Kind:     OriginSpreadsheet,
		FileName: fileName,
		Row:      UnknownIndex,
		Col:      UnknownIndex,
		Level:    GranularityWorkbook,
	}
}

// Coarsen returns a copy of o widened to the given granularity: row-level
// origins forget the column, sheet-level origins forget row and column,
// workbook-level origins keep only the file name.
func (o *Origin) Coarsen(level Granularity) *Origin {
	if o == nil {
		return nil
	}
	c := *o
	c.Level = level
	switch level {
	case GranularityRow:
		c.Col = UnknownIndex
	case GranularitySheet:
		c.Row = UnknownIndex
		c.Col = UnknownIndex
	case GranularityWorkbook:
		c.SheetName = ""
		c.Row = UnknownIndex
		c.Col = UnknownIndex
	}
	return &c
}

// String renders spreadsheet-style coordinates, e.g. "Sheet1:B17".
// Row renders 1-based, the column as base-26 letters, an unknown column as
// "_". A nil Origin renders as the empty string.
func (o *Origin) String() string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	if o.SheetName != "" {
		b.WriteString(o.SheetName)
	} else if o.FileName != "" {
		b.WriteString(o.FileName)
	}
	if o.Row == UnknownIndex && o.Col == UnknownIndex {
		return b.String()
	}
	b.WriteString(":")
	b.WriteString(ColLetter(o.Col))
	if o.Row != UnknownIndex {
		fmt.Fprintf(&b, "%d", o.Row+1)
	}
	return b.String()
}

// ColLetter converts a 0-based column index to spreadsheet column letters:
// 0 -> "A", 25 -> "Z", 26 -> "AA". Negative (unknown) indices render as "_".
func ColLetter(idx int) string {
	if idx < 0 {
		return "_"
	}
	n := idx + 1
	var result []byte
	for n > 0 {
		n--
		r := 'A' + (n % 26)
		result = append([]byte{byte(r)}, result...)
		n /= 26
	}
	return string(result)
}

// ColIndex converts column letters ("A", "B", ... "AA") to a 0-based index.
// Returns UnknownIndex for anything that is not a pure letter string.
func ColIndex(s string) int {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return UnknownIndex
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			return UnknownIndex
		}
		n = n*26 + int(c-'A'+1)
	}
	return n - 1
}

// Located pairs a value with the Origin it was read from. Everything flowing
// through the decoder, normalizer and mapify engine is wrapped in Located;
// unwrapping discards the origin and should only happen at the boundary where
// a value is handed to application code or to the cell writer.
type Located[T any] struct {
	Value  T
	Origin *Origin
}

// Locate wraps a value with its origin.
func Locate[T any](v T, o *Origin) Located[T] {
	return Located[T]{Value: v, Origin: o}
}

// Unwrap returns the bare value, discarding provenance.
func (l Located[T]) Unwrap() T { return l.Value }
