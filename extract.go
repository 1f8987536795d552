package sheetmap

import (
	"fmt"
	"maps"
)

/* =========================================================
 *  Extractor Composition
 * ========================================================= */

// Signal is the success-signaling channel of the extractor protocol.
type Signal string

// Found is the sentinel every extractor must set on its returned state;
// anything else fails the composition. The zero Signal is deliberately not
// Found so an extractor that forgets to signal is caught.
const Found Signal = "found"

// Position is a cursor into a decoded workbook: sheet, row and column
// indices, all 0-based.
type Position struct {
	Sheet int
	Row   int
	Col   int
}

// Data is the accumulator extractors thread through a traversal.
type Data map[string]any

// ExtractorState is the value-semantics state threaded through an extractor
// chain. Each extractor receives the previous state and produces a new one;
// nothing is shared or mutated in place.
type ExtractorState struct {
	Position Position
	Data     Data
	Message  Signal
}

// NewState returns an initial state positioned at the workbook origin with
// an empty accumulator and an unset message.
func NewState() ExtractorState {
	return ExtractorState{Data: Data{}}
}

// Extractor is a composable unit of stateful positional traversal over a
// decoded (non-mapified) grid. The Name is used in protocol failures; Run
// may invoke other extractors internally, which is how repetition over
// irregular regions is expressed.
type Extractor struct {
	Name string
	Run  func(book *Book, state ExtractorState) (ExtractorState, error)
}

// ReadPosition returns the decoded cell under pos, or ok=false when the
// position is past the end of the sheet, row or column sequence. Extractors
// detect "no more rows" through the ok result rather than a length query.
func ReadPosition(book *Book, pos Position) (Located[CellValue], bool) {
	if pos.Sheet < 0 || pos.Sheet >= len(book.Sheets) {
		return Located[CellValue]{}, false
	}
	sheet := book.Sheets[pos.Sheet]
	if pos.Row < 0 || pos.Row >= len(sheet.Rows) {
		return Located[CellValue]{}, false
	}
	row := sheet.Rows[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return Located[CellValue]{}, false
	}
	return row[pos.Col], true
}

// ApplyExtractors runs each extractor in order, feeding each the workbook
// and the previous extractor's output state. After every call the returned
// state's message must be Found; any other value fails the whole composition
// with a ProtocolError naming the offending extractor and preserving its
// returned state. This is a hard failure on purpose: an extractor that
// forgot to signal would otherwise silently propagate incomplete state.
func ApplyExtractors(extractors []Extractor, book *Book, state ExtractorState) (ExtractorState, error) {
	for i, ex := range extractors {
		next, err := ex.Run(book, state)
		if err != nil {
			return state, err
		}
		if next.Message != Found {
			return state, &ProtocolError{Extractor: extractorName(ex, i), State: next}
		}
		state = next
	}
	return state, nil
}

func extractorName(ex Extractor, i int) string {
	if ex.Name != "" {
		return ex.Name
	}
	return fmt.Sprintf("extractor[%d]", i)
}

/* =========================================================
 *  State Updates
 * ========================================================= */

// Move partially updates a position; unset coordinates keep their value.
type Move func(*Position)

// ToSheet sets the sheet index.
func ToSheet(i int) Move { return func(p *Position) { p.Sheet = i } }

// ToRow sets the row index.
func ToRow(i int) Move { return func(p *Position) { p.Row = i } }

// ToCol sets the column index.
func ToCol(i int) Move { return func(p *Position) { p.Col = i } }

// ByRows advances the row index by n (may be negative).
func ByRows(n int) Move { return func(p *Position) { p.Row += n } }

// ByCols advances the column index by n (may be negative).
func ByCols(n int) Move { return func(p *Position) { p.Col += n } }

// DataFunc transforms the accumulated data map. It receives a private copy
// and may mutate it freely.
type DataFunc func(Data) Data

// PutData returns a DataFunc storing one key.
func PutData(key string, value any) DataFunc {
	return func(d Data) Data {
		d[key] = value
		return d
	}
}

// UpdateState is the idiomatic way an extractor body produces its return
// value: moves merge into the current position, message replaces the signal,
// and transform runs over a copy of the accumulated data. A nil transform
// keeps the data unchanged.
func UpdateState(state ExtractorState, message Signal, transform DataFunc, moves ...Move) ExtractorState {
	next := state
	for _, move := range moves {
		move(&next.Position)
	}
	next.Message = message
	next.Data = maps.Clone(state.Data)
	if next.Data == nil {
		next.Data = Data{}
	}
	if transform != nil {
		next.Data = transform(next.Data)
	}
	return next
}
