package sheetmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimTrailing(t *testing.T) {
	isZero := func(n int) bool { return n == 0 }

	assert.Equal(t, []int{1, 0, 2}, TrimTrailing(isZero, []int{1, 0, 2, 0, 0}))
	assert.Empty(t, TrimTrailing(isZero, []int{0, 0}))
	assert.Empty(t, TrimTrailing(isZero, nil))
	assert.Equal(t, []int{3}, TrimTrailing(isZero, []int{3}))
}

func TestTrimTrailingIdempotent(t *testing.T) {
	isZero := func(n int) bool { return n == 0 }
	seq := []int{5, 0, 7, 0, 0, 0}

	once := TrimTrailing(isZero, seq)
	twice := TrimTrailing(isZero, once)
	assert.Equal(t, once, twice)

	// The input is never mutated.
	assert.Equal(t, []int{5, 0, 7, 0, 0, 0}, seq)
}

func TestIsBlankRow(t *testing.T) {
	o := defaultOptions(t)
	origin := CellOrigin("b", "S", 0, 0)

	assert.True(t, IsBlankRow(nil))
	assert.True(t, IsBlankRow([]Located[CellValue]{
		Locate(Empty(), origin),
		Locate(Empty(), origin),
	}))
	assert.False(t, IsBlankRow([]Located[CellValue]{
		Locate(Empty(), origin),
		Locate(Text("x"), origin),
	}))

	// Embedded failures count as content so trimming never hides them.
	failed := DecodeCell(origin, rawErr("#N/A", 42), o)
	assert.False(t, IsBlankRow([]Located[CellValue]{failed}))
}

func TestDecodeSheetOrigins(t *testing.T) {
	grid := decodeGrid("Sheet1", [][]RawCell{
		{rawText("id"), rawText("name")},
		{rawNum(1), rawText("Ann")},
	})

	require.Len(t, grid.Rows, 2)
	require.Equal(t, "Sheet1", grid.Name)
	require.NotNil(t, grid.Origin)
	assert.Equal(t, GranularitySheet, grid.Origin.Level)

	cell := grid.Rows[1][1]
	require.NotNil(t, cell.Origin)
	assert.Equal(t, "Sheet1:B2", cell.Origin.String())
	assert.Equal(t, GranularityCell, cell.Origin.Level)
	assert.Equal(t, 1, cell.Origin.Row)
	assert.Equal(t, 1, cell.Origin.Col)
}

func TestDecodeWorkbook(t *testing.T) {
	wb := &memBook{
		name: "book.xlsx",
		sheets: []NamedSheet{
			{Name: "First", Sheet: &memSheet{rows: [][]RawCell{{rawText("a")}}}},
			{Name: "Second", Sheet: &memSheet{rows: nil}},
		},
	}

	book, err := Decode(wb)
	require.NoError(t, err)
	require.Len(t, book.Sheets, 2)
	assert.Equal(t, "First", book.Sheets[0].Name)
	assert.Equal(t, "Second", book.Sheets[1].Name)
	assert.Equal(t, GranularityWorkbook, book.Origin.Level)

	_, ok := book.SheetNamed("Second")
	assert.True(t, ok)
	_, ok = book.SheetNamed("Third")
	assert.False(t, ok)
}

func TestDecodeRowSynthesizesEmptyForMissingCells(t *testing.T) {
	o := defaultOptions(t)

	// A row whose collaborator reports cells missing below LastCol.
	row := &gappyRow{last: 2}
	cells := DecodeRow("b.xlsx", "S", 0, row, o)
	require.Len(t, cells, 3)
	assert.True(t, cells[1].Value.IsEmpty())
	assert.Equal(t, "S:B1", cells[1].Origin.String())
}

type gappyRow struct{ last int }

func (r *gappyRow) LastCol() int { return r.last }

func (r *gappyRow) Cell(index int) (RawCell, bool) {
	if index == 1 {
		return RawCell{}, false
	}
	return rawText("x"), true
}
