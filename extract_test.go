package sheetmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractBook(t *testing.T) *Book {
	t.Helper()
	wb := &memBook{
		name: "book.xlsx",
		sheets: []NamedSheet{
			{Name: "Data", Sheet: &memSheet{rows: [][]RawCell{
				{rawText("title")},
				{rawNum(1), rawText("Ann")},
				{rawNum(2), rawText("Bob")},
			}}},
		},
	}
	book, err := Decode(wb)
	require.NoError(t, err)
	return book
}

func TestReadPosition(t *testing.T) {
	book := extractBook(t)

	cell, ok := ReadPosition(book, Position{Sheet: 0, Row: 1, Col: 1})
	require.True(t, ok)
	assert.Equal(t, Text("Ann"), cell.Value)
	assert.Equal(t, "Data:B2", cell.Origin.String())

	// Past the end of sheet, row or column sequence: no value, no panic.
	_, ok = ReadPosition(book, Position{Sheet: 1})
	assert.False(t, ok)
	_, ok = ReadPosition(book, Position{Row: 3})
	assert.False(t, ok)
	_, ok = ReadPosition(book, Position{Row: 0, Col: 5})
	assert.False(t, ok)
	_, ok = ReadPosition(book, Position{Row: -1})
	assert.False(t, ok)
}

func TestApplyExtractors(t *testing.T) {
	book := extractBook(t)

	skipTitle := Extractor{
		Name: "skip-title",
		Run: func(_ *Book, s ExtractorState) (ExtractorState, error) {
			return UpdateState(s, Found, nil, ToRow(1)), nil
		},
	}
	readName := Extractor{
		Name: "read-name",
		Run: func(b *Book, s ExtractorState) (ExtractorState, error) {
			cell, ok := ReadPosition(b, Position{Sheet: s.Position.Sheet, Row: s.Position.Row, Col: 1})
			if !ok {
				return s, nil
			}
			return UpdateState(s, Found, PutData("name", cell.Value.Text), ByRows(1)), nil
		},
	}

	state, err := ApplyExtractors([]Extractor{skipTitle, readName}, book, NewState())
	require.NoError(t, err)
	assert.Equal(t, Found, state.Message)
	assert.Equal(t, 2, state.Position.Row)
	assert.Equal(t, "Ann", state.Data["name"])
}

func TestApplyExtractorsProtocolError(t *testing.T) {
	book := extractBook(t)

	first := Extractor{
		Name: "first",
		Run: func(_ *Book, s ExtractorState) (ExtractorState, error) {
			return UpdateState(s, Found, PutData("seen", true), ToRow(1)), nil
		},
	}
	second := Extractor{
		Name: "second",
		Run: func(_ *Book, s ExtractorState) (ExtractorState, error) {
			return UpdateState(s, "not-found", nil), nil
		},
	}

	_, err := ApplyExtractors([]Extractor{first, second}, book, NewState())
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "second", perr.Extractor)
	assert.Equal(t, Signal("not-found"), perr.State.Message)
	// The first extractor's state mutation is observable in the payload.
	assert.Equal(t, true, perr.State.Data["seen"])
	assert.Equal(t, 1, perr.State.Position.Row)
}

func TestApplyExtractorsRejectsUnsetSignal(t *testing.T) {
	book := extractBook(t)

	lazy := Extractor{
		Run: func(_ *Book, s ExtractorState) (ExtractorState, error) {
			return s, nil // forgot to signal
		},
	}

	_, err := ApplyExtractors([]Extractor{lazy}, book, NewState())
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "extractor[0]", perr.Extractor)
}

func TestExtractorLoop(t *testing.T) {
	book := extractBook(t)

	// An extractor invoking another extractor is the looping construct:
	// read a name, advance the row, repeat until past the last row.
	readOne := Extractor{
		Name: "read-one",
		Run: func(b *Book, s ExtractorState) (ExtractorState, error) {
			cell, ok := ReadPosition(b, s.Position)
			if !ok {
				return UpdateState(s, Found, PutData("done", true)), nil
			}
			names, _ := s.Data["names"].([]string)
			return UpdateState(s, Found,
				PutData("names", append(names, cell.Value.Text)),
				ByRows(1)), nil
		},
	}
	readAll := Extractor{
		Name: "read-all",
		Run: func(b *Book, s ExtractorState) (ExtractorState, error) {
			for {
				next, err := readOne.Run(b, s)
				if err != nil {
					return s, err
				}
				s = next
				if done, _ := s.Data["done"].(bool); done {
					return s, nil
				}
			}
		},
	}

	state, err := ApplyExtractors([]Extractor{readAll}, book,
		UpdateState(NewState(), Found, nil, ToRow(1), ToCol(1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bob"}, state.Data["names"])
}

func TestUpdateStateValueSemantics(t *testing.T) {
	orig := UpdateState(NewState(), Found, PutData("k", 1))
	next := UpdateState(orig, Found, PutData("k", 2), ByRows(3), ByCols(1))

	assert.Equal(t, 1, orig.Data["k"])
	assert.Equal(t, 2, next.Data["k"])
	assert.Equal(t, Position{}, orig.Position)
	assert.Equal(t, Position{Row: 3, Col: 1}, next.Position)
}
