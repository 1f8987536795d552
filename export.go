package sheetmap

import (
	"fmt"
	"time"
)

/* =========================================================
 *  Export Path
 * ========================================================= */

// FormatValue is the default Formatter: it converts plain Go values (and
// CellValues) into cell values by type. nil becomes Empty; integral kinds
// stay integers so a mapify/write round trip is lossless.
func FormatValue(v any) (CellValue, error) {
	switch x := v.(type) {
	case nil:
		return Empty(), nil
	case CellValue:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case time.Time:
		return DateTime(x), nil
	}
	return CellValue{}, fmt.Errorf("cannot format %T as a cell value", v)
}

// exportTime prepares a date-time for the collaborator writer. Date-only
// values (midnight UTC) convert to UTC instants at local noon, a documented
// approximation that keeps the calendar date stable across common timezones
// rather than true timezone handling.
func exportTime(t time.Time) time.Time {
	u := t.UTC()
	h, m, s := u.Clock()
	if h == 0 && m == 0 && s == 0 && u.Nanosecond() == 0 {
		y, mo, d := u.Date()
		return time.Date(y, mo, d, 12, 0, 0, 0, time.Local).UTC()
	}
	return u
}

// writeCell dispatches one value onto the matching cell-write operation.
// Empty writes nothing, leaving the created cell blank.
func writeCell(cw CellWriter, v CellValue) error {
	switch v.Kind {
	case KindEmpty:
		return nil
	case KindBool:
		return cw.SetBool(v.Bool)
	case KindText:
		return cw.SetString(v.Text)
	case KindInt:
		return cw.SetInt(v.Int)
	case KindNumber:
		return cw.SetFloat(v.Number)
	case KindDateTime:
		return cw.SetTime(exportTime(v.Time))
	case KindFailure:
		return fmt.Errorf("cannot write failure cell: %w", v.Err)
	}
	return fmt.Errorf("cannot write cell of kind %v", v.Kind)
}

// WriteRow writes each value to a newly created cell at increasing column
// index.
func WriteRow(rw RowWriter, values []CellValue) error {
	for i, v := range values {
		if err := writeValueAt(rw, i, v); err != nil {
			return err
		}
	}
	return nil
}

func writeValueAt(rw RowWriter, col int, v CellValue) error {
	if v.IsEmpty() {
		return nil
	}
	cw, err := rw.CreateCell(col)
	if err != nil {
		return err
	}
	return writeCell(cw, v)
}

// WriteRecord writes one record as a row: for each key in the ordering the
// column's formatter (FormatValue when none is configured) renders the
// record's field; when a rest spec is configured the record's rest sequence
// follows, continuing the column index.
func WriteRecord(rw RowWriter, rec Record, spec *ColumnSpec) error {
	col := 0
	for _, key := range spec.Ordering {
		v, err := formatField(spec, key, rec[key])
		if err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		if err := writeValueAt(rw, col, v); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		col++
	}

	if spec.Rest == nil {
		return nil
	}
	rest, ok := rec[RestKey]
	if !ok {
		return nil
	}
	tail, ok := rest.([]any)
	if !ok {
		return fmt.Errorf("rest value is %T, want []any", rest)
	}
	for _, item := range tail {
		v, err := formatField(spec, RestKey, item)
		if err != nil {
			return fmt.Errorf("rest column %d: %w", col, err)
		}
		if err := writeValueAt(rw, col, v); err != nil {
			return fmt.Errorf("rest column %d: %w", col, err)
		}
		col++
	}
	return nil
}

func formatField(spec *ColumnSpec, key string, v any) (CellValue, error) {
	if f, ok := spec.Formatters[key]; ok && f != nil {
		return f(v)
	}
	return FormatValue(v)
}

// WriteTable writes an optional title row followed by one row per record, in
// sequence order. titles, when non-nil, land on row 0 as text cells and the
// records start on row 1.
func WriteTable(sw SheetWriter, records []Record, spec *ColumnSpec, titles []string) error {
	if err := spec.validate(nil); err != nil {
		return err
	}

	rowIdx := 0
	if titles != nil {
		rw, err := sw.CreateRow(rowIdx)
		if err != nil {
			return err
		}
		cells := make([]CellValue, len(titles))
		for i, t := range titles {
			cells[i] = Text(t)
		}
		if err := WriteRow(rw, cells); err != nil {
			return err
		}
		rowIdx++
	}

	for _, rec := range records {
		rw, err := sw.CreateRow(rowIdx)
		if err != nil {
			return err
		}
		if err := WriteRecord(rw, rec, spec); err != nil {
			return fmt.Errorf("row %d: %w", rowIdx+1, err)
		}
		rowIdx++
	}
	return nil
}
