// Package sheetmap converts raw spreadsheet grids into validated,
// strongly-typed records while preserving provenance: every failure carries
// a precise, human-readable location like "Sheet1:B17".
//
// High-level features:
//
//   - Decode untyped cells into a canonical CellValue union, with a
//     configurable policy for error cells, formula cells and
//     numeric-vs-date/integer ambiguity
//   - Mapify: column-driven validation turning a sheet into ordered records,
//     with row-skipping and irregular trailing columns
//   - Extractor composition for workbooks whose layout is not tabular
//   - A symmetric export path writing records back out, and an
//     excelize-backed collaborator for xlsx files
//
// For full control, combine OpenFile/Decode/Mapify yourself; for the common
// case use ReadFile / Read and WriteFile / WriteTo.
package sheetmap

import "io"

/* =========================================================
 *  Public API: Read / Write
 * ========================================================= */

// resolveSheet picks the sheet selected by the options, by name first and
// 0-based index otherwise.
func resolveSheet(book *Book, o *Options) (SheetGrid, error) {
	if o.SheetName != "" {
		sheet, ok := book.SheetNamed(o.SheetName)
		if !ok {
			return SheetGrid{}, newError(InvalidOptions, book.Origin, nil,
				"no sheet named %q", o.SheetName)
		}
		return sheet, nil
	}
	if len(book.Sheets) == 0 {
		return SheetGrid{}, newError(InvalidOptions, book.Origin, nil, "workbook has no sheets")
	}
	if o.SheetIndex < 0 || o.SheetIndex >= len(book.Sheets) {
		return SheetGrid{}, newError(InvalidOptions, book.Origin, nil,
			"sheet index %d out of range", o.SheetIndex)
	}
	return book.Sheets[o.SheetIndex], nil
}

// mapifyWorkbook decodes the workbook and mapifies the selected sheet.
func mapifyWorkbook(wb Workbook, spec *ColumnSpec, opts []Option) ([]Record, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	book, err := Decode(wb, opts...)
	if err != nil {
		return nil, err
	}
	sheet, err := resolveSheet(book, o)
	if err != nil {
		return nil, err
	}
	records, err := Mapify(sheet, spec, opts...)
	if err != nil {
		return nil, err
	}
	return records.Unwrap(), nil
}

// ReadFile loads an xlsx file and mapifies the selected sheet into records.
// The workbook is closed before returning, whether the load succeeded or
// failed.
func ReadFile(path string, spec *ColumnSpec, opts ...Option) ([]Record, error) {
	wb, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return mapifyWorkbook(wb, spec, opts)
}

// Read loads an xlsx workbook from r (e.g. an HTTP upload) and mapifies the
// selected sheet into records.
func Read(r io.Reader, spec *ColumnSpec, opts ...Option) ([]Record, error) {
	wb, err := OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return mapifyWorkbook(wb, spec, opts)
}

// writeWorkbook builds a new workbook holding one table.
func writeWorkbook(records []Record, spec *ColumnSpec, titles []string, opts []Option) (*XLSXWorkbook, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	name := o.SheetName
	if name == "" {
		name = "Sheet1"
	}

	wb := NewXLSX()
	sw, err := wb.SheetWriter(name)
	if err != nil {
		wb.Close()
		return nil, err
	}
	if err := WriteTable(sw, records, spec, titles); err != nil {
		wb.Close()
		return nil, err
	}
	return wb, nil
}

// WriteFile writes records as a table (optionally preceded by a title row)
// into a new xlsx file at path.
func WriteFile(path string, records []Record, spec *ColumnSpec, titles []string, opts ...Option) error {
	wb, err := writeWorkbook(records, spec, titles, opts)
	if err != nil {
		return err
	}
	defer wb.Close()

	return wb.SaveAs(path)
}

// WriteTo writes records as a table into a new xlsx workbook streamed to w.
func WriteTo(w io.Writer, records []Record, spec *ColumnSpec, titles []string, opts ...Option) error {
	wb, err := writeWorkbook(records, spec, titles, opts)
	if err != nil {
		return err
	}
	defer wb.Close()

	return wb.SaveTo(w)
}
