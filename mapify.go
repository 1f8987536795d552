package sheetmap

/* =========================================================
 *  Validation Engine (Mapify)
 * ========================================================= */

// RestKey is the reserved record key holding the validated tail of columns
// beyond a ColumnSpec's ordering. Orderings may not use it as a column key.
const RestKey = "rest"

// Record is one validated row, keyed by column key (plus RestKey when rest
// columns are configured and present).
type Record map[string]any

// Validator checks and transforms one located cell value. The returned value
// becomes the record's field; the origin is available for building precise
// failures. Errors that are not already located get wrapped with the cell's
// Origin by the engine.
type Validator func(cell Located[CellValue]) (any, error)

// SkipChecker is a predicate over an unwrapped row. If any checker returns
// true the row is dropped silently before mapping; this is the only
// sanctioned way to ignore a row (separators, comments).
type SkipChecker func(row []CellValue) bool

// Formatter turns a record field back into a cell value for the write
// direction. When a column has no formatter, FormatValue is used.
type Formatter func(v any) (CellValue, error)

// RestSpec validates columns beyond the ordering's length: Cell runs on each
// extra cell individually, then All on the collected sequence as a whole
// (e.g. enforcing a minimum count). A nil All keeps the sequence as-is.
type RestSpec struct {
	Cell Validator
	All  func(values []any) (any, error)
}

// ColumnSpec drives record construction: Ordering defines the expected
// column keys and their left-to-right positions, Validators supplies one
// validator per key. Instances are treated as immutable configuration for
// the duration of a Mapify or WriteTable call.
type ColumnSpec struct {
	Ordering     []string
	Validators   map[string]Validator
	SkipCheckers []SkipChecker
	Rest         *RestSpec

	// Formatters is the write-direction counterpart of Validators; optional,
	// keyed by column key (RestKey for the tail).
	Formatters map[string]Formatter
}

// validate checks the structural invariant before any row is processed:
// ordering keys must be distinct, must not claim the reserved rest key, and
// every key must have a validator.
func (c *ColumnSpec) validate(origin *Origin) error {
	if c == nil {
		return newError(InvalidColumnSpec, origin, nil, "nil column spec")
	}
	seen := make(map[string]struct{}, len(c.Ordering))
	for _, key := range c.Ordering {
		if key == RestKey {
			return newError(InvalidColumnSpec, origin, nil,
				"ordering uses reserved key %q", RestKey)
		}
		if _, dup := seen[key]; dup {
			return newError(InvalidColumnSpec, origin, nil,
				"duplicate ordering key %q", key)
		}
		seen[key] = struct{}{}
		if _, ok := c.Validators[key]; !ok {
			return newError(InvalidColumnSpec, origin, nil,
				"ordering key %q has no validator", key)
		}
	}
	return nil
}

// Mapify turns a decoded sheet into an ordered sequence of validated
// records, or reports exactly where it failed.
//
// Unless KeepTitles is set the physically-first row is dropped
// unconditionally as the header. Trailing blank rows are trimmed, rows
// matching a skip checker are dropped silently, and every surviving row is
// mapped through the column spec: missing trailing cells validate against a
// synthesized Empty cell, extra cells go through the rest spec when one is
// configured and are ignored otherwise.
//
// Processing stops at the first failing cell or row. A row failure is
// wrapped as FailedRowMapify with the row's Origin, then as
// FailedSheetMapify with the sheet's Origin, so callers get both the precise
// location and the failing sheet without losing the original cause. Row and
// column order of the output is exactly the input order.
func Mapify(sheet SheetGrid, spec *ColumnSpec, opts ...Option) (Located[[]Record], error) {
	var none Located[[]Record]

	o, err := buildOptions(opts)
	if err != nil {
		return none, err
	}
	if err := spec.validate(sheet.Origin); err != nil {
		return none, err
	}

	rows := sheet.Rows
	offset := 0
	if !o.KeepTitles && len(rows) > 0 {
		rows = rows[1:]
		offset = 1
	}
	rows = trimBlankRows(rows)

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if skipRow(spec, row) {
			continue
		}
		rowIdx := i + offset
		rec, err := mapRow(sheet, rowIdx, row, spec)
		if err != nil {
			rowErr := newError(FailedRowMapify,
				RowOrigin(originFile(sheet.Origin), sheet.Name, rowIdx),
				err, "row %d failed", rowIdx+1)
			return none, newError(FailedSheetMapify, sheet.Origin, rowErr,
				"sheet %s failed", sheet.Name)
		}
		records = append(records, rec)
	}

	return Locate(records, sheet.Origin), nil
}

func originFile(o *Origin) string {
	if o == nil {
		return ""
	}
	return o.FileName
}

func skipRow(spec *ColumnSpec, row []Located[CellValue]) bool {
	if len(spec.SkipCheckers) == 0 {
		return false
	}
	unwrapped := unwrapRow(row)
	for _, check := range spec.SkipCheckers {
		if check(unwrapped) {
			return true
		}
	}
	return false
}

// mapRow builds one record from one row. First failure wins.
func mapRow(sheet SheetGrid, rowIdx int, row []Located[CellValue], spec *ColumnSpec) (Record, error) {
	cells := trimBlankCells(row)
	rec := make(Record, len(spec.Ordering)+1)

	for i, key := range spec.Ordering {
		cell := cellAt(sheet, rowIdx, cells, i)
		value, err := applyValidator(spec.Validators[key], cell)
		if err != nil {
			return nil, err
		}
		rec[key] = value
	}

	if spec.Rest != nil {
		var tail []Located[CellValue]
		if len(cells) > len(spec.Ordering) {
			tail = trimBlankCells(cells[len(spec.Ordering):])
		}
		values := make([]any, 0, len(tail))
		for _, cell := range tail {
			value, err := applyValidator(spec.Rest.Cell, cell)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		if spec.Rest.All != nil {
			all, err := spec.Rest.All(values)
			if err != nil {
				return nil, locateError(err, RowOrigin(originFile(sheet.Origin), sheet.Name, rowIdx))
			}
			rec[RestKey] = all
		} else {
			rec[RestKey] = values
		}
	}

	return rec, nil
}

// cellAt returns the cell at position i, synthesizing a located Empty for
// missing trailing columns so short rows validate instead of crashing.
func cellAt(sheet SheetGrid, rowIdx int, cells []Located[CellValue], i int) Located[CellValue] {
	if i < len(cells) {
		return cells[i]
	}
	return Locate(Empty(), CellOrigin(originFile(sheet.Origin), sheet.Name, rowIdx, i))
}

// applyValidator surfaces embedded decode failures, runs the validator and
// guarantees the result error carries the cell's Origin.
func applyValidator(v Validator, cell Located[CellValue]) (any, error) {
	if cell.Value.Kind == KindFailure {
		return nil, cell.Value.Err
	}
	if v == nil {
		return cell.Value.Interface(), nil
	}
	value, err := v(cell)
	if err != nil {
		return nil, locateError(err, cell.Origin)
	}
	return value, nil
}

// locateError wraps err as a ValidationFailure at origin unless it already
// carries provenance.
func locateError(err error, origin *Origin) error {
	if e, ok := err.(*Error); ok && e.Origin != nil {
		return e
	}
	return newError(ValidationFailure, origin, err, "invalid value")
}
