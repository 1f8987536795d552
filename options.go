package sheetmap

/* =========================================================
 *  Options
 * ========================================================= */

// ErrorCellMode controls how error-valued cells decode.
type ErrorCellMode string

const (
	// ErrorCellsStrict (default) fails the decode with an ErrorCell error.
	ErrorCellsStrict ErrorCellMode = "error"
	// ErrorCellsAsNumber passes the stored numeric error code through as a
	// Number value.
	ErrorCellsAsNumber ErrorCellMode = "as-number"
)

// FormulaCellMode controls how formula cells decode.
type FormulaCellMode string

const (
	// FormulaCellsStrict (default) fails the decode with a FormulaCell error.
	FormulaCellsStrict FormulaCellMode = "error"
	// FormulaCellsAsString passes the formula text through as a Text value.
	FormulaCellsAsString FormulaCellMode = "as-string"
)

// Option is the configuration option type for decode/read/write APIs.
type Option func(*Options)

// Options control decoding policy and sheet selection. They are set once per
// load and threaded explicitly into the decoder; there is no hidden global
// state.
type Options struct {
	// Sheet selection for the convenience entry points:
	SheetName  string // if empty, SheetIndex is used
	SheetIndex int    // 0-based index; used if SheetName is empty

	// Keep the physically-first row instead of dropping it as a title row.
	KeepTitles bool

	// Ambiguous-cell policy:
	ErrorCells   ErrorCellMode
	FormulaCells FormulaCellMode
}

// applyDefaults fills in default values for unspecified options.
func applyDefaults(o *Options) {
	if o.SheetIndex < 0 {
		o.SheetIndex = 0
	}
	if o.ErrorCells == "" {
		o.ErrorCells = ErrorCellsStrict
	}
	if o.FormulaCells == "" {
		o.FormulaCells = FormulaCellsStrict
	}
}

// validateOptions rejects unrecognized policy values. Typos fail fast here
// rather than silently behaving as the strict mode.
func validateOptions(o *Options) error {
	switch o.ErrorCells {
	case ErrorCellsStrict, ErrorCellsAsNumber:
	default:
		return newError(InvalidOptions, nil, nil,
			"unrecognized error cell mode %q", o.ErrorCells)
	}
	switch o.FormulaCells {
	case FormulaCellsStrict, FormulaCellsAsString:
	default:
		return newError(InvalidOptions, nil, nil,
			"unrecognized formula cell mode %q", o.FormulaCells)
	}
	return nil
}

// buildOptions applies the option list, defaults and validation.
func buildOptions(opts []Option) (*Options, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	applyDefaults(&o)
	if err := validateOptions(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

/* =========================================================
 *  Option Helpers (public API)
 * ========================================================= */

// Sheet selects a sheet by name.
func Sheet(name string) Option {
	return func(o *Options) { o.SheetName = name }
}

// SheetAt selects a sheet by index (0-based).
func SheetAt(idx int) Option {
	return func(o *Options) { o.SheetIndex = idx }
}

// KeepTitles keeps the first row as data instead of dropping it as a header.
func KeepTitles() Option {
	return func(o *Options) { o.KeepTitles = true }
}

// ErrorCellsAs sets the error-cell decoding policy.
func ErrorCellsAs(mode ErrorCellMode) Option {
	return func(o *Options) { o.ErrorCells = mode }
}

// FormulaCellsAs sets the formula-cell decoding policy.
func FormulaCellsAs(mode FormulaCellMode) Option {
	return func(o *Options) { o.FormulaCells = mode }
}
