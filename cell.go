package sheetmap

import (
	"fmt"
	"math"
	"time"
)

/* =========================================================
 *  CellValue
 * ========================================================= */

// CellKind enumerates the closed set of decoded cell value variants.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindBool
	KindText
	KindInt
	KindNumber
	KindDateTime
	// KindFailure carries a decode failure as a value, so that the failure
	// surfaces (with full row/sheet wrapping) when the cell is consumed, not
	// when the grid is walked.
	KindFailure
)

func (k CellKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindNumber:
		return "number"
	case KindDateTime:
		return "datetime"
	case KindFailure:
		return "failure"
	}
	return "invalid"
}

// CellValue is the canonical decoded form of one cell: a closed tagged union
// over empty, boolean, text, 64-bit integer, float and UTC date-time values,
// plus an embedded decode failure. Every operation consuming a CellValue
// switches exhaustively on Kind.
type CellValue struct {
	Kind   CellKind
	Bool   bool
	Text   string
	Int    int64
	Number float64
	Time   time.Time
	Err    *Error
}

func Empty() CellValue { return CellValue{Kind: KindEmpty} }

func Bool(b bool) CellValue { return CellValue{Kind: KindBool, Bool: b} }

func Text(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

func Int(i int64) CellValue { return CellValue{Kind: KindInt, Int: i} }

func Number(f float64) CellValue { return CellValue{Kind: KindNumber, Number: f} }
func DateTime(t time.Time) CellValue {
	return CellValue{Kind: KindDateTime, Time: t.UTC()}
}

// Failure wraps a decode failure as a cell value.
func Failure(err *Error) CellValue { return CellValue{Kind: KindFailure, Err: err} }

// IsEmpty reports whether the value is the Empty variant.
func (v CellValue) IsEmpty() bool { return v.Kind == KindEmpty }

// Interface unwraps the variant into a plain Go value (nil for Empty, the
// embedded error for failures). Only call this at the boundary where the
// value is handed to application code.
func (v CellValue) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindText:
		return v.Text
	case KindInt:
		return v.Int
	case KindNumber:
		return v.Number
	case KindDateTime:
		return v.Time
	case KindFailure:
		return v.Err
	}
	return nil
}

func (v CellValue) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindText:
		return v.Text
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindNumber:
		return fmt.Sprintf("%g", v.Number)
	case KindDateTime:
		return v.Time.Format(time.RFC3339)
	case KindFailure:
		return v.Err.Error()
	}
	return ""
}

/* =========================================================
 *  Cell Decoder
 * ========================================================= */

// excelSerialToTime converts an Excel serial date (1900 date system) to a
// UTC time.Time. Uses the common "1899-12-30" base to match Excel's 1900
// system behavior; date-only serials land on midnight UTC.
func excelSerialToTime(serial float64) (time.Time, error) {
	if serial <= 0 {
		return time.Time{}, fmt.Errorf("invalid excel serial: %f", serial)
	}
	const secondsInDay = 24 * 60 * 60

	days := int64(serial)
	frac := serial - float64(days)

	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	t := base.AddDate(0, 0, int(days))

	sec := int64(frac*secondsInDay + 0.5)
	t = t.Add(time.Duration(sec) * time.Second)

	return t, nil
}

// integral reports whether f has zero fractional part and survives the
// float64 -> int64 -> float64 round trip. Magnitudes float64 cannot represent
// exactly as int64 stay Number rather than fabricating digits.
func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	i := int64(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}

// DecodeCell turns one raw collaborator cell into a located CellValue,
// applying the ambiguous-type resolution policy:
//
//   - blank cells decode to Empty
//   - date-formatted numerics convert to UTC date-times
//   - numerics with zero fractional part canonicalize to Int (4.0 -> 4)
//   - error and formula cells follow the configured policy, decoding to a
//     Failure value (ErrorCell / FormulaCell) under the strict default
//
// Any raw kind outside the documented set decodes to an UnknownCellType
// failure, which signals a collaborator contract violation. Failures travel
// as values and surface when the cell is consumed, so one bad cell does not
// abort decoding a workbook that never reads it. Decoding never mutates the
// raw cell.
func DecodeCell(origin *Origin, raw RawCell, o *Options) Located[CellValue] {
	switch raw.Kind {
	case RawBlank:
		return Locate(Empty(), origin)

	case RawBool:
		return Locate(Bool(raw.Bool), origin)

	case RawText:
		return Locate(Text(raw.Text), origin)

	case RawNumber:
		if i, ok := integral(raw.Number); ok {
			return Locate(Int(i), origin)
		}
		return Locate(Number(raw.Number), origin)

	case RawDate:
		t, err := excelSerialToTime(raw.Number)
		if err != nil {
			return Locate(Failure(newError(UnknownCellType, origin, err,
				"date cell with unusable serial %v", raw.Number)), origin)
		}
		return Locate(DateTime(t), origin)

	case RawError:
		if o.ErrorCells == ErrorCellsAsNumber {
			return Locate(Number(raw.Number), origin)
		}
		return Locate(Failure(newError(ErrorCell, origin, nil,
			"error cell %s", raw.Text)), origin)

	case RawFormula:
		if o.FormulaCells == FormulaCellsAsString {
			return Locate(Text(raw.Text), origin)
		}
		return Locate(Failure(newError(FormulaCell, origin, nil,
			"formula cell %s", raw.Text)), origin)
	}

	return Locate(Failure(newError(UnknownCellType, origin, nil,
		"unknown raw cell kind %d", raw.Kind)), origin)
}
