package sheetmap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

/* =========================================================
 *  Built-in Validators
 * ========================================================= */

// Identity passes the unwrapped cell value through unchanged (nil for
// Empty). Useful for pass-through mapify calls and round trips.
func Identity() Validator {
	return func(cell Located[CellValue]) (any, error) {
		return cell.Value.Interface(), nil
	}
}

// Optional wraps a validator so Empty cells yield nil instead of failing.
func Optional(inner Validator) Validator {
	return func(cell Located[CellValue]) (any, error) {
		if cell.Value.IsEmpty() {
			return nil, nil
		}
		return inner(cell)
	}
}

// AsText expects a text cell and yields its string.
func AsText() Validator {
	return func(cell Located[CellValue]) (any, error) {
		switch cell.Value.Kind {
		case KindText:
			return cell.Value.Text, nil
		case KindEmpty:
			return nil, fmt.Errorf("required text is empty")
		}
		return nil, fmt.Errorf("want text, got %s", cell.Value.Kind)
	}
}

// AsInt expects an integer cell, accepting text that parses as a base-10
// integer.
func AsInt() Validator {
	return func(cell Located[CellValue]) (any, error) {
		switch cell.Value.Kind {
		case KindInt:
			return cell.Value.Int, nil
		case KindText:
			i, err := strconv.ParseInt(strings.TrimSpace(cell.Value.Text), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q", cell.Value.Text)
			}
			return i, nil
		case KindEmpty:
			return nil, fmt.Errorf("required integer is empty")
		}
		return nil, fmt.Errorf("want integer, got %s", cell.Value.Kind)
	}
}

// AsFloat expects a numeric cell (integral cells widen), accepting parseable
// text.
func AsFloat() Validator {
	return func(cell Located[CellValue]) (any, error) {
		switch cell.Value.Kind {
		case KindNumber:
			return cell.Value.Number, nil
		case KindInt:
			return float64(cell.Value.Int), nil
		case KindText:
			f, err := strconv.ParseFloat(strings.TrimSpace(cell.Value.Text), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", cell.Value.Text)
			}
			return f, nil
		case KindEmpty:
			return nil, fmt.Errorf("required number is empty")
		}
		return nil, fmt.Errorf("want number, got %s", cell.Value.Kind)
	}
}

// AsBool expects a boolean cell, accepting common textual spellings.
func AsBool() Validator {
	return func(cell Located[CellValue]) (any, error) {
		switch cell.Value.Kind {
		case KindBool:
			return cell.Value.Bool, nil
		case KindText:
			b, err := parseBool(cell.Value.Text)
			if err != nil {
				return nil, err
			}
			return b, nil
		case KindEmpty:
			return nil, fmt.Errorf("required boolean is empty")
		}
		return nil, fmt.Errorf("want boolean, got %s", cell.Value.Kind)
	}
}

// AsTime expects a date-time cell, accepting text in the given layouts (or a
// set of common layouts when none are supplied).
func AsTime(layouts ...string) Validator {
	return func(cell Located[CellValue]) (any, error) {
		switch cell.Value.Kind {
		case KindDateTime:
			return cell.Value.Time, nil
		case KindText:
			return parseTime(cell.Value.Text, layouts)
		case KindEmpty:
			return nil, fmt.Errorf("required date is empty")
		}
		return nil, fmt.Errorf("want date, got %s", cell.Value.Kind)
	}
}

// parseBool converts various common boolean strings into bool.
func parseBool(raw string) (bool, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool: %q", raw)
}

// parseTime attempts the caller's layouts first, then RFC3339 and a set of
// common date layouts, then an Excel serial number.
func parseTime(raw string, layouts []string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	common := []string{
		"2006-01-02",
		"02/01/2006",
		"02-01-2006",
		"2006/01/02",
		"02/01/2006 15:04",
		"2006-01-02 15:04",
		"02-01-2006 15:04",
	}
	for _, layout := range common {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err2 := excelSerialToTime(f); err2 == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse time: %q", raw)
}

/* =========================================================
 *  go-playground/validator Bridge
 * ========================================================= */

// Validated runs the unwrapped cell value through a go-playground/validator
// instance with the given tag (e.g. "required,gt=0") and passes the value
// through on success.
func Validated(v *validator.Validate, tag string) Validator {
	return func(cell Located[CellValue]) (any, error) {
		value := cell.Value.Interface()
		if err := v.Var(value, tag); err != nil {
			return nil, fmt.Errorf("failed on %q: %w", tag, err)
		}
		return value, nil
	}
}

// Chain runs validators left to right, feeding each the original cell; the
// last validator's value wins. Handy for combining a type check with a
// Validated constraint.
func Chain(vs ...Validator) Validator {
	return func(cell Located[CellValue]) (any, error) {
		var value any = cell.Value.Interface()
		for _, v := range vs {
			out, err := v(cell)
			if err != nil {
				return nil, err
			}
			value = out
		}
		return value, nil
	}
}
