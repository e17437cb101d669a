package event

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args are the positional arguments of an annotation, in order. Elements
// are strings or integers; integers may also arrive as decimal strings.
type Args []any

// Arity checks that there are between least and most arguments. A negative
// most means any number of trailing arguments is accepted.
func (a Args) Arity(least, most int) error {
	switch {
	case len(a) < least && most == least:
		return &ArgumentError{Index: -1, Reason: fmt.Sprintf("want %d, got %d", least, len(a))}
	case len(a) < least:
		return &ArgumentError{Index: -1, Reason: fmt.Sprintf("want at least %d, got %d", least, len(a))}
	case most >= 0 && len(a) > most:
		if most == least {
			return &ArgumentError{Index: -1, Reason: fmt.Sprintf("want %d, got %d", most, len(a))}
		}
		return &ArgumentError{Index: -1, Reason: fmt.Sprintf("want at most %d, got %d", most, len(a))}
	}
	return nil
}

// String returns argument i as a non-empty string.
func (a Args) String(i int) (string, error) {
	if i < 0 || i >= len(a) {
		return "", &ArgumentError{Index: i, Reason: "missing"}
	}
	s, ok := a[i].(string)
	if !ok {
		return "", &ArgumentError{Index: i, Reason: fmt.Sprintf("want string, got %T", a[i])}
	}
	if strings.TrimSpace(s) == "" {
		return "", &ArgumentError{Index: i, Reason: "empty string"}
	}
	return s, nil
}

// Strings returns every argument from index from onward as strings.
func (a Args) Strings(from int) ([]string, error) {
	if from >= len(a) {
		return nil, nil
	}
	out := make([]string, 0, len(a)-from)
	for i := from; i < len(a); i++ {
		s, err := a.String(i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Int returns argument i as an int. Strings such as "42" or "#42" are
// accepted, as are whole floats from JSON-decoded input.
func (a Args) Int(i int) (int, error) {
	if i < 0 || i >= len(a) {
		return 0, &ArgumentError{Index: i, Reason: "missing"}
	}

	switch v := a[i].(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		if v > math.MaxInt || v < math.MinInt {
			return 0, &ArgumentError{Index: i, Reason: "integer out of range"}
		}
		return int(v), nil
	case uint:
		if uint64(v) > math.MaxInt {
			return 0, &ArgumentError{Index: i, Reason: "integer out of range"}
		}
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, &ArgumentError{Index: i, Reason: "integer out of range"}
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt || v < math.MinInt {
			return 0, &ArgumentError{Index: i, Reason: fmt.Sprintf("want integer, got %v", v)}
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(v), "#"))
		if err != nil {
			return 0, &ArgumentError{Index: i, Reason: fmt.Sprintf("want integer, got %q", v)}
		}
		return n, nil
	default:
		return 0, &ArgumentError{Index: i, Reason: fmt.Sprintf("want integer, got %T", a[i])}
	}
}
