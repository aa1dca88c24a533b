package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// NumberKind tags which alternative a Number holds.
type NumberKind int

// Number alternatives.
const (
	NumberAbsent NumberKind = iota
	NumberNumeric
	NumberString
)

func (k NumberKind) String() string {
	switch k {
	case NumberNumeric:
		return "number"
	case NumberString:
		return "string"
	default:
		return "absent"
	}
}

// Number is a numeric payload field that may arrive as a JSON/YAML number or
// as a string such as "12.5" or "12.5%". Strings are kept verbatim and parsed
// by Float, so the error can name the field.
type Number struct {
	Kind  NumberKind
	Value float64
	Raw   string
}

// Num returns a numeric Number.
func Num(v float64) Number {
	return Number{Kind: NumberNumeric, Value: v}
}

// Str returns a string Number.
func Str(s string) Number {
	return Number{Kind: NumberString, Raw: s}
}

// IsSet reports whether the field was present.
func (n Number) IsSet() bool {
	return n.Kind != NumberAbsent
}

// Float resolves the value. Absent yields 0. field names the value in errors.
func (n Number) Float(field string) (float64, error) {
	switch n.Kind {
	case NumberNumeric:
		return n.Value, nil
	case NumberString:
		s := strings.TrimSpace(n.Raw)
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s = %q", ErrInvalidNumber, field, n.Raw)
		}
		return v, nil
	default:
		return 0, nil
	}
}

// UnmarshalJSON accepts null, a number or a string.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = Number{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Str(s)
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("%w: expected number or string, got %s", ErrInvalidNumber, data)
		}
		*n = Num(v)
		return nil
	}
}

// MarshalJSON writes numbers as numbers, strings as strings and absent as null.
func (n Number) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case NumberNumeric:
		return json.Marshal(n.Value)
	case NumberString:
		return json.Marshal(n.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalYAML accepts a null, numeric or string scalar.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected scalar at line %d", ErrInvalidNumber, node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*n = Number{}
	case "!!int", "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidNumber, node.Line, err)
		}
		*n = Num(v)
	default:
		*n = Str(node.Value)
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (n Number) MarshalYAML() (any, error) {
	switch n.Kind {
	case NumberNumeric:
		return n.Value, nil
	case NumberString:
		return n.Raw, nil
	default:
		return nil, nil
	}
}
