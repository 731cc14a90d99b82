package step

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// Integer fields are bounded to the int32 range.
const (
	maxInt = math.MaxInt32
	minInt = math.MinInt32
)

// Decode parses a raw JSON payload and validates it against set.
// Numbers are decoded as json.Number so large integers survive intact.
func Decode(data []byte, set *CategorySet) (Step, error) {
	var raw any
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return Step{}, invalid("input", "must be a JSON object")
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return Step{}, invalid("input", "must be a single JSON object")
		}
	}
	return Validate(raw, set)
}

// Validate turns an untyped payload into a canonical Step.
// Required fields are checked in order and the first violation is returned.
// Present optional fields must carry their declared type; null counts as absent.
func Validate(raw any, set *CategorySet) (Step, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return Step{}, invalid("input", "must be an object")
	}

	var s Step

	text, ok := fields["text"].(string)
	if !ok || text == "" {
		return Step{}, invalid("text", "must be a non-empty string")
	}
	s.Text = text

	if s.Index, ok = requiredInt(fields, "index"); !ok {
		return Step{}, requiredIntError(fields, "index")
	}
	if s.EstimatedTotal, ok = requiredInt(fields, "estimatedTotal"); !ok {
		return Step{}, requiredIntError(fields, "estimatedTotal")
	}

	if s.Continuation, ok = fields["continuation"].(bool); !ok {
		return Step{}, invalid("continuation", "must be a boolean")
	}

	if s.Category, ok = set.Normalize(fields["category"]); !ok {
		return Step{}, invalid("category", "must be "+set.describe())
	}

	var err error
	if s.IsRevision, err = optionalBool(fields, "isRevision"); err != nil {
		return Step{}, err
	}
	if s.RevisesIndex, err = optionalInt(fields, "revisesIndex"); err != nil {
		return Step{}, err
	}
	if s.BranchFromIndex, err = optionalInt(fields, "branchFromIndex"); err != nil {
		return Step{}, err
	}
	if s.BranchID, err = optionalString(fields, "branchId"); err != nil {
		return Step{}, err
	}
	if s.NeedsMore, err = optionalBool(fields, "needsMore"); err != nil {
		return Step{}, err
	}
	if s.FollowupHint, err = optionalString(fields, "followupHint"); err != nil {
		return Step{}, err
	}

	return s, nil
}

func requiredInt(fields map[string]any, key string) (int, bool) {
	n, ok := toFloat(fields[key])
	if !ok || !positiveInt(n) {
		return 0, false
	}
	return int(n), true
}

func requiredIntError(fields map[string]any, key string) error {
	n, ok := toFloat(fields[key])
	if !ok {
		return invalid(key, "must be a number")
	}
	if n > maxInt && n == math.Trunc(n) {
		return invalid(key, fmt.Sprintf("must be a positive integer no larger than %d", maxInt))
	}
	return invalid(key, "must be a positive integer")
}

func optionalInt(fields map[string]any, key string) (*int, error) {
	v, present := fields[key]
	if !present || v == nil {
		return nil, nil
	}
	n, ok := toFloat(v)
	if !ok {
		return nil, invalid(key, "must be a number")
	}
	if n != math.Trunc(n) {
		return nil, invalid(key, "must be an integer")
	}
	if n < minInt || n > maxInt {
		return nil, invalid(key, fmt.Sprintf("must be an integer between %d and %d", minInt, maxInt))
	}
	i := int(n)
	return &i, nil
}

func optionalBool(fields map[string]any, key string) (*bool, error) {
	v, present := fields[key]
	if !present || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, invalid(key, "must be a boolean")
	}
	return &b, nil
}

func optionalString(fields map[string]any, key string) (*string, error) {
	v, present := fields[key]
	if !present || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, invalid(key, "must be a string")
	}
	return &s, nil
}

func positiveInt(n float64) bool {
	return n >= 1 && n == math.Trunc(n) && n <= maxInt
}

// toFloat accepts the numeric shapes produced by encoding/json and yaml.v3.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
