package resource

import (
	"fmt"
	"math"
	"strconv"
)

// IDString returns the textual form of an identifier value.
// Numbers render in their shortest decimal form and strings as-is, so 1,
// 1.0 and "1" all produce "1". The second result is false for nil and for
// values that cannot act as identifiers (objects, arrays).
func IDString(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return id, true
	case fmt.Stringer:
		// json.Number from both encoding/json and goccy/go-json
		return id.String(), true
	case bool:
		return strconv.FormatBool(id), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case int32:
		return strconv.FormatInt(int64(id), 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	case uint32:
		return strconv.FormatUint(uint64(id), 10), true
	default:
		return "", false
	}
}

// ItemID returns the textual id of v when v is an object carrying an id.
func ItemID(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	raw, ok := obj[IDField]
	if !ok {
		return "", false
	}
	return IDString(raw)
}

// numericID extracts an integer identifier used to seed counters.
// Integral floats and strings holding an integer count as numeric.
func numericID(v any) (int64, bool) {
	switch id := v.(type) {
	case int:
		return int64(id), true
	case int64:
		return id, true
	case int32:
		return int64(id), true
	case uint32:
		return int64(id), true
	case uint64:
		if id > math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) || math.Abs(id) > math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	case fmt.Stringer:
		n, err := strconv.ParseInt(id.String(), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// maxItemID returns the largest numeric id found in a resource value.
// math.MaxInt64 has no successor and is left out.
func maxItemID(v any) (int64, bool) {
	var (
		max   int64
		found bool
	)
	consider := func(item any) {
		obj, ok := item.(map[string]any)
		if !ok {
			return
		}
		n, ok := numericID(obj[IDField])
		if !ok || n == math.MaxInt64 {
			return
		}
		if !found || n > max {
			max = n
			found = true
		}
	}

	switch val := v.(type) {
	case []any:
		for _, item := range val {
			consider(item)
		}
	case map[string]any:
		consider(val)
	}
	return max, found
}
