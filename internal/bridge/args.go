package bridge

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "github.com/vytor/ankibridge/internal/errors"
)

// Args are the named arguments of a call, as decoded from JSON.
type Args map[string]any

// Int64 returns a numeric argument. ok is false when the key is absent or null.
func (a Args) Int64(key string) (v int64, ok bool, err error) {
	raw, present := a[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch n := raw.(type) {
	case int:
		return int64(n), true, nil
	case int32:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false, badArg(key, "an integer")
		}
		return int64(n), true, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false, badArg(key, "an integer")
		}
		return i, true, nil
	default:
		return 0, false, badArg(key, "a number")
	}
}

// String returns a string argument, or "" when absent or null.
func (a Args) String(key string) (string, error) {
	raw, present := a[key]
	if !present || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", badArg(key, "a string")
	}
	return s, nil
}

func badArg(key, want string) error {
	return apperrors.NewBadRequestError(fmt.Sprintf("argument %s must be %s", key, want))
}
