package application

import (
	"fmt"
	"math"

	"cwautomate-mcp-server/internal/domain"
)

// defaultLimit is the page size used when a list call gives no limit or a limit of 0.
const defaultLimit = 50

func invalidParam(format string, args ...interface{}) error {
	return &domain.Error{
		Code:    domain.InvalidParams,
		Message: fmt.Sprintf(format, args...),
	}
}

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return "", invalidParam("missing required parameter: %s", name)
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", invalidParam("parameter %s must be a string", name)
	}

	return strValue, nil
}

// getOptionalStringParam returns nil when the parameter is absent so callers can tell
// "not given" apart from an empty string.
func getOptionalStringParam(args map[string]interface{}, name string) (*string, error) {
	if value, exists := args[name]; !exists || value == nil {
		return nil, nil
	}
	s, err := getStringParam(args, name, false)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// Numbers decoded from JSON arrive as float64; fractional values are rejected.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return 0, invalidParam("missing required parameter: %s", name)
		}
		return 0, nil
	}

	n, ok := toInt(value)
	if !ok {
		return 0, invalidParam("parameter %s must be an integer", name)
	}
	return n, nil
}

// getOptionalIntParam returns nil when the parameter is absent.
func getOptionalIntParam(args map[string]interface{}, name string) (*int, error) {
	if value, exists := args[name]; !exists || value == nil {
		return nil, nil
	}
	n, err := getIntParam(args, name, false)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// getBoolParam extracts an optional boolean parameter; absent means false.
func getBoolParam(args map[string]interface{}, name string) (bool, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return false, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, invalidParam("parameter %s must be a boolean", name)
	}
	return b, nil
}

// getIntSliceParam extracts an array of integers. Absent yields nil; an empty array yields
// an empty, non-nil slice.
func getIntSliceParam(args map[string]interface{}, name string) ([]int, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return nil, nil
	}

	var items []interface{}
	switch v := value.(type) {
	case []interface{}:
		items = v
	case []int:
		return append([]int{}, v...), nil
	default:
		return nil, invalidParam("parameter %s must be an array of integers", name)
	}

	result := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := toInt(item)
		if !ok {
			return nil, invalidParam("parameter %s must be an array of integers", name)
		}
		result = append(result, n)
	}
	return result, nil
}

// getStringMapParam extracts an object of string values, such as script parameters.
func getStringMapParam(args map[string]interface{}, name string) (map[string]string, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		result := make(map[string]string, len(v))
		for key, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalidParam("parameter %s.%s must be a string", name, key)
			}
			result[key] = s
		}
		return result, nil
	default:
		return nil, invalidParam("parameter %s must be an object of strings", name)
	}
}

// getEnumParam extracts an optional string restricted to the given values.
func getEnumParam(args map[string]interface{}, name string, allowed ...string) (string, error) {
	s, err := getStringParam(args, name, false)
	if err != nil || s == "" {
		return s, err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", invalidParam("parameter %s must be one of %v", name, allowed)
}

// getPaging returns limit and skip. A missing or zero limit becomes defaultLimit.
func getPaging(args map[string]interface{}, withSkip bool) (limit, skip int, err error) {
	limit, err = getIntParam(args, "limit", false)
	if err != nil {
		return 0, 0, err
	}
	if limit == 0 {
		limit = defaultLimit
	}

	if withSkip {
		skip, err = getIntParam(args, "skip", false)
		if err != nil {
			return 0, 0, err
		}
	}
	return limit, skip, nil
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		// -math.MinInt is the first float past the largest int.
		if v != math.Trunc(v) || v < math.MinInt || v >= -math.MinInt {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
