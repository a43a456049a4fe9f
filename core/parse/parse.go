package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var errNotWrapped = errors.New("not a schema-wrapped value")

// ParseStringAs decodes content into T.
//
// Strings are returned as is unless content is a JSON string literal or a
// {"type","value"} wrapper. Booleans and numbers go through strconv. Every
// other kind is decoded as JSON, with repair and unwrapping as fallbacks.
//
//	in, err := parse.ParseStringAs[bravesearch.Input](`{query: 'golang', count: 5,}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()
	trimmed := strings.TrimSpace(content)

	switch target.Kind() {
	case reflect.String:
		if s, err := strconv.Unquote(trimmed); err == nil && strings.HasPrefix(trimmed, `"`) {
			target.SetString(s)
			return result, nil
		}
		if v, err := unwrapPrimitive(trimmed); err == nil {
			target.SetString(v)
			return result, nil
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		v, err := parsePrimitive(trimmed, strconv.ParseBool)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(v)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := parsePrimitive(trimmed, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		if target.OverflowInt(v) {
			return result, fmt.Errorf("value %d overflows %s", v, target.Type())
		}
		target.SetInt(v)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := parsePrimitive(trimmed, func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) })
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		if target.OverflowUint(v) {
			return result, fmt.Errorf("value %d overflows %s", v, target.Type())
		}
		target.SetUint(v)
		return result, nil

	case reflect.Float32, reflect.Float64:
		v, err := parsePrimitive(trimmed, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(v)
		return result, nil
	}

	if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(stripCodeFence(trimmed))
	if repairErr != nil {
		return result, fmt.Errorf("failed to repair input as %T: %w", result, repairErr)
	}

	err := json.Unmarshal([]byte(repaired), &result)
	if err == nil {
		return result, nil
	}

	if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
		var retry T
		if json.Unmarshal([]byte(unwrapped), &retry) == nil {
			return retry, nil
		}
	}

	return result, fmt.Errorf("failed to unmarshal repaired input as %T: %w (repaired: %s)", result, err, repaired)
}

func parsePrimitive[V any](s string, conv func(string) (V, error)) (V, error) {
	v, err := conv(strings.Trim(s, `"`))
	if err == nil {
		return v, nil
	}
	if unwrapped, unwrapErr := unwrapPrimitive(s); unwrapErr == nil {
		if v, convErr := conv(unwrapped); convErr == nil {
			return v, nil
		}
	}
	return v, err
}

// unwrapPrimitive extracts value from {"type": ..., "value": ...}.
func unwrapPrimitive(content string) (string, error) {
	if !strings.HasPrefix(content, "{") {
		return "", errNotWrapped
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	value, ok := wrappedValue(data)
	if !ok {
		return "", errNotWrapped
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		b, err := json.Marshal(v)
		return string(b), err
	}
}

// unwrapSchemaValues replaces every {"type","value"} object found in a JSON
// document with its value.
func unwrapSchemaValues(doc string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return "", err
	}
	b, err := json.Marshal(unwrapAny(data))
	return string(b), err
}

func unwrapAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if inner, ok := wrappedValue(t); ok {
			return unwrapAny(inner)
		}
		for k, child := range t {
			t[k] = unwrapAny(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = unwrapAny(child)
		}
		return t
	default:
		return v
	}
}

func wrappedValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, ok := m["type"].(string); !ok {
		return nil, false
	}
	v, ok := m["value"]
	return v, ok
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
