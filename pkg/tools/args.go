package tools

import (
	"fmt"
	"strconv"
)

// Args is the validated, coerced argument mapping passed to a tool
// function. Values hold the declared parameter types: string, int,
// float64, bool or []string.
type Args map[string]any

// String returns the named string argument, or "" if absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the named integer argument, or 0 if absent.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Float returns the named number argument, or 0 if absent.
func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Bool returns the named boolean argument, or false if absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// StringSlice returns the named string-array argument, or nil if absent.
func (a Args) StringSlice(name string) []string {
	v, _ := a[name].([]string)
	return v
}

// Has reports whether the argument was provided (or defaulted).
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// coerce converts a raw JSON-decoded value to the declared parameter type.
// JSON numbers arrive as float64; models also commonly quote numerics, so
// numeric strings are accepted for integer/number parameters.
func coerce(p Param, raw any) (any, error) {
	switch p.Type {
	case TypeString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	case TypeInteger:
		switch v := raw.(type) {
		case float64:
			if v != float64(int(v)) {
				return nil, fmt.Errorf("parameter %q: %v is not an integer", p.Name, v)
			}
			return int(v), nil
		case int:
			return v, nil
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %q is not an integer", p.Name, v)
			}
			return n, nil
		}
	case TypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %q is not a number", p.Name, v)
			}
			return f, nil
		}
	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %q is not a boolean", p.Name, v)
			}
			return b, nil
		}
	case TypeStringArray:
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []any:
			out := make([]string, len(v))
			for i, e := range v {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("parameter %q: element %d is not a string", p.Name, i)
				}
				out[i] = s
			}
			return out, nil
		case string:
			// Single value where a list was expected.
			return []string{v}, nil
		}
	}
	return nil, fmt.Errorf("parameter %q: cannot use %T as %s", p.Name, raw, p.Type)
}

// buildArgs validates raw arguments against the parameter spec, applying
// defaults and coercions. Unknown keys are dropped.
func buildArgs(params []Param, raw map[string]any) (Args, error) {
	args := make(Args, len(params))
	for _, p := range params {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, fmt.Errorf("missing required parameter %q", p.Name)
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}
		coerced, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		args[p.Name] = coerced
	}
	return args, nil
}
