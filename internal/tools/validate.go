package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Args holds validated arguments keyed by tool-facing name. Values are string,
// int64 or []string according to the Param kind.
type Args map[string]any

// ValidationError lists every problem found in one set of arguments.
type ValidationError struct {
	Tool     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Problems, "; "))
}

// Validate checks raw arguments against the tool schema. Unknown arguments are
// ignored, empty optional values are dropped and defaults are applied.
func (s *Spec) Validate(raw map[string]any) (Args, error) {
	out := Args{}
	var problems []string
	for _, p := range s.Params {
		v, present := raw[p.Name]
		if present && isEmpty(v) {
			present = false
		}
		if !present {
			switch {
			case p.Default != "":
				out[p.Name] = p.Default
			case p.Required:
				problems = append(problems, fmt.Sprintf("%s is required", p.Name))
			}
			continue
		}
		val, err := coerce(p, v)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		out[p.Name] = val
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Tool: s.Name, Problems: problems}
	}
	return out, nil
}

func coerce(p Param, v any) (any, error) {
	switch p.Kind {
	case Integer:
		n, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("%s must be an integer, got %v", p.Name, v)
		}
		return n, nil
	case StringList:
		list, ok := toStringList(v)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", p.Name)
		}
		if p.MinItems > 0 && len(list) < p.MinItems {
			return nil, fmt.Errorf("%s needs at least %d items, got %d", p.Name, p.MinItems, len(list))
		}
		if p.MaxItems > 0 && len(list) > p.MaxItems {
			return nil, fmt.Errorf("%s accepts at most %d items, got %d", p.Name, p.MaxItems, len(list))
		}
		return list, nil
	default:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", p.Name)
		}
		str = strings.TrimSpace(str)
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, str) {
			return nil, fmt.Errorf("%s must be one of %s, got %q", p.Name, strings.Join(p.Enum, ", "), str)
		}
		return str, nil
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != math.Trunc(t) || t >= 1<<63 || t < -(1<<63) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toStringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case string:
		return []string{strings.TrimSpace(t)}, true
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, false
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, true
	}
	return nil, false
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return fmt.Sprint(v)
}
