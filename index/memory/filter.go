package memory

import "github.com/goldarch/ragkit/index"

// matches evaluates a filter against vector metadata. Fields combine with
// implicit AND. Unknown operators fail the match rather than silently
// passing vectors through a filter the caller meant to restrict.
func matches(filter index.Filter, metadata map[string]any) bool {
	for field, condition := range filter {
		value, present := metadata[field]

		ops, ok := condition.(map[string]any)
		if !ok {
			// Bare value shorthand: {"projectId": "p1"} means $eq.
			if !present || !equal(value, condition) {
				return false
			}
			continue
		}

		for operator, operand := range ops {
			if !applyOp(operator, value, present, operand) {
				return false
			}
		}
	}
	return true
}

func applyOp(operator string, value any, present bool, operand any) bool {
	switch operator {
	case "$eq":
		return present && equal(value, operand)
	case "$ne":
		return !present || !equal(value, operand)
	case "$gt":
		cmp, ok := compare(value, operand)
		return present && ok && cmp > 0
	case "$gte":
		cmp, ok := compare(value, operand)
		return present && ok && cmp >= 0
	case "$lt":
		cmp, ok := compare(value, operand)
		return present && ok && cmp < 0
	case "$lte":
		cmp, ok := compare(value, operand)
		return present && ok && cmp <= 0
	case "$in":
		return present && contains(operand, value)
	case "$nin":
		return !present || !contains(operand, value)
	default:
		return false
	}
}

// equal compares scalars, treating all numeric types as float64. For slice
// metadata values (e.g. tags) it reports whether any element equals operand.
func equal(value, operand any) bool {
	if list, ok := value.([]any); ok {
		for _, item := range list {
			if equal(item, operand) {
				return true
			}
		}
		return false
	}
	if list, ok := value.([]string); ok {
		for _, item := range list {
			if equal(item, operand) {
				return true
			}
		}
		return false
	}

	if cmp, ok := compare(value, operand); ok {
		return cmp == 0
	}
	return value == operand
}

// contains reports whether the operand list has an element equal to value.
func contains(operand, value any) bool {
	switch list := operand.(type) {
	case []any:
		for _, item := range list {
			if equal(value, item) {
				return true
			}
		}
	case []string:
		for _, item := range list {
			if equal(value, item) {
				return true
			}
		}
	}
	return false
}

// compare orders two scalars. Numbers of any width compare as float64;
// strings compare lexically. Mixed or unsupported types do not compare.
func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	sa, ok := a.(string)
	if !ok {
		return 0, false
	}
	sb, ok := b.(string)
	if !ok {
		return 0, false
	}
	switch {
	case sa < sb:
		return -1, true
	case sa > sb:
		return 1, true
	default:
		return 0, true
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
