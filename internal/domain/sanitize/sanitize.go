// Package sanitize strips query-operator keys from untrusted structured input.
package sanitize

import "strings"

// OperatorPrefix marks map keys that a document store would read as operators.
const OperatorPrefix = "$"

// Value returns a copy of v with every map key starting with OperatorPrefix
// removed at any nesting depth. Scalars are returned unchanged and v itself is
// never modified.
func Value(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, child := range typed {
			if isOperator(k) {
				continue
			}
			out[k] = Value(child)
		}

		return out
	case map[string]string:
		out := make(map[string]string, len(typed))
		for k, child := range typed {
			if isOperator(k) {
				continue
			}
			out[k] = child
		}

		return out
	case map[string][]string:
		out := make(map[string][]string, len(typed))
		for k, child := range typed {
			if isOperator(k) {
				continue
			}
			out[k] = append([]string(nil), child...)
		}

		return out
	case []any:
		out := make([]any, len(typed))
		for i, child := range typed {
			out[i] = Value(child)
		}

		return out
	default:
		return v
	}
}

// Fields sanitizes each value of a request payload.
func Fields(fields map[string]any) map[string]any {
	out, _ := Value(fields).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}

	return out
}

func isOperator(key string) bool {
	return strings.HasPrefix(key, OperatorPrefix)
}
