package prepare

import "github.com/packagelint/packagelint/internal/lint"

// mergeOptions returns base with overrides applied. Nested maps merge key by key;
// any other value replaces what was there. Neither input is modified.
func mergeOptions(base, overrides lint.Options) lint.Options {
	out := cloneOptions(base)
	for k, v := range overrides {
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func mergeValue(base, override any) any {
	bm, ok := asMap(base)
	if !ok {
		return cloneValue(override)
	}
	om, ok := asMap(override)
	if !ok {
		return cloneValue(override)
	}
	out := make(map[string]any, len(bm)+len(om))
	for k, v := range bm {
		out[k] = cloneValue(v)
	}
	for k, v := range om {
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case lint.Options:
		return m, true
	default:
		return nil, false
	}
}

func cloneOptions(o lint.Options) lint.Options {
	out := make(lint.Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case lint.Options:
		return map[string]any(cloneOptions(t))
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

func mergeMessages(base, overrides lint.Messages) lint.Messages {
	out := make(lint.Messages, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
