package lint

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// RenderMessage fills {{key}} placeholders from the error data, then the options.
// Unknown placeholders are left as written.
func RenderMessage(template string, data ErrorData, options Options) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := data[key]; ok {
			return fmt.Sprint(v)
		}
		if v, ok := options[key]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

// MessageFor returns the rendered message for errorName, falling back to the name itself.
func (r *PreparedRule) MessageFor(errorName string, data ErrorData) string {
	if tmpl, ok := r.Messages[errorName]; ok && tmpl != "" {
		return RenderMessage(tmpl, data, r.Options)
	}
	return errorName
}
