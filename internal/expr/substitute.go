package expr

import (
	"strconv"
	"strings"
)

// Substitute replaces every ${NAME:-DEFAULT} and ${NAME} occurrence in
// text with the corresponding value from props (name -> value), before
// tokenization. A name with no entry in props falls back to DEFAULT when one
// was given in the source text; otherwise substitution fails.
func Substitute(text string, props map[string]float64) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "${")
		if start < 0 {
			out.WriteString(text[i:])
			break
		}
		start += i
		out.WriteString(text[i:start])

		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			// Unterminated reference: pass the rest through literally.
			out.WriteString(text[start:])
			break
		}
		end += start

		body := text[start+2 : end]
		name := body
		var def string
		hasDefault := false
		if idx := strings.Index(body, ":-"); idx >= 0 {
			name = body[:idx]
			def = body[idx+2:]
			hasDefault = true
		}

		if v, ok := props[name]; ok {
			out.WriteString(formatSubstituted(v))
		} else if hasDefault {
			out.WriteString(def)
		} else {
			return "", &VariableSubstitutionError{Name: name}
		}

		i = end + 1
	}
	return out.String(), nil
}

func formatSubstituted(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
