// Package template renders {{identifier}} placeholders against the variables of a flow run.
package template

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Interpolate replaces every {{key}} in text with the string form of vars[key].
// Unknown keys render as "". Placeholders that do not match the identifier
// grammar, such as {{ a }} or {{a.b}}, are left untouched. Interpolate never fails.
func Interpolate(text string, vars map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-2]

		return Stringify(vars[key])
	})
}

// Stringify converts a variable value to the text substituted into templates.
// nil becomes "", numbers use their shortest form and composite values are
// rendered as JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}

		return strings.Join(parts, ",")
	case map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(encoded)
	}

	if s, err := cast.ToStringE(value); err == nil {
		return s
	}

	return fmt.Sprint(value)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
