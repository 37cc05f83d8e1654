// Package nodes holds the helpers shared by the native node implementations.
package nodes

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Decode copies node data into out, matching fields by their json tag and
// converting loosely between scalar types.
func Decode(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("invalid node data: %w", err)
	}

	return nil
}

// Lines turns a list value or a newline separated string into an ordered list
// of non-empty entries. String entries are trimmed.
func Lines(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return compact(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, err := cast.ToStringE(item)
			if err != nil {
				continue
			}

			items = append(items, s)
		}

		return compact(items)
	case string:
		return compact(strings.Split(v, "\n"))
	default:
		return nil
	}
}

// Seconds reads a positive number of seconds, returning fallback when the
// value is missing, unparsable or not positive.
func Seconds(value any, fallback float64) float64 {
	seconds, err := cast.ToFloat64E(value)
	if err != nil || seconds <= 0 {
		return fallback
	}

	return seconds
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}
