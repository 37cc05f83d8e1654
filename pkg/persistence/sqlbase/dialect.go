package sqlbase

import (
	"strconv"
	"strings"
)

// Dialect captures the few differences between the supported SQL engines.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}

	return "sqlite"
}

// Rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var builder strings.Builder

	builder.Grow(len(query) + 8)

	position := 0

	for _, r := range query {
		if r == '?' {
			position++

			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(position))

			continue
		}

		builder.WriteRune(r)
	}

	return builder.String()
}
