package sqlbase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	query := "UPDATE flows SET enabled = ?, updated_at = ? WHERE id = ?"

	assert.Equal(t, query, DialectSQLite.Rebind(query))
	assert.Equal(t, "UPDATE flows SET enabled = $1, updated_at = $2 WHERE id = $3", DialectPostgres.Rebind(query))
	assert.Equal(t, "postgres", DialectPostgres.String())
	assert.Equal(t, "sqlite", DialectSQLite.String())
}
