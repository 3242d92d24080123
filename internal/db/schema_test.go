package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDDL(t *testing.T) {
	ddl, err := SchemaDDL("bloodmatch")
	require.NoError(t, err)

	assert.Contains(t, ddl, "CREATE SCHEMA IF NOT EXISTS bloodmatch;")
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS bloodmatch.donors")
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS bloodmatch.blood_requests")
	assert.Contains(t, ddl, "history TEXT[]")
	assert.NotContains(t, ddl, "%!")
}

func TestSchemaDDL_RejectsUnsafeNames(t *testing.T) {
	for _, name := range []string{"", "Blood", "a;drop table x", "1abc", "a-b"} {
		_, err := SchemaDDL(name)
		assert.Error(t, err, name)
	}
}
