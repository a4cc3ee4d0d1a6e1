package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitialSchemaEnforcesStockFloor(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)

	schema := string(data)
	assert.Contains(t, schema, "CHECK (stock >= 0)")
	assert.Contains(t, schema, "ON DELETE CASCADE")
	assert.Contains(t, schema, "idempotency_key  TEXT UNIQUE")
}
