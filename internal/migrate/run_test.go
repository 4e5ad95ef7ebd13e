package migrate

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrationFiles(t *testing.T) {
	files, err := listMigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)

	assert.True(t, sort.StringsAreSorted(files), "migrations must apply in lexical order")
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f, ".sql"), "unexpected migration file %q", f)
	}
	assert.Equal(t, "0001_init.sql", files[0])
}

func TestMigrationFilesReadable(t *testing.T) {
	files, err := listMigrationFiles()
	require.NoError(t, err)

	for _, f := range files {
		body, readErr := migrationsFS.ReadFile("migrations/" + f)
		require.NoError(t, readErr)
		assert.NotEmpty(t, strings.TrimSpace(string(body)), "migration %q is empty", f)
	}
}
