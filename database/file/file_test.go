package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDDLs(t *testing.T) {
	dir := t.TempDir()
	users := filepath.Join(dir, "users.sql")
	posts := filepath.Join(dir, "posts.sql")
	require.NoError(t, os.WriteFile(users, []byte("CREATE TABLE users (id INT);\n"), 0o644))
	require.NoError(t, os.WriteFile(posts, []byte("CREATE TABLE posts (id INT)"), 0o644))

	db := NewDatabase(users, posts)
	defer db.Close()

	ddls, err := db.ExportDDLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE users (id INT);\n\nCREATE TABLE posts (id INT);", ddls)
	assert.Nil(t, db.DB())
}

func TestExportDDLsMissingFile(t *testing.T) {
	_, err := NewDatabase(filepath.Join(t.TempDir(), "missing.sql")).ExportDDLs(context.Background())
	assert.Error(t, err)
}
