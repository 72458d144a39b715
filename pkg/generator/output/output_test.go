package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Old.go", "User.go", "custom.go", "routers.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	removed, err := Reconcile(dir, KeepSet("User.go", "custom.go"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Old.go", "routers.go"}, removed)

	assert.NoFileExists(t, filepath.Join(dir, "Old.go"))
	assert.NoFileExists(t, filepath.Join(dir, "routers.go"))
	assert.FileExists(t, filepath.Join(dir, "User.go"))
	assert.FileExists(t, filepath.Join(dir, "custom.go"))
	assert.DirExists(t, filepath.Join(dir, "nested"))
}

func TestReconcileMissingDir(t *testing.T) {
	_, err := Reconcile(filepath.Join(t.TempDir(), "missing"), KeepSet())
	assert.Error(t, err)
}

func TestWriteFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "User.go")
	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.NoFileExists(t, path+".tmp")
}
