package jsondoc_test

import (
	"os"
	"path/filepath"
	"testing"

	"materials-service/pkg/jsondoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	in := doc{Name: "catalogue", Items: []string{"a", "b"}}
	require.NoError(t, jsondoc.Save(path, in))

	var out doc
	require.NoError(t, jsondoc.Load(path, &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingFile(t *testing.T) {
	var out doc
	err := jsondoc.Load(filepath.Join(t.TempDir(), "absent.json"), &out)
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	assert.False(t, jsondoc.Exists(path))

	require.NoError(t, jsondoc.Save(path, doc{}))
	assert.True(t, jsondoc.Exists(path))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	require.NoError(t, jsondoc.Save(path, doc{Name: "one"}))
	require.NoError(t, jsondoc.Save(path, doc{Name: "two"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	var out doc
	require.NoError(t, jsondoc.Load(path, &out))
	assert.Equal(t, "two", out.Name)
}
