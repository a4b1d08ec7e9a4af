package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSave(t *testing.T) {
	fs, err := NewFileStoreAt(t.TempDir())
	require.NoError(t, err)

	name, size, err := fs.Save(strings.NewReader("hello notes"), "lecture.pdf")
	require.NoError(t, err)

	assert.Equal(t, int64(len("hello notes")), size)
	assert.Equal(t, ".pdf", filepath.Ext(name))
	assert.NotEqual(t, "lecture.pdf", name)
	assert.True(t, fs.Exists(name))

	data, err := os.ReadFile(fs.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "hello notes", string(data))
}

func TestFileStoreSaveGeneratesUniqueNames(t *testing.T) {
	fs, err := NewFileStoreAt(t.TempDir())
	require.NoError(t, err)

	first, _, err := fs.Save(strings.NewReader("a"), "same.pdf")
	require.NoError(t, err)
	second, _, err := fs.Save(strings.NewReader("b"), "same.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestFileStoreRemove(t *testing.T) {
	fs, err := NewFileStoreAt(t.TempDir())
	require.NoError(t, err)

	name, _, err := fs.Save(strings.NewReader("x"), "doc.docx")
	require.NoError(t, err)

	require.NoError(t, fs.Remove(name))
	assert.False(t, fs.Exists(name))

	// Removing a file that is already gone is not an error.
	assert.NoError(t, fs.Remove(name))
	assert.NoError(t, fs.Remove("never-existed.pdf"))
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "Linear Algebra Unit 2.pdf", DownloadName("Linear Algebra Unit 2", "b1946ac9.pdf"))
	assert.Equal(t, "Notes", DownloadName("Notes", "b1946ac9"))
}
