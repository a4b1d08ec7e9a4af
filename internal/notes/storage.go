package notes

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps uploaded binaries in a flat directory. Stored names are
// generated, so concurrent uploads never collide and the original name leaks
// nothing into the filesystem.
type FileStore struct {
	dir string
}

// NewFileStore uses the UPLOAD_DIR environment variable, defaulting to
// "uploads" next to the binary.
func NewFileStore() (*FileStore, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return NewFileStoreAt(dir)
}

func NewFileStoreAt(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory served read-only under the uploads path prefix.
func (fs *FileStore) Dir() string { return fs.dir }

// Save writes src under a generated name that keeps the original extension
// and returns the stored name and size.
func (fs *FileStore) Save(src io.Reader, originalName string) (string, int64, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	dst, err := os.Create(filepath.Join(fs.dir, name))
	if err != nil {
		return "", 0, err
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(fs.dir, name))
		return "", 0, err
	}
	return name, size, nil
}

// Path returns the on-disk location of a stored file.
func (fs *FileStore) Path(storedName string) string {
	return filepath.Join(fs.dir, storedName)
}

// Exists reports whether the stored file is still on disk.
func (fs *FileStore) Exists(storedName string) bool {
	_, err := os.Stat(fs.Path(storedName))
	return err == nil
}

// Remove deletes a stored file. An already-missing file is not an error.
func (fs *FileStore) Remove(storedName string) error {
	err := os.Remove(fs.Path(storedName))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// DownloadName derives the client-facing filename from the note title plus
// the stored file's extension.
func DownloadName(title, storedName string) string {
	return title + filepath.Ext(storedName)
}
