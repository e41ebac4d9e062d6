// Package storage persists uploaded attachments on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Subdirectories under the upload root.
const (
	SubdirTasks = "tasks"
	SubdirLogos = "logos"
)

// Files writes uploads under a configured root directory.
type Files struct {
	root string
}

// NewFiles returns a file store rooted at dir.
func NewFiles(dir string) *Files {
	return &Files{root: dir}
}

// Save streams an upload to disk under root/subdir, prefixing the original
// name with a millisecond timestamp to keep names unique. It returns the
// path relative to the upload root, slash-separated for URLs.
func (f *Files) Save(r io.Reader, originalName, subdir string) (string, error) {
	dir := filepath.Join(f.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(originalName))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

// Root returns the upload root directory, for serving files over HTTP.
func (f *Files) Root() string { return f.root }
