// Package selector holds the file the user has chosen to scan.
package selector

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PendingFile references user-supplied content plus the name shown in the UI.
// The content is only read when a scan starts; a PendingFile is never
// modified after creation.
type PendingFile struct {
	name string
	path string
	data []byte
}

// FromPath references a file on disk. The file is not opened until Open.
func FromPath(path string) *PendingFile {
	return &PendingFile{
		name: filepath.Base(path),
		path: path,
	}
}

// FromBytes references in-memory content under the given display name
func FromBytes(name string, data []byte) *PendingFile {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &PendingFile{name: name, data: buf}
}

// Name returns the display name
func (f *PendingFile) Name() string {
	return f.name
}

// Path returns the on-disk path, or "" for in-memory content
func (f *PendingFile) Path() string {
	return f.path
}

// Open returns a fresh reader over the content
func (f *PendingFile) Open() (io.ReadCloser, error) {
	if f.path == "" {
		return io.NopCloser(bytes.NewReader(f.data)), nil
	}
	// #nosec G304 - the path is chosen by the user on purpose
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.name, err)
	}
	return file, nil
}

// Selector owns the current selection. Select always replaces it; no type
// or size checks happen here, that is left to the detection service.
type Selector struct {
	selected *PendingFile
	changes  int
}

// New creates an empty selector
func New() *Selector {
	return &Selector{}
}

// Select replaces the current selection. A nil file is ignored.
func (s *Selector) Select(file *PendingFile) {
	if file == nil {
		return
	}
	s.selected = file
	s.changes++
}

// Selected returns the current selection, or nil
func (s *Selector) Selected() *PendingFile {
	return s.selected
}

// HasSelection reports whether a file is selected
func (s *Selector) HasSelection() bool {
	return s.selected != nil
}

// Generation increases on every Select. Callers compare it to tell whether
// the selection changed since they last looked.
func (s *Selector) Generation() int {
	return s.changes
}
