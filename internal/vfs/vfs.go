// Package vfs implements the compiler's virtual file system: an
// append-only table mapping an opaque file identifier to a path and its
// full source text, so diagnostics can be rendered from any source
// location without reopening files.
package vfs

import "sync"

// FileID is an opaque identifier assigned by a VFS. It indexes into the
// append-only (path, content) table of the VFS instance that assigned
// it; each VFS has its own table, and there is no process-wide one.
// File ids stay stable until that VFS's Cleanup is called.
type FileID uint16

type file struct {
	path    string
	content string
}

// VFS is an append-only registry of source files. The zero value is a
// valid, empty VFS.
//
// Adding a file is the only write; Path and Content must see a
// consistent snapshot of it. The intended discipline, per the owning
// compiler, is to add every file up front and then read freely; AddFile
// is still safe to call concurrently with other AddFile/Path/Content
// calls, and an id returned by AddFile remains valid until Cleanup
// because AddFile never shrinks or reorders the table.
type VFS struct {
	mu    sync.RWMutex
	files []file
}

// New returns an empty VFS.
func New() *VFS {
	return &VFS{}
}

// AddFile copies path and content into the registry and returns the
// FileID assigned to them. Content is immutable once added.
func (v *VFS) AddFile(path string, content string) FileID {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Copy in explicitly: the caller's backing array for a string built
	// from a mutable byte slice (e.g. via unsafe conversion) must not be
	// able to mutate what we store.
	pathCopy := string([]byte(path))
	contentCopy := string([]byte(content))

	v.files = append(v.files, file{path: pathCopy, content: contentCopy})
	return FileID(len(v.files) - 1)
}

// Path returns the path registered for id, and false if id is unknown.
func (v *VFS) Path(id FileID) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if int(id) >= len(v.files) {
		return "", false
	}
	return v.files[id].path, true
}

// Content returns the source text registered for id, and false if id is
// unknown.
func (v *VFS) Content(id FileID) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if int(id) >= len(v.files) {
		return "", false
	}
	return v.files[id].content, true
}

// Cleanup releases every registered file. The VFS is empty afterwards
// and any FileID obtained before the call is no longer valid.
func (v *VFS) Cleanup() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files = nil
}
