package msbuildlog

import (
	"fmt"

	"fortio.org/safecast"
)

// FileID identifies a file within one FileCache. IDs are assigned in insertion order.
type FileID uint32

// File is a deduplicated source file reference.
type File struct {
	ID   FileID
	Path string
}

// FileCache maps normalized file paths to stable *File handles for one parse session.
//
// FileCache is not safe for concurrent use. Use one cache per session.
type FileCache struct {
	files []*File
	index map[string]*File // path -> file
}

// NewFileCache creates an empty FileCache.
func NewFileCache() *FileCache {
	return &FileCache{
		files: make([]*File, 0),
		index: make(map[string]*File),
	}
}

// GetOrCreate returns the *File registered for path, registering it first if needed.
// The first registration wins: later calls with the same path return the same pointer.
func (c *FileCache) GetOrCreate(path string) *File {
	if f, ok := c.index[path]; ok {
		return f
	}

	id, err := safecast.Conv[uint32](len(c.files))
	if err != nil {
		panic(fmt.Errorf("file cache overflow: %w", err))
	}
	f := &File{ID: FileID(id), Path: path}
	c.files = append(c.files, f)
	c.index[path] = f
	return f
}

// Lookup returns the *File registered for path, if any.
func (c *FileCache) Lookup(path string) (*File, bool) {
	f, ok := c.index[path]
	return f, ok
}

// Get returns the file with the given ID, or nil if id is out of range.
func (c *FileCache) Get(id FileID) *File {
	if int(id) >= len(c.files) {
		return nil
	}
	return c.files[id]
}

// Len returns the number of registered files.
func (c *FileCache) Len() int {
	return len(c.files)
}

// Files returns the registered files in insertion order.
func (c *FileCache) Files() []*File {
	out := make([]*File, len(c.files))
	copy(out, c.files)
	return out
}
