// Package manifest tracks the source files the s3 backend has uploaded.
// Recording each source's modification time, size and upload options lets the
// backend skip re-uploading files that have not changed.
package manifest

import (
	"sort"
	"time"
)

// CurrentVersion is the manifest format version written by this package.
const CurrentVersion = 1

// Manifest maps object keys of uploaded sources to their metadata.
type Manifest struct {
	Version int                  `json:"version"`
	Files   map[string]FileEntry `json:"files"`
}

// FileEntry records metadata about an uploaded source file.
type FileEntry struct {
	Mtime          time.Time `json:"mtime"` // Source file modification time (UTC)
	Size           int64     `json:"size"`
	Format         string    `json:"format"`
	KeepAllStrings bool      `json:"keepAllStrings"`
}

// New creates an empty manifest at the current version.
func New() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Files:   make(map[string]FileEntry),
	}
}

// Unchanged reports whether key was recorded with exactly this entry.
// Times are compared at second precision for filesystem compatibility.
func (m *Manifest) Unchanged(key string, entry FileEntry) bool {
	prev, ok := m.Files[key]
	if !ok {
		return false
	}
	return prev.Mtime.Truncate(time.Second).Equal(entry.Mtime.Truncate(time.Second)) &&
		prev.Size == entry.Size &&
		prev.Format == entry.Format &&
		prev.KeepAllStrings == entry.KeepAllStrings
}

// Keys returns the recorded object keys in sorted order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Files))
	for k := range m.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
