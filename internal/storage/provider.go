// Package storage defines the graph file-system abstraction. The analyzer
// core never opens files itself; this layer supplies already-read text and
// already-computed file metadata.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for read-only graph file access.
type Provider interface {
	// Scan returns metadata for every .md file under dir (relative to the
	// graph root; empty for the whole graph).
	Scan(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the graph
	// root).
	Read(path string) ([]byte, error)
	// Root returns the absolute graph root directory.
	Root() string
}
