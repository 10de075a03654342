package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes report files under one output directory.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at dir; the directory is created on the
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteLines atomically writes one report file, one entry per line:
// tmp file → fsync → rename. An empty set still produces the file, so a
// stale report from an earlier run never survives.
func (w *Writer) WriteLines(name string, lines []string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("report: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, ".ansuz-tmp-*")
	if err != nil {
		return fmt.Errorf("report: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if _, err := tmp.WriteString(content); err != nil {
		return fmt.Errorf("report: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("report: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close temp: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		return fmt.Errorf("report: rename: %w", err)
	}
	success = true
	return nil
}
