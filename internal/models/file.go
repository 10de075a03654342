// Package models defines the domain types for Ansuz.
package models

import "time"

// FileType classifies a graph file by the directory it lives in.
type FileType string

// Graph file types.
const (
	TypeJournal    FileType = "journal"
	TypePage       FileType = "page"
	TypeWhiteboard FileType = "whiteboard"
	TypeAsset      FileType = "asset"
	TypeOther      FileType = "other"
)

// FileMeta is the raw file metadata gathered while scanning the graph.
// CreatedAt falls back to the modification time on file systems that do not
// expose a birth time.
type FileMeta struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"` // file name stem, without extension
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates one analysis run.
type Summary struct {
	TotalFiles    int            `json:"total_files"`
	ByType        map[string]int `json:"by_type"`
	JournalKeys   int            `json:"journal_keys"`
	DanglingLinks int            `json:"dangling_links"`
	MissingDays   int            `json:"missing_days"`
	TimelineDays  int            `json:"timeline_days"`
	Elements      map[string]int `json:"elements"`
	AnalyzedAt    time.Time      `json:"analyzed_at"`
}
