package api

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// FileDetail is the full representation of an indexed graph file.
type FileDetail struct {
	Path       string             `json:"path"`
	Name       string             `json:"name"`
	Type       models.FileType    `json:"type"`
	JournalKey string             `json:"journal_key,omitempty"`
	Checksum   string             `json:"checksum"`
	Size       int64              `json:"size"`
	ModifiedAt time.Time          `json:"modified_at"`
	Content    string             `json:"content"`
	Elements   []index.ElementRow `json:"elements"`
}

// FileListItem is a lightweight item in a list response.
type FileListItem struct {
	Path       string          `json:"path"`
	Name       string          `json:"name"`
	Type       models.FileType `json:"type"`
	JournalKey string          `json:"journal_key,omitempty"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// Service serves analysis results from the index; it never writes to the
// graph.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a read-only query service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// Summary assembles the graph summary from the current index state.
func (s *Service) Summary(_ context.Context) (models.Summary, error) {
	byType, total, err := s.db.CountFilesByType()
	if err != nil {
		return models.Summary{}, err
	}
	elements, err := s.db.ElementCounts()
	if err != nil {
		return models.Summary{}, err
	}
	keys, err := s.db.JournalKeys()
	if err != nil {
		return models.Summary{}, err
	}
	dangling, err := s.db.Dangling()
	if err != nil {
		return models.Summary{}, err
	}
	timeline, err := s.db.Timeline()
	if err != nil {
		return models.Summary{}, err
	}
	missing := 0
	for _, row := range timeline {
		if row.Status == "missing" {
			missing++
		}
	}
	return models.Summary{
		TotalFiles:    total,
		ByType:        byType,
		JournalKeys:   len(keys),
		DanglingLinks: len(dangling),
		MissingDays:   missing,
		TimelineDays:  len(timeline),
		Elements:      elements,
		AnalyzedAt:    time.Now().UTC(),
	}, nil
}

// ListFiles returns paginated indexed files with an optional type filter.
func (s *Service) ListFiles(_ context.Context, fileType string, limit, offset int) ([]FileListItem, int, error) {
	rows, total, err := s.db.ListFiles(fileType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]FileListItem, len(rows))
	for i, r := range rows {
		items[i] = FileListItem{
			Path:       r.Path,
			Name:       r.Name,
			Type:       r.Type,
			JournalKey: r.JournalKey,
			ModifiedAt: r.ModifiedAt,
		}
	}
	return items, total, nil
}

// GetFile returns one indexed file together with its content and elements.
func (s *Service) GetFile(_ context.Context, path string) (*FileDetail, error) {
	row, err := s.db.GetFile(path)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	elements, err := s.db.FileElements(path)
	if err != nil {
		return nil, err
	}
	return &FileDetail{
		Path:       row.Path,
		Name:       row.Name,
		Type:       row.Type,
		JournalKey: row.JournalKey,
		Checksum:   row.Checksum,
		Size:       row.Size,
		ModifiedAt: row.ModifiedAt,
		Content:    string(data),
		Elements:   nonNilSlice(elements),
	}, nil
}

// Timeline returns the stored reconstructed timeline.
func (s *Service) Timeline(_ context.Context) ([]index.TimelineRow, error) {
	rows, err := s.db.Timeline()
	if err != nil {
		return nil, err
	}
	return nonNilSlice(rows), nil
}

// Dangling returns unresolved link targets with occurrence counts.
func (s *Service) Dangling(_ context.Context) ([]index.DanglingRow, error) {
	rows, err := s.db.Dangling()
	if err != nil {
		return nil, err
	}
	return nonNilSlice(rows), nil
}

// Search finds extracted element values matching a substring.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchHit, error) {
	hits, err := s.db.SearchElements(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(hits), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
