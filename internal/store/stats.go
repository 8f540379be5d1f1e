package store

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/model"
)

// Stats describes what the store holds on disk and in memory.
type Stats struct {
	Roots      []string `json:"roots"`
	Framesets  int      `json:"framesets"`
	Frames     int      `json:"frames"`
	TotalBytes int64    `json:"total_bytes"`
	Cached     int      `json:"cached"`
	Saves      int      `json:"session_saves"`
}

// Stats walks the roots and counts framesets and frame files.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{
		Roots:     s.Roots(),
		Framesets: len(s.ListFramesets()),
		Cached:    s.cache.Len(),
		Saves:     s.session.Saves(),
	}
	for _, root := range s.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := s.resolver.NameFromPath(path); !ok {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			st.Frames++
			st.TotalBytes += info.Size()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

// History lists the journal entries for name, newest first.
func (s *Store) History(ctx context.Context, name model.FrameName, limit int) ([]journal.Revision, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	return s.journal.History(ctx, name, limit)
}
