package journal

import (
	"context"
	"fmt"
	"os"
)

// Stats holds journal statistics.
type Stats struct {
	DBPath         string          `json:"db_path"`
	DBSizeBytes    int64           `json:"db_size_bytes"`
	TotalRevisions int             `json:"total_revisions"`
	Forks          int             `json:"forks"`
	Backups        int             `json:"backups"`
	Deletes        int             `json:"deletes"`
	Framesets      []FramesetStats `json:"framesets"`
}

// FramesetStats holds per-frameset counts.
type FramesetStats struct {
	Frameset  string `json:"frameset"`
	Revisions int    `json:"revisions"`
	Frames    int    `json:"frames"`
}

// Stats returns journal statistics.
func (j *Journal) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revisions`).Scan(&st.TotalRevisions); err != nil {
		return nil, fmt.Errorf("count revisions: %w", err)
	}
	for kind, dst := range map[Kind]*int{KindFork: &st.Forks, KindBackup: &st.Backups, KindDelete: &st.Deletes} {
		err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revisions WHERE kind = ?`, string(kind)).Scan(dst)
		if err != nil {
			return nil, fmt.Errorf("count %s revisions: %w", kind, err)
		}
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT lower(frameset), COUNT(*) AS cnt, COUNT(DISTINCT number) AS frames
		FROM revisions GROUP BY lower(frameset) ORDER BY cnt DESC`)
	if err != nil {
		return nil, fmt.Errorf("frameset stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fs FramesetStats
		if err := rows.Scan(&fs.Frameset, &fs.Revisions, &fs.Frames); err != nil {
			return nil, fmt.Errorf("scan frameset stats: %w", err)
		}
		st.Framesets = append(st.Framesets, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("frameset stats: %w", err)
	}

	return st, nil
}
