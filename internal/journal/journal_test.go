package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/framestore/internal/model"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	dir := t.TempDir()
	j, err := Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndHistory(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)
	name := model.NewFrameName("Notes", 3)

	r1, err := j.Record(ctx, RecordParams{Name: name, Version: 1, Kind: KindSave, User: "alice"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if r1.ID == "" || r1.Supersedes != "" {
		t.Errorf("unexpected first revision: %+v", r1)
	}

	r2, _ := j.Record(ctx, RecordParams{Name: name, Version: 2, Kind: KindSave, User: "alice"})
	if r2.Supersedes != r1.ID {
		t.Errorf("expected supersedes %s, got %s", r1.ID, r2.Supersedes)
	}

	j.Record(ctx, RecordParams{Name: model.NewFrameName("Notes", 4), Version: 1, Kind: KindSave})

	hist, err := j.History(ctx, model.NewFrameName("notes", 3), 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(hist))
	}
	if hist[0].Version != 2 || hist[1].Version != 1 {
		t.Errorf("expected newest first, got %d then %d", hist[0].Version, hist[1].Version)
	}
	if hist[0].User != "alice" || hist[0].Kind != KindSave {
		t.Errorf("fields not persisted: %+v", hist[0])
	}

	limited, _ := j.History(ctx, name, 1)
	if len(limited) != 1 {
		t.Errorf("expected limit 1, got %d", len(limited))
	}
}

func TestRelatedIsKept(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	j.Record(ctx, RecordParams{Name: model.NewFrameName("Notes", 9), Version: 5, Kind: KindFork, Related: "Notes3"})
	hist, _ := j.History(ctx, model.NewFrameName("Notes", 9), 0)
	if len(hist) != 1 || hist[0].Related != "Notes3" || hist[0].Kind != KindFork {
		t.Errorf("unexpected history %+v", hist)
	}
	if !hist[0].Name().Equal(model.NewFrameName("notes", 9)) {
		t.Errorf("unexpected name %s", hist[0].Name())
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "journal.db")
	j, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	j.Record(ctx, RecordParams{Name: model.NewFrameName("A", 1), Version: 1, Kind: KindSave})
	j.Record(ctx, RecordParams{Name: model.NewFrameName("A", 1), Version: 2, Kind: KindSave})
	j.Record(ctx, RecordParams{Name: model.NewFrameName("A", 2), Version: 2, Kind: KindFork})
	j.Record(ctx, RecordParams{Name: model.NewFrameName("B", 1), Version: 1, Kind: KindDelete})

	st, err := j.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRevisions != 4 || st.Forks != 1 || st.Deletes != 1 {
		t.Errorf("unexpected counts %+v", st)
	}
	if len(st.Framesets) != 2 || st.Framesets[0].Frameset != "a" || st.Framesets[0].Frames != 2 {
		t.Errorf("unexpected frameset stats %+v", st.Framesets)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("expected db file: %v", err)
	}
}

func TestStatsReportsQueryErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	j.Close()

	if st, err := j.Stats(context.Background(), dbPath); err == nil {
		t.Errorf("expected an error from a closed journal, got %+v", st)
	}
}
