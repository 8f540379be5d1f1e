// Package journal records every persisted frame revision in SQLite so a
// frame's save, fork, backup and delete history can be listed later.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/framestore/internal/model"
)

// Kind says what produced a revision.
type Kind string

const (
	KindCreate Kind = "create"
	KindSave   Kind = "save"
	KindFork   Kind = "fork"
	KindBackup Kind = "backup"
	KindDelete Kind = "delete"
)

// Revision is one journal row.
type Revision struct {
	ID         string    `json:"id"`
	Frameset   string    `json:"frameset"`
	Number     int       `json:"number"`
	Version    int       `json:"version"`
	Kind       Kind      `json:"kind"`
	User       string    `json:"user,omitempty"`
	Session    string    `json:"session,omitempty"`
	Related    string    `json:"related,omitempty"`
	Supersedes string    `json:"supersedes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Name returns the frame the revision belongs to.
func (r Revision) Name() model.FrameName {
	return model.NewFrameName(r.Frameset, r.Number)
}

// RecordParams holds parameters for recording a revision.
type RecordParams struct {
	Name    model.FrameName
	Version int
	Kind    Kind
	User    string
	Session string
	// Related names the other frame involved: the fork's original, the
	// backup copy, or the DeletedFrames slot.
	Related string
}

// Journal is a SQLite-backed revision log.
type Journal struct {
	db      *sql.DB
	entropy io.Reader
}

// Open opens or creates a journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return j, nil
}

func (j *Journal) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), j.entropy).String()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS revisions (
		id          TEXT PRIMARY KEY,
		frameset    TEXT NOT NULL COLLATE NOCASE,
		number      INTEGER NOT NULL,
		version     INTEGER NOT NULL,
		kind        TEXT NOT NULL,
		user        TEXT,
		session     TEXT,
		related     TEXT,
		supersedes  TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_revisions_frame ON revisions(frameset, number);
	CREATE INDEX IF NOT EXISTS idx_revisions_created ON revisions(created_at DESC);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends a revision, linking it to the frame's previous one.
func (j *Journal) Record(ctx context.Context, p RecordParams) (*Revision, error) {
	now := time.Now().UTC()
	id := j.newID()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prevID string
	var supersedes *string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM revisions WHERE frameset = ? AND number = ?
		 ORDER BY id DESC LIMIT 1`, p.Name.Frameset, p.Name.Number).Scan(&prevID)
	if err == nil {
		supersedes = &prevID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO revisions (id, frameset, number, version, kind, user, session, related, supersedes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Name.Frameset, p.Name.Number, p.Version, string(p.Kind),
		nullable(p.User), nullable(p.Session), nullable(p.Related), supersedes,
		now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rev := &Revision{
		ID:        id,
		Frameset:  p.Name.Frameset,
		Number:    p.Name.Number,
		Version:   p.Version,
		Kind:      p.Kind,
		User:      p.User,
		Session:   p.Session,
		Related:   p.Related,
		CreatedAt: now,
	}
	if supersedes != nil {
		rev.Supersedes = *supersedes
	}
	return rev, nil
}

// History returns a frame's revisions, newest first. limit <= 0 means all.
func (j *Journal) History(ctx context.Context, name model.FrameName, limit int) ([]Revision, error) {
	query := `SELECT id, frameset, number, version, kind, user, session, related, supersedes, created_at
	          FROM revisions WHERE frameset = ? AND number = ? ORDER BY id DESC`
	args := []interface{}{name.Frameset, name.Number}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRevision(row scanner) (Revision, error) {
	var r Revision
	var kind, createdAt string
	var user, session, related, supersedes sql.NullString

	err := row.Scan(&r.ID, &r.Frameset, &r.Number, &r.Version, &kind,
		&user, &session, &related, &supersedes, &createdAt)
	if err != nil {
		return r, err
	}

	r.Kind = Kind(kind)
	r.User = user.String
	r.Session = session.String
	r.Related = related.String
	r.Supersedes = supersedes.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return r, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
