package peer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/framestore/internal/format"
	"github.com/rcliao/framestore/internal/model"
)

// SQLitePeer keeps frames in a database shared by several editors. It is
// the fallback for frames no local root can resolve.
type SQLitePeer struct {
	db    *sql.DB
	codec format.Codec
}

// OpenSQLite opens or creates the shared database at dbPath.
func OpenSQLite(dbPath string) (*SQLitePeer, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create peer dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open peer db: %w", err)
	}

	p := &SQLitePeer{db: db, codec: format.ExpCodec{}}
	if err := p.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return p, nil
}

func (p *SQLitePeer) migrate() error {
	_, err := p.db.Exec(`
	CREATE TABLE IF NOT EXISTS frames (
		frameset   TEXT NOT NULL COLLATE NOCASE,
		number     INTEGER NOT NULL,
		version    INTEGER NOT NULL,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (frameset, number)
	);
	CREATE TABLE IF NOT EXISTS counters (
		frameset  TEXT PRIMARY KEY COLLATE NOCASE,
		last_name TEXT NOT NULL
	);
	`)
	return err
}

func (p *SQLitePeer) LoadFrame(ctx context.Context, name model.FrameName, knownPath string) (*model.Frame, error) {
	var payload string
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM frames WHERE frameset = ? AND number = ?`,
		name.Frameset, name.Number).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	f, err := p.codec.Decode([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	f.Name = name
	f.Path = knownPath
	f.IsLocal = false
	return f, nil
}

// SaveFrame stamps, stores and returns the encoded frame. The counter is
// raised when the frame's number passes it.
func (p *SQLitePeer) SaveFrame(ctx context.Context, f *model.Frame) (string, error) {
	prevVersion, prevDate := f.Version, f.LastModifyDate
	f.Version++
	f.LastModifyDate = time.Now().UTC()

	payload, err := p.codec.Encode(f)
	if err != nil {
		f.Version, f.LastModifyDate = prevVersion, prevDate
		return "", err
	}

	if err := p.store(ctx, f, payload); err != nil {
		f.Version, f.LastModifyDate = prevVersion, prevDate
		return "", err
	}

	f.Saved = true
	f.Changed = false
	return string(payload), nil
}

func (p *SQLitePeer) store(ctx context.Context, f *model.Frame, payload []byte) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO frames (frameset, number, version, payload, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(frameset, number) DO UPDATE SET version = excluded.version,
		   payload = excluded.payload, updated_at = excluded.updated_at`,
		f.Name.Frameset, f.Name.Number, f.Version, string(payload), f.LastModifyDate.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store %s: %w", f.Name, err)
	}

	last, err := lastNumber(ctx, tx, f.Name.Frameset)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) || last < f.Name.Number {
		if err := setCounter(ctx, tx, f.Name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *SQLitePeer) InfNumber(ctx context.Context, path, frameset string, advance bool) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n, err := lastNumber(ctx, tx, frameset)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no counter for %s", ErrNotFound, frameset)
	}
	if err != nil {
		return 0, err
	}

	if advance {
		if err := setCounter(ctx, tx, model.NewFrameName(frameset, n+1)); err != nil {
			return 0, err
		}
	}
	return n, tx.Commit()
}

// Close closes the database.
func (p *SQLitePeer) Close() error {
	return p.db.Close()
}

func lastNumber(ctx context.Context, tx *sql.Tx, frameset string) (int, error) {
	var last string
	if err := tx.QueryRowContext(ctx,
		`SELECT last_name FROM counters WHERE frameset = ?`, frameset).Scan(&last); err != nil {
		return 0, err
	}
	n, ok := model.TrailingNumber(last)
	if !ok {
		return 0, fmt.Errorf("malformed counter %q for %s", last, frameset)
	}
	return n, nil
}

func setCounter(ctx context.Context, tx *sql.Tx, name model.FrameName) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO counters (frameset, last_name) VALUES (?, ?)
		 ON CONFLICT(frameset) DO UPDATE SET last_name = excluded.last_name`,
		name.Frameset, name.String())
	if err != nil {
		return fmt.Errorf("set counter %s: %w", name, err)
	}
	return nil
}
