package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/format"
	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/model"
)

// SaveOptions holds parameters for saving a frame.
type SaveOptions struct {
	// IncrementStats counts the save towards session statistics.
	IncrementStats bool
	// CheckBackupAndConflict enables the read-only guard and the backup
	// directive. The version conflict fork runs on every save.
	CheckBackupAndConflict bool

	// overwrite skips the conflict fork for deliberate rewrites.
	overwrite bool
	// kind is the journal kind recorded for a plain save.
	kind journal.Kind
}

// Save persists f and returns its serialized content. It returns "" with a
// nil error when there was nothing to do: f is nil, unchanged, already
// saved, read-only, or marked no-save. Whenever the file on disk carries a
// newer version than f, f is forked to the next free number instead of
// overwriting it.
func (s *Store) Save(ctx context.Context, f *model.Frame, opts SaveOptions) (string, error) {
	return s.save(ctx, f, opts, true)
}

// SaveAll saves every changed frame in frames. Template frames are skipped.
func (s *Store) SaveAll(ctx context.Context, frames []*model.Frame, opts SaveOptions) error {
	var firstErr error
	for _, f := range frames {
		if f == nil || f.Name.IsTemplate() {
			continue
		}
		if _, err := s.save(ctx, f, opts, true); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// save does the work of Save. accrue charges the session's elapsed time to
// f; nested saves of backups and deleted frames leave it alone.
func (s *Store) save(ctx context.Context, f *model.Frame, opts SaveOptions, accrue bool) (string, error) {
	if f == nil || !f.Changed || f.Saved {
		return "", nil
	}

	root := f.Path
	if root == "" {
		root = s.rootFor(f.Name.Frameset)
	}
	path, exists := s.locate(root, f.Name)

	if opts.CheckBackupAndConflict && exists && s.readOnly(f) {
		glog.V(1).Infof("save %s: read-only for %s", f.Name, s.user)
		s.cache.Remove(f.Name)
		return "", nil
	}

	if f.HasDirective(model.DirectiveNoSave) {
		s.actions.Restore(f)
		return "", nil
	}

	if !f.IsLocal {
		return s.peer.SaveFrame(ctx, f)
	}

	if f.HasDirective(model.DirectiveAutoFormat) {
		s.actions.AutoFormat(f)
	}

	codec, err := s.formats.ForPath(path)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", f.Name, err)
	}

	kind := journal.KindSave
	if opts.kind != "" {
		kind = opts.kind
	}
	related := ""
	forked := ""
	if exists && !opts.overwrite {
		if forked, err = s.checkConflict(ctx, f, root, path, codec); err != nil {
			return "", err
		}
	}
	if forked != "" {
		kind, related = journal.KindFork, forked
		path = s.resolver.FramePath(root, f.Name)
		codec = s.formats.Preferred()
	} else if opts.CheckBackupAndConflict && exists && f.HasDirective(model.DirectiveBackup) {
		if err := s.backup(ctx, f, root); err != nil {
			glog.Warningf("backup %s: %v", f.Name, err)
		}
	}

	prev := *f
	f.LastModifyUser = s.user
	f.LastModifyDate = s.now()
	f.Version++
	if accrue {
		active, dark := s.session.Elapsed()
		f.ActiveTime += active
		f.DarkTime += dark
	}

	data, err := codec.Encode(f)
	if err == nil {
		err = writeFile(path, data)
	}
	if err != nil {
		f.LastModifyUser = prev.LastModifyUser
		f.LastModifyDate = prev.LastModifyDate
		f.Version = prev.Version
		f.ActiveTime = prev.ActiveTime
		f.DarkTime = prev.DarkTime
		glog.Errorf("save %s to %s: %v", f.Name, path, err)
		s.notify.Error(f.Name.String() + " could not be saved")
		return "", fmt.Errorf("save %s: %w", f.Name, err)
	}

	f.Path = root
	f.IsLocal = true
	f.Saved = true
	f.Changed = false
	if accrue {
		s.session.Reset()
	}

	if s.cache.Contains(f.Name) {
		s.cache.Put(f)
	}

	if last, err := s.counter.ReadNext(ctx, root, f.Name.Frameset, false); err != nil || last < f.Name.Number {
		if err := s.counter.Write(root, f.Name.Frameset, f.Name); err != nil {
			glog.Warningf("save %s: %v", f.Name, err)
		}
	}

	if s.isProfile(f.Name) {
		s.actions.ProfileSaved(f)
	}
	if opts.IncrementStats {
		s.session.CountSave()
	}
	s.record(ctx, f.Name, f.Version, kind, related)

	return string(data), nil
}

// checkConflict forks f to the next free number when the copy at path is
// newer. It returns the original name when it forked.
func (s *Store) checkConflict(ctx context.Context, f *model.Frame, root, path string, codec format.Codec) (string, error) {
	if strings.EqualFold(f.Name.Frameset, Messages) {
		return "", nil
	}
	onDisk, err := codec.Version(path)
	if err != nil {
		glog.Warningf("version of %s: %v", path, err)
		return "", nil
	}
	if onDisk <= f.Version {
		return "", nil
	}

	orig := f.Name
	s.cache.Remove(orig)

	last, err := s.counter.ReadNext(ctx, root, orig.Frameset, false)
	if err != nil {
		return "", fmt.Errorf("fork %s: %w", orig, err)
	}
	if theirs := s.loadFresh(ctx, orig, root); theirs != nil {
		glog.V(1).Infof("%s is at version %d on disk, ours is %d", orig, theirs.Version, f.Version)
		s.cache.Put(theirs)
	}

	f.Name = orig.WithNumber(last + 1)
	s.cache.Put(f)

	s.notify.Notice(orig.String()+" was updated by another user", orig.String())
	s.notify.Notice("Your version was renamed "+f.Name.String(), f.Name.String())
	return orig.String(), nil
}

// backup copies the on-disk version of f into the <frameset>-old frameset
// and points f's backup item at the copy.
func (s *Store) backup(ctx context.Context, f *model.Frame, root string) error {
	original := s.loadFresh(ctx, f.Name, root)
	if original == nil {
		return fmt.Errorf("%s: %w", f.Name, ErrNotFound)
	}

	oldSet := f.Name.Frameset + OldSuffix
	oldRoot, err := s.ensureFrameset(ctx, oldSet, root)
	if err != nil {
		return err
	}
	last, err := s.counter.ReadNext(ctx, oldRoot, oldSet, true)
	if err != nil {
		return err
	}

	original.Name = model.NewFrameName(oldSet, last+1)
	original.Path = oldRoot
	original.Permission = model.CopyOnly
	original.MarkChanged()
	if _, err := s.save(ctx, original, SaveOptions{}, false); err != nil {
		return err
	}

	if item := f.DirectiveItem(model.DirectiveBackup); item != nil {
		item.Link = original.Name.String()
	}
	s.record(ctx, original.Name, original.Version, journal.KindBackup, f.Name.String())
	return nil
}

// readOnly reports whether the current user lacks full access to f.
func (s *Store) readOnly(f *model.Frame) bool {
	return f.Permission.For(s.user, f.Owner) < model.LevelFull
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Sync(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// stamp resets a frame's identity metadata for a fresh copy.
func (s *Store) stamp(f *model.Frame, now time.Time) {
	f.Owner = s.user
	f.DateCreated = now
	f.Version = 0
	f.ActiveTime = 0
	f.DarkTime = 0
	f.LastModifyUser = ""
	f.LastModifyDate = time.Time{}
	f.IsLocal = true
	f.Saved = false
}
