package store

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/resolver"
)

// Delete archives f into the DeletedFrames frameset next to it and removes
// its original file. It returns the name f had before deletion. Template
// frames and peer frames are refused with ErrProtectedFrame.
func (s *Store) Delete(ctx context.Context, f *model.Frame) (model.FrameName, error) {
	if f == nil {
		return model.FrameName{}, ErrNotFound
	}
	if f.Name.IsTemplate() || !f.IsLocal {
		return model.FrameName{}, fmt.Errorf("%w: %s", ErrProtectedFrame, f.Name)
	}

	f.MarkChanged()
	if _, err := s.save(ctx, f, SaveOptions{}, true); err != nil {
		return model.FrameName{}, err
	}

	orig, root := f.Name, f.Path
	origPath, exists := s.locate(root, orig)

	delRoot, err := s.ensureFrameset(ctx, DeletedFrames, root)
	if err != nil {
		return model.FrameName{}, err
	}
	last, err := s.counter.ReadNext(ctx, delRoot, DeletedFrames, true)
	if err != nil {
		return model.FrameName{}, err
	}

	f.Name = model.NewFrameName(DeletedFrames, last+1)
	f.Path = delRoot
	f.MarkChanged()
	if _, err := s.save(ctx, f, SaveOptions{}, false); err != nil {
		f.Name, f.Path = orig, root
		return model.FrameName{}, err
	}
	s.cache.Remove(orig)
	s.record(ctx, orig, f.Version, journal.KindDelete, f.Name.String())

	if exists {
		if err := os.Remove(origPath); err != nil {
			glog.Errorf("delete %s: %v", origPath, err)
			s.notify.Error(orig.String() + " could not be deleted")
			return model.FrameName{}, fmt.Errorf("delete %s: %w", orig, err)
		}
	}
	return orig, nil
}

// ensureFrameset returns the root holding frameset next to near, creating
// and seeding it there on first use. Seeded framesets get a frame 0 and a
// counter at zero so the first allocation is number 1.
func (s *Store) ensureFrameset(ctx context.Context, frameset, near string) (string, error) {
	dir := resolver.FramesetDir(near, frameset)
	if isDir(dir) {
		return near, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", frameset, err)
	}
	if err := s.counter.Write(near, frameset, model.NewFrameName(frameset, 0)); err != nil {
		return "", err
	}
	if _, err := s.seedTemplate(ctx, frameset, near); err != nil {
		return "", err
	}
	glog.V(1).Infof("created frameset %s in %s", frameset, near)
	return near, nil
}
