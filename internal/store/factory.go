package store

import (
	"context"
	"fmt"

	"github.com/rcliao/framestore/internal/model"
)

// CreateFrameParams holds parameters for allocating a new frame.
type CreateFrameParams struct {
	Frameset string
	Title    string
	// Template names the frame to clone; empty means the frameset's frame 0.
	Template string
}

// CreateFrame allocates the next frame of a frameset by cloning a template.
// The new frame is cached and marked changed but not written.
func (s *Store) CreateFrame(ctx context.Context, p CreateFrameParams) (*model.Frame, error) {
	if !model.IsValidFramesetName(p.Frameset) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, p.Frameset)
	}

	zero := s.load(ctx, model.NewFrameName(p.Frameset, 0), "", false)
	if zero == nil {
		return nil, fmt.Errorf("%w: %s0", ErrNoTemplate, p.Frameset)
	}

	template := zero
	if p.Template != "" {
		name, err := model.ParseFrameName(p.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, p.Template)
		}
		if template = s.load(ctx, name, "", false); template == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoTemplate, name)
		}
	}

	last, err := s.counter.ReadNext(ctx, zero.Path, p.Frameset, true)
	if err != nil {
		return nil, fmt.Errorf("create frame in %s: %w", p.Frameset, err)
	}
	s.cache.Remove(template.Name)

	f := template.Clone()
	f.Name = model.NewFrameName(p.Frameset, last+1)
	f.Path = zero.Path
	f.IgnoreAnnotations = false
	s.stamp(f, s.now())
	f.StripLinksTo(template.Name)
	if p.Title != "" {
		f.SetTitle(p.Title)
	}
	f.MarkChanged()
	s.actions.LayoutTitle(f)

	s.cache.Put(f)
	return f, nil
}
