// Package peer defines the contract of a remote frame source used when the
// local roots cannot serve a frame, plus a SQLite-backed implementation.
package peer

import (
	"context"
	"errors"

	"github.com/rcliao/framestore/internal/model"
)

var (
	ErrUnavailable = errors.New("peer unavailable")
	ErrNotFound    = errors.New("frame not found on peer")
)

// Peer offers the same load/save/numbering operations as the local store
// for frames it owns.
type Peer interface {
	LoadFrame(ctx context.Context, name model.FrameName, knownPath string) (*model.Frame, error)
	// SaveFrame persists f and returns its serialized content.
	SaveFrame(ctx context.Context, f *model.Frame) (string, error)
	// InfNumber returns the last issued number for frameset, advancing the
	// counter by one when advance is set.
	InfNumber(ctx context.Context, path, frameset string, advance bool) (int, error)
}

// None is a Peer that never has anything.
type None struct{}

func (None) LoadFrame(context.Context, model.FrameName, string) (*model.Frame, error) {
	return nil, ErrUnavailable
}

func (None) SaveFrame(context.Context, *model.Frame) (string, error) {
	return "", ErrUnavailable
}

func (None) InfNumber(context.Context, string, string, bool) (int, error) {
	return 0, ErrUnavailable
}
