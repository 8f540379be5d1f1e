// Package counter manages the per-frameset numbering file that records the
// most recently issued frame name.
package counter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/peer"
	"github.com/rcliao/framestore/internal/resolver"
)

// FileName is the counter file inside every frameset directory.
const FileName = "frame.inf"

var (
	ErrUnavailable = errors.New("frameset counter unavailable")
	ErrMalformed   = errors.New("malformed counter token")
)

// Counter reads and writes frame.inf files, asking the peer when the local
// file cannot be read.
type Counter struct {
	peer peer.Peer
}

func New(p peer.Peer) *Counter {
	if p == nil {
		p = peer.None{}
	}
	return &Counter{peer: p}
}

// Path is the counter file for frameset under root.
func Path(root, frameset string) string {
	return filepath.Join(resolver.FramesetDir(root, frameset), FileName)
}

func legacyPath(root, frameset string) string {
	fs := strings.ToLower(frameset)
	return filepath.Join(resolver.FramesetDir(root, frameset), fs+".inf")
}

// ReadNext returns the number in the stored token. With advance set it also
// stores frameset+(number+1) before returning the pre-advance number.
func (c *Counter) ReadNext(ctx context.Context, root, frameset string, advance bool) (int, error) {
	token, err := read(root, frameset)
	if err != nil {
		n, perr := c.peer.InfNumber(ctx, root, frameset, advance)
		if perr == nil {
			return n, nil
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrUnavailable, frameset, err)
	}

	n, err := ParseToken(token)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", frameset, err)
	}

	if advance {
		if err := c.Write(root, frameset, model.NewFrameName(frameset, n+1)); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// Write replaces the stored token with name.
func (c *Counter) Write(root, frameset string, name model.FrameName) error {
	p := Path(root, frameset)
	if err := os.WriteFile(p, []byte(name.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write counter %s: %w", p, err)
	}
	return nil
}

// ParseToken extracts the trailing number of a stored frame name.
func ParseToken(token string) (int, error) {
	n, ok := model.TrailingNumber(strings.TrimSpace(token))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	return n, nil
}

func read(root, frameset string) (string, error) {
	b, err := os.ReadFile(Path(root, frameset))
	if err == nil {
		return string(b), nil
	}
	if lb, lerr := os.ReadFile(legacyPath(root, frameset)); lerr == nil {
		return string(lb), nil
	}
	return "", err
}
