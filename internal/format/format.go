// Package format holds the on-disk frame codecs and the extension registry
// that picks one for a given file.
package format

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcliao/framestore/internal/model"
)

var (
	ErrUnknownFormat = errors.New("unknown frame format")
	ErrMalformed     = errors.New("malformed frame file")
)

// Codec reads and writes one on-disk representation of a frame. The frame
// name is never part of the encoding; callers derive it from the path.
type Codec interface {
	Name() string
	Encode(f *model.Frame) ([]byte, error)
	Decode(b []byte) (*model.Frame, error)
	// Version reads only the stored version number.
	Version(path string) (int, error)
}

// Registry maps file extensions to codecs.
type Registry struct {
	byExt     map[string]Codec
	preferred string
	legacy    Codec
}

// NewRegistry returns a registry with the exp format preferred and the
// legacy numeric-extension format as fallback.
func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]Codec{}}
	r.Register(ExpExt, ExpCodec{})
	r.preferred = ExpExt
	r.legacy = LegacyCodec{}
	return r
}

// Register binds ext (with leading dot) to c.
func (r *Registry) Register(ext string, c Codec) {
	r.byExt[strings.ToLower(ext)] = c
}

// SetPreferred changes the format used for new frames.
func (r *Registry) SetPreferred(ext string) error {
	if _, ok := r.byExt[strings.ToLower(ext)]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
	}
	r.preferred = strings.ToLower(ext)
	return nil
}

func (r *Registry) PreferredExt() string {
	return r.preferred
}

func (r *Registry) Preferred() Codec {
	return r.byExt[r.preferred]
}

// ForPath picks the codec implied by path's extension. A purely numeric
// extension ("foo.12") selects the legacy codec.
func (r *Registry) ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := r.byExt[ext]; ok {
		return c, nil
	}
	if isNumericExt(ext) {
		return r.legacy, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ReadFrame decodes the frame stored at path.
func (r *Registry) ReadFrame(path string) (*model.Frame, error) {
	c, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := c.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}

// Version returns the stored version of the frame at path.
func (r *Registry) Version(path string) (int, error) {
	c, err := r.ForPath(path)
	if err != nil {
		return 0, err
	}
	return c.Version(path)
}

func isNumericExt(ext string) bool {
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	for _, c := range ext[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
