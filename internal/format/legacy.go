package format

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rcliao/framestore/internal/model"
)

// LegacyCodec reads and writes the older "<frameset>.<number>" files,
// which hold the whole frame as one JSON document.
type LegacyCodec struct{}

func (LegacyCodec) Name() string { return "legacy" }

func (LegacyCodec) Encode(f *model.Frame) ([]byte, error) {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", f.Name, err)
	}
	return append(b, '\n'), nil
}

func (LegacyCodec) Decode(b []byte) (*model.Frame, error) {
	var f model.Frame
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	f.IsLocal = true
	return &f, nil
}

func (LegacyCodec) Version(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var v struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return v.Version, nil
}
