package format

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/framestore/internal/model"
)

func sampleFrame() *model.Frame {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := model.NewFrame(model.NewFrameName("Notes", 4), "alice", now)
	f.Version = 7
	f.LastModifyUser = "bob"
	f.LastModifyDate = now.Add(time.Hour)
	f.ActiveTime = 90 * time.Second
	f.DarkTime = 3 * time.Minute
	f.SetTitle("Notes")
	f.AddItem("first line\n---\nstill first", "")
	f.AddItem("@Backup", "Notes-old2")
	return f
}

func TestExpRoundTrip(t *testing.T) {
	f := sampleFrame()
	b, err := ExpCodec{}.Encode(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := ExpCodec{}.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != 7 || got.Owner != "alice" || got.LastModifyUser != "bob" {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.ActiveTime != f.ActiveTime || got.DarkTime != f.DarkTime {
		t.Errorf("times mismatch: active %v dark %v", got.ActiveTime, got.DarkTime)
	}
	if !got.DateCreated.Equal(f.DateCreated) {
		t.Errorf("date created %v, want %v", got.DateCreated, f.DateCreated)
	}
	if got.Permission != f.Permission {
		t.Errorf("permission %+v, want %+v", got.Permission, f.Permission)
	}
	if len(got.Items) != 3 || got.Items[1].Text != f.Items[1].Text {
		t.Fatalf("items mismatch: %+v", got.Items)
	}
	if got.Title() != "Notes" {
		t.Errorf("title %q", got.Title())
	}
	if !got.IsLocal {
		t.Error("decoded frame should be local")
	}
}

func TestExpVersionReadsHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "4.exp")
	b, _ := ExpCodec{}.Encode(sampleFrame())
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := ExpCodec{}.Version(path)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 7 {
		t.Errorf("expected version 7, got %d", v)
	}
}

func TestExpDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no header", "items: []\n"},
		{"unterminated", "---\nversion: 1\n"},
		{"bad yaml", "---\nversion: [\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpCodec{}.Decode([]byte(tt.in))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.4")
	b, err := LegacyCodec{}.Encode(sampleFrame())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	os.WriteFile(path, b, 0o644)

	r := NewRegistry()
	got, err := r.ReadFrame(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Version != 7 || len(got.Items) != 3 {
		t.Errorf("unexpected frame: %+v", got)
	}
	v, err := r.Version(path)
	if err != nil || v != 7 {
		t.Errorf("version = %d, %v", v, err)
	}
}

func TestRegistryForPath(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		path string
		want string
	}{
		{"/r/notes/4.exp", "exp"},
		{"/r/notes/4.EXP", "exp"},
		{"/r/notes/notes.12", "legacy"},
	}
	for _, tt := range tests {
		c, err := r.ForPath(tt.path)
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if c.Name() != tt.want {
			t.Errorf("%s: got %s, want %s", tt.path, c.Name(), tt.want)
		}
	}

	if _, err := r.ForPath("/r/notes/frame.inf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if err := r.SetPreferred(".txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for unregistered preferred, got %v", err)
	}
	if r.PreferredExt() != ExpExt {
		t.Errorf("preferred ext %q", r.PreferredExt())
	}
}
