package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/framestore/internal/model"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePathPrefersExp(t *testing.T) {
	root := t.TempDir()
	r := New(".exp")
	touch(t, filepath.Join(root, "notes", "3.exp"))
	touch(t, filepath.Join(root, "notes", "notes.3"))

	p, gotRoot, ok := r.ResolvePath([]string{root}, model.NewFrameName("Notes", 3))
	if !ok {
		t.Fatal("expected frame to resolve")
	}
	if p != filepath.Join(root, "notes", "3.exp") || gotRoot != root {
		t.Errorf("resolved to %s in %s", p, gotRoot)
	}
}

func TestResolvePathLegacyFallback(t *testing.T) {
	root := t.TempDir()
	r := New(".exp")
	touch(t, filepath.Join(root, "notes", "notes.5"))

	p, _, ok := r.ResolvePath([]string{root}, model.NewFrameName("Notes", 5))
	if !ok || p != filepath.Join(root, "notes", "notes.5") {
		t.Errorf("expected legacy path, got %q ok=%v", p, ok)
	}
}

func TestResolvePathStopsAtFirstFramesetDir(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	r := New(".exp")
	os.MkdirAll(filepath.Join(first, "notes"), 0o755)
	touch(t, filepath.Join(second, "notes", "2.exp"))

	if _, _, ok := r.ResolvePath([]string{first, second}, model.NewFrameName("Notes", 2)); ok {
		t.Error("expected not found: first root owns the frameset")
	}

	p, root, ok := r.ResolvePath([]string{t.TempDir(), second}, model.NewFrameName("Notes", 2))
	if !ok || root != second {
		t.Errorf("expected second root, got %q %q %v", p, root, ok)
	}
}

func TestFindFramesetAndList(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	os.MkdirAll(filepath.Join(a, "alpha"), 0o755)
	os.MkdirAll(filepath.Join(b, "beta"), 0o755)
	os.MkdirAll(filepath.Join(b, "alpha"), 0o755)
	os.MkdirAll(filepath.Join(b, ".hidden"), 0o755)
	touch(t, filepath.Join(b, "stray.txt"))

	root, ok := FindFrameset([]string{a, b}, "Beta")
	if !ok || root != b {
		t.Errorf("FindFrameset = %q, %v", root, ok)
	}

	got := FramesetDirectoryList([]string{a, b, filepath.Join(a, "missing")})
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("unexpected list %v", got)
	}
}

func TestNameFromPath(t *testing.T) {
	r := New(".exp")
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/root/notes/12.exp", "notes12", true},
		{"/root/notes/notes.7", "notes7", true},
		{"/root/notes/frame.inf", "", false},
		{"/root/notes/abc.exp", "", false},
		{"/root/notes/007.exp", "", false},
	}
	for _, tt := range tests {
		n, ok := r.NameFromPath(tt.path)
		if ok != tt.ok || (ok && n.Key() != tt.want) {
			t.Errorf("%s: got %v %v", tt.path, n, ok)
		}
	}
}
