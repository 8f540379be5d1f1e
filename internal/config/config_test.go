package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/mitchellh/go-homedir"
)

func TestNewFromReaderMergesDefaults(t *testing.T) {
	c, err := NewFromReader(strings.NewReader(`
roots: [/srv/frames, /mnt/shared]
trash: /srv/trash
user: alice
maxCache: 25
defaultTemplate: Templates1
profileFramesets: [Profile]
idleThreshold: 90s
`))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, c.Roots, []string{"/srv/frames", "/mnt/shared"})
	assert.Equal(t, c.User, "alice")
	assert.Equal(t, c.MaxCache, 25)
	assert.Equal(t, c.Format, ".exp")
	assert.Equal(t, c.IdleThreshold, 90*time.Second)
	assert.Equal(t, c.DefaultTemplate, "Templates1")
}

func TestNewFromReaderExpandsHome(t *testing.T) {
	c, err := NewFromReader(strings.NewReader("roots: [~/frames]\ntrash: ~/trash\n"))
	if err != nil {
		t.Fatal(err)
	}
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, c.Roots[0], filepath.Join(home, "frames"))
	assert.Equal(t, c.Trash, filepath.Join(home, "trash"))
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"no roots":         "roots: []\n",
		"duplicate roots":  "roots: [/a, /a]\n",
		"bad template":     "defaultTemplate: 1abc\n",
		"bad profile":      "profileFramesets: [\"no way\"]\n",
		"zero cache":       "maxCache: 0\n",
		"format needs dot": "format: exp\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewFromReader(strings.NewReader(doc)); err == nil {
				t.Errorf("expected validation error for %q", doc)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("user: bob\nroots: ["+dir+"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)

	assert.Equal(t, Path(), path)
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, c.User, "bob")
	assert.Equal(t, c.Roots, []string{dir})
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config")
	}
}
