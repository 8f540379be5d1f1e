// Package resolver maps frame and frameset names onto the configured root
// directories.
package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rcliao/framestore/internal/model"
)

// Resolver locates framesets and frame files under an ordered list of roots.
type Resolver struct {
	// Ext is the preferred frame file extension, with its leading dot.
	Ext string
}

func New(ext string) *Resolver {
	return &Resolver{Ext: ext}
}

// FramesetDir is <root>/<lowercase frameset>.
func FramesetDir(root, frameset string) string {
	return filepath.Join(root, strings.ToLower(frameset))
}

// FramePath is the preferred-format path for name under root.
func (r *Resolver) FramePath(root string, name model.FrameName) string {
	return filepath.Join(FramesetDir(root, name.Frameset), strconv.Itoa(name.Number)+r.Ext)
}

// LegacyPath is <root>/<fs>/<fs>.<number>.
func LegacyPath(root string, name model.FrameName) string {
	fs := strings.ToLower(name.Frameset)
	return filepath.Join(root, fs, fs+"."+strconv.Itoa(name.Number))
}

// ResolvePath returns the file holding name and the root it was found in.
// Scanning stops at the first root that has the frameset directory, even
// when the numbered file is missing there.
func (r *Resolver) ResolvePath(roots []string, name model.FrameName) (path, root string, ok bool) {
	for _, root := range roots {
		if !isDir(FramesetDir(root, name.Frameset)) {
			continue
		}
		if p := r.FramePath(root, name); isFile(p) {
			return p, root, true
		}
		if p := LegacyPath(root, name); isFile(p) {
			return p, root, true
		}
		return "", "", false
	}
	return "", "", false
}

// FindFrameset returns the first root holding a directory for frameset.
func FindFrameset(roots []string, frameset string) (string, bool) {
	for _, root := range roots {
		if isDir(FramesetDir(root, frameset)) {
			return root, true
		}
	}
	return "", false
}

// FramesetDirectoryList enumerates frameset directories across all roots,
// sorted and without duplicates.
func FramesetDirectoryList(roots []string) []string {
	seen := map[string]bool{}
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				seen[e.Name()] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NameFromPath decodes a frame file path back into a frame name. The
// frameset part comes back lower-cased, as stored on disk.
func (r *Resolver) NameFromPath(path string) (model.FrameName, bool) {
	frameset := filepath.Base(filepath.Dir(path))
	base := filepath.Base(path)

	var num string
	switch {
	case strings.HasSuffix(base, r.Ext):
		num = strings.TrimSuffix(base, r.Ext)
	case strings.HasPrefix(base, frameset+"."):
		num = strings.TrimPrefix(base, frameset+".")
	default:
		return model.FrameName{}, false
	}
	name, err := model.ParseFrameName(frameset + num)
	if err != nil || strconv.Itoa(name.Number) != num {
		return model.FrameName{}, false
	}
	return name, true
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
