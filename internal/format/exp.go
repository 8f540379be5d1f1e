package format

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/framestore/internal/model"
)

// ExpExt is the extension of the preferred frame format.
const ExpExt = ".exp"

const frontMatterDelim = "---"

// ExpCodec stores a YAML metadata header between "---" lines followed by
// the item list as a YAML sequence.
type ExpCodec struct{}

type expHeader struct {
	Version        int              `yaml:"version"`
	Owner          string           `yaml:"owner"`
	Permission     model.Permission `yaml:"permission"`
	DateCreated    time.Time        `yaml:"dateCreated"`
	LastModifyUser string           `yaml:"lastModifyUser,omitempty"`
	LastModifyDate time.Time        `yaml:"lastModifyDate,omitempty"`
	ActiveTime     time.Duration    `yaml:"activeTime"`
	DarkTime       time.Duration    `yaml:"darkTime"`
}

func (ExpCodec) Name() string { return "exp" }

func (ExpCodec) Encode(f *model.Frame) ([]byte, error) {
	hdr, err := yaml.Marshal(expHeader{
		Version:        f.Version,
		Owner:          f.Owner,
		Permission:     f.Permission,
		DateCreated:    f.DateCreated,
		LastModifyUser: f.LastModifyUser,
		LastModifyDate: f.LastModifyDate,
		ActiveTime:     f.ActiveTime,
		DarkTime:       f.DarkTime,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal header for %s: %w", f.Name, err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(hdr)
	buf.WriteString(frontMatterDelim + "\n")
	if len(f.Items) > 0 {
		body, err := yaml.Marshal(f.Items)
		if err != nil {
			return nil, fmt.Errorf("marshal items for %s: %w", f.Name, err)
		}
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

func (ExpCodec) Decode(b []byte) (*model.Frame, error) {
	header, body, err := splitFrontMatter(string(b))
	if err != nil {
		return nil, err
	}

	var hdr expHeader
	if err := yaml.Unmarshal([]byte(header), &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	var items []model.Item
	if strings.TrimSpace(body) != "" {
		if err := yaml.Unmarshal([]byte(body), &items); err != nil {
			return nil, fmt.Errorf("%w: items: %v", ErrMalformed, err)
		}
	}

	return &model.Frame{
		Version:        hdr.Version,
		Owner:          hdr.Owner,
		Permission:     hdr.Permission,
		DateCreated:    hdr.DateCreated,
		LastModifyUser: hdr.LastModifyUser,
		LastModifyDate: hdr.LastModifyDate,
		ActiveTime:     hdr.ActiveTime,
		DarkTime:       hdr.DarkTime,
		Items:          items,
		IsLocal:        true,
	}, nil
}

// Version scans only the header, so it stays cheap on large frames.
func (ExpCodec) Version(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var hdr bytes.Buffer
	sc := bufio.NewScanner(f)
	opened := false
	for sc.Scan() {
		line := sc.Text()
		if line == frontMatterDelim {
			if opened {
				var h expHeader
				if err := yaml.Unmarshal(hdr.Bytes(), &h); err != nil {
					return 0, fmt.Errorf("%w: header of %s: %v", ErrMalformed, path, err)
				}
				return h.Version, nil
			}
			opened = true
			continue
		}
		if opened {
			hdr.WriteString(line)
			hdr.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: no header in %s", ErrMalformed, path)
}

// splitFrontMatter separates the header from the body. Delimiters must sit
// on their own line.
func splitFrontMatter(s string) (header, body string, err error) {
	open := frontMatterDelim + "\n"
	if !strings.HasPrefix(s, open) {
		return "", "", fmt.Errorf("%w: missing metadata header", ErrMalformed)
	}
	rest := s[len(open):]
	if strings.HasPrefix(rest, open) {
		return "", rest[len(open):], nil
	}
	i := strings.Index(rest, "\n"+open)
	if i < 0 {
		return "", "", fmt.Errorf("%w: unterminated metadata header", ErrMalformed)
	}
	return rest[:i+1], rest[i+1+len(open):], nil
}
