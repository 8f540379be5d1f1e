package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidName is returned when a string is not a well-formed frame or frameset name.
var ErrInvalidName = errors.New("invalid name")

const maxFramesetNameLen = 64

// FrameName identifies a frame within a frameset. The canonical string form
// is the frameset name immediately followed by the number, e.g. "Foo23".
type FrameName struct {
	Frameset string
	Number   int
}

// NewFrameName builds a FrameName without validating it.
func NewFrameName(frameset string, number int) FrameName {
	return FrameName{Frameset: frameset, Number: number}
}

func (n FrameName) String() string {
	return n.Frameset + strconv.Itoa(n.Number)
}

// Key is the case-insensitive form used for map keys and file names.
func (n FrameName) Key() string {
	return strings.ToLower(n.String())
}

// Equal compares two names ignoring frameset case.
func (n FrameName) Equal(o FrameName) bool {
	return n.Number == o.Number && strings.EqualFold(n.Frameset, o.Frameset)
}

func (n FrameName) IsZero() bool {
	return n.Frameset == "" && n.Number == 0
}

// IsTemplate reports whether this is a frameset's number-0 frame.
func (n FrameName) IsTemplate() bool {
	return n.Number == 0
}

// WithNumber returns a copy of n in the same frameset.
func (n FrameName) WithNumber(number int) FrameName {
	return FrameName{Frameset: n.Frameset, Number: number}
}

func (n FrameName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *FrameName) UnmarshalText(b []byte) error {
	parsed, err := ParseFrameName(string(b))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ParseFrameName splits s into frameset name and number.
func ParseFrameName(s string) (FrameName, error) {
	if !IsValidFrameName(s) {
		return FrameName{}, fmt.Errorf("%w: frame %q", ErrInvalidName, s)
	}
	i := len(s)
	for i > 0 && isDigit(s[i-1]) {
		i--
	}
	frameset := s[:i]
	if !IsValidFramesetName(frameset) {
		return FrameName{}, fmt.Errorf("%w: frameset %q in frame %q", ErrInvalidName, frameset, s)
	}
	number, err := strconv.Atoi(s[i:])
	if err != nil {
		return FrameName{}, fmt.Errorf("%w: frame number %q: %v", ErrInvalidName, s[i:], err)
	}
	return FrameName{Frameset: frameset, Number: number}, nil
}

// IsValidFrameName: at least two characters, a leading letter, a trailing
// digit, and only letters, digits or hyphens in between.
func IsValidFrameName(s string) bool {
	if len(s) < 2 {
		return false
	}
	if !isLetter(s[0]) || !isDigit(s[len(s)-1]) {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		if !isInterior(s[i]) {
			return false
		}
	}
	return true
}

// IsValidFramesetName: 1 to 64 characters, starting and ending with a
// letter, with letters, digits or hyphens in between.
func IsValidFramesetName(s string) bool {
	if len(s) < 1 || len(s) > maxFramesetNameLen {
		return false
	}
	if !isLetter(s[0]) || !isLetter(s[len(s)-1]) {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		if !isInterior(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isInterior(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-'
}

// TrailingNumber parses the digits at the end of s, as found in stored
// counter tokens like "Foo7".
func TrailingNumber(s string) (int, bool) {
	i := len(s)
	for i > 0 && isDigit(s[i-1]) {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}
