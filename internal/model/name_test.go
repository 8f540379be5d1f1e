package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestIsValidFrameName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"A", false},
		{"1", false},
		{"A1", true},
		{"Foo23", true},
		{"foo-old3", true},
		{"Foo", false},
		{"1Foo2", false},
		{"Fo_o2", false},
		{"Fo o2", false},
		{"F-2", true},
	}
	for _, tt := range tests {
		assert.Equal(t, IsValidFrameName(tt.in), tt.want)
	}
}

func TestIsValidFramesetName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"A", true},
		{"Foo", true},
		{"Foo-old", true},
		{"Foo2", false},
		{"2Foo", false},
		{"Fo2o", true},
		{"Foo-", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		assert.Equal(t, IsValidFramesetName(tt.in), tt.want)
	}
}

func TestParseFrameName(t *testing.T) {
	n, err := ParseFrameName("Foo23")
	assert.Equal(t, err, nil)
	assert.Equal(t, n.Frameset, "Foo")
	assert.Equal(t, n.Number, 23)
	assert.Equal(t, n.String(), "Foo23")
	assert.Equal(t, n.Key(), "foo23")

	n, err = ParseFrameName("Foo-old0")
	assert.Equal(t, err, nil)
	assert.Equal(t, n.Frameset, "Foo-old")
	assert.Equal(t, n.IsTemplate(), true)

	_, err = ParseFrameName("a-1")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName for dangling hyphen, got %v", err)
	}
	_, err = ParseFrameName("Foo")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName without number, got %v", err)
	}
}

func TestFrameNameEqualIgnoresCase(t *testing.T) {
	a := NewFrameName("Foo", 3)
	b := NewFrameName("fOO", 3)
	assert.Equal(t, a.Equal(b), true)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, a.Equal(a.WithNumber(4)), false)
}

func TestFrameNameText(t *testing.T) {
	var n FrameName
	if err := n.UnmarshalText([]byte("Notes12")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, _ := n.MarshalText()
	assert.Equal(t, string(b), "Notes12")
}
