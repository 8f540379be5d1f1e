package model

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestPermissionFor(t *testing.T) {
	p := Permission{Owner: LevelFull, Others: LevelFollowLinks}
	assert.Equal(t, p.For("Alice", "alice"), LevelFull)
	assert.Equal(t, p.For("bob", "alice"), LevelFollowLinks)
}

func TestLevelText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("createframes")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assert.Equal(t, l, LevelCreateFrames)
	if err := l.UnmarshalText([]byte("root")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestTitle(t *testing.T) {
	f := NewFrame(NewFrameName("Foo", 1), "alice", time.Now())
	assert.Equal(t, f.Title(), "")

	f.AddItem("body", "")
	f.SetTitle("Foo")
	assert.Equal(t, f.Title(), "Foo")
	assert.Equal(t, f.Items[0].Role, RoleTitle)

	f.SetTitle("Bar")
	assert.Equal(t, f.Title(), "Bar")
	assert.Equal(t, len(f.Items), 2)
}

func TestDirectives(t *testing.T) {
	f := NewFrame(NewFrameName("Foo", 1), "alice", time.Now())
	f.AddItem("@backup keep history", "")
	f.AddItem("plain", "")

	assert.Equal(t, f.HasDirective(DirectiveBackup), true)
	assert.Equal(t, f.HasDirective(DirectiveNoSave), false)

	f.DirectiveItem(DirectiveBackup).Link = "Foo-old1"
	assert.Equal(t, f.Items[0].Link, "Foo-old1")

	f.IgnoreAnnotations = true
	assert.Equal(t, f.HasDirective(DirectiveBackup), false)
}

func TestCloneIsDeep(t *testing.T) {
	f := NewFrame(NewFrameName("Foo", 1), "alice", time.Now())
	f.AddItem("a", "Foo0")
	c := f.Clone()
	c.Items[0].Text = "b"
	assert.Equal(t, f.Items[0].Text, "a")
}

func TestStripLinksTo(t *testing.T) {
	f := NewFrame(NewFrameName("Foo", 2), "alice", time.Now())
	f.AddItem("up", "foo0")
	f.AddItem("elsewhere", "Bar3")
	n := f.StripLinksTo(NewFrameName("Foo", 0))
	assert.Equal(t, n, 1)
	assert.Equal(t, f.Items[0].Link, "")
	assert.Equal(t, f.Items[1].Link, "Bar3")
}
