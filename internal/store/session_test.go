package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSessionAccounting(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	s := NewSession(clock.now, time.Minute)
	if s.ID == "" {
		t.Fatal("expected a session id")
	}

	clock.advance(30 * time.Second)
	s.Touch()
	clock.advance(5 * time.Minute)
	s.Touch()
	clock.advance(10 * time.Second)

	active, dark := s.Elapsed()
	assert.Equal(t, active, 40*time.Second)
	assert.Equal(t, dark, 5*time.Minute)

	s.Reset()
	active, dark = s.Elapsed()
	assert.Equal(t, active, time.Duration(0))
	assert.Equal(t, dark, time.Duration(0))
}

func TestSessionTimeAccruesOnSave(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	s, err := New(Options{
		Roots:   []string{t.TempDir()},
		User:    "alice",
		Now:     clock.now,
		Session: NewSession(clock.now, time.Minute),
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := s.Create(context.Background(), CreateParams{Name: "Test"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, f.ActiveTime, time.Duration(0))

	clock.advance(20 * time.Second)
	f.MarkChanged()
	if _, err := s.Save(context.Background(), f, SaveOptions{}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, f.ActiveTime, 20*time.Second)
	assert.Equal(t, f.LastModifyDate, clock.t)
}

func TestLogNotifierKeepsRecent(t *testing.T) {
	n := NewLogNotifier(2)
	n.Notice("one", "")
	n.Error("two")
	n.Notice("three", "Test3")

	got := n.Recent()
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].Text, "two")
	assert.Equal(t, got[0].Error, true)
	assert.Equal(t, got[1].Link, "Test3")

	assert.Equal(t, len(n.Drain()), 2)
	assert.Equal(t, len(n.Recent()), 0)
}
