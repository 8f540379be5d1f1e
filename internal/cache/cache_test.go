package cache

import (
	"testing"
	"time"

	"github.com/rcliao/framestore/internal/model"
)

func frame(fs string, n int) *model.Frame {
	return model.NewFrame(model.NewFrameName(fs, n), "alice", time.Now())
}

func TestPutGetCaseInsensitive(t *testing.T) {
	c := New(10)
	f := frame("Notes", 3)
	c.Put(f)

	got, ok := c.Get(model.NewFrameName("NOTES", 3))
	if !ok || got != f {
		t.Fatal("expected cached frame under case-folded key")
	}
	if !c.Contains(model.NewFrameName("notes", 3)) {
		t.Error("Contains should ignore case")
	}

	c.Remove(model.NewFrameName("notes", 3))
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestTemplateFramesNeverCached(t *testing.T) {
	c := New(10)
	c.Put(frame("Notes", 0))
	if c.Len() != 0 {
		t.Error("number-0 frames must not be cached")
	}
}

func TestBulkClearOnOverflow(t *testing.T) {
	const max = 5
	c := New(max)
	for i := 1; i <= max; i++ {
		c.Put(frame("Notes", i))
	}
	if c.Len() != max {
		t.Fatalf("expected %d entries, got %d", max, c.Len())
	}

	last := frame("Notes", max+1)
	c.Put(last)
	if c.Len() != 1 {
		t.Fatalf("expected bulk clear to leave 1 entry, got %d", c.Len())
	}
	if got, _ := c.Get(last.Name); got != last {
		t.Error("expected only the most recent frame to remain")
	}
}

func TestRefreshingExistingKeyDoesNotClear(t *testing.T) {
	c := New(2)
	c.Put(frame("Notes", 1))
	c.Put(frame("Notes", 2))
	c.Put(frame("Notes", 2))
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestDisabledCache(t *testing.T) {
	c := New(10)
	f := frame("Notes", 1)
	c.Put(f)
	c.SetEnabled(false)

	if _, ok := c.Get(f.Name); ok {
		t.Error("Get should miss while disabled")
	}
	c.Put(frame("Notes", 2))
	if c.Len() != 1 {
		t.Error("Put should be skipped while disabled")
	}
}

func TestSuspendResume(t *testing.T) {
	c := New(10)
	c.Suspend()
	if c.Enabled() {
		t.Fatal("expected disabled after suspend")
	}
	c.Resume()
	if !c.Enabled() {
		t.Fatal("expected enabled after resume")
	}
}

func TestSuspendIsNotReentrant(t *testing.T) {
	c := New(10)
	c.Suspend()
	c.Suspend() // no effect, and disarms the pending resume
	c.Resume()
	if c.Enabled() {
		t.Error("second suspend should have disarmed resume")
	}

	// A disabled cache stays disabled across a suspend/resume pair.
	d := New(10)
	d.SetEnabled(false)
	d.Suspend()
	d.Resume()
	if d.Enabled() {
		t.Error("resume must not enable a cache that was already off")
	}
}
