// Package cache is the in-memory frame cache. It is not safe for concurrent
// use; the store drives it from a single session goroutine.
package cache

import (
	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/model"
)

// DefaultMax is the capacity used when none is configured.
const DefaultMax = 100

// Cache maps lower-cased frame names to loaded frames. When a new entry
// would push it past its capacity the whole map is cleared first.
type Cache struct {
	frames    map[string]*model.Frame
	max       int
	enabled   bool
	suspended bool
}

func New(max int) *Cache {
	if max <= 0 {
		max = DefaultMax
	}
	return &Cache{
		frames:  make(map[string]*model.Frame),
		max:     max,
		enabled: true,
	}
}

func (c *Cache) Enabled() bool { return c.enabled }

// SetEnabled toggles caching globally.
func (c *Cache) SetEnabled(on bool) { c.enabled = on }

// Get returns the cached frame, if caching is enabled and it is present.
func (c *Cache) Get(name model.FrameName) (*model.Frame, bool) {
	if !c.enabled {
		return nil, false
	}
	f, ok := c.frames[name.Key()]
	return f, ok
}

// Put caches f under its current name. Template frames are never cached.
func (c *Cache) Put(f *model.Frame) {
	if f == nil || f.Name.IsTemplate() || !c.enabled {
		return
	}
	key := f.Name.Key()
	if _, ok := c.frames[key]; !ok && len(c.frames) >= c.max {
		glog.V(2).Infof("frame cache full at %d entries, clearing", len(c.frames))
		c.Clear()
	}
	c.frames[key] = f
}

func (c *Cache) Remove(name model.FrameName) {
	delete(c.frames, name.Key())
}

func (c *Cache) Contains(name model.FrameName) bool {
	_, ok := c.frames[name.Key()]
	return ok
}

func (c *Cache) Len() int { return len(c.frames) }

func (c *Cache) Clear() {
	c.frames = make(map[string]*model.Frame)
}

// Suspend disables the cache if it is enabled. It is one-shot: calling it
// again while already disabled records that the call had no effect, so the
// matching Resume will not re-enable.
func (c *Cache) Suspend() {
	if c.enabled {
		c.enabled = false
		c.suspended = true
		return
	}
	c.suspended = false
}

// Resume re-enables the cache only if the last Suspend disabled it.
func (c *Cache) Resume() {
	if c.suspended {
		c.enabled = true
		c.suspended = false
	}
}
