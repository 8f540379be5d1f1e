// Package store is the versioned frame store. Saves fork on version
// conflicts instead of overwriting newer copies.
//
// A Store is meant to be driven by a single session goroutine. Nothing in it
// is locked.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/cache"
	"github.com/rcliao/framestore/internal/counter"
	"github.com/rcliao/framestore/internal/format"
	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/peer"
	"github.com/rcliao/framestore/internal/resolver"
)

// Reserved frameset names.
const (
	DeletedFrames = "DeletedFrames"
	Messages      = "Messages"
	OldSuffix     = "-old"
)

// Journal records persisted revisions and lists them back.
type Journal interface {
	Record(ctx context.Context, p journal.RecordParams) (*journal.Revision, error)
	History(ctx context.Context, name model.FrameName, limit int) ([]journal.Revision, error)
}

// Actions are the editor-side hooks the store triggers while saving and
// allocating frames.
type Actions interface {
	// Restore reverts a frame carrying the no-save directive.
	Restore(f *model.Frame)
	AutoFormat(f *model.Frame)
	// ProfileSaved is called after a profile frame is persisted.
	ProfileSaved(f *model.Frame)
	// LayoutTitle resizes a new frame's title so it clears the name tag.
	LayoutTitle(f *model.Frame)
}

// NopActions ignores every hook.
type NopActions struct{}

func (NopActions) Restore(*model.Frame)      {}
func (NopActions) AutoFormat(*model.Frame)   {}
func (NopActions) ProfileSaved(*model.Frame) {}
func (NopActions) LayoutTitle(*model.Frame)  {}

// Options configures a Store.
type Options struct {
	// Roots are searched in order for framesets.
	Roots []string
	// Trash receives deleted framesets.
	Trash string
	// User is the current editor, stamped as owner and last modifier.
	User string
	// MaxCache bounds the frame cache; 0 uses cache.DefaultMax.
	MaxCache int
	// DefaultTemplate names the frame new framesets are seeded from.
	DefaultTemplate string
	// ProfileFramesets are framesets whose frame 1 is a profile frame.
	ProfileFramesets []string

	Formats  *format.Registry
	Peer     peer.Peer
	Notifier Notifier
	Actions  Actions
	Journal  Journal
	Session  *Session
	Now      func() time.Time
}

// Store is the versioned frame store.
type Store struct {
	roots           []string
	trash           string
	user            string
	defaultTemplate model.FrameName
	profiles        map[string]bool

	formats  *format.Registry
	resolver *resolver.Resolver
	cache    *cache.Cache
	counter  *counter.Counter
	peer     peer.Peer
	notify   Notifier
	actions  Actions
	journal  Journal
	session  *Session
	now      func() time.Time
}

// New builds a Store from opts, filling in defaults for unset collaborators.
func New(opts Options) (*Store, error) {
	if len(opts.Roots) == 0 {
		return nil, errors.New("at least one root directory is required")
	}

	s := &Store{
		roots:    append([]string(nil), opts.Roots...),
		trash:    opts.Trash,
		user:     opts.User,
		profiles: map[string]bool{},
		formats:  opts.Formats,
		peer:     opts.Peer,
		notify:   opts.Notifier,
		actions:  opts.Actions,
		journal:  opts.Journal,
		session:  opts.Session,
		now:      opts.Now,
	}

	if opts.DefaultTemplate != "" {
		name, err := model.ParseFrameName(opts.DefaultTemplate)
		if err != nil {
			return nil, fmt.Errorf("default template: %w", err)
		}
		s.defaultTemplate = name
	}
	for _, p := range opts.ProfileFramesets {
		s.profiles[strings.ToLower(p)] = true
	}

	if s.formats == nil {
		s.formats = format.NewRegistry()
	}
	if s.peer == nil {
		s.peer = peer.None{}
	}
	if s.notify == nil {
		s.notify = NewLogNotifier(0)
	}
	if s.actions == nil {
		s.actions = NopActions{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.session == nil {
		s.session = NewSession(s.now, 0)
	}

	s.resolver = resolver.New(s.formats.PreferredExt())
	s.cache = cache.New(opts.MaxCache)
	s.counter = counter.New(s.peer)
	return s, nil
}

// Cache exposes the frame cache, e.g. to suspend it around bulk reads.
func (s *Store) Cache() *cache.Cache { return s.cache }

func (s *Store) Roots() []string { return append([]string(nil), s.roots...) }

func (s *Store) User() string { return s.user }

func (s *Store) Session() *Session { return s.session }

// Evict drops any cached copy of name.
func (s *Store) Evict(name model.FrameName) {
	s.cache.Remove(name)
}

func (s *Store) record(ctx context.Context, name model.FrameName, version int, kind journal.Kind, related string) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.Record(ctx, journal.RecordParams{
		Name:    name,
		Version: version,
		Kind:    kind,
		User:    s.user,
		Session: s.session.ID,
		Related: related,
	})
	if err != nil {
		glog.Warningf("journal %s %s: %v", kind, name, err)
	}
}

func (s *Store) isProfile(name model.FrameName) bool {
	return name.Number == 1 && s.profiles[strings.ToLower(name.Frameset)]
}
