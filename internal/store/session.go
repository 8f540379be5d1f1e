package store

import (
	"time"

	"github.com/google/uuid"
)

// DefaultIdleThreshold is how long without input before time counts as dark.
const DefaultIdleThreshold = 2 * time.Minute

// Session tracks the editing session's identity and the active and dark
// time accumulated since the last save. Time between touches longer than
// the idle threshold is dark time.
type Session struct {
	ID string

	now        func() time.Time
	idle       time.Duration
	lastActive time.Time
	active     time.Duration
	dark       time.Duration
	saves      int
}

func NewSession(now func() time.Time, idle time.Duration) *Session {
	if now == nil {
		now = time.Now
	}
	if idle <= 0 {
		idle = DefaultIdleThreshold
	}
	t := now()
	return &Session{
		ID:         uuid.NewString(),
		now:        now,
		idle:       idle,
		lastActive: t,
	}
}

// Touch records user activity.
func (s *Session) Touch() {
	t := s.now()
	s.account(t)
	s.lastActive = t
}

// Elapsed returns active and dark time since the last Reset, including the
// stretch since the last touch.
func (s *Session) Elapsed() (active, dark time.Duration) {
	gap := s.now().Sub(s.lastActive)
	if gap > s.idle {
		return s.active, s.dark + gap
	}
	return s.active + gap, s.dark
}

// Reset starts a new accounting period after a save.
func (s *Session) Reset() {
	s.lastActive = s.now()
	s.active = 0
	s.dark = 0
}

// CountSave bumps the session's save statistic.
func (s *Session) CountSave() { s.saves++ }

// Saves is the number of saves counted towards session statistics.
func (s *Session) Saves() int { return s.saves }

func (s *Session) account(t time.Time) {
	gap := t.Sub(s.lastActive)
	if gap < 0 {
		return
	}
	if gap > s.idle {
		s.dark += gap
	} else {
		s.active += gap
	}
}
