// Package model defines frames, frame names and their permission descriptors.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Level is an access level a viewer has on a frame, ordered from least to most.
type Level int

const (
	LevelNone Level = iota
	LevelFollowLinks
	LevelCopy
	LevelCreateFrames
	LevelFull
)

var levelNames = map[Level]string{
	LevelNone:         "none",
	LevelFollowLinks:  "followLinks",
	LevelCopy:         "copy",
	LevelCreateFrames: "createFrames",
	LevelFull:         "full",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	for k, v := range levelNames {
		if strings.EqualFold(v, string(b)) {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("unknown permission level %q", string(b))
}

// Permission holds the level granted to the frame's owner and to everyone else.
type Permission struct {
	Owner  Level `json:"owner" yaml:"owner"`
	Others Level `json:"others" yaml:"others"`
}

// DefaultPermission is what new frames get.
var DefaultPermission = Permission{Owner: LevelFull, Others: LevelCopy}

// CopyOnly is the permission given to backup copies.
var CopyOnly = Permission{Owner: LevelCopy, Others: LevelCopy}

// For returns the level viewer has on a frame owned by owner.
func (p Permission) For(viewer, owner string) Level {
	if strings.EqualFold(viewer, owner) {
		return p.Owner
	}
	return p.Others
}

// Role distinguishes structural items from ordinary content.
type Role string

const (
	RoleNone  Role = ""
	RoleTitle Role = "title"
)

// Content directives. An item is an annotation when its text starts with '@';
// the first word names the directive.
const (
	DirectiveNoSave     = "@NoSave"
	DirectiveAutoFormat = "@AutoFormat"
	DirectiveBackup     = "@Backup"
)

// Item is one entry of a frame's ordered content.
type Item struct {
	ID   int    `json:"id" yaml:"id"`
	Role Role   `json:"role,omitempty" yaml:"role,omitempty"`
	Text string `json:"text" yaml:"text"`
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

func (i Item) IsAnnotation() bool {
	return strings.HasPrefix(i.Text, "@")
}

// Directive returns the annotation keyword ("@Backup"), or "" for plain items.
func (i Item) Directive() string {
	if !i.IsAnnotation() {
		return ""
	}
	if f := strings.Fields(i.Text); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Frame is a single versioned, numbered document.
type Frame struct {
	Name FrameName `json:"-"`

	Version        int           `json:"version"`
	Owner          string        `json:"owner"`
	Permission     Permission    `json:"permission"`
	DateCreated    time.Time     `json:"date_created"`
	LastModifyUser string        `json:"last_modify_user,omitempty"`
	LastModifyDate time.Time     `json:"last_modify_date,omitempty"`
	ActiveTime     time.Duration `json:"active_time"`
	DarkTime       time.Duration `json:"dark_time"`
	Items          []Item        `json:"items"`

	// Path is the root directory that owns this frame's storage.
	Path string `json:"-"`
	// IsLocal is false when persistence is delegated to a peer.
	IsLocal bool `json:"-"`
	Changed bool `json:"-"`
	Saved   bool `json:"-"`
	// IgnoreAnnotations disables directive processing for this frame.
	IgnoreAnnotations bool `json:"-"`
}

// NewFrame returns an empty, local frame owned by owner.
func NewFrame(name FrameName, owner string, now time.Time) *Frame {
	return &Frame{
		Name:        name,
		Owner:       owner,
		Permission:  DefaultPermission,
		DateCreated: now,
		IsLocal:     true,
	}
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Items = append([]Item(nil), f.Items...)
	return &c
}

// MarkChanged flags the frame for the next save.
func (f *Frame) MarkChanged() {
	f.Changed = true
	f.Saved = false
}

// Title returns the text of the title item, or "".
func (f *Frame) Title() string {
	if t := f.titleItem(); t != nil {
		return t.Text
	}
	return ""
}

// SetTitle replaces the title item's text, adding one at the front if needed.
func (f *Frame) SetTitle(text string) {
	if t := f.titleItem(); t != nil {
		t.Text = text
		return
	}
	f.Items = append([]Item{{ID: f.nextItemID(), Role: RoleTitle, Text: text}}, f.Items...)
}

// AddItem appends a content item and returns its id.
func (f *Frame) AddItem(text, link string) int {
	id := f.nextItemID()
	f.Items = append(f.Items, Item{ID: id, Text: text, Link: link})
	return id
}

// HasDirective reports whether an annotation item carries directive d.
func (f *Frame) HasDirective(d string) bool {
	return f.DirectiveItem(d) != nil
}

// DirectiveItem returns the first annotation item carrying directive d.
// Nil when annotations are ignored for this frame.
func (f *Frame) DirectiveItem(d string) *Item {
	if f.IgnoreAnnotations {
		return nil
	}
	for i := range f.Items {
		if strings.EqualFold(f.Items[i].Directive(), d) {
			return &f.Items[i]
		}
	}
	return nil
}

// StripLinksTo clears every item link that points at name.
func (f *Frame) StripLinksTo(name FrameName) int {
	n := 0
	for i := range f.Items {
		if f.Items[i].Link != "" && strings.EqualFold(f.Items[i].Link, name.String()) {
			f.Items[i].Link = ""
			n++
		}
	}
	return n
}

func (f *Frame) titleItem() *Item {
	for i := range f.Items {
		if f.Items[i].Role == RoleTitle {
			return &f.Items[i]
		}
	}
	return nil
}

func (f *Frame) nextItemID() int {
	highest := 0
	for _, it := range f.Items {
		if it.ID > highest {
			highest = it.ID
		}
	}
	return highest + 1
}
