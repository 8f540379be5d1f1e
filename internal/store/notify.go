package store

import (
	"sync"

	"github.com/golang/glog"
)

// Notifier carries user-visible messages out of the store.
type Notifier interface {
	// Notice is an informational message, optionally linking to a frame.
	Notice(msg, link string)
	Error(msg string)
}

// Message is a notice or error kept by LogNotifier.
type Message struct {
	Text  string
	Link  string
	Error bool
}

// LogNotifier writes messages to the log and keeps the most recent ones so
// a caller can show them after an operation returns.
type LogNotifier struct {
	mu     sync.Mutex
	keep   int
	recent []Message
}

// NewLogNotifier keeps up to keep messages; 0 means 50.
func NewLogNotifier(keep int) *LogNotifier {
	if keep <= 0 {
		keep = 50
	}
	return &LogNotifier{keep: keep}
}

func (n *LogNotifier) Notice(msg, link string) {
	glog.Infof("notice: %s", msg)
	n.add(Message{Text: msg, Link: link})
}

func (n *LogNotifier) Error(msg string) {
	glog.Errorf("error: %s", msg)
	n.add(Message{Text: msg, Error: true})
}

// Recent returns the retained messages, oldest first.
func (n *LogNotifier) Recent() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.recent...)
}

// Drain returns the retained messages and forgets them.
func (n *LogNotifier) Drain() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.recent
	n.recent = nil
	return out
}

func (n *LogNotifier) add(m Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recent = append(n.recent, m)
	if over := len(n.recent) - n.keep; over > 0 {
		n.recent = n.recent[over:]
	}
}
