package store

import "errors"

var (
	ErrInvalidName    = errors.New("invalid frame or frameset name")
	ErrNotFound       = errors.New("not found")
	ErrFramesetExists = errors.New("frameset already exists")
	ErrProtectedFrame = errors.New("frame cannot be deleted")
	ErrNoTemplate     = errors.New("template frame not found")
	ErrSeedFailed     = errors.New("could not seed frameset")
	ErrNoTrash        = errors.New("no trash directory configured")
	ErrNoJournal      = errors.New("no journal configured")
)
