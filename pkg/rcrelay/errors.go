package rcrelay

import (
	"errors"
	"fmt"

	"github.com/rcrelay/rcrelay-go/internal/feedfinder"
)

// Sentinel errors.
var (
	// ErrFeedDirNotFound is returned when no usable feed directory exists.
	ErrFeedDirNotFound = feedfinder.ErrFeedDirNotFound

	// ErrNoFeedFiles is returned when the feed directory holds no feed files.
	ErrNoFeedFiles = feedfinder.ErrNoFeedFiles

	// ErrWatcherClosed is returned by Watch after Close.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrAlreadyWatching is returned by a second call to Watch.
	ErrAlreadyWatching = errors.New("watch already called")

	// ErrReplayLimitExceeded is returned when ReplayLastN would read more
	// than the configured byte limits.
	ErrReplayLimitExceeded = errors.New("replay limit exceeded")
)

// ParseError reports a feed line a parser failed on.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WatchOp names the watcher step that failed.
type WatchOp string

const (
	WatchOpFindLatest WatchOp = "find_latest"
	WatchOpTail       WatchOp = "tail"
	WatchOpRotation   WatchOp = "rotation"
	WatchOpReplay     WatchOp = "replay"
)

// WatchError reports a failure of the watcher itself, as opposed to a
// single line.
type WatchError struct {
	Op   WatchOp
	Path string // feed file involved, if any
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("watch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Op, e.Err)
}

func (e *WatchError) Unwrap() error {
	return e.Err
}
