package rcrelay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rcrelay/rcrelay-go/internal/feedfinder"
	"github.com/rcrelay/rcrelay-go/internal/tailer"
)

// watcherErrBuffer is the buffer size for the error channel.
const watcherErrBuffer = 16

// Watcher follows the newest feed file in a feed directory and emits the
// events parsed from lines appended to it. When a newer feed file appears
// (the recorder rotated), the watcher switches to it and reads it from the
// start.
type Watcher struct {
	cfg     watchConfig // immutable after creation
	feedDir string
	log     *slog.Logger
	lines   *lineLogger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// Watch starts watching and returns the event and error channels. Both
// channels close when ctx is cancelled, Close is called or a fatal error
// occurs. Watch can only be called once per Watcher.
//
// Per-line failures arrive as *ParseError and do not stop the watcher;
// failures of the watcher itself arrive as *WatchError.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	eventCh := make(chan Event)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, eventCh, errCh)

	return eventCh, errCh, nil
}

// Close stops the watcher and waits for its goroutine to exit.
// Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

// FeedDir returns the resolved feed directory.
func (w *Watcher) FeedDir() string {
	return w.feedDir
}

func (w *Watcher) tailerConfig(fromStart bool) tailer.Config {
	cfg := tailer.DefaultConfig()
	cfg.FromStart = fromStart
	cfg.Poll = w.cfg.filePolling
	return cfg
}

func (w *Watcher) run(ctx context.Context, eventCh chan<- Event, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(eventCh)
	defer close(errCh)

	feedFile, err := w.findFeedFileWithWait(ctx, errCh)
	if err != nil {
		return
	}
	w.log.Debug("found latest feed file", "path", feedFile)

	fromStart := w.cfg.replay.Mode == ReplayFromStart
	if w.cfg.replay.Mode == ReplayLastN && w.cfg.replay.LastN > 0 {
		w.log.Debug("replaying last lines", "n", w.cfg.replay.LastN, "path", feedFile)
		if err := w.replayLastN(ctx, feedFile, eventCh, errCh); err != nil {
			sendError(ctx, errCh, &WatchError{Op: WatchOpReplay, Path: feedFile, Err: err})
		}
	}

	t, err := tailer.New(ctx, feedFile, w.tailerConfig(fromStart))
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: feedFile, Err: err})
		return
	}
	w.log.Debug("started tailing", "path", feedFile, "from_start", fromStart)

	rotationTicker := time.NewTicker(w.cfg.pollInterval)
	defer rotationTicker.Stop()
	defer func() { _ = t.Stop() }()

	current := feedFile
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				return
			}
			w.processLine(ctx, line, eventCh, errCh)
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: current, Err: err})
		case <-rotationTicker.C:
			next, err := feedfinder.FindLatestFeedFile(w.feedDir)
			if err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpRotation, Err: err})
				continue
			}
			if next == current {
				continue
			}
			w.log.Debug("feed rotation detected", "from", current, "to", next)
			// On failure keep following current; the switch is retried on
			// the next tick.
			nt, err := tailer.New(ctx, next, w.tailerConfig(true))
			if err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: next, Err: err})
				continue
			}
			_ = t.Stop()
			t = nt
			current = next
		}
	}
}

// findFeedFileWithWait finds the latest feed file, optionally waiting for
// one to appear. Errors are also sent to errCh.
func (w *Watcher) findFeedFileWithWait(ctx context.Context, errCh chan<- error) (string, error) {
	feedFile, err := feedfinder.FindLatestFeedFile(w.feedDir)
	if err == nil {
		return feedFile, nil
	}
	if !errors.Is(err, ErrNoFeedFiles) || !w.cfg.waitForFeed {
		sendError(ctx, errCh, &WatchError{Op: WatchOpFindLatest, Err: err})
		return "", err
	}

	w.log.Debug("no feed files found, waiting", "dir", w.feedDir, "poll_interval", w.cfg.pollInterval)
	ticker := time.NewTicker(w.cfg.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			select {
			case errCh <- &WatchError{Op: WatchOpFindLatest, Err: err}:
			default:
			}
			return "", err
		case <-ticker.C:
			feedFile, err := feedfinder.FindLatestFeedFile(w.feedDir)
			if err == nil {
				w.log.Debug("feed file appeared", "path", feedFile)
				return feedFile, nil
			}
			if !errors.Is(err, ErrNoFeedFiles) {
				sendError(ctx, errCh, &WatchError{Op: WatchOpFindLatest, Err: err})
				return "", err
			}
		}
	}
}

// processLine parses one line and delivers the admitted events. Events a
// parser chain produced alongside an error are delivered before the error.
func (w *Watcher) processLine(ctx context.Context, line string, eventCh chan<- Event, errCh chan<- error) {
	result, err := w.cfg.parser.ParseLine(ctx, line)
	if err == nil && !result.Matched {
		return
	}

	for _, ev := range result.Events {
		if !w.cfg.gate.admit(&ev, line) {
			continue
		}
		select {
		case eventCh <- ev:
		case <-ctx.Done():
			return
		}
	}

	if err != nil {
		w.lines.warn("malformed feed line", line, err)
		sendError(ctx, errCh, &ParseError{Line: line, Err: err})
	}
}

func (w *Watcher) replayLastN(ctx context.Context, feedFile string, eventCh chan<- Event, errCh chan<- error) error {
	lines, err := readLastLines(feedFile, w.cfg.replay.LastN, w.cfg.maxReplayBytes, w.cfg.maxReplayLineBytes)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.processLine(ctx, line, eventCh, errCh)
	}
	return nil
}

// sendError sends err without blocking. Errors are dropped only when the
// buffer is full or the watcher is shutting down.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}

// WatchWithOptions creates a watcher and starts watching. The watcher
// stops when ctx is cancelled; use NewWatcherWithOptions to get a Watcher
// that can be closed synchronously.
//
// Example:
//
//	events, errs, err := rcrelay.WatchWithOptions(ctx,
//	    rcrelay.WithFeedDir("/var/lib/rcrelay/feeds"),
//	    rcrelay.WithIncludeTypes(rcrelay.EventBlock, rcrelay.EventDelete),
//	)
func WatchWithOptions(ctx context.Context, opts ...WatchOption) (<-chan Event, <-chan error, error) {
	w, err := NewWatcherWithOptions(opts...)
	if err != nil {
		return nil, nil, err
	}
	return w.Watch(ctx)
}

// NewWatcherWithOptions validates the options and resolves the feed
// directory. It does not start any goroutines.
func NewWatcherWithOptions(opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	feedDir, err := feedfinder.FindFeedDir(cfg.feedDir)
	if err != nil {
		return nil, fmt.Errorf("finding feed directory: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Watcher{
		cfg:     *cfg,
		feedDir: feedDir,
		log:     log,
		lines:   newLineLogger(log),
	}, nil
}
