// Package tailer follows a growing feed file line by line.
package tailer

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// Config configures a Tailer.
type Config struct {
	// FromStart reads the file from the beginning instead of the end.
	FromStart bool

	// Poll checks the file for changes by polling instead of inotify.
	// Required on filesystems without change notifications.
	Poll bool

	// MaxLineSize splits longer lines; 0 means no limit.
	MaxLineSize int
}

// DefaultConfig returns a Config that follows new lines only.
func DefaultConfig() Config {
	return Config{}
}

// Tailer delivers the lines appended to a file. Trailing carriage returns
// are removed. Partial lines are held back until their newline arrives.
type Tailer struct {
	t     *tail.Tail
	lines chan string
	errs  chan error
	stop  chan struct{}
	done  chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// New starts following path. The tailer stops when ctx is cancelled or
// Stop is called; Stop must be called in either case to release the file.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	tc := tail.Config{
		Follow:        true,
		ReOpen:        true,
		MustExist:     true,
		Poll:          cfg.Poll,
		MaxLineSize:   cfg.MaxLineSize,
		CompleteLines: true,
		Logger:        tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tc.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tc)
	if err != nil {
		return nil, err
	}

	tl := &Tailer{
		t:     t,
		lines: make(chan string),
		errs:  make(chan error, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

// Lines returns the channel of lines. It is closed when the tailer stops.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Errors returns the channel of read errors. It is closed when the tailer stops.
func (t *Tailer) Errors() <-chan error {
	return t.errs
}

// Stop stops following the file and waits for the tailer to exit.
// Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.stopOnce.Do(func() {
		close(t.stop)
		<-t.done

		// The underlying tail blocks on unread lines while shutting down.
		go func() {
			for range t.t.Lines {
			}
		}()
		t.stopErr = t.t.Stop()
		t.t.Cleanup()
	})
	return t.stopErr
}

func (t *Tailer) run(ctx context.Context) {
	defer close(t.done)
	defer close(t.lines)
	defer close(t.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case line, ok := <-t.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case t.errs <- line.Err:
				default:
				}
				continue
			}
			select {
			case t.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			}
		}
	}
}
