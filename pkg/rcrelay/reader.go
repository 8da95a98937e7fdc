package rcrelay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/rcrelay/rcrelay-go/internal/safefile"
)

// ParseReader parses the feed lines read from r and yields the admitted
// events in order.
//
// Malformed lines are skipped (and logged when a logger is set) unless
// WithParseStopOnError is given, in which case the *ParseError is yielded
// and iteration ends. Read errors and context cancellation are yielded as
// the final element.
//
// Example:
//
//	for ev, err := range rcrelay.ParseReader(ctx, f, rcrelay.WithParseChannel(rcrelay.ChannelRC)) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(ev.Type, ev.Wiki)
//	}
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOption) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		cfg := applyParseOptions(opts)
		if err := cfg.validate(); err != nil {
			yield(Event{}, fmt.Errorf("invalid options: %w", err))
			return
		}
		parseLines(ctx, r, cfg, yield)
	}
}

// ParseFile parses a recorded feed file. The path must name a regular file.
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		cfg := applyParseOptions(opts)
		if err := cfg.validate(); err != nil {
			yield(Event{}, fmt.Errorf("invalid options: %w", err))
			return
		}
		f, _, err := safefile.OpenRegular(path)
		if err != nil {
			yield(Event{}, fmt.Errorf("opening feed file: %w", err))
			return
		}
		defer f.Close()
		parseLines(ctx, f, cfg, yield)
	}
}

func parseLines(ctx context.Context, r io.Reader, cfg *parseConfig, yield func(Event, error) bool) {
	lines := newLineLogger(cfg.logger)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, cfg.maxLineBytes)), cfg.maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			yield(Event{}, err)
			return
		}
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}

		result, err := cfg.parser.ParseLine(ctx, line)
		if err != nil && cfg.stopOnError {
			yield(Event{}, &ParseError{Line: line, Err: err})
			return
		}
		for _, ev := range result.Events {
			if !cfg.gate.admit(&ev, line) {
				continue
			}
			if !yield(ev, nil) {
				return
			}
		}
		if err != nil {
			lines.warn("skipping malformed feed line", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		yield(Event{}, fmt.Errorf("reading feed: %w", err))
	}
}
