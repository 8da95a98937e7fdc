package rcrelay

import (
	"context"
	"errors"
)

// ParseResult represents the result of parsing a feed line.
type ParseResult struct {
	// Events contains the parsed events.
	Events []Event

	// Matched indicates whether the parser recognized the line's structure.
	// A matched line can still produce an event with Recognized=false when
	// its log summary could not be decomposed.
	Matched bool
}

// Parser is the interface for feed line parsers.
type Parser interface {
	// ParseLine parses a single feed line.
	// Returns ParseResult with Matched=true if the line was recognized.
	// Returns error only for malformed payloads, not for unrecognized lines.
	ParseLine(ctx context.Context, line string) (ParseResult, error)
}

// ParserFunc is an adapter to allow ordinary functions to be used as Parsers.
type ParserFunc func(ctx context.Context, line string) (ParseResult, error)

// ParseLine implements the Parser interface.
func (f ParserFunc) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	return f(ctx, line)
}

// ChainMode specifies how ParserChain executes parsers.
type ChainMode int

const (
	// ChainAll executes all parsers and combines results (default).
	ChainAll ChainMode = iota

	// ChainFirst stops at the first parser that matches.
	ChainFirst

	// ChainContinueOnError skips parsers that return errors and continues.
	// Errors are joined and returned after the last parser.
	ChainContinueOnError
)

// ParserChain combines multiple parsers, e.g. one DefaultParser per
// channel when a single file interleaves several feeds.
type ParserChain struct {
	Mode    ChainMode
	Parsers []Parser
}

// ParseLine implements the Parser interface.
//
// If ctx is cancelled between parsers, ParseLine returns the events
// collected so far together with the context error.
func (c *ParserChain) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	var events []Event
	var errs []error
	matched := false

	for _, p := range c.Parsers {
		if err := ctx.Err(); err != nil {
			return ParseResult{Events: events, Matched: matched}, err
		}
		if p == nil {
			continue
		}

		result, err := p.ParseLine(ctx, line)
		if err != nil {
			if c.Mode == ChainContinueOnError {
				errs = append(errs, err)
				continue
			}
			return ParseResult{}, err
		}
		if !result.Matched {
			continue
		}
		matched = true
		events = append(events, result.Events...)
		if c.Mode == ChainFirst {
			break
		}
	}

	if len(errs) > 0 {
		return ParseResult{Events: events, Matched: matched}, errors.Join(errs...)
	}
	return ParseResult{Events: events, Matched: matched}, nil
}
