package rcrelay

import (
	"context"

	"github.com/rcrelay/rcrelay-go/internal/parser"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

// DefaultParser parses lines of one feed channel against a Template Index.
// The zero value parses the recent changes channel with the built-in
// dictionary.
type DefaultParser struct {
	// Channel is the feed the lines come from. Empty means ChannelRC.
	Channel Channel

	// Index resolves log summaries. Nil means i18n.Default().
	Index *i18n.Index
}

// ParseLine implements the Parser interface. Lines are fully parsed,
// including the template stage of log entries.
func (d DefaultParser) ParseLine(_ context.Context, line string) (ParseResult, error) {
	ch := d.Channel
	if ch == "" {
		ch = ChannelRC
	}
	ev, err := parser.New(d.Index).Parse(line, ch)
	if err != nil {
		return ParseResult{}, err
	}
	if ev == nil {
		return ParseResult{Matched: false}, nil
	}
	return ParseResult{Events: []Event{*ev}, Matched: true}, nil
}

var _ Parser = DefaultParser{}
