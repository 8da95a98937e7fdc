package rcrelay

import "github.com/rcrelay/rcrelay-go/internal/parser"

// ParseLine parses a single feed line of the given channel with the
// built-in dictionary.
//
// Return values:
//   - (*Event, nil): the line is a feed event; check Event.Recognized
//   - (nil, nil): the line is not a feed event of this channel
//   - (nil, error): unknown channel, or a payload that failed to decode
//
// Example:
//
//	ev, err := rcrelay.ParseLine(line, rcrelay.ChannelRC)
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if ev != nil && ev.Recognized {
//	    fmt.Printf("%s on %s\n", ev.Type, ev.Wiki)
//	}
func ParseLine(line string, channel Channel) (*Event, error) {
	return parser.New(nil).Parse(line, channel)
}
