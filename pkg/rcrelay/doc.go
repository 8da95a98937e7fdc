// Package rcrelay parses the recent changes feeds a wiki farm publishes for
// relay bots and turns each line into a structured [Event].
//
// Three feed channels are understood:
//   - rc: IRC-formatted edits and log entries
//   - newusers: IRC-formatted account registrations
//   - discussions: one JSON object per line
//
// Log entry summaries are rendered in the wiki's content language. They are
// decomposed against a Template Index (see the [i18n] subpackage) holding
// the localized message templates; a summary no template matches still
// produces an event, with Recognized=false and the summary kept verbatim.
//
// # Basic Usage
//
// To parse a single feed line:
//
//	ev, err := rcrelay.ParseLine(line, rcrelay.ChannelRC)
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if ev != nil && ev.Recognized {
//	    // process event
//	}
//
// Delivered events carry their feed line in Raw unless WithOmitRawLine or
// WithParseOmitRawLine is set.
//
// To follow recorded feed files as the recorder appends to them:
//
//	events, errs, err := rcrelay.WatchWithOptions(ctx,
//	    rcrelay.WithFeedDir("/var/lib/rcrelay/feeds"),
//	    rcrelay.WithIncludeTypes(rcrelay.EventBlock, rcrelay.EventDelete),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    select {
//	    case ev, ok := <-events:
//	        if !ok {
//	            return
//	        }
//	        fmt.Printf("%s on %s by %s\n", ev.Type, ev.Wiki, ev.User)
//	    case err, ok := <-errs:
//	        if !ok {
//	            return
//	        }
//	        log.Printf("error: %v", err)
//	    }
//	}
//
// To parse a finished capture, range over [ParseFile] or [ParseReader].
//
// # Custom Parsers
//
// Implement the [Parser] interface, or combine parsers with [ParserChain],
// e.g. to read a capture that interleaves several channels:
//
//	chain := &rcrelay.ParserChain{
//	    Mode: rcrelay.ChainFirst,
//	    Parsers: []rcrelay.Parser{
//	        rcrelay.DefaultParser{Channel: rcrelay.ChannelRC},
//	        rcrelay.DefaultParser{Channel: rcrelay.ChannelDiscussions},
//	    },
//	}
package rcrelay
