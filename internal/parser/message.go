package parser

import (
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

// State is the position of a Message in its parse lifecycle.
type State int

const (
	// StateUnparsed is the zero state of a Message that was never classified.
	StateUnparsed State = iota
	// StateMatched means the envelope is known and the summary is pending.
	StateMatched
	// StateRecognized is terminal: the event was fully decomposed.
	StateRecognized
	// StateUnrecognized is terminal: the summary could not be decomposed
	// and is kept verbatim on the event.
	StateUnrecognized
)

func (s State) String() string {
	switch s {
	case StateUnparsed:
		return "unparsed"
	case StateMatched:
		return "matched"
	case StateRecognized:
		return "recognized"
	case StateUnrecognized:
		return "unrecognized"
	}
	return "unknown"
}

// Message is a classified feed line. A Message is not safe for concurrent
// use; the Event it produces may be shared once parsing is done.
type Message struct {
	idx     *i18n.Index
	ev      event.Event
	kind    logType
	summary string // pending log summary, cleared on the first Parse
	state   State
}

// State returns the current lifecycle state.
func (m *Message) State() State {
	return m.state
}

// Event returns the event in its current state. For a log message that
// has not been parsed yet the Details are unset.
func (m *Message) Event() event.Event {
	return m.ev
}

// Parse runs the second stage on a pending log message and reports whether
// the event was recognized. It is idempotent: once the message reaches a
// terminal state, further calls return the same result without work.
func (m *Message) Parse() bool {
	if m.state != StateMatched {
		return m.ev.Recognized
	}
	if !m.decompose() {
		m.ev.Summary = m.summary
		m.finish(false)
	} else {
		m.finish(true)
	}
	m.summary = ""
	return m.ev.Recognized
}

func (m *Message) finish(recognized bool) {
	m.ev.Recognized = recognized
	if recognized {
		m.state = StateRecognized
	} else {
		m.state = StateUnrecognized
	}
}

// decompose resolves the pending summary into typed details.
func (m *Message) decompose() bool {
	switch m.kind {
	case logMalformed:
		m.ev.DegradedSource = true
		return true
	case logAbuseFilter:
		return m.apply(extractAbuseFilter(m.summary))
	case logWikiFeatures:
		return m.apply(extractWikiFeatures(m.summary))
	case logUnknown, logUserAvatar:
		return false
	}

	keys := messageKeys(m.kind, m.ev.Action)
	if len(keys) == 0 {
		return false
	}
	params, ok := m.idx.MatchAny(keys, m.summary)
	if !ok {
		return false
	}
	return m.apply(m.extract(params))
}

// extract dispatches template parameters to the extractor of the log type.
func (m *Message) extract(p []string) (event.Details, bool) {
	action := m.ev.Action
	switch m.kind {
	case logBlock:
		return extractBlock(action, p, m.idx)
	case logChatban:
		return extractChatban(action, p)
	case logDelete:
		return extractDelete(action, p)
	case logMove:
		return extractMove(p)
	case logPatrol:
		return extractPatrol(p)
	case logProtect:
		return extractProtect(action, p)
	case logRights:
		return extractRights(p)
	case logUpload:
		return extractUpload(p)
	}
	return nil, false
}

func (m *Message) apply(d event.Details, ok bool) bool {
	if !ok {
		return false
	}
	m.ev.Type = m.kind.eventType()
	m.ev.Details = d
	return true
}
