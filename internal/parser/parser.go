// Package parser turns raw feed lines into events.
//
// Parsing happens in two stages. Classify runs the cheap structural match
// for the line's channel and fixes the envelope (wiki, user, category). For
// log lines it leaves the summary pending; Message.Parse then resolves the
// action to message keys, matches the summary against the localized
// templates and runs the type-specific extractor. The second stage is the
// expensive one, so callers may skip it for events they do not want.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

// Parser classifies feed lines against a Template Index.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	idx *i18n.Index
}

// New returns a Parser using idx. A nil idx selects the built-in dictionary.
func New(idx *i18n.Index) *Parser {
	if idx == nil {
		idx = i18n.Default()
	}
	return &Parser{idx: idx}
}

// Index returns the Template Index the parser matches summaries against.
func (p *Parser) Index() *i18n.Index {
	return p.idx
}

// Parse classifies raw and completes the second stage in one call.
// It returns (nil, nil) if the line did not match the channel's structure.
func (p *Parser) Parse(raw string, ch event.Channel) (*event.Event, error) {
	m, err := p.Classify(raw, ch)
	if m == nil || err != nil {
		return nil, err
	}
	m.Parse()
	ev := m.Event()
	return &ev, nil
}

// Classify runs the structural match for ch.
//
// Returns:
//   - (*Message, nil) if the line matched; log messages are left pending
//   - (nil, nil) if the line is not a feed line of this channel
//   - (nil, error) for an unknown channel or a payload that failed to decode
func (p *Parser) Classify(raw string, ch event.Channel) (*Message, error) {
	m := &Message{
		idx: p.idx,
		ev: event.Event{
			Channel: ch,
			Raw:     raw,
		},
	}

	var ok bool
	switch ch {
	case event.ChannelRC:
		ok = m.classifyRC(raw)
	case event.ChannelDiscussions:
		var err error
		ok, err = m.classifyDiscussions(raw)
		if err != nil {
			return nil, err
		}
	case event.ChannelNewUsers:
		ok = m.classifyNewUsers(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (m *Message) classifyRC(raw string) bool {
	if res := editPattern.FindStringSubmatch(raw); res != nil {
		return m.classifyEdit(res[1:])
	}
	if res := logPattern.FindStringSubmatch(raw); res != nil {
		m.classifyLog(res[1:])
		return true
	}
	return false
}

// classifyEdit fills an edit event from the captures of editPattern.
func (m *Message) classifyEdit(res []string) bool {
	size, err := strconv.ParseInt(res[6], 10, 64)
	if err != nil {
		return false
	}
	if res[5] == "-" {
		size = -size
	}

	flags := make([]string, 0, len(res[1]))
	for _, r := range res[1] {
		flags = append(flags, string(r))
	}

	m.ev.Category = event.CategoryEdit
	m.ev.Type = event.TypeEdit
	m.ev.Wiki = res[2]
	m.ev.User = res[4]
	m.ev.Details = &event.Edit{
		Page:    res[0],
		Flags:   flags,
		Params:  parseQuery(res[3]),
		Diff:    size,
		Summary: trimSummary(res[7]),
	}
	m.finish(true)
	return true
}

// classifyLog fills the log envelope from the captures of logPattern and
// leaves the summary for the second stage.
func (m *Message) classifyLog(res []string) {
	m.ev.Category = event.CategoryLog
	m.ev.Type = event.TypeLog
	m.ev.LogType = res[0]
	m.ev.Action = res[1]
	m.ev.Wiki = res[2]
	m.ev.User = res[3]
	m.kind = lookupLogType(res[0])

	// Avatar changes carry nothing beyond the envelope.
	if m.kind == logUserAvatar {
		m.ev.Type = event.TypeUserAvatar
		m.finish(true)
		return
	}
	m.summary = trimSummary(res[4])
	m.state = StateMatched
}

func (m *Message) classifyNewUsers(raw string) bool {
	res := newUsersPattern.FindStringSubmatch(raw)
	if res == nil {
		return false
	}
	m.ev.Category = event.CategoryLog
	m.ev.Type = event.TypeNewUsers
	m.ev.LogType = "newusers"
	m.ev.Action = "newusers"
	m.ev.User = res[1]
	m.ev.Wiki = res[2]
	m.finish(true)
	return true
}

// parseQuery decodes the numeric parameters of an edit URL query string.
// Parameters without an integer value are omitted.
func parseQuery(q string) map[string]int64 {
	params := make(map[string]int64)
	for _, pair := range strings.Split(q, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		params[key] = n
	}
	return params
}

// trimSummary drops one trailing color reset.
func trimSummary(s string) string {
	return strings.TrimSuffix(s, colorReset)
}
