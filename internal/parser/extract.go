package parser

import (
	"strconv"
	"strings"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

// Extractors consume template parameters in canonical order. A parameter
// list too short for the action means the template did not carry the
// fields the extractor needs, and the entry stays unrecognized.

// params is a cursor over template parameters.
type params struct {
	values []string
	ok     bool
}

func newParams(values []string) *params {
	return &params{values: values, ok: true}
}

// next consumes one parameter. Reading past the end clears ok.
func (p *params) next() string {
	if len(p.values) == 0 {
		p.ok = false
		return ""
	}
	v := p.values[0]
	p.values = p.values[1:]
	return v
}

// skip drops n parameters.
func (p *params) skip(n int) {
	for range n {
		p.next()
	}
}

func extractBlock(action string, values []string, idx *i18n.Index) (event.Details, bool) {
	p := newParams(values)
	d := &event.Block{Target: p.next()}
	if action != "unblock" {
		d.Expiry = p.next()
		d.Flags = resolveFlags(p.next(), idx)
	}
	d.Reason = p.next()
	if !p.ok {
		return nil, false
	}
	return d, true
}

// resolveFlags maps a comma-separated list of localized block flags to
// canonical identifiers.
func resolveFlags(s string, idx *i18n.Index) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	flags := make([]string, 0, len(parts))
	for _, part := range parts {
		flags = append(flags, idx.Flag(part))
	}
	return flags
}

func extractChatban(action string, values []string) (event.Details, bool) {
	p := newParams(values)
	d := &event.Chatban{Target: p.next()}
	if action != "chatbanremove" {
		d.Length = p.next()
		d.Expires = p.next()
	}
	d.Reason = p.next()
	if !p.ok {
		return nil, false
	}
	return d, true
}

func extractDelete(action string, values []string) (event.Details, bool) {
	p := newParams(values)
	d := &event.Delete{}
	switch action {
	case "revision", "event":
		// $1 is the performer and $2 the legacy visibility parameters.
		p.skip(2)
		d.Target = p.next()
	default:
		d.Page = p.next()
	}
	d.Reason = p.next()
	if !p.ok {
		return nil, false
	}
	return d, true
}

func extractMove(values []string) (event.Details, bool) {
	p := newParams(values)
	d := &event.Move{
		Page:   p.next(),
		Target: p.next(),
		Reason: p.next(),
	}
	if !p.ok {
		return nil, false
	}
	return d, true
}

func extractPatrol(values []string) (event.Details, bool) {
	p := newParams(values)
	rev, err := strconv.ParseInt(p.next(), 10, 64)
	page := p.next()
	if !p.ok || err != nil {
		return nil, false
	}
	return &event.Patrol{Revision: rev, Page: page}, true
}

func extractProtect(action string, values []string) (event.Details, bool) {
	p := newParams(values)
	d := &event.Protect{Page: p.next()}
	switch action {
	case "move_prot":
		d.Target = p.next()
	case "unprotect":
	default:
		d.Levels = parseProtectLevels(p.next())
		if len(d.Levels) == 0 {
			return nil, false
		}
	}
	d.Reason = p.next()
	if !p.ok {
		return nil, false
	}
	return d, true
}

func extractRights(values []string) (event.Details, bool) {
	p := newParams(values)
	d := &event.Rights{
		Target:    p.next(),
		OldGroups: splitGroups(p.next()),
		NewGroups: splitGroups(p.next()),
		Reason:    p.next(),
	}
	if !p.ok {
		return nil, false
	}
	return d, true
}

func splitGroups(s string) []string {
	groups := strings.Split(s, ",")
	for i, g := range groups {
		groups[i] = strings.TrimSpace(g)
	}
	return groups
}

func extractUpload(values []string) (event.Details, bool) {
	p := newParams(values)
	d := &event.Upload{
		File:   p.next(),
		Reason: p.next(),
	}
	if !p.ok {
		return nil, false
	}
	return d, true
}

// extractAbuseFilter reads the filter and diff links of an abuse filter
// summary directly; those summaries are not rendered from a template.
func extractAbuseFilter(summary string) (event.Details, bool) {
	res := abuseFilterPattern.FindStringSubmatch(summary)
	if res == nil {
		return nil, false
	}
	id, err := strconv.ParseInt(res[1], 10, 64)
	if err != nil {
		return nil, false
	}
	diff, err := strconv.ParseInt(res[2], 10, 64)
	if err != nil {
		return nil, false
	}
	return &event.AbuseFilterHit{FilterID: id, Diff: diff}, true
}

func extractWikiFeatures(summary string) (event.Details, bool) {
	res := wikiFeaturesPattern.FindStringSubmatch(summary)
	if res == nil {
		return nil, false
	}
	return &event.WikiFeature{Feature: res[1], Value: res[2]}, true
}
