package parser

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
)

// discussionsPayload is the JSON object posted to the discussions feed.
type discussionsPayload struct {
	URL      string          `json:"url"`
	Type     string          `json:"type"`
	Snippet  string          `json:"snippet"`
	Title    string          `json:"title"`
	Size     json.RawMessage `json:"size"`
	Category string          `json:"category"`
	UserName string          `json:"userName"`
	Action   string          `json:"action"`
}

// classifyDiscussions decodes a discussions payload. Payloads whose URL or
// type is not a discussions post are not feed events and yield false.
func (m *Message) classifyDiscussions(raw string) (bool, error) {
	var msg discussionsPayload
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return false, &MalformedError{Channel: string(event.ChannelDiscussions), Err: err}
	}

	res := discussionsURLPattern.FindStringSubmatch(msg.URL)
	kind := discussionsTypePattern.FindStringSubmatch(msg.Type)
	if res == nil || kind == nil {
		return false, nil
	}

	wiki := res[1]
	url := msg.URL
	// Bare subdomains are served over TLS only.
	if !strings.Contains(wiki, ".") {
		if rest, ok := strings.CutPrefix(url, "http:"); ok {
			url = "https:" + rest
		}
	}

	size := payloadSize(msg.Size)

	m.ev.Category = event.CategoryDiscussions
	m.ev.Type = event.TypeDiscussion
	m.ev.Wiki = wiki
	m.ev.User = msg.UserName
	m.ev.Details = &event.Discussion{
		ThreadID: res[2],
		ReplyID:  res[3],
		Kind:     kind[1],
		Title:    msg.Title,
		Snippet:  msg.Snippet,
		Size:     size,
		Category: msg.Category,
		URL:      url,
		Action:   msg.Action,
	}
	m.finish(true)
	return true, nil
}

// payloadSize reads the size field, which arrives as a number or a numeric
// string. Fractions are truncated; anything else is 0.
func payloadSize(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}
