package rcrelay_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
)

func collect(t *testing.T, seq func(func(rcrelay.Event, error) bool)) ([]rcrelay.Event, []error) {
	t.Helper()
	var events []rcrelay.Event
	var errs []error
	for ev, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

func types(events []rcrelay.Event) []rcrelay.EventType {
	out := make([]rcrelay.EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func feed(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestParseReader(t *testing.T) {
	input := feed(lineEdit, "noise", "", lineMove, lineUnrecognized)

	tests := []struct {
		name string
		opts []rcrelay.ParseOption
		want []rcrelay.EventType
	}{
		{
			name: "defaults",
			want: []rcrelay.EventType{rcrelay.EventEdit, rcrelay.EventMove},
		},
		{
			name: "include unrecognized",
			opts: []rcrelay.ParseOption{rcrelay.WithParseIncludeUnrecognized(true)},
			want: []rcrelay.EventType{rcrelay.EventEdit, rcrelay.EventMove, rcrelay.EventLog},
		},
		{
			name: "include types",
			opts: []rcrelay.ParseOption{rcrelay.WithParseIncludeTypes(rcrelay.EventMove)},
			want: []rcrelay.EventType{rcrelay.EventMove},
		},
		{
			name: "exclude types",
			opts: []rcrelay.ParseOption{rcrelay.WithParseExcludeTypes(rcrelay.EventMove)},
			want: []rcrelay.EventType{rcrelay.EventEdit},
		},
		{
			name: "filter",
			opts: []rcrelay.ParseOption{
				rcrelay.WithParseIncludeUnrecognized(true),
				rcrelay.WithParseFilter([]rcrelay.EventType{rcrelay.EventLog, rcrelay.EventEdit}, []rcrelay.EventType{rcrelay.EventEdit}),
			},
			want: []rcrelay.EventType{rcrelay.EventLog},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, errs := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(input), tt.opts...))
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, types(events))
		})
	}
}

func TestParseReader_RawLine(t *testing.T) {
	events, _ := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(feed(lineEdit))))
	require.Len(t, events, 1)
	assert.Equal(t, lineEdit, events[0].Raw)

	events, _ = collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(feed(lineEdit)),
		rcrelay.WithParseOmitRawLine(true)))
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Raw)
}

func TestParseReader_CRLF(t *testing.T) {
	input := lineEdit + "\r\n" + lineMove + "\r\n"
	events, errs := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(input)))
	assert.Empty(t, errs)
	assert.Equal(t, []rcrelay.EventType{rcrelay.EventEdit, rcrelay.EventMove}, types(events))
}

func TestParseReader_Discussions(t *testing.T) {
	valid := `{"url":"https://community.wikia.com/d/p/3100000000000000000","type":"discussion-thread","title":"Hi","userName":"Dana","action":"created","size":12}`
	input := feed(valid, "{broken", valid)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	events, errs := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(input),
		rcrelay.WithParseChannel(rcrelay.ChannelDiscussions),
		rcrelay.WithParseLogger(logger),
	))
	assert.Empty(t, errs)
	assert.Len(t, events, 2)
	assert.Contains(t, logs.String(), "skipping malformed feed line")
}

func TestParseReader_StopOnError(t *testing.T) {
	input := feed("{broken", `{"url":"x"}`)
	events, errs := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(input),
		rcrelay.WithParseChannel(rcrelay.ChannelDiscussions),
		rcrelay.WithParseStopOnError(true),
	))
	assert.Empty(t, events)
	require.Len(t, errs, 1)

	var perr *rcrelay.ParseError
	require.ErrorAs(t, errs[0], &perr)
	assert.Equal(t, "{broken", perr.Line)
}

func TestParseReader_InvalidOptions(t *testing.T) {
	_, errs := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(""),
		rcrelay.WithParseChannel("irc")))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid options")

	_, errs = collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(""),
		rcrelay.WithParseMaxLineBytes(0)))
	require.Len(t, errs, 1)
}

func TestParseReader_LineTooLong(t *testing.T) {
	input := feed(lineEdit, strings.Repeat("x", 200))
	events, errs := collect(t, rcrelay.ParseReader(context.Background(), strings.NewReader(input),
		rcrelay.WithParseMaxLineBytes(len(lineEdit)+10)))
	assert.Len(t, events, 1)
	require.Len(t, errs, 1)
}

func TestParseReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, errs := collect(t, rcrelay.ParseReader(ctx, strings.NewReader(feed(lineEdit))))
	assert.Empty(t, events)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], context.Canceled))
}

func TestParseReader_BreakStopsIteration(t *testing.T) {
	input := feed(lineEdit, lineEdit, lineEdit)
	n := 0
	for _, err := range rcrelay.ParseReader(context.Background(), strings.NewReader(input)) {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.log")
	require.NoError(t, os.WriteFile(path, []byte(feed(lineEdit, lineMove)), 0o644))

	events, errs := collect(t, rcrelay.ParseFile(context.Background(), path))
	assert.Empty(t, errs)
	assert.Equal(t, []rcrelay.EventType{rcrelay.EventEdit, rcrelay.EventMove}, types(events))

	_, errs = collect(t, rcrelay.ParseFile(context.Background(), dir))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "opening feed file")

	_, errs = collect(t, rcrelay.ParseFile(context.Background(), filepath.Join(dir, "missing.log")))
	require.Len(t, errs, 1)
}
