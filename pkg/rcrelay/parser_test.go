package rcrelay_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
)

func TestDefaultParser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		channel        rcrelay.Channel
		line           string
		wantMatch      bool
		wantType       rcrelay.EventType
		wantRecognized bool
	}{
		{
			name:           "edit",
			line:           lineEdit,
			wantMatch:      true,
			wantType:       rcrelay.EventEdit,
			wantRecognized: true,
		},
		{
			name:           "move",
			channel:        rcrelay.ChannelRC,
			line:           lineMove,
			wantMatch:      true,
			wantType:       rcrelay.EventMove,
			wantRecognized: true,
		},
		{
			name:      "log summary without template",
			line:      lineUnrecognized,
			wantMatch: true,
			wantType:  rcrelay.EventLog,
		},
		{
			name:           "new user",
			channel:        rcrelay.ChannelNewUsers,
			line:           lineNewUser,
			wantMatch:      true,
			wantType:       rcrelay.EventNewUsers,
			wantRecognized: true,
		},
		{
			name:    "new user line on rc channel",
			channel: rcrelay.ChannelRC,
			line:    lineNewUser,
		},
		{
			name: "random text",
			line: "random text",
		},
		{
			name: "empty",
			line: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rcrelay.DefaultParser{Channel: tt.channel}
			result, err := p.ParseLine(ctx, tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, result.Matched)
			if !tt.wantMatch {
				assert.Empty(t, result.Events)
				return
			}
			require.Len(t, result.Events, 1)
			ev := result.Events[0]
			assert.Equal(t, tt.wantType, ev.Type)
			assert.Equal(t, tt.wantRecognized, ev.Recognized)
			assert.Equal(t, tt.line, ev.Raw)
		})
	}
}

func TestDefaultParser_MoveDetails(t *testing.T) {
	result, err := rcrelay.DefaultParser{}.ParseLine(context.Background(), lineMove)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)

	ev := result.Events[0]
	assert.Equal(t, "community", ev.Wiki)
	assert.Equal(t, "Bob", ev.User)
	assert.Equal(t, &event.Move{Page: "Old", Target: "New", Reason: "rename"}, ev.Details)
}

func TestDefaultParser_UnrecognizedKeepsSummary(t *testing.T) {
	result, err := rcrelay.DefaultParser{}.ParseLine(context.Background(), lineUnrecognized)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "something no template renders", result.Events[0].Summary)
	assert.Nil(t, result.Events[0].Details)
}

func TestDefaultParser_MalformedDiscussions(t *testing.T) {
	p := rcrelay.DefaultParser{Channel: rcrelay.ChannelDiscussions}
	result, err := p.ParseLine(context.Background(), "{not json")
	require.Error(t, err)
	assert.False(t, result.Matched)
}

func TestDefaultParser_UnknownChannel(t *testing.T) {
	p := rcrelay.DefaultParser{Channel: "irc"}
	_, err := p.ParseLine(context.Background(), lineEdit)
	assert.Error(t, err)
}

func TestParseLine(t *testing.T) {
	ev, err := rcrelay.ParseLine(lineEdit, rcrelay.ChannelRC)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, rcrelay.EventEdit, ev.Type)
	assert.Equal(t, "Alice", ev.User)

	ev, err = rcrelay.ParseLine("not a feed line", rcrelay.ChannelRC)
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestParserFunc(t *testing.T) {
	called := false
	p := rcrelay.ParserFunc(func(ctx context.Context, line string) (rcrelay.ParseResult, error) {
		called = true
		assert.Equal(t, "test line", line)
		return rcrelay.ParseResult{Matched: true}, nil
	})

	result, err := p.ParseLine(context.Background(), "test line")
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, result.Matched)
}

// typed returns a parser that always matches with one event of type typ.
func typed(typ rcrelay.EventType, calls *[]rcrelay.EventType) rcrelay.Parser {
	return rcrelay.ParserFunc(func(ctx context.Context, line string) (rcrelay.ParseResult, error) {
		if calls != nil {
			*calls = append(*calls, typ)
		}
		return rcrelay.ParseResult{Events: []rcrelay.Event{{Type: typ}}, Matched: true}, nil
	})
}

func failing(msg string) rcrelay.Parser {
	return rcrelay.ParserFunc(func(ctx context.Context, line string) (rcrelay.ParseResult, error) {
		return rcrelay.ParseResult{}, errors.New(msg)
	})
}

var noMatch = rcrelay.ParserFunc(func(ctx context.Context, line string) (rcrelay.ParseResult, error) {
	return rcrelay.ParseResult{Matched: false}, nil
})

func TestParserChain_ChainAll(t *testing.T) {
	chain := &rcrelay.ParserChain{
		Mode:    rcrelay.ChainAll,
		Parsers: []rcrelay.Parser{typed(rcrelay.EventEdit, nil), typed(rcrelay.EventMove, nil)},
	}

	result, err := chain.ParseLine(context.Background(), "test")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	require.Len(t, result.Events, 2)
	assert.Equal(t, rcrelay.EventEdit, result.Events[0].Type)
	assert.Equal(t, rcrelay.EventMove, result.Events[1].Type)
}

func TestParserChain_ChainFirst(t *testing.T) {
	var calls []rcrelay.EventType
	chain := &rcrelay.ParserChain{
		Mode:    rcrelay.ChainFirst,
		Parsers: []rcrelay.Parser{noMatch, typed(rcrelay.EventEdit, &calls), typed(rcrelay.EventMove, &calls)},
	}

	result, err := chain.ParseLine(context.Background(), "test")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Len(t, result.Events, 1)
	assert.Equal(t, []rcrelay.EventType{rcrelay.EventEdit}, calls)
}

func TestParserChain_ChainContinueOnError(t *testing.T) {
	chain := &rcrelay.ParserChain{
		Mode:    rcrelay.ChainContinueOnError,
		Parsers: []rcrelay.Parser{failing("p1 error"), typed(rcrelay.EventEdit, nil), failing("p3 error")},
	}

	result, err := chain.ParseLine(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p1 error")
	assert.Contains(t, err.Error(), "p3 error")
	assert.True(t, result.Matched)
	assert.Len(t, result.Events, 1)
}

func TestParserChain_ErrorStopsChainAll(t *testing.T) {
	var calls []rcrelay.EventType
	chain := &rcrelay.ParserChain{
		Mode:    rcrelay.ChainAll,
		Parsers: []rcrelay.Parser{failing("boom"), typed(rcrelay.EventEdit, &calls)},
	}

	_, err := chain.ParseLine(context.Background(), "test")
	assert.EqualError(t, err, "boom")
	assert.Empty(t, calls)
}

func TestParserChain_Empty(t *testing.T) {
	chain := &rcrelay.ParserChain{Parsers: []rcrelay.Parser{nil}}

	result, err := chain.ParseLine(context.Background(), "test")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Empty(t, result.Events)
}

func TestParserChain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := &rcrelay.ParserChain{Parsers: []rcrelay.Parser{typed(rcrelay.EventEdit, nil)}}
	_, err := chain.ParseLine(ctx, "test")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParserChain_MixedChannels(t *testing.T) {
	chain := &rcrelay.ParserChain{
		Mode: rcrelay.ChainFirst,
		Parsers: []rcrelay.Parser{
			rcrelay.DefaultParser{Channel: rcrelay.ChannelRC},
			rcrelay.DefaultParser{Channel: rcrelay.ChannelNewUsers},
		},
	}

	for _, line := range []string{lineEdit, lineNewUser} {
		result, err := chain.ParseLine(context.Background(), line)
		require.NoError(t, err)
		assert.True(t, result.Matched, line)
	}
}
