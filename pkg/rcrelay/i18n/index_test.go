package i18n_test

import (
	"errors"
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

func TestIndex_Match_CanonicalOrder(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"1movedto2": {`^moved \[\[([^\]]+)\]\] to \[\[([^\]]+)\]\]$`}},
		map[string][]string{"1movedto2": {"moved [[$1]] to [[$2]]"}},
		nil,
	)
	require.NoError(t, err)

	params, ok := idx.Match("1movedto2", "moved [[Foo]] to [[Bar]]")
	require.True(t, ok)
	assert.Equal(t, []string{"Foo", "Bar"}, params)
}

func TestIndex_Match_ReorderedPlaceholders(t *testing.T) {
	// A locale that names the target before the source.
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^\[\[([^\]]+)\]\] <- \[\[([^\]]+)\]\](?:: (.*))?$`}},
		map[string][]string{"k": {"[[$2]] <- [[$1]]"}},
		nil,
	)
	require.NoError(t, err)

	params, ok := idx.Match("k", "[[Bar]] <- [[Foo]]: cleanup")
	require.True(t, ok)
	assert.Equal(t, []string{"Foo", "Bar", "cleanup"}, params)
}

func TestIndex_Match_TrailingCaptures(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^a (\w+) b (\w+) c (\w+)$`}},
		map[string][]string{"k": {"a $1 b"}},
		nil,
	)
	require.NoError(t, err)

	params, ok := idx.Match("k", "a x b y c z")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, params)
}

func TestIndex_Match_UnreferencedSlotsStayEmpty(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^(\w+) changed (\w+)(?:: (.*))?$`}},
		map[string][]string{"k": {"$1 changed $3"}},
		nil,
	)
	require.NoError(t, err)

	params, ok := idx.Match("k", "Alice changed Page: why")
	require.True(t, ok)
	assert.Equal(t, []string{"Alice", "", "Page", "why"}, params)
}

func TestIndex_Match_LocalePriority(t *testing.T) {
	// Both templates match; the first stored one wins.
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^(\w+) (\w+)$`, `^(\w+) (\w+)$`}},
		map[string][]string{"k": {"$1 $2", "$2 $1"}},
		nil,
	)
	require.NoError(t, err)

	params, ok := idx.Match("k", "one two")
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, params)
}

func TestIndex_Match_FallsThroughLocales(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^deleted "(.+)"$`, `^löschte „(.+)“$`}},
		map[string][]string{"k": {`deleted "$1"`, "löschte „$1“"}},
		nil,
	)
	require.NoError(t, err)

	params, ok := idx.Match("k", "löschte „Seite“")
	require.True(t, ok)
	assert.Equal(t, []string{"Seite"}, params)
}

func TestIndex_Match_NoMatch(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^x$`}},
		map[string][]string{"k": {"x"}},
		nil,
	)
	require.NoError(t, err)

	_, ok := idx.Match("k", "y")
	assert.False(t, ok)
	_, ok = idx.Match("missing", "x")
	assert.False(t, ok)
}

func TestIndex_MatchAny_KeyOrder(t *testing.T) {
	// Deletion and restoration of article comments share an action, so
	// the key order decides which template is tried first.
	idx, err := i18n.NewIndex(
		map[string][]string{
			"deletedarticle":   {`^deleted "\[\[([^\]]+)\]\]"$`},
			"undeletedarticle": {`^restored "\[\[([^\]]+)\]\]"$`},
		},
		map[string][]string{
			"deletedarticle":   {`deleted "[[$1]]"`},
			"undeletedarticle": {`restored "[[$1]]"`},
		},
		nil,
	)
	require.NoError(t, err)

	keys := []string{"deletedarticle", "undeletedarticle"}

	params, ok := idx.MatchAny(keys, `restored "[[Talk:Foo/@comment-1]]"`)
	require.True(t, ok)
	assert.Equal(t, []string{"Talk:Foo/@comment-1"}, params)

	_, ok = idx.MatchAny(keys, "something else")
	assert.False(t, ok)
}

func TestIndex_Flag(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"k": {`^x$`}},
		map[string][]string{"k": {"x"}},
		map[string][]string{
			"anononly":    {"anon. only", "nur Anonyme"},
			"noautoblock": {"autoblock disabled"},
		},
	)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"english", "anon. only", "anononly"},
		{"german", "nur Anonyme", "anononly"},
		{"surrounding space", " autoblock disabled ", "noautoblock"},
		{"unknown rendering", "something new", i18n.UnknownFlag},
		{"rendering with surrounding text", "anon. only (IP range)", "anononly"},
		{"embedded german rendering", "Sperre nur Anonyme", "anononly"},
		{"empty", "", i18n.UnknownFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.Flag(tt.input))
		})
	}
}

func TestIndex_Flag_RoundTrip(t *testing.T) {
	idx := i18n.Default()
	for _, flag := range i18n.BlockFlags() {
		forms := idx.FlagForms(flag)
		require.NotEmpty(t, forms, "flag %s has no rendering", flag)
		for _, form := range forms {
			assert.Equal(t, flag, idx.Flag(form), "form %q", form)
		}
	}
}

func TestIndex_Flag_AmbiguousSubstrings(t *testing.T) {
	// "autoblock disabled" must not resolve to the enhanced autoblock flag
	// even though both mention autoblock.
	idx := i18n.Default()
	assert.Equal(t, "noautoblock", idx.Flag("autoblock disabled"))
	assert.Equal(t, "angry-autoblock", idx.Flag("enhanced autoblock enabled"))
	assert.Equal(t, "noautoblock", idx.Flag("autoblock disabled (legacy)"))
	assert.Equal(t, "angry-autoblock", idx.Flag("enhanced autoblock enabled, autoblock disabled"))
}

func TestNewIndex_Errors(t *testing.T) {
	tests := []struct {
		name      string
		patterns  map[string][]string
		originals map[string][]string
		flags     map[string][]string
		contains  string
	}{
		{
			name:      "missing originals",
			patterns:  map[string][]string{"k": {"x"}},
			originals: map[string][]string{},
			contains:  "no original templates",
		},
		{
			name:      "misaligned tables",
			patterns:  map[string][]string{"k": {"x", "y"}},
			originals: map[string][]string{"k": {"x"}},
			contains:  "2 patterns but 1 originals",
		},
		{
			name:      "invalid regex",
			patterns:  map[string][]string{"k": {"(unclosed"}},
			originals: map[string][]string{"k": {"$1"}},
			contains:  "invalid regular expression",
		},
		{
			name:      "lookahead",
			patterns:  map[string][]string{"k": {`^(?!x)(.*)$`}},
			originals: map[string][]string{"k": {"$1"}},
			contains:  "invalid regular expression",
		},
		{
			name:      "placeholder out of range",
			patterns:  map[string][]string{"k": {`^(.*)$`}},
			originals: map[string][]string{"k": {"$99"}},
			contains:  "out of range",
		},
		{
			name:      "more placeholders than groups",
			patterns:  map[string][]string{"k": {`^(.*)$`}},
			originals: map[string][]string{"k": {"$1 $2"}},
			contains:  "2 placeholders but only 1 capture groups",
		},
		{
			name:      "unknown flag",
			patterns:  map[string][]string{"k": {"x"}},
			originals: map[string][]string{"k": {"x"}},
			flags:     map[string][]string{"superblock": {"super"}},
			contains:  "unknown block flag",
		},
		{
			name:      "form shared by two flags",
			patterns:  map[string][]string{"k": {"x"}},
			originals: map[string][]string{"k": {"x"}},
			flags: map[string][]string{
				"anononly": {"same"},
				"noemail":  {"same"},
			},
			contains: "already maps to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := i18n.NewIndex(tt.patterns, tt.originals, tt.flags)
			require.Error(t, err)
			var patErr *i18n.PatternError
			require.True(t, errors.As(err, &patErr))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestNewIndex_RegexCauseUnwraps(t *testing.T) {
	_, err := i18n.NewIndex(
		map[string][]string{"k": {"[a-"}},
		map[string][]string{"k": {"x"}},
		nil,
	)
	require.Error(t, err)
	var syntaxErr *syntax.Error
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestIndex_KeysAndHas(t *testing.T) {
	idx, err := i18n.NewIndex(
		map[string][]string{"b": {"x"}, "a": {"y"}},
		map[string][]string{"b": {"x"}, "a": {"y"}, "c": {"z"}},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, idx.Keys())
	assert.True(t, idx.Has("a"))
	assert.False(t, idx.Has("c"))
}

func TestIndex_ConcurrentMatch(t *testing.T) {
	idx := i18n.Default()
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				params, ok := idx.Match("1movedto2", "moved [[A]] to [[B]]: r")
				if !ok || params[1] != "B" {
					t.Error("unexpected match result")
					return
				}
			}
		}()
	}
	for range 8 {
		<-done
	}
}
