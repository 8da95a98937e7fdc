package i18n_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

func TestLoadTables(t *testing.T) {
	patterns, err := os.ReadFile("testdata/patterns.json")
	require.NoError(t, err)
	originals, err := os.ReadFile("testdata/originals.json")
	require.NoError(t, err)

	idx, err := i18n.LoadTables(patterns, originals)
	require.NoError(t, err)

	assert.Equal(t, []string{"1movedto2", "blocklogentry"}, idx.Keys())
	assert.Equal(t, "nocreate", idx.Flag("account creation disabled"))

	params, ok := idx.Match("blocklogentry",
		"blocked [[User:Spammer]] with an expiry time of 1 week (anon. only, account creation disabled): spam")
	require.True(t, ok)
	assert.Equal(t, []string{"Spammer", "1 week", "anon. only, account creation disabled", "spam"}, params)
}

func TestLoadTables_Errors(t *testing.T) {
	tests := []struct {
		name      string
		patterns  string
		originals string
		contains  string
	}{
		{"invalid pattern JSON", `{`, `{}`, "failed to parse pattern table"},
		{"invalid original JSON", `{"k":["x"]}`, `[`, "failed to parse original table"},
		{"flags only", `{"block-log-flags-anononly":["anon. only"]}`, `{}`, "no message keys"},
		{"missing original", `{"k":["x"]}`, `{}`, "no original templates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := i18n.LoadTables([]byte(tt.patterns), []byte(tt.originals))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadTables_FlagsOnlyIsValidationError(t *testing.T) {
	_, err := i18n.LoadTables([]byte(`{"block-log-flags-anononly":["x"]}`), []byte(`{}`))
	var valErr *i18n.ValidationError
	assert.True(t, errors.As(err, &valErr))
}
