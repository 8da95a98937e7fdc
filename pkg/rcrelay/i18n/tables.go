package i18n

import (
	"encoding/json"
	"fmt"
	"strings"
)

// flagKeyPrefix marks block flag entries in a legacy pattern table.
const flagKeyPrefix = "block-log-flags-"

// LoadTables builds an Index from the two JSON tables used by earlier
// relay deployments: a pattern table (key -> [regex...]) and a message
// cache (key -> [original...]). Entries named "block-log-flags-<flag>" in
// the pattern table list localized flag renderings rather than regexes.
//
// Patterns must be valid RE2 syntax; tables containing lookaround
// assertions have to be converted first.
func LoadTables(patternsJSON, originalsJSON []byte) (*Index, error) {
	var raw, originals map[string][]string
	if err := json.Unmarshal(patternsJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pattern table: %w", err)
	}
	if err := json.Unmarshal(originalsJSON, &originals); err != nil {
		return nil, fmt.Errorf("failed to parse original table: %w", err)
	}

	patterns := make(map[string][]string, len(raw))
	flags := make(map[string][]string)
	for key, values := range raw {
		if flag, ok := strings.CutPrefix(key, flagKeyPrefix); ok {
			flags[flag] = values
			continue
		}
		patterns[key] = values
	}
	if len(patterns) == 0 {
		return nil, &ValidationError{Field: "messages", Message: "pattern table has no message keys"}
	}
	return NewIndex(patterns, originals, flags)
}
