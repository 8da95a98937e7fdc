// Package i18n holds the Template Index: localized log summary templates,
// compiled once, keyed by canonical message key.
//
// A wiki renders each log summary from a message template in its content
// language, e.g. the English "blocklogentry" template
//
//	blocked [[$1]] with an expiry time of $2 $3
//
// The Index pairs every localized template with a regular expression that
// matches summaries rendered from it. Matching a summary re-threads the
// regex captures by placeholder number, so callers always receive
// parameters in canonical order regardless of the locale's word order.
//
// # Dictionary files
//
// Dictionaries are YAML files:
//
//	version: 1
//	messages:
//	  1movedto2:
//	    - locale: en
//	      original: 'moved [[$1]] to [[$2]]'
//	      regex: '^moved \[\[([^\]]+)\]\] to \[\[([^\]]+)\]\](?:: (.*))?$'
//	block_flags:
//	  anononly: ['anon. only']
//
// Templates of a key are tried in file order, so the most likely locale
// should come first.
package i18n

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rcrelay/rcrelay-go/internal/safefile"
)

const (
	// MaxDictionaryFileSize is the maximum allowed size of a dictionary file (8MB).
	// Full dictionaries carry every locale of every message key.
	MaxDictionaryFileSize = 8 * 1024 * 1024

	// MaxPatternLength is the maximum allowed length of one template regex.
	MaxPatternLength = 2048

	// MaxTemplatesPerKey bounds the number of locale variants per message key.
	MaxTemplatesPerKey = 1000

	// SupportedVersion is the currently supported dictionary format version.
	SupportedVersion = 1
)

// Dictionary is the on-disk form of a Template Index.
type Dictionary struct {
	// Version is the dictionary format version. Currently only version 1 is supported.
	Version int `yaml:"version"`

	// Messages maps a canonical message key to its localized templates,
	// in matching priority order.
	Messages map[string][]Template `yaml:"messages"`

	// BlockFlags maps a canonical block flag to its localized renderings.
	BlockFlags map[string][]string `yaml:"block_flags"`
}

// Template is one localized rendering of a message.
type Template struct {
	// Locale is informational (e.g., "en", "de").
	Locale string `yaml:"locale,omitempty"`

	// Original is the uncompiled message text with $N placeholders.
	Original string `yaml:"original"`

	// Regex matches summaries rendered from Original. Its capture groups
	// follow the textual order of the placeholders in Original; groups
	// beyond the placeholders (typically the reason) come last.
	Regex string `yaml:"regex"`
}

// Load reads and validates a dictionary file.
// Errors never include the path.
func Load(path string) (*Dictionary, error) {
	data, err := safefile.ReadRegular(path, MaxDictionaryFileSize)
	if err != nil {
		if errors.Is(err, safefile.ErrNotRegularFile) {
			return nil, errors.New("dictionary file must be a regular file (not FIFO, device, symlink, or special file)")
		}
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a dictionary from YAML.
func LoadBytes(data []byte) (*Dictionary, error) {
	if len(data) == 0 {
		return nil, errors.New("dictionary is empty")
	}
	if len(data) > MaxDictionaryFileSize {
		return nil, fmt.Errorf("dictionary too large: %d bytes (max %d)", len(data), MaxDictionaryFileSize)
	}

	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate performs schema-level checks. Regular expressions are compiled
// later by NewIndexFromDictionary.
func (d *Dictionary) Validate() error {
	if d.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", d.Version, SupportedVersion),
		}
	}
	if len(d.Messages) == 0 {
		return &ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	for key, templates := range d.Messages {
		if len(templates) == 0 {
			return &PatternError{Key: key, Index: -1, Field: "templates", Message: "at least one template is required"}
		}
		if len(templates) > MaxTemplatesPerKey {
			return &PatternError{
				Key:     key,
				Index:   -1,
				Field:   "templates",
				Message: fmt.Sprintf("too many templates (%d), maximum allowed is %d", len(templates), MaxTemplatesPerKey),
			}
		}
		for i, t := range templates {
			if t.Original == "" {
				return &PatternError{Key: key, Index: i, Field: "original", Message: "original is required"}
			}
			if t.Regex == "" {
				return &PatternError{Key: key, Index: i, Field: "regex", Message: "regex is required"}
			}
			if len(t.Regex) > MaxPatternLength {
				return &PatternError{
					Key:     key,
					Index:   i,
					Field:   "regex",
					Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(t.Regex), MaxPatternLength),
				}
			}
		}
	}

	for flag := range d.BlockFlags {
		if !isBlockFlag(flag) {
			return &PatternError{Key: flag, Index: -1, Field: "block_flags", Message: "unknown block flag"}
		}
	}
	return nil
}

// tables splits the dictionary into the parallel tables NewIndex takes.
func (d *Dictionary) tables() (patterns, originals map[string][]string) {
	patterns = make(map[string][]string, len(d.Messages))
	originals = make(map[string][]string, len(d.Messages))
	for key, templates := range d.Messages {
		for _, t := range templates {
			patterns[key] = append(patterns[key], t.Regex)
			originals[key] = append(originals[key], t.Original)
		}
	}
	return patterns, originals
}

// NewIndexFromDictionary compiles a validated dictionary.
func NewIndexFromDictionary(d *Dictionary) (*Index, error) {
	if d == nil {
		return nil, errors.New("dictionary is nil")
	}
	patterns, originals := d.tables()
	return NewIndex(patterns, originals, d.BlockFlags)
}

// NewIndexFromFile loads a dictionary file and compiles it in one step.
func NewIndexFromFile(path string) (*Index, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewIndexFromDictionary(d)
}
