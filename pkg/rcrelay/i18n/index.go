package i18n

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// MaxPlaceholder is the highest placeholder number accepted in an original template.
const MaxPlaceholder = 32

// UnknownFlag is returned by Flag for block flags without a known rendering.
const UnknownFlag = "unknown"

// blockFlags are the canonical block flag identifiers, in resolution order.
var blockFlags = []string{
	"angry-autoblock",
	"anononly",
	"hiddenname",
	"nocreate",
	"noautoblock",
	"noemail",
	"nousertalk",
}

// BlockFlags returns the canonical block flag identifiers.
func BlockFlags() []string {
	return slices.Clone(blockFlags)
}

func isBlockFlag(s string) bool {
	return slices.Contains(blockFlags, s)
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// Index is the compiled Template Index. It is immutable after construction
// and safe for concurrent use by multiple goroutines.
type Index struct {
	messages map[string][]*template
	flags    map[string]string   // localized form -> canonical flag
	forms    map[string][]string // canonical flag -> localized forms
}

// template is one compiled locale variant of a message.
type template struct {
	re *regexp.Regexp

	// slots holds the placeholder numbers of the original text in textual
	// order, which is also capture group order.
	slots   []int
	maxSlot int
}

// NewIndex compiles the parallel pattern and original tables.
//
// patterns and originals map a canonical message key to per-locale lists
// that must align positionally: originals[key][i] is the uncompiled text
// that patterns[key][i] was derived from. Keys present only in originals
// are ignored. flags maps a canonical block flag to its localized forms.
func NewIndex(patterns, originals map[string][]string, flags map[string][]string) (*Index, error) {
	idx := &Index{
		messages: make(map[string][]*template, len(patterns)),
		flags:    make(map[string]string),
		forms:    make(map[string][]string, len(flags)),
	}

	for key, regexes := range patterns {
		texts, ok := originals[key]
		if !ok {
			return nil, &PatternError{Key: key, Index: -1, Field: "original", Message: "no original templates for key"}
		}
		if len(texts) != len(regexes) {
			return nil, &PatternError{
				Key:     key,
				Index:   -1,
				Field:   "original",
				Message: fmt.Sprintf("%d patterns but %d originals", len(regexes), len(texts)),
			}
		}

		compiled := make([]*template, 0, len(regexes))
		for i, expr := range regexes {
			t, err := compileTemplate(key, i, expr, texts[i])
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, t)
		}
		idx.messages[key] = compiled
	}

	// Resolve flags in canonical order so a form shared by two flags is
	// reported deterministically.
	for _, flag := range blockFlags {
		for _, form := range flags[flag] {
			form = strings.TrimSpace(form)
			if form == "" {
				continue
			}
			if prev, dup := idx.flags[form]; dup && prev != flag {
				return nil, &PatternError{
					Key:     flag,
					Index:   -1,
					Field:   "block_flags",
					Message: fmt.Sprintf("form %q already maps to %q", form, prev),
				}
			}
			idx.flags[form] = flag
			idx.forms[flag] = append(idx.forms[flag], form)
		}
	}
	for flag := range flags {
		if !isBlockFlag(flag) {
			return nil, &PatternError{Key: flag, Index: -1, Field: "block_flags", Message: "unknown block flag"}
		}
	}

	return idx, nil
}

func compileTemplate(key string, i int, expr, original string) (*template, error) {
	if len(expr) > MaxPatternLength {
		return nil, &PatternError{
			Key:     key,
			Index:   i,
			Field:   "regex",
			Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(expr), MaxPatternLength),
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{
			Key:     key,
			Index:   i,
			Field:   "regex",
			Message: fmt.Sprintf("invalid regular expression: %v", err),
			Cause:   err,
		}
	}

	t := &template{re: re}
	for _, m := range placeholderPattern.FindAllStringSubmatch(original, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > MaxPlaceholder {
			return nil, &PatternError{
				Key:     key,
				Index:   i,
				Field:   "original",
				Message: fmt.Sprintf("placeholder %s out of range 1..%d", m[0], MaxPlaceholder),
			}
		}
		t.slots = append(t.slots, n)
		t.maxSlot = max(t.maxSlot, n)
	}
	if len(t.slots) > re.NumSubexp() {
		return nil, &PatternError{
			Key:     key,
			Index:   i,
			Field:   "regex",
			Message: fmt.Sprintf("%d placeholders but only %d capture groups", len(t.slots), re.NumSubexp()),
		}
	}
	return t, nil
}

// rethread orders captures by placeholder number. The capture of the j-th
// placeholder lands at index N-1; captures past the last placeholder are
// appended from index maxSlot on, in their original order. Positions of
// unreferenced placeholder numbers stay empty.
func (t *template) rethread(captures []string) []string {
	trailing := captures[len(t.slots):]
	out := make([]string, t.maxSlot+len(trailing))
	for j, n := range t.slots {
		out[n-1] = captures[j]
	}
	copy(out[t.maxSlot:], trailing)
	return out
}

// Match tries the templates of key in stored order against summary and
// returns the captures of the first match in canonical parameter order.
func (x *Index) Match(key, summary string) ([]string, bool) {
	for _, t := range x.messages[key] {
		m := t.re.FindStringSubmatch(summary)
		if m == nil {
			continue
		}
		return t.rethread(m[1:]), true
	}
	return nil, false
}

// MatchAny tries each key in order and returns the first successful match.
func (x *Index) MatchAny(keys []string, summary string) ([]string, bool) {
	for _, key := range keys {
		if params, ok := x.Match(key, summary); ok {
			return params, true
		}
	}
	return nil, false
}

// Has reports whether the index carries templates for key.
func (x *Index) Has(key string) bool {
	return len(x.messages[key]) > 0
}

// Keys returns the message keys of the index, sorted.
func (x *Index) Keys() []string {
	keys := make([]string, 0, len(x.messages))
	for k := range x.messages {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Flag resolves one localized block flag rendering (surrounding space is
// ignored) to its canonical identifier, or UnknownFlag.
//
// An exact rendering wins. Otherwise the longest known rendering contained
// in localized decides, with ties going to the earlier canonical flag.
func (x *Index) Flag(localized string) string {
	localized = strings.TrimSpace(localized)
	if flag, ok := x.flags[localized]; ok {
		return flag
	}
	if localized == "" {
		return UnknownFlag
	}

	best, bestLen := UnknownFlag, 0
	for _, flag := range blockFlags {
		for _, form := range x.forms[flag] {
			if len(form) > bestLen && strings.Contains(localized, form) {
				best, bestLen = flag, len(form)
			}
		}
	}
	return best
}

// FlagForms returns the localized renderings configured for a canonical flag.
func (x *Index) FlagForms(flag string) []string {
	return slices.Clone(x.forms[flag])
}
