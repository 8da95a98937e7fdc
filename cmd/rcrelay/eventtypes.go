package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
)

// ValidEventTypes maps CLI type names to event types.
var ValidEventTypes = func() map[string]rcrelay.EventType {
	m := make(map[string]rcrelay.EventType)
	for _, t := range event.AllTypes() {
		m[string(t)] = t
	}
	return m
}()

// ValidEventTypeNames returns the accepted --types values, sorted.
func ValidEventTypeNames() []string {
	names := make([]string, 0, len(ValidEventTypes))
	for name := range ValidEventTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NormalizeEventTypes validates type names case-insensitively and removes
// duplicates, keeping the first occurrence.
func NormalizeEventTypes(input []string) ([]rcrelay.EventType, error) {
	if len(input) == 0 {
		return nil, nil
	}

	seen := make(map[rcrelay.EventType]bool)
	var out []rcrelay.EventType
	for _, raw := range input {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			return nil, fmt.Errorf("empty event type (valid: %s)", strings.Join(ValidEventTypeNames(), ", "))
		}
		t, ok := ValidEventTypes[name]
		if !ok {
			return nil, fmt.Errorf("unknown event type %q (valid: %s)", raw, strings.Join(ValidEventTypeNames(), ", "))
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// RejectOverlap reports types that are both included and excluded.
func RejectOverlap(includes, excludes []rcrelay.EventType) error {
	for _, t := range includes {
		if slices.Contains(excludes, t) {
			return fmt.Errorf("event type %q is both included and excluded", t)
		}
	}
	return nil
}
