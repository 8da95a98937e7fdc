package i18n

import "fmt"

// ValidationError represents a dictionary-level validation error, such as
// an unsupported version or an empty message table.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// PatternError represents an error in one localized template of a message
// key (invalid regex, missing original, misaligned tables).
type PatternError struct {
	Key     string // canonical message key, or block flag name
	Index   int    // 0-based position in the key's template list, -1 if not applicable
	Field   string
	Message string
	Cause   error // underlying error (e.g., regex compile error)
}

func (e *PatternError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("message %q[%d]: %s: %s", e.Key, e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("message %q: %s: %s", e.Key, e.Field, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}
