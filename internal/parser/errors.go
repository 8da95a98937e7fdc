package parser

import (
	"errors"
	"fmt"
)

// ErrUnknownChannel is returned by Classify for a channel it has no
// structural matcher for.
var ErrUnknownChannel = errors.New("unknown channel")

// MalformedError reports a payload the channel format could not decode.
// The line is discarded; the error exists so callers can log the cause.
type MalformedError struct {
	Channel string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Channel, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
