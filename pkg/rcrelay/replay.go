package rcrelay

import (
	"slices"
	"strings"

	"github.com/rcrelay/rcrelay-go/internal/safefile"
)

// ReplayMode specifies how to handle lines already in the feed file.
type ReplayMode int

const (
	// ReplayNone only watches for new lines (default, tail -f behavior).
	ReplayNone ReplayMode = iota
	// ReplayFromStart reads the feed file from the beginning.
	ReplayFromStart
	// ReplayLastN reads the last N lines before tailing.
	ReplayLastN
)

// ReplayConfig configures replay behavior.
type ReplayConfig struct {
	Mode  ReplayMode
	LastN int // for ReplayLastN
}

// DefaultMaxReplayLastN is the default maximum lines for ReplayLastN mode.
const DefaultMaxReplayLastN = 10000

const replayChunkSize = 4096

// readLastLines returns the last n non-empty lines of the file at path,
// oldest first. The file is scanned backwards in chunks. maxBytes bounds
// the total bytes read and maxLineBytes the length of a single line; 0
// disables a limit. Exceeding a limit returns ErrReplayLimitExceeded.
func readLastLines(path string, n, maxBytes, maxLineBytes int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, info, err := safefile.OpenRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var newestFirst []string
	keep := func(b []byte) error {
		if maxLineBytes > 0 && len(b) > maxLineBytes {
			return ErrReplayLimitExceeded
		}
		if line := strings.TrimSuffix(string(b), "\r"); line != "" {
			newestFirst = append(newestFirst, line)
		}
		return nil
	}

	var carry []byte // start of a line whose beginning is not read yet
	read := 0
	for off := info.Size(); off > 0; {
		size := min(off, replayChunkSize)
		off -= size
		read += int(size)
		if maxBytes > 0 && read > maxBytes {
			return nil, ErrReplayLimitExceeded
		}

		data := make([]byte, size, int(size)+len(carry))
		if _, err := f.ReadAt(data, off); err != nil {
			return nil, err
		}
		data = append(data, carry...)

		end := len(data)
		for i := end - 1; i >= 0 && len(newestFirst) < n; i-- {
			if data[i] != '\n' {
				continue
			}
			if err := keep(data[i+1 : end]); err != nil {
				return nil, err
			}
			end = i
		}
		if len(newestFirst) >= n {
			break
		}

		carry = data[:end]
		if maxLineBytes > 0 && len(carry) > maxLineBytes {
			return nil, ErrReplayLimitExceeded
		}
		if off == 0 {
			if err := keep(carry); err != nil {
				return nil, err
			}
		}
	}

	slices.Reverse(newestFirst)
	return newestFirst, nil
}
