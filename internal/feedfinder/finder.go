// Package feedfinder locates recorded feed files on disk.
//
// A feed directory holds one file per feed session, written by an IRC
// logger or bouncer with one feed line per file line. The newest file is
// the one being appended to.
package feedfinder

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// EnvFeedDir is the environment variable name for specifying the feed directory.
const EnvFeedDir = "RCRELAY_FEED_DIR"

// FeedFilePattern matches feed files inside a feed directory.
const FeedFilePattern = "*.log"

// Sentinel errors.
var (
	ErrFeedDirNotFound = errors.New("feed directory not found")
	ErrNoFeedFiles     = errors.New("no feed files found")
)

// DefaultFeedDirs returns candidate feed directories in priority order.
func DefaultFeedDirs() []string {
	var dirs []string
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		dirs = append(dirs, filepath.Join(state, "rcrelay", "feeds"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "state", "rcrelay", "feeds"))
	}
	return dirs
}

// FindFeedDir returns the feed directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. RCRELAY_FEED_DIR environment variable
//  3. The first existing directory of DefaultFeedDirs()
//
// The returned path has symlinks resolved. The directory may still be empty;
// FindLatestFeedFile reports missing files.
func FindFeedDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified path is not a directory", ErrFeedDirNotFound)
	}

	if envDir := os.Getenv(EnvFeedDir); envDir != "" {
		if resolved := resolveDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrFeedDirNotFound, EnvFeedDir)
	}

	for _, dir := range DefaultFeedDirs() {
		if resolved := resolveDir(dir); resolved != "" {
			return resolved, nil
		}
	}
	return "", ErrFeedDirNotFound
}

// feedCandidate caches the modification time read while filtering, so a
// file removed before sorting cannot fail the comparison.
type feedCandidate struct {
	path    string
	modTime int64
}

// FindLatestFeedFile returns the most recently modified regular feed file
// in dir. Ties are broken by name so the result is stable.
//
// Returns ErrNoFeedFiles if the directory holds none.
func FindLatestFeedFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FeedFilePattern))
	if err != nil {
		return "", fmt.Errorf("globbing feed files: %w", err)
	}

	candidates := make([]feedCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, feedCandidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoFeedFiles
	}

	latest := slices.MaxFunc(candidates, func(a, b feedCandidate) int {
		return cmp.Or(cmp.Compare(a.modTime, b.modTime), cmp.Compare(a.path, b.path))
	})
	return latest.path, nil
}

// resolveDir resolves symlinks and returns the directory path, or "" if
// dir is not a usable directory.
func resolveDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	return resolved
}
