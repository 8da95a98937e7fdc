package rcrelay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

// WatchOption configures Watch behavior using the functional options pattern.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	feedDir            string
	channel            Channel
	index              *i18n.Index
	parser             Parser // nil until resolved from channel and index
	pollInterval       time.Duration
	filePolling        bool
	replay             ReplayConfig
	maxReplayLines     int
	maxReplayBytes     int  // 0 = unlimited
	maxReplayLineBytes int  // 0 = unlimited
	waitForFeed        bool // wait for feed files if the directory is empty
	gate               eventGate
	logger             *slog.Logger
}

// defaultWatchConfig returns a watchConfig with sensible defaults.
func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		channel:            ChannelRC,
		pollInterval:       2 * time.Second,
		maxReplayLines:     DefaultMaxReplayLastN,
		maxReplayBytes:     10 * 1024 * 1024,
		maxReplayLineBytes: 512 * 1024,
	}
}

// applyWatchOptions applies functional options to a watchConfig.
func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.parser == nil {
		cfg.parser = DefaultParser{Channel: cfg.channel, Index: cfg.index}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *watchConfig) validate() error {
	if _, err := event.ParseChannel(string(c.channel)); err != nil {
		return err
	}
	if c.replay.Mode == ReplayLastN {
		if c.replay.LastN < 0 {
			return fmt.Errorf("replay LastN must be non-negative, got %d", c.replay.LastN)
		}
		maxLines := c.maxReplayLines
		if maxLines == 0 {
			maxLines = DefaultMaxReplayLastN
		}
		if maxLines > 0 && c.replay.LastN > maxLines {
			return fmt.Errorf("replay LastN (%d) exceeds maximum of %d", c.replay.LastN, maxLines)
		}
	}
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if c.maxReplayBytes < 0 {
		return fmt.Errorf("maxReplayBytes must be non-negative, got %d", c.maxReplayBytes)
	}
	if c.maxReplayLineBytes < 0 {
		return fmt.Errorf("maxReplayLineBytes must be non-negative, got %d", c.maxReplayLineBytes)
	}
	return nil
}

// WithFeedDir sets the directory holding recorded feed files.
// If not set, RCRELAY_FEED_DIR and then the default locations are used.
func WithFeedDir(dir string) WatchOption {
	return func(c *watchConfig) {
		c.feedDir = dir
	}
}

// WithChannel sets the channel the feed files were recorded from.
// Default: ChannelRC. Ignored when a custom parser is set.
func WithChannel(ch Channel) WatchOption {
	return func(c *watchConfig) {
		c.channel = ch
	}
}

// WithIndex sets the Template Index used to decompose log summaries.
// Default: the built-in dictionary. Ignored when a custom parser is set.
func WithIndex(idx *i18n.Index) WatchOption {
	return func(c *watchConfig) {
		c.index = idx
	}
}

// WithPollInterval sets how often to check for new or rotated feed files.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithFilePolling makes the tailer poll the feed file for changes instead
// of relying on filesystem notifications. Needed on network filesystems.
func WithFilePolling(poll bool) WatchOption {
	return func(c *watchConfig) {
		c.filePolling = poll
	}
}

// WithWaitForFeed configures whether to wait for feed files to appear.
// When false (default), ErrNoFeedFiles is reported immediately if the
// feed directory is empty.
func WithWaitForFeed(wait bool) WatchOption {
	return func(c *watchConfig) {
		c.waitForFeed = wait
	}
}

// WithOmitRawLine clears Event.Raw on delivered events.
// Default: false (Raw holds the feed line).
func WithOmitRawLine(omit bool) WatchOption {
	return func(c *watchConfig) {
		c.gate.omitRawLine = omit
	}
}

// WithIncludeUnrecognized also delivers log events whose summary could not
// be decomposed. They carry the verbatim summary in Event.Summary.
// Default: false.
func WithIncludeUnrecognized(include bool) WatchOption {
	return func(c *watchConfig) {
		c.gate.includeUnrecognized = include
	}
}

// WithReplay configures replay behavior for existing feed lines.
// Default: ReplayNone (only new lines).
func WithReplay(config ReplayConfig) WatchOption {
	return func(c *watchConfig) {
		c.replay = config
	}
}

// WithReplayFromStart reads the feed file from the beginning.
func WithReplayFromStart() WatchOption {
	return func(c *watchConfig) {
		c.replay = ReplayConfig{Mode: ReplayFromStart}
	}
}

// WithReplayLastN reads the last N non-empty lines before tailing.
func WithReplayLastN(n int) WatchOption {
	return func(c *watchConfig) {
		c.replay = ReplayConfig{Mode: ReplayLastN, LastN: n}
	}
}

// WithMaxReplayLines sets the maximum lines for ReplayLastN mode.
// 0 uses the default (10000). Set to -1 for unlimited.
func WithMaxReplayLines(max int) WatchOption {
	return func(c *watchConfig) {
		c.maxReplayLines = max
	}
}

// WithMaxReplayBytes sets the maximum total bytes read during replay.
// Default is 10MB. Set to 0 for unlimited.
func WithMaxReplayBytes(max int) WatchOption {
	return func(c *watchConfig) {
		c.maxReplayBytes = max
	}
}

// WithMaxReplayLineBytes sets the maximum bytes per line during replay.
// Default is 512KB. Set to 0 for unlimited.
func WithMaxReplayLineBytes(max int) WatchOption {
	return func(c *watchConfig) {
		c.maxReplayLineBytes = max
	}
}

// WithLogger sets a logger for debug output and malformed line warnings.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// WithParser sets a custom parser for feed lines.
// If p is nil, this option has no effect.
func WithParser(p Parser) WatchOption {
	return func(c *watchConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParsers combines multiple parsers using ChainAll mode.
func WithParsers(parsers ...Parser) WatchOption {
	return func(c *watchConfig) {
		if len(parsers) > 0 {
			c.parser = &ParserChain{
				Mode:    ChainAll,
				Parsers: parsers,
			}
		}
	}
}

// WithIncludeTypes filters events to only include the specified types.
// If called multiple times, only the last call takes effect.
func WithIncludeTypes(types ...EventType) WatchOption {
	return func(c *watchConfig) {
		if c.gate.filter == nil {
			c.gate.filter = &compiledFilter{}
		}
		c.gate.filter.include = typeSet(types)
	}
}

// WithExcludeTypes filters out events of the specified types.
// Exclude takes precedence over include.
func WithExcludeTypes(types ...EventType) WatchOption {
	return func(c *watchConfig) {
		if c.gate.filter == nil {
			c.gate.filter = &compiledFilter{}
		}
		c.gate.filter.exclude = typeSet(types)
	}
}

// WithFilter sets both include and exclude type filters.
func WithFilter(include, exclude []EventType) WatchOption {
	return func(c *watchConfig) {
		c.gate.filter = newCompiledFilter(include, exclude)
	}
}

// ParseOption configures ParseReader and ParseFile.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for batch parsing.
type parseConfig struct {
	channel      Channel
	index        *i18n.Index
	parser       Parser
	gate         eventGate
	stopOnError  bool
	maxLineBytes int
	logger       *slog.Logger
}

// DefaultMaxLineBytes is the longest feed line ParseReader accepts.
const DefaultMaxLineBytes = 1024 * 1024

func defaultParseConfig() *parseConfig {
	return &parseConfig{
		channel:      ChannelRC,
		maxLineBytes: DefaultMaxLineBytes,
	}
}

func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.parser == nil {
		cfg.parser = DefaultParser{Channel: cfg.channel, Index: cfg.index}
	}
	return cfg
}

func (c *parseConfig) validate() error {
	if _, err := event.ParseChannel(string(c.channel)); err != nil {
		return err
	}
	if c.maxLineBytes <= 0 {
		return fmt.Errorf("max line bytes must be positive, got %d", c.maxLineBytes)
	}
	return nil
}

// WithParseChannel sets the channel the lines were recorded from.
// Default: ChannelRC.
func WithParseChannel(ch Channel) ParseOption {
	return func(c *parseConfig) {
		c.channel = ch
	}
}

// WithParseIndex sets the Template Index used to decompose log summaries.
func WithParseIndex(idx *i18n.Index) ParseOption {
	return func(c *parseConfig) {
		c.index = idx
	}
}

// WithParseParser sets a custom parser. If p is nil, this option has no effect.
func WithParseParser(p Parser) ParseOption {
	return func(c *parseConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParseIncludeTypes filters events to only include the specified types.
func WithParseIncludeTypes(types ...EventType) ParseOption {
	return func(c *parseConfig) {
		if c.gate.filter == nil {
			c.gate.filter = &compiledFilter{}
		}
		c.gate.filter.include = typeSet(types)
	}
}

// WithParseExcludeTypes filters out events of the specified types.
func WithParseExcludeTypes(types ...EventType) ParseOption {
	return func(c *parseConfig) {
		if c.gate.filter == nil {
			c.gate.filter = &compiledFilter{}
		}
		c.gate.filter.exclude = typeSet(types)
	}
}

// WithParseFilter sets both include and exclude type filters for parsing.
func WithParseFilter(include, exclude []EventType) ParseOption {
	return func(c *parseConfig) {
		c.gate.filter = newCompiledFilter(include, exclude)
	}
}

// WithParseOmitRawLine clears Event.Raw on yielded events.
func WithParseOmitRawLine(omit bool) ParseOption {
	return func(c *parseConfig) {
		c.gate.omitRawLine = omit
	}
}

// WithParseIncludeUnrecognized also yields log events whose summary could
// not be decomposed.
func WithParseIncludeUnrecognized(include bool) ParseOption {
	return func(c *parseConfig) {
		c.gate.includeUnrecognized = include
	}
}

// WithParseStopOnError stops parsing on the first malformed line instead
// of skipping it. Default: false.
func WithParseStopOnError(stop bool) ParseOption {
	return func(c *parseConfig) {
		c.stopOnError = stop
	}
}

// WithParseMaxLineBytes sets the longest accepted line. Default: 1MB.
func WithParseMaxLineBytes(n int) ParseOption {
	return func(c *parseConfig) {
		c.maxLineBytes = n
	}
}

// WithParseLogger sets a logger for skipped malformed lines.
func WithParseLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = logger
	}
}
