package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/i18n"
)

// Environment variables used as flag fallbacks.
const (
	envDictionary = "RCRELAY_DICTIONARY"
	envWebhookURL = "RCRELAY_WEBHOOK_URL"
)

// outputFlags are the flags shared by parse and tail.
type outputFlags struct {
	channel      string
	dictionary   string
	format       string
	types        []string
	exclude      []string
	omitRaw      bool
	unrecognized bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.channel, "channel", "c", string(rcrelay.ChannelRC),
		"Feed channel of the input: rc, discussions, newusers")
	fs.StringVar(&f.dictionary, "dictionary", "",
		"Template dictionary YAML file (default: $"+envDictionary+" or the built-in dictionary)")
	fs.StringVarP(&f.format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	fs.StringSliceVarP(&f.types, "types", "t", nil,
		"Event types to show (comma-separated, e.g. block,delete,move)")
	fs.StringSliceVar(&f.exclude, "exclude-types", nil,
		"Event types to hide (comma-separated)")
	fs.BoolVar(&f.omitRaw, "omit-raw", false,
		"Leave raw feed lines out of the output")
	fs.BoolVar(&f.unrecognized, "unrecognized", false,
		"Also output log entries whose summary matched no template")

	_ = cmd.RegisterFlagCompletionFunc("channel", cobra.FixedCompletions(
		[]string{string(rcrelay.ChannelRC), string(rcrelay.ChannelDiscussions), string(rcrelay.ChannelNewUsers)},
		cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"jsonl", "pretty"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("types", cobra.FixedCompletions(
		ValidEventTypeNames(), cobra.ShellCompDirectiveNoFileComp))
}

// outputSettings are validated outputFlags.
type outputSettings struct {
	channel      rcrelay.Channel
	index        *i18n.Index
	format       string
	include      []rcrelay.EventType
	exclude      []rcrelay.EventType
	omitRaw      bool
	unrecognized bool
}

func (f *outputFlags) resolve() (*outputSettings, error) {
	format := strings.ToLower(f.format)
	if !ValidFormats[format] {
		return nil, fmt.Errorf("invalid --format %q (valid: jsonl, pretty)", f.format)
	}
	ch, err := event.ParseChannel(strings.ToLower(f.channel))
	if err != nil {
		return nil, fmt.Errorf("invalid --channel: %w", err)
	}
	include, err := NormalizeEventTypes(f.types)
	if err != nil {
		return nil, fmt.Errorf("invalid --types: %w", err)
	}
	exclude, err := NormalizeEventTypes(f.exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid --exclude-types: %w", err)
	}
	if err := RejectOverlap(include, exclude); err != nil {
		return nil, err
	}
	idx, err := loadIndex(f.dictionary)
	if err != nil {
		return nil, err
	}

	return &outputSettings{
		channel:      ch,
		index:        idx,
		format:       format,
		include:      include,
		exclude:      exclude,
		omitRaw:      f.omitRaw,
		unrecognized: f.unrecognized,
	}, nil
}

// loadIndex compiles the dictionary at path, falling back to
// RCRELAY_DICTIONARY and then the built-in dictionary.
func loadIndex(path string) (*i18n.Index, error) {
	if path == "" {
		path = os.Getenv(envDictionary)
	}
	if path == "" {
		return i18n.Default(), nil
	}
	idx, err := i18n.NewIndexFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	return idx, nil
}
