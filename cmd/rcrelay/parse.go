package main

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
)

var (
	parseFlags  outputFlags
	stopOnError bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse recorded feed lines",
	Long: `Parse a recorded feed file (or stdin) and output the events.

Examples:
  # Parse a capture of the recent changes channel
  rcrelay parse feeds/2026-10-18.log

  # Parse a discussions capture from stdin, human-readable
  rcrelay parse --channel discussions --format pretty < discussions.log

  # Only blocks and protections
  rcrelay parse --types block,protect feeds/2026-10-18.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseFlags.register(parseCmd)
	parseCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false,
		"Stop at the first malformed line instead of skipping it")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := parseFlags.resolve()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	opts := []rcrelay.ParseOption{
		rcrelay.WithParseChannel(s.channel),
		rcrelay.WithParseIndex(s.index),
		rcrelay.WithParseFilter(s.include, s.exclude),
		rcrelay.WithParseOmitRawLine(s.omitRaw),
		rcrelay.WithParseIncludeUnrecognized(s.unrecognized),
		rcrelay.WithParseStopOnError(stopOnError),
		rcrelay.WithParseLogger(newLogger(cmd.ErrOrStderr(), verbose)),
	}

	var seq iter.Seq2[rcrelay.Event, error]
	if len(args) == 0 || args[0] == "-" {
		seq = rcrelay.ParseReader(ctx, cmd.InOrStdin(), opts...)
	} else {
		seq = rcrelay.ParseFile(ctx, args[0], opts...)
	}

	out := cmd.OutOrStdout()
	for ev, err := range seq {
		if err != nil {
			return err
		}
		if err := OutputEvent(s.format, ev, out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	return nil
}
