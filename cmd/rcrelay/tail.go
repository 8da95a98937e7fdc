package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
)

var (
	tailFlags    outputFlags
	feedDir      string
	fromStart    bool
	replayLast   int
	waitForFeed  bool
	pollInterval time.Duration
	filePolling  bool
	webhookURL   string
	slackURL     string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow recorded feed files and output events",
	Long: `Follow the newest feed file in a feed directory and output parsed events
as lines are appended. When a newer feed file appears, tail switches to it.

Events are output as JSON Lines by default (one JSON object per line),
which makes it easy to process with tools like jq.

Examples:
  # Follow the default feed directory ($RCRELAY_FEED_DIR or
  # ~/.local/state/rcrelay/feeds)
  rcrelay tail

  # Follow a discussions capture
  rcrelay tail --feed-dir /var/lib/rcrelay/discussions --channel discussions

  # Relay blocks to a Slack channel
  rcrelay tail --types block --slack https://hooks.slack.com/services/T000/B000/XXXX

  # Pipe to jq for filtering
  rcrelay tail | jq 'select(.type == "delete")'`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailFlags.register(tailCmd)
	fs := tailCmd.Flags()
	fs.StringVarP(&feedDir, "feed-dir", "d", "",
		"Feed directory (default: $RCRELAY_FEED_DIR or the XDG state directory)")
	fs.BoolVar(&fromStart, "from-start", false,
		"Read the current feed file from the beginning")
	fs.IntVar(&replayLast, "replay-last", 0,
		"Replay the last N lines before tailing (0 = disabled)")
	fs.BoolVar(&waitForFeed, "wait", false,
		"Wait for a feed file to appear instead of failing")
	fs.DurationVar(&pollInterval, "poll-interval", 2*time.Second,
		"How often to check for a newer feed file")
	fs.BoolVar(&filePolling, "poll", false,
		"Poll the feed file instead of using filesystem notifications")
	fs.StringVar(&webhookURL, "webhook", "",
		"POST every event as JSON to this URL (default: $"+envWebhookURL+")")
	fs.StringVar(&slackURL, "slack", "",
		"Post every event as text to this Slack incoming webhook")
	rootCmd.AddCommand(tailCmd)
}

// replayOption maps --from-start and --replay-last to a watch option.
func replayOption(fromStart bool, replayLast int) (rcrelay.WatchOption, error) {
	switch {
	case replayLast < 0:
		return nil, fmt.Errorf("--replay-last must be non-negative, got %d", replayLast)
	case fromStart && replayLast > 0:
		return nil, errors.New("--from-start and --replay-last are mutually exclusive")
	case fromStart:
		return rcrelay.WithReplayFromStart(), nil
	case replayLast > 0:
		return rcrelay.WithReplayLastN(replayLast), nil
	}
	return rcrelay.WithReplay(rcrelay.ReplayConfig{Mode: rcrelay.ReplayNone}), nil
}

func runTail(cmd *cobra.Command, args []string) error {
	s, err := tailFlags.resolve()
	if err != nil {
		return err
	}
	replay, err := replayOption(fromStart, replayLast)
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), verbose)
	r, err := newRelay(webhookURL, slackURL, log)
	if err != nil {
		return err
	}

	watcher, err := rcrelay.NewWatcherWithOptions(
		rcrelay.WithFeedDir(feedDir),
		rcrelay.WithChannel(s.channel),
		rcrelay.WithIndex(s.index),
		rcrelay.WithFilter(s.include, s.exclude),
		rcrelay.WithOmitRawLine(s.omitRaw),
		rcrelay.WithIncludeUnrecognized(s.unrecognized),
		rcrelay.WithWaitForFeed(waitForFeed),
		rcrelay.WithPollInterval(pollInterval),
		rcrelay.WithFilePolling(filePolling),
		rcrelay.WithLogger(log),
		replay,
	)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx := commandContext(cmd)
	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	log.Debug("watching feed directory", "dir", watcher.FeedDir(), "channel", s.channel)

	out := cmd.OutOrStdout()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := OutputEvent(s.format, ev, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			if r.enabled() {
				r.send(ctx, ev)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			// Without a feed file the watcher has stopped.
			var werr *rcrelay.WatchError
			if errors.As(err, &werr) && werr.Op == rcrelay.WatchOpFindLatest {
				return err
			}
			log.Warn("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
