package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rcrelay/rcrelay-go/internal/webhook"
	"github.com/rcrelay/rcrelay-go/pkg/rcrelay"
)

// relayTarget is one webhook events are posted to.
type relayTarget struct {
	name   string
	client *webhook.Client
	slack  bool // post a text message instead of the event JSON
}

// relay posts events to the configured webhooks. Delivery failures are
// logged and never stop the watcher.
type relay struct {
	targets []relayTarget
	log     *slog.Logger
}

// newRelay builds the relay from --webhook and --slack. An empty webhook
// URL falls back to RCRELAY_WEBHOOK_URL.
func newRelay(webhookURL, slackURL string, log *slog.Logger) (*relay, error) {
	if webhookURL == "" {
		webhookURL = os.Getenv(envWebhookURL)
	}

	r := &relay{log: log}
	if webhookURL != "" {
		r.targets = append(r.targets, relayTarget{name: "webhook", client: webhook.New(webhookURL)})
	}
	if slackURL != "" {
		c, err := webhook.NewSlack(slackURL)
		if err != nil {
			return nil, fmt.Errorf("invalid --slack: %w", err)
		}
		r.targets = append(r.targets, relayTarget{name: "slack", client: c, slack: true})
	}
	return r, nil
}

func (r *relay) enabled() bool {
	return len(r.targets) > 0
}

func (r *relay) send(ctx context.Context, ev rcrelay.Event) {
	for _, t := range r.targets {
		var body any = ev
		if t.slack {
			body = webhook.SlackMessage{Text: FormatPretty(ev)}
		}
		status, err := t.client.Post(ctx, body)
		if err != nil {
			r.log.Warn("webhook delivery failed", "target", t.name, "status", status, "type", ev.Type, "error", err)
			continue
		}
		r.log.Debug("webhook delivered", "target", t.name, "status", status, "type", ev.Type)
	}
}
