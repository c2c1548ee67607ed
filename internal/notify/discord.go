package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Ivnbrylle/Auto-Remediation/internal/config"
)

// DiscordNotifier posts decision summaries to a Discord webhook.
type DiscordNotifier struct {
	client    *http.Client
	url       string
	username  string
	region    string
	procedure string
}

type discordPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// NewDiscordNotifier creates a DiscordNotifier from the loaded configuration.
func NewDiscordNotifier(cfg *config.Config) *DiscordNotifier {
	return &DiscordNotifier{
		client:    &http.Client{Timeout: cfg.WebhookTimeout},
		url:       cfg.DiscordWebhookURL,
		username:  cfg.NotifyUsername,
		region:    cfg.AWSRegion,
		procedure: cfg.SSMDocumentName,
	}
}

// Notify posts the decision summary as an embed.
// Non-2xx responses are reported as errors so the caller can log them.
func (d *DiscordNotifier) Notify(ctx context.Context, n *Notification) error {
	ctx, span := tracer.Start(ctx, "notify.discord")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.id", n.Event.ResourceID),
		attribute.String("alarm.name", n.Event.AlarmName),
	)

	summary := Summarize(n, d.procedure)

	body, err := json.Marshal(discordPayload{
		Username: d.username,
		Embeds: []discordEmbed{{
			Title:       summary.Title,
			Description: summary.Description,
			Color:       summary.Color,
			Fields: []discordField{
				{Name: "Instance ID", Value: "`" + n.Event.ResourceID + "`", Inline: true},
				{Name: "Region", Value: "`" + d.region + "`", Inline: true},
				{Name: "Alarm", Value: "`" + n.Event.AlarmName + "`", Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	})
	if err != nil {
		return fmt.Errorf("cannot marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cannot build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return nil
}
