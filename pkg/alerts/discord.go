package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord embed colors: green for incoming, red for outgoing.
const (
	discordGreen = 0x00ff00
	discordRed   = 0xff0000
)

// DiscordNotifier sends alerts to a Discord channel webhook as rich embeds.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a Discord webhook notifier.
func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) Send(ctx context.Context, alert Alert) error {
	color := discordRed
	emoji := "💸"
	if alert.Kind == "credit" {
		color = discordGreen
		emoji = "💰"
	}

	fields := []discordField{
		{Name: "🏢 Vendor", Value: alert.Vendor, Inline: true},
		{Name: "🏦 Account", Value: fmt.Sprintf("%s (%s)", alert.AccountName, alert.AccountKind), Inline: true},
		{Name: "📅 Date", Value: alert.Date, Inline: true},
	}
	if alert.Category != "" {
		fields = append(fields, discordField{Name: "📂 Category", Value: alert.Category, Inline: true})
	}
	if alert.Description != "" {
		fields = append(fields, discordField{Name: "📝 Description", Value: alert.Description, Inline: false})
	}

	payload := discordPayload{
		Embeds: []discordEmbed{
			{
				Title:       emoji + " " + alert.Title,
				Description: "**" + alert.Action + "**",
				Color:       color,
				Fields:      fields,
				Footer:      discordFooter{Text: "Transaction ID: " + alert.TransactionID},
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord alert: %w", err)
	}
	defer resp.Body.Close()

	// Discord webhooks return 204 on success.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord returned status %d", resp.StatusCode)
	}
	return nil
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      discordFooter  `json:"footer"`
	Timestamp   string         `json:"timestamp"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}
