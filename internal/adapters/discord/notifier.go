package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"langmerge/internal/config"
	"langmerge/internal/domain/entities"
	"langmerge/internal/ports/output"
	pkgdiscord "langmerge/pkg/discord"
)

var _ output.Notifier = (*Notifier)(nil)

// webhookExecutor is the slice of *discordgo.Session the notifier needs.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts the run summary to a Discord webhook.
type Notifier struct {
	session    webhookExecutor
	webhookID  string
	token      string
	locale     string
	translator output.T
}

// NewNotifier creates a Notifier. Webhooks need no bot token, so the session
// is anonymous.
func NewNotifier(cfg *config.Config, translator output.T) (*Notifier, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord: session: %w", err)
	}
	return newNotifier(s, cfg, translator), nil
}

func newNotifier(s webhookExecutor, cfg *config.Config, translator output.T) *Notifier {
	return &Notifier{
		session:    s,
		webhookID:  cfg.DiscordWebhookID,
		token:      cfg.DiscordWebhookToken,
		locale:     cfg.Locale,
		translator: translator,
	}
}

func (n *Notifier) Notify(ctx context.Context, summary entities.RunSummary) error {
	data := map[string]any{
		"Files":    summary.Files,
		"Adopted":  summary.Adopted,
		"Warnings": summary.Warnings,
	}
	embed := pkgdiscord.BuildRunSummaryEmbed(
		n.translator.T(n.locale, "notify.title", nil),
		n.translator.T(n.locale, "notify.body", data),
		summary,
	)

	_, err := n.session.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: webhook execute: %w", err)
	}
	return nil
}
