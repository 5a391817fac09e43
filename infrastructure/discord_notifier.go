package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"roicalc/events"
)

// webhookExecutor is the part of a discordgo session used to post webhooks
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordLeadNotifier posts newly captured leads to a sales channel webhook
type DiscordLeadNotifier struct {
	session   webhookExecutor
	webhookID string
	token     string
}

// NewDiscordLeadNotifier creates a notifier for the given webhook. Webhooks need no bot token.
func NewDiscordLeadNotifier(webhookID, token string) (*DiscordLeadNotifier, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordLeadNotifier{
		session:   session,
		webhookID: webhookID,
		token:     token,
	}, nil
}

// Register subscribes the notifier to lead captures
func (n *DiscordLeadNotifier) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeLeadCaptured, n.Handle)
}

// Handle posts a lead captured event. Other events are ignored.
func (n *DiscordLeadNotifier) Handle(ctx context.Context, event events.Event) {
	lead, ok := event.(events.LeadCapturedEvent)
	if !ok {
		return
	}

	params := &discordgo.WebhookParams{
		Username: "ROI Calculator",
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "New ROI report lead",
				Description: fmt.Sprintf("**%s** downloaded an ROI report.", lead.Email),
				Color:       0x2E86C1,
				Timestamp:   lead.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
				Footer: &discordgo.MessageEmbedFooter{
					Text: fmt.Sprintf("Lead #%d", lead.LeadID),
				},
			},
		},
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		log.WithFields(log.Fields{
			"leadId": lead.LeadID,
			"error":  err,
		}).Error("Failed to post lead notification")
		return
	}

	log.WithField("leadId", lead.LeadID).Debug("Posted lead notification")
}
