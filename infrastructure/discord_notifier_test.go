package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roicalc/events"
)

type fakeWebhook struct {
	calls []*discordgo.WebhookParams
	ids   []string
	err   error
}

func (f *fakeWebhook) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.ids = append(f.ids, webhookID+"/"+token)
	f.calls = append(f.calls, data)
	return nil, f.err
}

func TestDiscordLeadNotifier_PostsLead(t *testing.T) {
	webhook := &fakeWebhook{}
	notifier := &DiscordLeadNotifier{session: webhook, webhookID: "123", token: "secret"}

	notifier.Handle(context.Background(), events.LeadCapturedEvent{
		LeadID:    5,
		Email:     "ap@example.com",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.Len(t, webhook.calls, 1)
	assert.Equal(t, []string{"123/secret"}, webhook.ids)
	require.Len(t, webhook.calls[0].Embeds, 1)
	embed := webhook.calls[0].Embeds[0]
	assert.Contains(t, embed.Description, "ap@example.com")
	assert.Equal(t, "Lead #5", embed.Footer.Text)
	assert.Equal(t, "2025-03-01T12:00:00Z", embed.Timestamp)
}

func TestDiscordLeadNotifier_IgnoresOtherEvents(t *testing.T) {
	webhook := &fakeWebhook{}
	notifier := &DiscordLeadNotifier{session: webhook}

	notifier.Handle(context.Background(), events.ScenarioSavedEvent{ScenarioID: 1})

	assert.Empty(t, webhook.calls)
}

func TestDiscordLeadNotifier_FailureIsSwallowed(t *testing.T) {
	webhook := &fakeWebhook{err: errors.New("429 too many requests")}
	notifier := &DiscordLeadNotifier{session: webhook}

	assert.NotPanics(t, func() {
		notifier.Handle(context.Background(), events.LeadCapturedEvent{LeadID: 1})
	})
	assert.Len(t, webhook.calls, 1)
}
