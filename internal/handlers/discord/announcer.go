package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
	"github.com/KirkDiggler/giveawaybot/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// ChannelClient is the part of the Discord session the announcer uses.
// *discordgo.Session implements it.
type ChannelClient interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AnnouncerConfig holds the dependencies of the announcer
type AnnouncerConfig struct {
	Client           ChannelClient
	MessagingService messaging.Service
	Logger           zerolog.Logger
}

// Announcer publishes giveaway state to Discord channels
type Announcer struct {
	client           ChannelClient
	messagingService messaging.Service
	log              zerolog.Logger
}

var _ giveaway.Announcer = (*Announcer)(nil)

// NewAnnouncer creates a new announcer
func NewAnnouncer(cfg *AnnouncerConfig) (*Announcer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Client == nil {
		return nil, errors.New("channel client cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	return &Announcer{
		client:           cfg.Client,
		messagingService: cfg.MessagingService,
		log:              cfg.Logger.With().Str("component", "announcer").Logger(),
	}, nil
}

// Post sends the announcement with its buttons and pings the required role
// when asked to. A failed ping does not fail the post.
func (a *Announcer) Post(ctx context.Context, g *models.Giveaway) (string, error) {
	msg, err := a.client.ChannelMessageSendComplex(g.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderGiveawayEmbed(g, false)},
		Components: renderGiveawayComponents(g, 0, false),
	})
	if err != nil {
		return "", fmt.Errorf("failed to post giveaway %d: %w", g.ID, err)
	}

	if g.PingRole && g.RequiredRoleID != "" {
		a.pingRole(ctx, g)
	}

	return msg.ID, nil
}

func (a *Announcer) pingRole(ctx context.Context, g *models.Giveaway) {
	started, err := a.messagingService.GetStartedMessage(ctx, &messaging.GetStartedMessageInput{
		Title:  g.Title,
		RoleID: g.RequiredRoleID,
	})
	if err != nil {
		a.log.Warn().Err(err).Int64("giveaway_id", g.ID).Msg("failed to build role ping")
		return
	}

	_, err = a.client.ChannelMessageSendComplex(g.ChannelID, &discordgo.MessageSend{
		Content: started.Message,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Roles: []string{g.RequiredRoleID},
		},
	})
	if err != nil {
		a.log.Warn().Err(err).Int64("giveaway_id", g.ID).Str("role_id", g.RequiredRoleID).Msg("failed to ping role")
	}
}

// DisableEntry marks the announcement as ended and disables the join button.
// A giveaway that was never posted has nothing to edit.
func (a *Announcer) DisableEntry(ctx context.Context, g *models.Giveaway, entryCount int) error {
	if g.MessageID == "" {
		return nil
	}

	embeds := []*discordgo.MessageEmbed{renderGiveawayEmbed(g, true)}
	components := renderGiveawayComponents(g, entryCount, true)

	_, err := a.client.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    g.ChannelID,
		ID:         g.MessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to disable entry of giveaway %d: %w", g.ID, err)
	}

	return nil
}

// RefreshEntryCount updates the join button label with the live entry count
func (a *Announcer) RefreshEntryCount(ctx context.Context, g *models.Giveaway, entryCount int) error {
	if g.MessageID == "" {
		return nil
	}

	components := renderGiveawayComponents(g, entryCount, false)

	_, err := a.client.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    g.ChannelID,
		ID:         g.MessageID,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to refresh entry count of giveaway %d: %w", g.ID, err)
	}

	return nil
}

// PublishResults announces the winners in the giveaway channel
func (a *Announcer) PublishResults(ctx context.Context, g *models.Giveaway, winnerIDs []string, reroll bool) error {
	results, err := a.messagingService.GetResultsMessage(ctx, &messaging.GetResultsMessageInput{
		Title:     g.Title,
		Prize:     g.Prize,
		HostID:    g.HostID,
		WinnerIDs: winnerIDs,
		Reroll:    reroll,
	})
	if err != nil {
		return err
	}

	return a.send(g, results.Message, winnerIDs)
}

// PublishNoWinners announces that nobody entered
func (a *Announcer) PublishNoWinners(ctx context.Context, g *models.Giveaway) error {
	noWinners, err := a.messagingService.GetNoWinnersMessage(ctx, &messaging.GetNoWinnersMessageInput{
		Title: g.Title,
	})
	if err != nil {
		return err
	}

	return a.send(g, noWinners.Message, nil)
}

func (a *Announcer) send(g *models.Giveaway, content string, mentionIDs []string) error {
	users := mentionIDs
	if g.HostID != "" {
		users = append(append([]string{}, mentionIDs...), g.HostID)
	}

	_, err := a.client.ChannelMessageSendComplex(g.ChannelID, &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: users,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send to channel %s: %w", g.ChannelID, err)
	}

	return nil
}
