package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/KirkDiggler/giveawaybot/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

// fakeChannelClient records the messages the announcer sends and edits
type fakeChannelClient struct {
	sent    []*discordgo.MessageSend
	sentTo  []string
	edits   []*discordgo.MessageEdit
	sendErr error
	editErr error
}

func (f *fakeChannelClient) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, data)
	f.sentTo = append(f.sentTo, channelID)
	return &discordgo.Message{ID: "posted-message", ChannelID: channelID}, nil
}

func (f *fakeChannelClient) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

type AnnouncerTestSuite struct {
	suite.Suite
	client    *fakeChannelClient
	announcer *Announcer
	ctx       context.Context
	giveaway  *models.Giveaway
}

func (s *AnnouncerTestSuite) SetupTest() {
	s.client = &fakeChannelClient{}
	s.ctx = context.Background()

	messagingService, err := messaging.NewService(nil)
	s.Require().NoError(err)

	s.announcer, err = NewAnnouncer(&AnnouncerConfig{
		Client:           s.client,
		MessagingService: messagingService,
	})
	s.Require().NoError(err)

	now := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.giveaway = &models.Giveaway{
		ID:           42,
		GuildID:      "guild-1",
		ChannelID:    "channel-1",
		MessageID:    "message-1",
		Title:        "Weekly drop",
		Prize:        "Nitro",
		WinnersCount: 1,
		CreatedAt:    now,
		EndsAt:       now.Add(time.Hour),
		Active:       true,
	}
}

func TestAnnouncerSuite(t *testing.T) {
	suite.Run(t, new(AnnouncerTestSuite))
}

func (s *AnnouncerTestSuite) TestNewAnnouncerValidation() {
	_, err := NewAnnouncer(nil)
	s.Error(err)

	_, err = NewAnnouncer(&AnnouncerConfig{Client: s.client})
	s.Error(err)
}

func (s *AnnouncerTestSuite) TestPost() {
	messageID, err := s.announcer.Post(s.ctx, s.giveaway)
	s.Require().NoError(err)
	s.Equal("posted-message", messageID)

	s.Require().Len(s.client.sent, 1)
	s.Equal("channel-1", s.client.sentTo[0])
	s.Require().Len(s.client.sent[0].Embeds, 1)
	s.Equal("Weekly drop", s.client.sent[0].Embeds[0].Title)
	s.Len(s.client.sent[0].Components, 1)
}

func (s *AnnouncerTestSuite) TestPostPingsRequiredRole() {
	s.giveaway.RequiredRoleID = "role-1"
	s.giveaway.PingRole = true

	_, err := s.announcer.Post(s.ctx, s.giveaway)
	s.Require().NoError(err)

	s.Require().Len(s.client.sent, 2)
	ping := s.client.sent[1]
	s.Equal("<@&role-1> 🎉 **Weekly drop** has started!", ping.Content)
	s.Require().NotNil(ping.AllowedMentions)
	s.Equal([]string{"role-1"}, ping.AllowedMentions.Roles)
}

func (s *AnnouncerTestSuite) TestPostWithoutRoleDoesNotPing() {
	s.giveaway.PingRole = true

	_, err := s.announcer.Post(s.ctx, s.giveaway)
	s.Require().NoError(err)
	s.Len(s.client.sent, 1)
}

func (s *AnnouncerTestSuite) TestPostFailure() {
	s.client.sendErr = errors.New("missing access")

	_, err := s.announcer.Post(s.ctx, s.giveaway)
	s.Error(err)
}

func (s *AnnouncerTestSuite) TestDisableEntry() {
	s.Require().NoError(s.announcer.DisableEntry(s.ctx, s.giveaway, 3))

	s.Require().Len(s.client.edits, 1)
	edit := s.client.edits[0]
	s.Equal("channel-1", edit.Channel)
	s.Equal("message-1", edit.ID)
	s.Require().NotNil(edit.Embeds)
	s.Contains((*edit.Embeds)[0].Description, "Ended")
	s.Require().NotNil(edit.Components)
	join := (*edit.Components)[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	s.True(join.Disabled)
	s.Equal("🎉 3", join.Label)
}

func (s *AnnouncerTestSuite) TestDisableEntryWithoutMessage() {
	s.giveaway.MessageID = ""

	s.Require().NoError(s.announcer.DisableEntry(s.ctx, s.giveaway, 3))
	s.Empty(s.client.edits)
}

func (s *AnnouncerTestSuite) TestRefreshEntryCount() {
	s.Require().NoError(s.announcer.RefreshEntryCount(s.ctx, s.giveaway, 5))

	s.Require().Len(s.client.edits, 1)
	s.Nil(s.client.edits[0].Embeds)
	join := (*s.client.edits[0].Components)[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	s.Equal("🎉 5", join.Label)
	s.False(join.Disabled)

	s.client.editErr = errors.New("unknown message")
	s.Error(s.announcer.RefreshEntryCount(s.ctx, s.giveaway, 6))
}

func (s *AnnouncerTestSuite) TestPublishResults() {
	s.giveaway.HostID = "host-1"

	s.Require().NoError(s.announcer.PublishResults(s.ctx, s.giveaway, []string{"a", "b"}, false))

	s.Require().Len(s.client.sent, 1)
	sent := s.client.sent[0]
	s.Contains(sent.Content, "<@a> <@b>")
	s.Require().NotNil(sent.AllowedMentions)
	s.Equal([]string{"a", "b", "host-1"}, sent.AllowedMentions.Users)
}

func (s *AnnouncerTestSuite) TestPublishNoWinners() {
	s.Require().NoError(s.announcer.PublishNoWinners(s.ctx, s.giveaway))

	s.Require().Len(s.client.sent, 1)
	s.Contains(s.client.sent[0].Content, "No winners this time")
}
