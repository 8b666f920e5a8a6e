package discord

import (
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

type RenderTestSuite struct {
	suite.Suite
	testTime time.Time
	giveaway *models.Giveaway
}

func (s *RenderTestSuite) SetupTest() {
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.giveaway = &models.Giveaway{
		ID:             42,
		GuildID:        "guild-1",
		ChannelID:      "channel-1",
		MessageID:      "message-1",
		Title:          "Weekly drop",
		Prize:          "Nitro",
		WinnersCount:   2,
		CreatedAt:      s.testTime,
		EndsAt:         s.testTime.Add(time.Hour),
		HostID:         "host-1",
		Criteria:       "be nice",
		RequiredRoleID: "role-1",
		Recurring:      true,
		Active:         true,
	}
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}

func (s *RenderTestSuite) TestCustomIDRoundTrip() {
	action, id, err := parseCustomID(customID(ButtonJoin, 42))
	s.Require().NoError(err)
	s.Equal(ButtonJoin, action)
	s.Equal(int64(42), id)

	for _, bad := range []string{"", "giveaway_join", "giveaway_join:", "giveaway_join:abc", ":12", "giveaway_join:-3", "giveaway_join:0"} {
		_, _, err := parseCustomID(bad)
		s.ErrorIs(err, errInvalidCustomID, bad)
	}
}

func (s *RenderTestSuite) TestRenderActiveEmbed() {
	embed := renderGiveawayEmbed(s.giveaway, false)

	s.Equal("Weekly drop", embed.Title)
	s.Equal(colorBlurple, embed.Color)
	s.Equal(fmt.Sprintf(
		"Click 🎉 button to enter!\nID: 42\nPrize: Nitro\nWinners: 2\nEnds <t:%d:R>\n\nHosted by: <@host-1>\nCriteria: be nice\nMust have the role: <@&role-1>",
		s.giveaway.EndsAt.Unix(),
	), embed.Description)
	s.Require().NotNil(embed.Footer)
	s.Equal("This giveaway will recur automatically.", embed.Footer.Text)
}

func (s *RenderTestSuite) TestRenderEndedEmbed() {
	s.giveaway.HostID = ""
	s.giveaway.Criteria = ""
	s.giveaway.RequiredRoleID = ""
	s.giveaway.Recurring = false

	embed := renderGiveawayEmbed(s.giveaway, true)

	s.Equal("ID: 42\nPrize: Nitro\nWinners: 2\nEnded", embed.Description)
	s.Equal(colorGrey, embed.Color)
	s.Nil(embed.Footer)
}

func (s *RenderTestSuite) TestRenderComponents() {
	components := renderGiveawayComponents(s.giveaway, 7, false)
	s.Require().Len(components, 1)

	row, ok := components[0].(discordgo.ActionsRow)
	s.Require().True(ok)
	s.Require().Len(row.Components, 2)

	join, ok := row.Components[0].(discordgo.Button)
	s.Require().True(ok)
	s.Equal("🎉 7", join.Label)
	s.Equal("giveaway_join:42", join.CustomID)
	s.False(join.Disabled)

	participants, ok := row.Components[1].(discordgo.Button)
	s.Require().True(ok)
	s.Equal("giveaway_entries:42", participants.CustomID)

	ended := renderGiveawayComponents(s.giveaway, 7, true)
	endedJoin := ended[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	s.True(endedJoin.Disabled)
	s.Equal("🎉 7", endedJoin.Label)
}

func (s *RenderTestSuite) TestRenderGiveawayList() {
	empty := renderGiveawayList(nil, s.testTime)
	s.Equal("No giveaways found.", empty.Description)

	ended := *s.giveaway
	ended.ID = 43
	ended.Recurring = false
	ended.Active = false

	list := renderGiveawayList([]*models.Giveaway{s.giveaway, &ended}, s.testTime)
	s.Require().Len(list.Fields, 2)
	s.Equal("#42 Weekly drop", list.Fields[0].Name)
	s.Contains(list.Fields[0].Value, fmt.Sprintf("Ends <t:%d:R> · 🔁", s.giveaway.EndsAt.Unix()))
	s.Contains(list.Fields[0].Value, "<#channel-1>")
	s.Contains(list.Fields[1].Value, "Ended")
}

func (s *RenderTestSuite) TestRenderGiveawayListCapsFields() {
	giveaways := make([]*models.Giveaway, 30)
	for i := range giveaways {
		g := *s.giveaway
		g.ID = int64(i + 1)
		giveaways[i] = &g
	}

	list := renderGiveawayList(giveaways, s.testTime)
	s.Len(list.Fields, 25)
	s.Require().NotNil(list.Footer)
	s.Equal("Showing 25 of 30 giveaways", list.Footer.Text)
}
