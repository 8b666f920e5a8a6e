package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/KirkDiggler/giveawaybot/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// Component custom ID prefixes. The giveaway ID follows the colon, so
// buttons keep working across restarts without re-registration.
const (
	ButtonJoin         = "giveaway_join"
	ButtonParticipants = "giveaway_entries"
)

const (
	colorBlurple = 0x5865F2
	colorGrey    = 0x99AAB5
	colorRed     = 0xff0000

	endedLine = "Ended"
)

var errInvalidCustomID = errors.New("invalid custom id")

// customID builds the custom ID of a giveaway button
func customID(action string, giveawayID int64) string {
	return fmt.Sprintf("%s:%d", action, giveawayID)
}

// parseCustomID splits a custom ID built by customID
func parseCustomID(id string) (string, int64, error) {
	action, rawID, ok := strings.Cut(id, ":")
	if !ok || action == "" {
		return "", 0, errInvalidCustomID
	}

	giveawayID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || giveawayID <= 0 {
		return "", 0, errInvalidCustomID
	}

	return action, giveawayID, nil
}

// renderGiveawayEmbed renders the announcement embed. Once ended, the end
// line reads Ended instead of a countdown.
func renderGiveawayEmbed(g *models.Giveaway, ended bool) *discordgo.MessageEmbed {
	var b strings.Builder
	if !ended {
		b.WriteString("Click 🎉 button to enter!\n")
	}
	fmt.Fprintf(&b, "ID: %d\n", g.ID)
	fmt.Fprintf(&b, "Prize: %s\n", g.Prize)
	fmt.Fprintf(&b, "Winners: %d\n", g.WinnersCount)
	if ended {
		b.WriteString(endedLine + "\n")
	} else {
		fmt.Fprintf(&b, "Ends <t:%d:R>\n", g.EndsAt.Unix())
	}

	var extra []string
	if g.HostID != "" {
		extra = append(extra, "Hosted by: "+messaging.Mention(g.HostID))
	}
	if g.Criteria != "" {
		extra = append(extra, "Criteria: "+g.Criteria)
	}
	if g.RequiredRoleID != "" {
		extra = append(extra, "Must have the role: "+messaging.MentionRole(g.RequiredRoleID))
	}
	if len(extra) > 0 {
		b.WriteString("\n" + strings.Join(extra, "\n"))
	}

	embed := &discordgo.MessageEmbed{
		Title:       g.Title,
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       colorBlurple,
	}
	if ended {
		embed.Color = colorGrey
	}
	if g.Recurring {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "This giveaway will recur automatically.",
		}
	}

	return embed
}

// renderGiveawayComponents renders the join and participants buttons
func renderGiveawayComponents(g *models.Giveaway, entryCount int, ended bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    fmt.Sprintf("🎉 %d", entryCount),
					Style:    discordgo.SuccessButton,
					CustomID: customID(ButtonJoin, g.ID),
					Disabled: ended,
				},
				discordgo.Button{
					Label:    "👥 Participants",
					Style:    discordgo.SecondaryButton,
					CustomID: customID(ButtonParticipants, g.ID),
				},
			},
		},
	}
}

// renderGiveawayList renders the giveaways of a guild as one embed
func renderGiveawayList(giveaways []*models.Giveaway, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Giveaways",
		Color: colorBlurple,
	}

	if len(giveaways) == 0 {
		embed.Description = "No giveaways found."
		return embed
	}

	for _, g := range giveaways {
		status := fmt.Sprintf("Ends <t:%d:R>", g.EndsAt.Unix())
		if !g.Active || g.HasEnded(now) {
			status = endedLine
		}
		if g.Recurring {
			status += " · 🔁"
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d %s", g.ID, g.Title),
			Value: fmt.Sprintf("Prize: %s\nWinners: %d\n%s\nChannel: <#%s>", g.Prize, g.WinnersCount, status, g.ChannelID),
		})
	}

	// Discord rejects embeds with more than 25 fields
	if len(embed.Fields) > 25 {
		embed.Fields = embed.Fields[:25]
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing 25 of %d giveaways", len(giveaways)),
		}
	}

	return embed
}
