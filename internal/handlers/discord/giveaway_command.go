package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
	"github.com/KirkDiggler/giveawaybot/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// GiveawayCommandConfig holds the dependencies of the /giveaway command
type GiveawayCommandConfig struct {
	GiveawayService  giveaway.Service
	MessagingService messaging.Service
	Clock            clock.Clock
	Logger           zerolog.Logger
}

// GiveawayCommand handles the /giveaway command
type GiveawayCommand struct {
	BaseCommand
	giveawayService  giveaway.Service
	messagingService messaging.Service
	clock            clock.Clock
	log              zerolog.Logger
}

// invoker is who ran a command or pressed a button, and where
type invoker struct {
	guildID         string
	channelID       string
	userID          string
	roleIDs         []string
	isAdministrator bool
}

func invokerFromInteraction(i *discordgo.InteractionCreate) invoker {
	inv := invoker{
		guildID:   i.GuildID,
		channelID: i.ChannelID,
	}

	if i.Member != nil {
		if i.Member.User != nil {
			inv.userID = i.Member.User.ID
		}
		inv.roleIDs = i.Member.Roles
		inv.isAdministrator = i.Member.Permissions&discordgo.PermissionAdministrator != 0
	} else if i.User != nil {
		inv.userID = i.User.ID
	}

	return inv
}

// Option bounds keep the embed title and the results message within
// Discord's limits
const (
	maxTitleLength = 256
	maxPrizeLength = 256
	maxWinners     = 50
)

func giveawayIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: "ID of the giveaway",
		Required:    true,
	}
}

// NewGiveawayCommand creates a new giveaway command handler
func NewGiveawayCommand(cfg *GiveawayCommandConfig) (*GiveawayCommand, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GiveawayService == nil {
		return nil, errors.New("giveaway service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	minWinners := 1.0

	return &GiveawayCommand{
		BaseCommand: BaseCommand{
			Name:        "giveaway",
			Description: "Run giveaways in this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a giveaway",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Title of the giveaway. Default: 'Giveaway'",
							MaxLength:   maxTitleLength,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "prize",
							Description: "The prize being given away. Default: 'Surprise!'",
							MaxLength:   maxPrizeLength,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "winners",
							Description: "Number of winners to pick. Default: 1",
							MinValue:    &minWinners,
							MaxValue:    maxWinners,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ends",
							Description: "When the giveaway ends (e.g., 1d, 2h30m, 45s). Default: 1d",
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "required_role",
							Description: "Role required to participate. Default: everyone",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "ping_role",
							Description: "Ping the required role when the giveaway starts. Default: no",
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Channel where the giveaway will be posted. Default: current channel",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "host",
							Description: "User hosting the giveaway",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "recurring",
							Description: "Repeat automatically after it ends. Default: no",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "criteria",
							Description: "Participation criteria to display. Not enforced by the bot",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "Stop an active giveaway early",
					Options: []*discordgo.ApplicationCommandOption{
						giveawayIDOption(),
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "announce",
							Description: "Draw and announce winners. Default: yes",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reroll",
					Description: "Draw new winners for an ended giveaway",
					Options:     []*discordgo.ApplicationCommandOption{giveawayIDOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the giveaways of this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "active",
							Description: "Only running (yes) or only ended (no) giveaways",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a giveaway with its entries and winners (administrators only)",
					Options:     []*discordgo.ApplicationCommandOption{giveawayIDOption()},
				},
			},
		},
		giveawayService:  cfg.GiveawayService,
		messagingService: cfg.MessagingService,
		clock:            cfg.Clock,
		log:              cfg.Logger.With().Str("component", "giveaway_command").Logger(),
	}, nil
}

// Handle processes a Discord interaction for the giveaway command
func (c *GiveawayCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	if i.GuildID == "" || i.Member == nil {
		return RespondWithEphemeralMessage(s, i, "Giveaway commands only work inside a server.")
	}

	if len(data.Options) == 0 {
		return errors.New("missing subcommand")
	}

	ctx := context.Background()
	inv := invokerFromInteraction(i)
	sub := data.Options[0]

	switch sub.Name {
	case "create":
		return c.handleCreate(ctx, s, i, inv, sub.Options)
	case "stop":
		return c.handleStop(ctx, s, i, inv, sub.Options)
	case "reroll":
		return c.handleReroll(ctx, s, i, inv, sub.Options)
	case "list":
		return c.handleList(ctx, s, i, inv, sub.Options)
	case "delete":
		return c.handleDelete(ctx, s, i, inv, sub.Options)
	default:
		return fmt.Errorf("unknown subcommand %q", sub.Name)
	}
}

// handleCreate handles the create subcommand
func (c *GiveawayCommand) handleCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, inv invoker, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	output, err := c.giveawayService.CreateGiveaway(ctx, buildCreateInput(inv, options))
	if err != nil {
		return FollowupEphemeralMessage(s, i, errorReply(ctx, c.messagingService, c.log, err, "", 0))
	}

	return c.confirm(ctx, s, i, &messaging.GetCommandMessageInput{
		Command:        messaging.CommandTypeCreate,
		GiveawayID:     output.Giveaway.ID,
		Title:          output.Giveaway.Title,
		AnnounceFailed: output.AnnounceFailed,
	})
}

// handleStop handles the stop subcommand
func (c *GiveawayCommand) handleStop(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, inv invoker, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	opts := optionMap(options)
	giveawayID := intOption(opts, "id", 0)

	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	output, err := c.giveawayService.StopGiveaway(ctx, &giveaway.StopGiveawayInput{
		GiveawayID:      giveawayID,
		GuildID:         inv.guildID,
		UserID:          inv.userID,
		IsAdministrator: inv.isAdministrator,
		Announce:        boolOption(opts, "announce", true),
	})
	if err != nil {
		return FollowupEphemeralMessage(s, i, errorReply(ctx, c.messagingService, c.log, err, "", giveawayID))
	}

	return c.confirm(ctx, s, i, &messaging.GetCommandMessageInput{
		Command:        messaging.CommandTypeStop,
		GiveawayID:     output.Giveaway.ID,
		Title:          output.Giveaway.Title,
		WinnerIDs:      output.WinnerIDs,
		AnnounceFailed: output.AnnounceFailed,
	})
}

// handleReroll handles the reroll subcommand
func (c *GiveawayCommand) handleReroll(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, inv invoker, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	giveawayID := intOption(optionMap(options), "id", 0)

	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	output, err := c.giveawayService.RerollGiveaway(ctx, &giveaway.RerollGiveawayInput{
		GiveawayID:      giveawayID,
		GuildID:         inv.guildID,
		UserID:          inv.userID,
		IsAdministrator: inv.isAdministrator,
	})
	if err != nil {
		return FollowupEphemeralMessage(s, i, errorReply(ctx, c.messagingService, c.log, err, "", giveawayID))
	}

	return c.confirm(ctx, s, i, &messaging.GetCommandMessageInput{
		Command:        messaging.CommandTypeReroll,
		GiveawayID:     output.Giveaway.ID,
		Title:          output.Giveaway.Title,
		WinnerIDs:      output.WinnerIDs,
		AnnounceFailed: output.AnnounceFailed,
	})
}

// handleList handles the list subcommand
func (c *GiveawayCommand) handleList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, inv invoker, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	input := &giveaway.ListGiveawaysInput{GuildID: inv.guildID}
	if opt, ok := optionMap(options)["active"]; ok {
		active := opt.BoolValue()
		input.Active = &active
	}

	output, err := c.giveawayService.ListGiveaways(ctx, input)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, errorReply(ctx, c.messagingService, c.log, err, "", 0))
	}

	return RespondWithEphemeralEmbed(s, i, renderGiveawayList(output.Giveaways, c.clock.Now()))
}

// handleDelete handles the delete subcommand
func (c *GiveawayCommand) handleDelete(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, inv invoker, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	giveawayID := intOption(optionMap(options), "id", 0)

	output, err := c.giveawayService.DeleteGiveaway(ctx, &giveaway.DeleteGiveawayInput{
		GiveawayID:      giveawayID,
		GuildID:         inv.guildID,
		IsAdministrator: inv.isAdministrator,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, errorReply(ctx, c.messagingService, c.log, err, "", giveawayID))
	}

	reply, err := c.messagingService.GetCommandMessage(ctx, &messaging.GetCommandMessageInput{
		Command:    messaging.CommandTypeDelete,
		GiveawayID: output.Giveaway.ID,
		Title:      output.Giveaway.Title,
	})
	if err != nil {
		return err
	}

	return RespondWithEphemeralMessage(s, i, reply.Message)
}

func (c *GiveawayCommand) confirm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, input *messaging.GetCommandMessageInput) error {
	reply, err := c.messagingService.GetCommandMessage(ctx, input)
	if err != nil {
		return err
	}

	return FollowupEphemeralMessage(s, i, reply.Message)
}

// buildCreateInput maps the create options onto the service input. Unset
// options are left empty for the service defaults, except the winner count.
func buildCreateInput(inv invoker, options []*discordgo.ApplicationCommandInteractionDataOption) *giveaway.CreateGiveawayInput {
	opts := optionMap(options)

	input := &giveaway.CreateGiveawayInput{
		GuildID:      inv.guildID,
		ChannelID:    inv.channelID,
		CreatorID:    inv.userID,
		Title:        stringOption(opts, "title"),
		Prize:        stringOption(opts, "prize"),
		Criteria:     stringOption(opts, "criteria"),
		WinnersCount: int(intOption(opts, "winners", 1)),
		Duration:     stringOption(opts, "ends"),
		PingRole:     boolOption(opts, "ping_role", false),
		Recurring:    boolOption(opts, "recurring", false),
	}

	if opt, ok := opts["channel"]; ok {
		input.ChannelID = opt.ChannelValue(nil).ID
	}
	if opt, ok := opts["host"]; ok {
		input.HostID = opt.UserValue(nil).ID
	}
	if opt, ok := opts["required_role"]; ok {
		input.RequiredRoleID = opt.RoleValue(nil, "").ID
	}

	return input
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		opts[opt.Name] = opt
	}
	return opts
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int64) int64 {
	if opt, ok := opts[name]; ok {
		return opt.IntValue()
	}
	return fallback
}

func boolOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, fallback bool) bool {
	if opt, ok := opts[name]; ok {
		return opt.BoolValue()
	}
	return fallback
}

// errorReply turns a service error into the text shown to the user.
// Anything that is not a giveaway error is logged.
func errorReply(ctx context.Context, messagingService messaging.Service, log zerolog.Logger, err error, title string, giveawayID int64) string {
	var giveawayErr giveaway.GiveawayError
	if !errors.As(err, &giveawayErr) {
		log.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("giveaway request failed")
	}

	reply, msgErr := messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		Err:        err,
		Title:      title,
		GiveawayID: giveawayID,
	})
	if msgErr != nil {
		return "⚠️ Something went wrong. Please try again in a moment."
	}

	return reply.Message
}
