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

// Bot represents the Discord bot instance
type Bot struct {
	session          *discordgo.Session
	commands         map[string]CommandHandler
	commandIDs       map[string]string // Maps command name to command ID
	giveawayService  giveaway.Service
	messagingService messaging.Service
	announcer        *Announcer
	clock            clock.Clock
	config           *Config
	log              zerolog.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Session is the Discord session shared with the announcer
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Services
	GiveawayService  giveaway.Service
	MessagingService messaging.Service
	Announcer        *Announcer

	Clock  clock.Clock
	Logger zerolog.Logger
}

// NewSession creates a Discord session for a bot token. Only guild events
// are requested; the bot reacts to interactions alone.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return session, nil
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.GiveawayService == nil {
		return nil, errors.New("giveaway service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.Announcer == nil {
		return nil, errors.New("announcer cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	bot := &Bot{
		session:          cfg.Session,
		commands:         make(map[string]CommandHandler),
		commandIDs:       make(map[string]string),
		giveawayService:  cfg.GiveawayService,
		messagingService: cfg.MessagingService,
		announcer:        cfg.Announcer,
		clock:            cfg.Clock,
		config:           cfg,
		log:              cfg.Logger.With().Str("component", "discord").Logger(),
	}

	// Register the interaction handler
	bot.session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the Discord connection and registers the commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	giveawayCmd, err := NewGiveawayCommand(&GiveawayCommandConfig{
		GiveawayService:  b.giveawayService,
		MessagingService: b.messagingService,
		Clock:            b.clock,
		Logger:           b.log,
	})
	if err != nil {
		return err
	}

	if err := b.RegisterCommand(giveawayCmd); err != nil {
		return fmt.Errorf("failed to register giveaway command: %w", err)
	}

	b.log.Info().Str("user", b.session.State.User.Username).Msg("bot is now running")
	return nil
}

// Stop removes guild commands and closes the Discord connection. Global
// commands stay registered because Discord propagates them slowly.
func (b *Bot) Stop() error {
	if b.config.GuildID != "" {
		appID := b.applicationID()
		for cmdName, cmdID := range b.commandIDs {
			if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
				b.log.Warn().Err(err).Str("command", cmdName).Msg("failed to delete command")
			}
		}
	}

	return b.session.Close()
}

func (b *Bot) applicationID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	createdCmd, err := b.session.ApplicationCommandCreate(b.applicationID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.log.Info().
		Str("command", cmd.GetName()).
		Str("command_id", createdCmd.ID).
		Str("guild_id", b.config.GuildID).
		Msg("registered command")

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commands[name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.log.Error().Err(err).Str("command", name).Msg("error handling command")
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.log.Error().Err(err).Str("custom_id", i.MessageComponentData().CustomID).Msg("error handling component interaction")
		}
	}
}

// handleComponentInteraction routes button clicks by their custom ID
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	action, giveawayID, err := parseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		return RespondWithError(s, i, "This button is no longer supported.")
	}

	ctx := context.Background()

	switch action {
	case ButtonJoin:
		return b.handleJoinButton(ctx, s, i, giveawayID)
	case ButtonParticipants:
		return b.handleParticipantsButton(ctx, s, i, giveawayID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", action))
	}
}

// handleJoinButton toggles the entry of the user and refreshes the count on
// the button
func (b *Bot) handleJoinButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, giveawayID int64) error {
	inv := invokerFromInteraction(i)

	output, err := b.giveawayService.ToggleEntry(ctx, &giveaway.ToggleEntryInput{
		GiveawayID: giveawayID,
		UserID:     inv.userID,
		RoleIDs:    inv.roleIDs,
	})
	if err != nil {
		return b.respondToggleError(ctx, s, i, giveawayID, err)
	}

	reply, err := b.messagingService.GetEntryMessage(ctx, &messaging.GetEntryMessageInput{
		Title:      output.Giveaway.Title,
		Action:     output.Action,
		EntryCount: output.EntryCount,
	})
	if err != nil {
		return err
	}

	if err := RespondWithEphemeralMessage(s, i, reply.Message); err != nil {
		return err
	}

	b.refreshEntryCount(ctx, giveawayID)

	return nil
}

// refreshEntryCount re-reads the giveaway before editing the join button so
// a refresh that lands after the finalize does not re-enable entry
func (b *Bot) refreshEntryCount(ctx context.Context, giveawayID int64) {
	current, err := b.giveawayService.GetGiveaway(ctx, &giveaway.GetGiveawayInput{GiveawayID: giveawayID})
	if err != nil {
		b.log.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to reload giveaway")
		return
	}

	if !current.Giveaway.Active || current.Giveaway.HasEnded(b.clock.Now()) {
		return
	}

	if err := b.announcer.RefreshEntryCount(ctx, current.Giveaway, current.EntryCount); err != nil {
		b.log.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to refresh entry count")
	}
}

// respondToggleError replies to a rejected entry. A press on a giveaway
// whose window has closed also disables the stale join button.
func (b *Bot) respondToggleError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, giveawayID int64, toggleErr error) error {
	title := ""

	if errors.Is(toggleErr, giveaway.ErrGiveawayClosed) || errors.Is(toggleErr, giveaway.ErrRoleRequired) {
		current, err := b.giveawayService.GetGiveaway(ctx, &giveaway.GetGiveawayInput{GiveawayID: giveawayID})
		if err == nil {
			title = current.Giveaway.Title
			if errors.Is(toggleErr, giveaway.ErrGiveawayClosed) {
				if err := b.announcer.DisableEntry(ctx, current.Giveaway, current.EntryCount); err != nil {
					b.log.Warn().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to disable entry")
				}
			}
		}
	}

	return RespondWithEphemeralMessage(s, i, errorReply(ctx, b.messagingService, b.log, toggleErr, title, giveawayID))
}

// handleParticipantsButton lists the entrants in join order
func (b *Bot) handleParticipantsButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, giveawayID int64) error {
	output, err := b.giveawayService.ListEntries(ctx, &giveaway.ListEntriesInput{GiveawayID: giveawayID})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, errorReply(ctx, b.messagingService, b.log, err, "", giveawayID))
	}

	userIDs := make([]string, 0, len(output.Entries))
	for _, entry := range output.Entries {
		userIDs = append(userIDs, entry.UserID)
	}

	participants, err := b.messagingService.GetParticipantsMessage(ctx, &messaging.GetParticipantsMessageInput{
		Title:   output.Giveaway.Title,
		UserIDs: userIDs,
	})
	if err != nil {
		return err
	}

	if participants.Empty {
		return RespondWithEphemeralMessage(s, i, participants.Message)
	}

	return RespondWithEphemeralEmbed(s, i, &discordgo.MessageEmbed{
		Title:       participants.Title,
		Description: participants.Message,
		Color:       colorBlurple,
	})
}
