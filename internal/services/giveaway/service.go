package giveaway

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/common/uuid"
	"github.com/KirkDiggler/giveawaybot/internal/draw"
	"github.com/KirkDiggler/giveawaybot/internal/models"
	entryRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/entry"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	winnerRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/winner"
	"github.com/rs/zerolog"
)

// service implements the Service interface
type service struct {
	giveawayRepo giveawayRepo.Repository
	entryRepo    entryRepo.Repository
	winnerRepo   winnerRepo.Repository
	drawer       draw.Drawer
	announcer    Announcer
	scheduler    Scheduler
	clock        clock.Clock
	uuid         uuid.UUID
	log          zerolog.Logger
	metrics      *metrics
}

// New creates a new giveaway service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GiveawayRepo == nil {
		return nil, ErrNilGiveawayRepo
	}

	if cfg.EntryRepo == nil {
		return nil, ErrNilEntryRepo
	}

	if cfg.WinnerRepo == nil {
		return nil, ErrNilWinnerRepo
	}

	if cfg.Drawer == nil {
		return nil, ErrNilDrawer
	}

	if cfg.Announcer == nil {
		return nil, ErrNilAnnouncer
	}

	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUID == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &service{
		giveawayRepo: cfg.GiveawayRepo,
		entryRepo:    cfg.EntryRepo,
		winnerRepo:   cfg.WinnerRepo,
		drawer:       cfg.Drawer,
		announcer:    cfg.Announcer,
		scheduler:    cfg.Scheduler,
		clock:        cfg.Clock,
		uuid:         cfg.UUID,
		log:          cfg.Logger.With().Str("component", "giveaway").Logger(),
		metrics:      newMetrics(cfg.Registerer),
	}, nil
}

// CreateGiveaway persists, announces and schedules a new giveaway
func (s *service) CreateGiveaway(ctx context.Context, input *CreateGiveawayInput) (*CreateGiveawayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.WinnersCount < 1 {
		return nil, ErrInvalidWinnerCount
	}

	durationText := input.Duration
	if durationText == "" {
		durationText = DefaultDuration
	}
	duration, err := ParseDuration(durationText)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = DefaultTitle
	}
	prize := input.Prize
	if prize == "" {
		prize = DefaultPrize
	}

	now := s.clock.Now().Truncate(time.Second)
	created, err := s.giveawayRepo.CreateGiveaway(ctx, &giveawayRepo.CreateGiveawayInput{
		Giveaway: &models.Giveaway{
			GuildID:        input.GuildID,
			ChannelID:      input.ChannelID,
			Title:          title,
			Prize:          prize,
			Criteria:       input.Criteria,
			WinnersCount:   input.WinnersCount,
			CreatedAt:      now,
			EndsAt:         now.Add(duration),
			CreatorID:      input.CreatorID,
			HostID:         input.HostID,
			RequiredRoleID: input.RequiredRoleID,
			PingRole:       input.PingRole,
			Recurring:      input.Recurring,
			Active:         true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	announced, err := s.launch(ctx, created)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("giveaway_id", created.ID).
		Str("guild_id", created.GuildID).
		Str("channel_id", created.ChannelID).
		Time("ends_at", created.EndsAt).
		Msg("giveaway created")

	return &CreateGiveawayOutput{
		Giveaway:       created,
		AnnounceFailed: !announced,
	}, nil
}

// GetGiveaway returns a giveaway with its entry count and winners
func (s *service) GetGiveaway(ctx context.Context, input *GetGiveawayInput) (*GetGiveawayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		return nil, err
	}

	count, err := s.entryRepo.CountEntries(ctx, &entryRepo.CountEntriesInput{GiveawayID: g.ID})
	if err != nil {
		return nil, err
	}

	winners, err := s.winnerRepo.ListWinners(ctx, &winnerRepo.ListWinnersInput{GiveawayID: g.ID})
	if err != nil {
		return nil, err
	}

	return &GetGiveawayOutput{
		Giveaway:   g,
		EntryCount: count,
		Winners:    winners,
	}, nil
}

// ListGiveaways returns giveaways matching the filters
func (s *service) ListGiveaways(ctx context.Context, input *ListGiveawaysInput) (*ListGiveawaysOutput, error) {
	if input == nil {
		input = &ListGiveawaysInput{}
	}

	giveaways, err := s.giveawayRepo.ListGiveaways(ctx, &giveawayRepo.ListGiveawaysInput{
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		Active:    input.Active,
	})
	if err != nil {
		return nil, err
	}

	return &ListGiveawaysOutput{
		Giveaways: giveaways,
	}, nil
}

// ToggleEntry joins or leaves a running giveaway. The expiry is checked
// here too because the timer may fire late.
func (s *service) ToggleEntry(ctx context.Context, input *ToggleEntryInput) (*ToggleEntryOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !g.Active || g.HasEnded(now) {
		return nil, ErrGiveawayClosed
	}

	if g.RequiredRoleID != "" && !slices.Contains(input.RoleIDs, g.RequiredRoleID) {
		return nil, ErrRoleRequired
	}

	action, err := s.entryRepo.ToggleEntry(ctx, &entryRepo.ToggleEntryInput{
		GiveawayID: g.ID,
		UserID:     input.UserID,
		At:         now,
	})
	if err != nil {
		return nil, err
	}

	count, err := s.entryRepo.CountEntries(ctx, &entryRepo.CountEntriesInput{GiveawayID: g.ID})
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int64("giveaway_id", g.ID).
		Str("user_id", input.UserID).
		Str("action", string(action)).
		Int("entries", count).
		Msg("entry toggled")

	return &ToggleEntryOutput{
		Giveaway:   g,
		Action:     action,
		EntryCount: count,
	}, nil
}

// ListEntries returns the entrants of a giveaway in join order
func (s *service) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListEntries(ctx, &entryRepo.ListEntriesInput{GiveawayID: g.ID})
	if err != nil {
		return nil, err
	}

	return &ListEntriesOutput{
		Giveaway: g,
		Entries:  entries,
	}, nil
}

// StopGiveaway ends a giveaway early. It passes the same gate as the timer,
// so a stop racing the expiry produces exactly one result. A stopped
// giveaway does not recur.
func (s *service) StopGiveaway(ctx context.Context, input *StopGiveawayInput) (*StopGiveawayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		return nil, err
	}

	if err := authorize(g, input.GuildID, input.UserID, input.IsAdministrator); err != nil {
		return nil, err
	}

	if !g.Active {
		return nil, ErrGiveawayClosed
	}

	s.scheduler.Cancel(g.ID)

	result, err := s.finalize(ctx, g, &finalizeOptions{
		source: FinalizeSourceStop,
		draw:   input.Announce,
	})
	if err != nil {
		return nil, err
	}
	if !result.finalized {
		return nil, ErrGiveawayClosed
	}

	return &StopGiveawayOutput{
		Giveaway:       result.giveaway,
		WinnerIDs:      result.winnerIDs,
		AnnounceFailed: result.announceFailed,
	}, nil
}

// RerollGiveaway draws new winners from the current entries of an ended
// giveaway and replaces the previous winners
func (s *service) RerollGiveaway(ctx context.Context, input *RerollGiveawayInput) (*RerollGiveawayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		return nil, err
	}

	if err := authorize(g, input.GuildID, input.UserID, input.IsAdministrator); err != nil {
		return nil, err
	}

	if g.Active {
		return nil, ErrGiveawayActive
	}

	candidates, err := s.candidates(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoEntries
	}

	winnerIDs, err := s.drawer.Draw(candidates, g.WinnersCount)
	if err != nil {
		return nil, err
	}

	err = s.winnerRepo.ReplaceWinners(ctx, &winnerRepo.ReplaceWinnersInput{Draw: winnerRepo.Draw{
		GiveawayID: g.ID,
		UserIDs:    winnerIDs,
		DrawID:     s.uuid.NewUUID(),
		DrawnAt:    s.clock.Now(),
	}})
	if err != nil {
		return nil, err
	}

	announceFailed := false
	if err := s.announcer.PublishResults(ctx, g, winnerIDs, true); err != nil {
		announceFailed = true
		s.log.Warn().Err(err).Int64("giveaway_id", g.ID).Msg("failed to announce reroll")
	}

	s.log.Info().
		Int64("giveaway_id", g.ID).
		Str("user_id", input.UserID).
		Strs("winners", winnerIDs).
		Msg("giveaway rerolled")

	return &RerollGiveawayOutput{
		Giveaway:       g,
		WinnerIDs:      winnerIDs,
		AnnounceFailed: announceFailed,
	}, nil
}

// FinalizeGiveaway ends an expired giveaway. The giveaway is read fresh from
// the store and only the caller that wins the gate acts on it.
func (s *service) FinalizeGiveaway(ctx context.Context, input *FinalizeGiveawayInput) (*FinalizeGiveawayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		if errors.Is(err, ErrGiveawayNotFound) {
			// deleted while its timer was pending
			s.metrics.observe(input.Source, outcomeLostRace)
			return &FinalizeGiveawayOutput{}, nil
		}
		s.metrics.observe(input.Source, outcomeError)
		return nil, err
	}

	result, err := s.finalize(ctx, g, &finalizeOptions{
		source: input.Source,
		draw:   true,
		recur:  g.Recurring,
	})
	if err != nil {
		return nil, err
	}

	return &FinalizeGiveawayOutput{
		Finalized:      result.finalized,
		Giveaway:       result.giveaway,
		WinnerIDs:      result.winnerIDs,
		Next:           result.next,
		AnnounceFailed: result.announceFailed,
	}, nil
}

// DeleteGiveaway removes a giveaway with its entries and winners
func (s *service) DeleteGiveaway(ctx context.Context, input *DeleteGiveawayInput) (*DeleteGiveawayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	g, err := s.getGiveaway(ctx, input.GiveawayID)
	if err != nil {
		return nil, err
	}

	if g.GuildID != input.GuildID {
		return nil, ErrWrongGuild
	}

	if !input.IsAdministrator {
		return nil, ErrUnauthorized
	}

	s.scheduler.Cancel(g.ID)

	if err := s.entryRepo.ClearEntries(ctx, &entryRepo.ClearEntriesInput{GiveawayID: g.ID}); err != nil {
		return nil, err
	}

	if err := s.winnerRepo.ClearWinners(ctx, &winnerRepo.ClearWinnersInput{GiveawayID: g.ID}); err != nil {
		return nil, err
	}

	err = s.giveawayRepo.DeleteGiveaway(ctx, &giveawayRepo.DeleteGiveawayInput{GiveawayID: g.ID})
	if err != nil {
		if errors.Is(err, giveawayRepo.ErrGiveawayNotFound) {
			return nil, ErrGiveawayNotFound
		}
		return nil, err
	}

	s.log.Info().Int64("giveaway_id", g.ID).Str("guild_id", g.GuildID).Msg("giveaway deleted")

	return &DeleteGiveawayOutput{
		Giveaway: g,
	}, nil
}

type finalizeOptions struct {
	source FinalizeSource

	// draw picks and publishes winners
	draw bool

	// recur starts the next instance of a recurring giveaway
	recur bool
}

type finalizeResult struct {
	finalized      bool
	giveaway       *models.Giveaway
	winnerIDs      []string
	next           *models.Giveaway
	announceFailed bool
}

// finalize passes the at-most-once gate and, if this call won it, performs
// the side effects of ending the giveaway. Announcement failures are logged
// and reported; they never undo the transition.
//
// A storage failure after the gate leaves the giveaway closed with no
// winners recorded. Nothing retries it automatically; an operator recovers
// it with a reroll.
func (s *service) finalize(ctx context.Context, g *models.Giveaway, opts *finalizeOptions) (*finalizeResult, error) {
	log := s.log.With().Int64("giveaway_id", g.ID).Str("source", string(opts.source)).Logger()

	won, err := s.giveawayRepo.TryFinalize(ctx, &giveawayRepo.TryFinalizeInput{GiveawayID: g.ID})
	if err != nil {
		s.metrics.observe(opts.source, outcomeError)
		return nil, err
	}
	if !won {
		s.metrics.observe(opts.source, outcomeLostRace)
		log.Debug().Msg("giveaway already finalized")
		return &finalizeResult{giveaway: g}, nil
	}

	finalizedAt := s.clock.Now()
	ended := *g
	ended.Active = false
	result := &finalizeResult{finalized: true, giveaway: &ended}

	candidates, err := s.candidates(ctx, ended.ID)
	if err != nil {
		return nil, s.failAfterGate(log, opts.source, "list entries", err)
	}

	if opts.draw && len(candidates) > 0 {
		winnerIDs, err := s.drawer.Draw(candidates, ended.WinnersCount)
		if err != nil {
			return nil, s.failAfterGate(log, opts.source, "draw winners", err)
		}

		err = s.winnerRepo.AddWinners(ctx, &winnerRepo.AddWinnersInput{Draw: winnerRepo.Draw{
			GiveawayID: ended.ID,
			UserIDs:    winnerIDs,
			DrawID:     s.uuid.NewUUID(),
			DrawnAt:    finalizedAt,
		}})
		if err != nil {
			return nil, s.failAfterGate(log, opts.source, "record winners", err)
		}
		result.winnerIDs = winnerIDs
	}

	if err := s.announcer.DisableEntry(ctx, &ended, len(candidates)); err != nil {
		result.announceFailed = true
		log.Warn().Err(err).Msg("failed to disable entry")
	}

	if opts.draw {
		var err error
		if len(result.winnerIDs) > 0 {
			err = s.announcer.PublishResults(ctx, &ended, result.winnerIDs, false)
		} else {
			err = s.announcer.PublishNoWinners(ctx, &ended)
		}
		if err != nil {
			result.announceFailed = true
			log.Warn().Err(err).Msg("failed to publish results")
		}
	}

	s.metrics.observe(opts.source, outcomeFinalized)
	log.Info().
		Strs("winners", result.winnerIDs).
		Int("entries", len(candidates)).
		Msg("giveaway finalized")

	if opts.recur {
		next, err := s.giveawayRepo.CreateGiveaway(ctx, &giveawayRepo.CreateGiveawayInput{
			Giveaway: ended.NextInstance(finalizedAt),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create next instance of giveaway %d: %w", ended.ID, err)
		}

		announced, err := s.launch(ctx, next)
		if err != nil {
			return nil, err
		}
		if !announced {
			result.announceFailed = true
		}

		log.Info().
			Int64("next_giveaway_id", next.ID).
			Time("ends_at", next.EndsAt).
			Msg("recurring giveaway started")
		result.next = next
	}

	return result, nil
}

// failAfterGate reports a failure that happened after this call closed the
// giveaway. The giveaway stays closed without winners until it is rerolled.
func (s *service) failAfterGate(log zerolog.Logger, source FinalizeSource, step string, err error) error {
	s.metrics.observe(source, outcomeError)
	log.Error().Err(err).Str("step", step).Msg("giveaway closed without winners, reroll to recover")
	return fmt.Errorf("failed to %s: %w", step, err)
}

// launch posts the announcement of a freshly stored giveaway and arms its
// timer. A failed post leaves the giveaway running without a message.
func (s *service) launch(ctx context.Context, g *models.Giveaway) (bool, error) {
	announced := true

	messageID, err := s.announcer.Post(ctx, g)
	if err != nil {
		announced = false
		s.log.Warn().Err(err).Int64("giveaway_id", g.ID).Msg("failed to post giveaway")
	} else if messageID != "" {
		err := s.giveawayRepo.SetMessageID(ctx, &giveawayRepo.SetMessageIDInput{
			GiveawayID: g.ID,
			MessageID:  messageID,
		})
		if err != nil {
			return false, fmt.Errorf("failed to record message id: %w", err)
		}
		g.MessageID = messageID
	}

	s.scheduler.Schedule(g, g.Remaining(s.clock.Now()))

	return announced, nil
}

func (s *service) candidates(ctx context.Context, giveawayID int64) ([]string, error) {
	entries, err := s.entryRepo.ListEntries(ctx, &entryRepo.ListEntriesInput{GiveawayID: giveawayID})
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(entries))
	for _, entry := range entries {
		candidates = append(candidates, entry.UserID)
	}

	return candidates, nil
}

func (s *service) getGiveaway(ctx context.Context, giveawayID int64) (*models.Giveaway, error) {
	if giveawayID <= 0 {
		return nil, ErrGiveawayNotFound
	}

	g, err := s.giveawayRepo.GetGiveaway(ctx, &giveawayRepo.GetGiveawayInput{GiveawayID: giveawayID})
	if err != nil {
		if errors.Is(err, giveawayRepo.ErrGiveawayNotFound) {
			return nil, ErrGiveawayNotFound
		}
		return nil, err
	}

	return g, nil
}

// authorize allows the creator or an administrator of the owning guild
func authorize(g *models.Giveaway, guildID, userID string, isAdministrator bool) error {
	if g.GuildID != guildID {
		return ErrWrongGuild
	}

	if !isAdministrator && g.CreatorID != userID {
		return ErrUnauthorized
	}

	return nil
}
