package giveaway

import (
	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/common/uuid"
	"github.com/KirkDiggler/giveawaybot/internal/draw"
	"github.com/KirkDiggler/giveawaybot/internal/models"
	entryRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/entry"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	winnerRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/winner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// FinalizeSource names the path that asked for a finalize
type FinalizeSource string

const (
	// FinalizeSourceTimer is the expiry timer of a scheduled giveaway
	FinalizeSourceTimer FinalizeSource = "timer"

	// FinalizeSourceSweep is the periodic reconciliation sweep
	FinalizeSourceSweep FinalizeSource = "sweep"

	// FinalizeSourceStop is an operator stopping a giveaway early
	FinalizeSourceStop FinalizeSource = "stop"
)

// Defaults applied by CreateGiveaway to empty options
const (
	DefaultTitle    = "Giveaway"
	DefaultPrize    = "Surprise!"
	DefaultDuration = "1d"
)

// Config holds configuration for the giveaway service
type Config struct {
	// Repository dependencies
	GiveawayRepo giveawayRepo.Repository
	EntryRepo    entryRepo.Repository
	WinnerRepo   winnerRepo.Repository

	// Service dependencies
	Drawer    draw.Drawer
	Announcer Announcer
	Scheduler Scheduler

	// Utilities
	Clock clock.Clock
	UUID  uuid.UUID

	// Logger defaults to a no-op logger
	Logger zerolog.Logger

	// Registerer receives the finalize metrics; nil uses a private registry
	Registerer prometheus.Registerer
}

// CreateGiveawayInput contains the options of the create command
type CreateGiveawayInput struct {
	GuildID   string
	ChannelID string
	CreatorID string
	HostID    string

	Title    string
	Prize    string
	Criteria string

	// WinnersCount must be at least 1
	WinnersCount int

	// Duration uses the 1d 2h 3m 4s format
	Duration string

	RequiredRoleID string
	PingRole       bool
	Recurring      bool
}

// CreateGiveawayOutput contains the created giveaway
type CreateGiveawayOutput struct {
	Giveaway *models.Giveaway

	// AnnounceFailed is set when the announcement could not be posted
	AnnounceFailed bool
}

type GetGiveawayInput struct {
	GiveawayID int64
}

type GetGiveawayOutput struct {
	Giveaway   *models.Giveaway
	EntryCount int
	Winners    []*models.Winner
}

// ListGiveawaysInput filters; empty strings and a nil Active mean no restriction
type ListGiveawaysInput struct {
	GuildID   string
	ChannelID string
	Active    *bool
}

type ListGiveawaysOutput struct {
	Giveaways []*models.Giveaway
}

// ToggleEntryInput identifies the user pressing the join button
type ToggleEntryInput struct {
	GiveawayID int64
	UserID     string

	// RoleIDs are the roles the user holds in the giveaway's guild
	RoleIDs []string
}

type ToggleEntryOutput struct {
	Giveaway *models.Giveaway
	Action   models.EntryAction

	// EntryCount is the number of entries after the toggle
	EntryCount int
}

type ListEntriesInput struct {
	GiveawayID int64
}

type ListEntriesOutput struct {
	Giveaway *models.Giveaway
	Entries  []*models.Entry
}

// StopGiveawayInput identifies the giveaway and the operator stopping it
type StopGiveawayInput struct {
	GiveawayID      int64
	GuildID         string
	UserID          string
	IsAdministrator bool

	// Announce draws and publishes winners; otherwise the giveaway just closes
	Announce bool
}

type StopGiveawayOutput struct {
	Giveaway       *models.Giveaway
	WinnerIDs      []string
	AnnounceFailed bool
}

// RerollGiveawayInput identifies the giveaway and the operator rerolling it
type RerollGiveawayInput struct {
	GiveawayID      int64
	GuildID         string
	UserID          string
	IsAdministrator bool
}

type RerollGiveawayOutput struct {
	Giveaway       *models.Giveaway
	WinnerIDs      []string
	AnnounceFailed bool
}

// FinalizeGiveawayInput is sent by the scheduler when a giveaway expires
type FinalizeGiveawayInput struct {
	GiveawayID int64
	Source     FinalizeSource
}

type FinalizeGiveawayOutput struct {
	// Finalized is false when another caller already ended the giveaway
	Finalized bool

	Giveaway  *models.Giveaway
	WinnerIDs []string

	// Next is the following instance of a recurring giveaway
	Next *models.Giveaway

	AnnounceFailed bool
}

// DeleteGiveawayInput identifies the giveaway and the administrator deleting it
type DeleteGiveawayInput struct {
	GiveawayID      int64
	GuildID         string
	IsAdministrator bool
}

type DeleteGiveawayOutput struct {
	Giveaway *models.Giveaway
}
