package giveaway

import (
	"context"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_announcer.go github.com/KirkDiggler/giveawaybot/internal/services/giveaway Announcer
//go:generate mockgen -package=mocks -destination=mocks/mock_scheduler.go github.com/KirkDiggler/giveawaybot/internal/services/giveaway Scheduler

// Service defines the interface for giveaway operations
type Service interface {
	// CreateGiveaway persists, announces and schedules a new giveaway
	CreateGiveaway(ctx context.Context, input *CreateGiveawayInput) (*CreateGiveawayOutput, error)

	// GetGiveaway returns a giveaway with its entry count and winners
	GetGiveaway(ctx context.Context, input *GetGiveawayInput) (*GetGiveawayOutput, error)

	// ListGiveaways returns giveaways matching the filters
	ListGiveaways(ctx context.Context, input *ListGiveawaysInput) (*ListGiveawaysOutput, error)

	// ToggleEntry joins or leaves a running giveaway
	ToggleEntry(ctx context.Context, input *ToggleEntryInput) (*ToggleEntryOutput, error)

	// ListEntries returns the entrants of a giveaway in join order
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)

	// StopGiveaway ends a giveaway early on behalf of its creator or an administrator
	StopGiveaway(ctx context.Context, input *StopGiveawayInput) (*StopGiveawayOutput, error)

	// RerollGiveaway draws new winners for an ended giveaway
	RerollGiveaway(ctx context.Context, input *RerollGiveawayInput) (*RerollGiveawayOutput, error)

	// FinalizeGiveaway ends an expired giveaway, draws winners and starts the
	// next instance of a recurring one. Losing the race to another caller is
	// not an error.
	FinalizeGiveaway(ctx context.Context, input *FinalizeGiveawayInput) (*FinalizeGiveawayOutput, error)

	// DeleteGiveaway removes a giveaway with its entries and winners
	DeleteGiveaway(ctx context.Context, input *DeleteGiveawayInput) (*DeleteGiveawayOutput, error)
}

// Announcer publishes giveaway state to the chat channel. Implementations
// are display-only; a failure never rolls back a state change.
type Announcer interface {
	// Post sends the announcement and returns its message ID
	Post(ctx context.Context, giveaway *models.Giveaway) (string, error)

	// DisableEntry marks the announcement as ended and disables joining
	DisableEntry(ctx context.Context, giveaway *models.Giveaway, entryCount int) error

	// PublishResults announces the drawn winners
	PublishResults(ctx context.Context, giveaway *models.Giveaway, winnerIDs []string, reroll bool) error

	// PublishNoWinners announces that nobody entered
	PublishNoWinners(ctx context.Context, giveaway *models.Giveaway) error
}

// Scheduler arms and disarms the expiry timer of a giveaway
type Scheduler interface {
	// Schedule finalizes the giveaway once delay has elapsed
	Schedule(giveaway *models.Giveaway, delay time.Duration)

	// Cancel disarms a pending timer and reports whether one was pending
	Cancel(giveawayID int64) bool
}
