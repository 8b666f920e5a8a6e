package giveaway

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway Repository

import (
	"context"

	"github.com/KirkDiggler/giveawaybot/internal/models"
)

// Repository defines the interface for giveaway persistence
type Repository interface {
	// CreateGiveaway persists a new giveaway and returns it with its assigned ID
	CreateGiveaway(ctx context.Context, input *CreateGiveawayInput) (*models.Giveaway, error)

	// GetGiveaway retrieves a giveaway by ID
	GetGiveaway(ctx context.Context, input *GetGiveawayInput) (*models.Giveaway, error)

	// ListGiveaways returns the giveaways matching every filter that is set
	ListGiveaways(ctx context.Context, input *ListGiveawaysInput) ([]*models.Giveaway, error)

	// SetMessageID attaches the posted announcement to a giveaway
	SetMessageID(ctx context.Context, input *SetMessageIDInput) error

	// TryFinalize flips active from true to false and reports whether this
	// call performed the flip. At most one caller ever sees true for an ID.
	TryFinalize(ctx context.Context, input *TryFinalizeInput) (bool, error)

	// DeleteGiveaway removes a giveaway record
	DeleteGiveaway(ctx context.Context, input *DeleteGiveawayInput) error
}
