package winner

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/giveawaybot/internal/repositories/winner Repository

import (
	"context"

	"github.com/KirkDiggler/giveawaybot/internal/models"
)

// Repository defines the interface for giveaway winner persistence
type Repository interface {
	// AddWinners appends one draw to the winners of a giveaway
	AddWinners(ctx context.Context, input *AddWinnersInput) error

	// ReplaceWinners clears the winners of a giveaway and records a new draw
	ReplaceWinners(ctx context.Context, input *ReplaceWinnersInput) error

	// ListWinners returns winners in the order they were drawn
	ListWinners(ctx context.Context, input *ListWinnersInput) ([]*models.Winner, error)

	// ClearWinners removes every winner of a giveaway
	ClearWinners(ctx context.Context, input *ClearWinnersInput) error
}
