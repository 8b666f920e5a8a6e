package entry

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/giveawaybot/internal/repositories/entry Repository

import (
	"context"

	"github.com/KirkDiggler/giveawaybot/internal/models"
)

// Repository defines the interface for giveaway entry persistence
type Repository interface {
	// ToggleEntry adds the user when absent and removes them when present
	ToggleEntry(ctx context.Context, input *ToggleEntryInput) (models.EntryAction, error)

	// ListEntries returns the entries of a giveaway in the order users joined
	ListEntries(ctx context.Context, input *ListEntriesInput) ([]*models.Entry, error)

	// CountEntries returns the number of entries of a giveaway
	CountEntries(ctx context.Context, input *CountEntriesInput) (int, error)

	// ClearEntries removes every entry of a giveaway
	ClearEntries(ctx context.Context, input *ClearEntriesInput) error
}
