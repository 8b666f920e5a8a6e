package scheduler

import (
	"context"

	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_finalizer.go github.com/KirkDiggler/giveawaybot/internal/services/scheduler Finalizer

// Finalizer ends an expired giveaway. The giveaway service implements it.
type Finalizer interface {
	FinalizeGiveaway(ctx context.Context, input *giveaway.FinalizeGiveawayInput) (*giveaway.FinalizeGiveawayOutput, error)
}
