package giveaway

import (
	"errors"

	"github.com/KirkDiggler/giveawaybot/internal/models"
)

// ErrGiveawayNotFound is returned when a giveaway does not exist
var ErrGiveawayNotFound = errors.New("giveaway not found")

type CreateGiveawayInput struct {
	Giveaway *models.Giveaway
}

type GetGiveawayInput struct {
	GiveawayID int64
}

// ListGiveawaysInput filters; empty strings and a nil Active mean no restriction
type ListGiveawaysInput struct {
	GuildID   string
	ChannelID string
	Active    *bool
}

type SetMessageIDInput struct {
	GiveawayID int64
	MessageID  string
}

type TryFinalizeInput struct {
	GiveawayID int64
}

type DeleteGiveawayInput struct {
	GiveawayID int64
}

func validateGiveaway(g *models.Giveaway) error {
	if g == nil {
		return errors.New("input and giveaway cannot be nil")
	}
	if g.ID != 0 {
		return errors.New("giveaway is already persisted")
	}
	if g.WinnersCount < 1 {
		return errors.New("winners count must be at least 1")
	}
	if !g.EndsAt.After(g.CreatedAt) {
		return errors.New("giveaway must end after it is created")
	}
	return nil
}
