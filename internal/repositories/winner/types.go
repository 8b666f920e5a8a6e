package winner

import (
	"errors"
	"time"
)

// Draw is one run of the winner selector
type Draw struct {
	GiveawayID int64
	UserIDs    []string
	DrawID     string
	DrawnAt    time.Time
}

type AddWinnersInput struct {
	Draw
}

type ReplaceWinnersInput struct {
	Draw
}

type ListWinnersInput struct {
	GiveawayID int64
}

type ClearWinnersInput struct {
	GiveawayID int64
}

func (d *Draw) validate() error {
	if d.GiveawayID == 0 {
		return errors.New("giveaway ID cannot be empty")
	}
	for _, userID := range d.UserIDs {
		if userID == "" {
			return errors.New("winner user ID cannot be empty")
		}
	}
	return nil
}
