package models

import "time"

// Winner is one user drawn for a giveaway
type Winner struct {
	GiveawayID int64
	UserID     string

	// DrawID groups the winners of one finalize or reroll run
	DrawID string

	DrawnAt time.Time
}
