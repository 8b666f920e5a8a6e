package models

import "time"

// EntryAction is the outcome of toggling a user's entry
type EntryAction string

const (
	// EntryActionJoined indicates the user was added to the giveaway
	EntryActionJoined EntryAction = "joined"

	// EntryActionLeft indicates the user was removed from the giveaway
	EntryActionLeft EntryAction = "left"
)

// Entry is one user's participation in a giveaway
type Entry struct {
	GiveawayID int64
	UserID     string
	JoinedAt   time.Time
}
