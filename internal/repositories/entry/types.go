package entry

import "time"

type ToggleEntryInput struct {
	GiveawayID int64
	UserID     string

	// At is recorded as the join time when the toggle adds the user
	At time.Time
}

type ListEntriesInput struct {
	GiveawayID int64
}

type CountEntriesInput struct {
	GiveawayID int64
}

type ClearEntriesInput struct {
	GiveawayID int64
}
