package models

import (
	"time"
)

// Giveaway is one time-boxed event with a fixed entry window
type Giveaway struct {
	// ID is assigned by the store on creation; zero means not yet persisted
	ID int64

	// GuildID is the Discord server that owns the giveaway
	GuildID string

	// ChannelID is the channel the announcement is posted in
	ChannelID string

	// MessageID is the announcement message, empty until it is posted
	MessageID string

	// Title is the headline shown on the announcement
	Title string

	// Prize is the free-form prize text
	Prize string

	// Criteria is informational text only, never enforced
	Criteria string

	// WinnersCount is the requested number of winners, at least 1
	WinnersCount int

	// CreatedAt is when this instance opened
	CreatedAt time.Time

	// EndsAt is when this instance expires, always after CreatedAt
	EndsAt time.Time

	// CreatorID is the user who ran the create command
	CreatorID string

	// HostID is an optional user shown as the host
	HostID string

	// RequiredRoleID optionally gates entry on role membership
	RequiredRoleID string

	// PingRole mentions the required role after the announcement is posted
	PingRole bool

	// Recurring starts a new instance with the same duration after finalize
	Recurring bool

	// Active is true from creation until the single finalize transition
	Active bool
}

// Duration is the length of the entry window
func (g *Giveaway) Duration() time.Duration {
	return g.EndsAt.Sub(g.CreatedAt)
}

// HasEnded reports whether the entry window is over at now
func (g *Giveaway) HasEnded(now time.Time) bool {
	return !now.Before(g.EndsAt)
}

// Remaining returns the time left until EndsAt, which is negative when overdue
func (g *Giveaway) Remaining(now time.Time) time.Duration {
	return g.EndsAt.Sub(now)
}

// NextInstance clones g into the next recurring instance opening at now.
// The clone keeps the window length and has no id or message.
func (g *Giveaway) NextInstance(now time.Time) *Giveaway {
	next := *g
	next.ID = 0
	next.MessageID = ""
	next.Active = true
	next.CreatedAt = now.Truncate(time.Second)
	next.EndsAt = next.CreatedAt.Add(g.Duration())
	return &next
}
