package messaging

import (
	"math/rand"

	"github.com/KirkDiggler/giveawaybot/internal/models"
)

// CommandType names an operator command that gets a confirmation
type CommandType string

const (
	CommandTypeCreate CommandType = "create"
	CommandTypeStop   CommandType = "stop"
	CommandTypeReroll CommandType = "reroll"
	CommandTypeDelete CommandType = "delete"
)

// GetEntryMessageInput contains parameters for getting an entry reply
type GetEntryMessageInput struct {
	// Title is the giveaway title
	Title string

	// Action is what the toggle did
	Action models.EntryAction

	// EntryCount is the number of entries after the toggle
	EntryCount int
}

// GetEntryMessageOutput contains the generated entry reply
type GetEntryMessageOutput struct {
	Message string
}

// GetParticipantsMessageInput contains the entrants in join order
type GetParticipantsMessageInput struct {
	Title   string
	UserIDs []string
}

// GetParticipantsMessageOutput contains the participants listing
type GetParticipantsMessageOutput struct {
	Title   string
	Message string

	// Empty is set when nobody has entered yet
	Empty bool
}

// GetResultsMessageInput contains the drawn winners of a giveaway
type GetResultsMessageInput struct {
	Title     string
	Prize     string
	HostID    string
	WinnerIDs []string

	// Reroll is set when the winners replace an earlier draw
	Reroll bool
}

type GetResultsMessageOutput struct {
	Message string
}

type GetNoWinnersMessageInput struct {
	Title string
}

type GetNoWinnersMessageOutput struct {
	Message string
}

// GetStartedMessageInput contains parameters for the role ping
type GetStartedMessageInput struct {
	Title  string
	RoleID string
}

type GetStartedMessageOutput struct {
	Message string
}

// GetCommandMessageInput contains parameters for an operator confirmation
type GetCommandMessageInput struct {
	Command    CommandType
	GiveawayID int64
	Title      string

	// WinnerIDs is set for stop and reroll
	WinnerIDs []string

	// AnnounceFailed is set when the channel could not be updated
	AnnounceFailed bool
}

type GetCommandMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// Err is the error returned by the giveaway service
	Err error

	// Title is the giveaway title when it is known
	Title string

	// GiveawayID is the requested giveaway when it is known
	GiveawayID int64
}

// GetErrorMessageOutput contains the generated error message
type GetErrorMessageOutput struct {
	Message string
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Rand picks between message variants; a time-seeded source when nil
	Rand *rand.Rand
}
