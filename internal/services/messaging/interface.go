package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetEntryMessage returns the reply for a user pressing the join button
	GetEntryMessage(ctx context.Context, input *GetEntryMessageInput) (*GetEntryMessageOutput, error)

	// GetParticipantsMessage returns the numbered list of entrants
	GetParticipantsMessage(ctx context.Context, input *GetParticipantsMessageInput) (*GetParticipantsMessageOutput, error)

	// GetResultsMessage returns the channel announcement of the winners
	GetResultsMessage(ctx context.Context, input *GetResultsMessageInput) (*GetResultsMessageOutput, error)

	// GetNoWinnersMessage returns the channel announcement for a giveaway nobody entered
	GetNoWinnersMessage(ctx context.Context, input *GetNoWinnersMessageInput) (*GetNoWinnersMessageOutput, error)

	// GetStartedMessage returns the role ping sent after an announcement
	GetStartedMessage(ctx context.Context, input *GetStartedMessageInput) (*GetStartedMessageOutput, error)

	// GetCommandMessage returns the confirmation for an operator command
	GetCommandMessage(ctx context.Context, input *GetCommandMessageInput) (*GetCommandMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
