package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
)

// MaxMessageLength is Discord's limit on message content, in characters
const MaxMessageLength = 2000

// maxParticipantsLength keeps the listing inside Discord's embed description limit
const maxParticipantsLength = 4000

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages
	rand *rand.Rand
	mu   sync.Mutex
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	var r *rand.Rand
	if config != nil {
		r = config.Rand
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &service{
		rand: r,
	}, nil
}

// Mention formats a user mention
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// MentionRole formats a role mention
func MentionRole(roleID string) string {
	return fmt.Sprintf("<@&%s>", roleID)
}

// Mentions joins user mentions with spaces
func Mentions(userIDs []string) string {
	mentions := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		mentions = append(mentions, Mention(id))
	}
	return strings.Join(mentions, " ")
}

// GetEntryMessage returns the reply for a user pressing the join button
func (s *service) GetEntryMessage(ctx context.Context, input *GetEntryMessageInput) (*GetEntryMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	switch input.Action {
	case models.EntryActionJoined:
		messages = []string{
			fmt.Sprintf("✅ Your entry to **%s** has been approved!", input.Title),
			fmt.Sprintf("✅ You're in! Your entry to **%s** has been approved. Fingers crossed!", input.Title),
			fmt.Sprintf("✅ Entry approved for **%s**. You're one of %d hopefuls now.", input.Title, input.EntryCount),
		}
	case models.EntryActionLeft:
		messages = []string{
			fmt.Sprintf("❌ You have left the giveaway **%s**.", input.Title),
			fmt.Sprintf("❌ You have left the giveaway **%s**. Changed your mind? Press the button again.", input.Title),
		}
	default:
		return nil, fmt.Errorf("unknown entry action %q", input.Action)
	}

	return &GetEntryMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetParticipantsMessage returns the numbered list of entrants
func (s *service) GetParticipantsMessage(ctx context.Context, input *GetParticipantsMessageInput) (*GetParticipantsMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if len(input.UserIDs) == 0 {
		return &GetParticipantsMessageOutput{
			Title:   "Giveaway Participants",
			Message: fmt.Sprintf("⚠️ No participants have joined the giveaway **%s** yet.", input.Title),
			Empty:   true,
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "These are the members that have participated in the giveaway of **%s**:", input.Title)
	for i, id := range input.UserIDs {
		line := fmt.Sprintf("\n%d. %s", i+1, Mention(id))
		if b.Len()+len(line) > maxParticipantsLength {
			fmt.Fprintf(&b, "\n…and %d more", len(input.UserIDs)-i)
			break
		}
		b.WriteString(line)
	}

	return &GetParticipantsMessageOutput{
		Title:   "Giveaway Participants",
		Message: b.String(),
	}, nil
}

// GetResultsMessage returns the channel announcement of the winners
func (s *service) GetResultsMessage(ctx context.Context, input *GetResultsMessageInput) (*GetResultsMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if len(input.WinnerIDs) == 0 {
		return nil, errors.New("winners cannot be empty")
	}

	claim := "📩 Direct Message the host to claim your prize!"
	if input.HostID != "" {
		claim = fmt.Sprintf("📩 Direct Message %s to claim your prize!", Mention(input.HostID))
	}

	var templates []func(winners string) string
	if input.Reroll {
		templates = []func(string) string{
			func(winners string) string {
				return fmt.Sprintf("🎉 Giveaway **%s** has been rerolled!\nNew winner(s): %s\n%s", input.Title, winners, claim)
			},
			func(winners string) string {
				return fmt.Sprintf("🎲 The dice were thrown again for **%s**!\nNew winner(s): %s\n%s", input.Title, winners, claim)
			},
		}
	} else {
		templates = []func(string) string{
			func(winners string) string {
				return fmt.Sprintf("🎉 Congratulations %s! You won **%s**!\n%s", winners, input.Prize, claim)
			},
			func(winners string) string {
				return fmt.Sprintf("🎉 We have a result for **%s**! Congratulations %s, you won **%s**!\n%s", input.Title, winners, input.Prize, claim)
			},
		}
	}

	return &GetResultsMessageOutput{
		Message: fitMentions(templates[s.intn(len(templates))], input.WinnerIDs),
	}, nil
}

// fitMentions renders as many winner mentions as fit in one Discord message
// and counts the rest
func fitMentions(render func(winners string) string, userIDs []string) string {
	for n := len(userIDs); n > 0; n-- {
		winners := Mentions(userIDs[:n])
		if n < len(userIDs) {
			winners += fmt.Sprintf(" …and %d more", len(userIDs)-n)
		}
		if message := render(winners); utf8.RuneCountInString(message) <= MaxMessageLength {
			return message
		}
	}
	return render(fmt.Sprintf("%d winners", len(userIDs)))
}

// GetNoWinnersMessage returns the channel announcement for a giveaway nobody entered
func (s *service) GetNoWinnersMessage(ctx context.Context, input *GetNoWinnersMessageInput) (*GetNoWinnersMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	return &GetNoWinnersMessageOutput{
		Message: fmt.Sprintf("⚠️ No participants joined the giveaway **%s**. No winners this time.", input.Title),
	}, nil
}

// GetStartedMessage returns the role ping sent after an announcement
func (s *service) GetStartedMessage(ctx context.Context, input *GetStartedMessageInput) (*GetStartedMessageOutput, error) {
	if input == nil || input.RoleID == "" {
		return nil, errors.New("input and role ID cannot be empty")
	}

	return &GetStartedMessageOutput{
		Message: fmt.Sprintf("%s 🎉 **%s** has started!", MentionRole(input.RoleID), input.Title),
	}, nil
}

// GetCommandMessage returns the confirmation for an operator command
func (s *service) GetCommandMessage(ctx context.Context, input *GetCommandMessageInput) (*GetCommandMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch input.Command {
	case CommandTypeCreate:
		message = fmt.Sprintf("✅ Giveaway **%s** (ID %d) has been created.", input.Title, input.GiveawayID)
	case CommandTypeStop:
		message = fmt.Sprintf("✅ Giveaway **%s** has been successfully stopped.", input.Title)
		if len(input.WinnerIDs) > 0 {
			message += fmt.Sprintf(" Winner(s): %s", Mentions(input.WinnerIDs))
		}
	case CommandTypeReroll:
		message = fmt.Sprintf("✅ Giveaway **%s** has been successfully rerolled.", input.Title)
	case CommandTypeDelete:
		message = fmt.Sprintf("🗑️ Giveaway **%s** (ID %d) has been deleted.", input.Title, input.GiveawayID)
	default:
		return nil, fmt.Errorf("unknown command %q", input.Command)
	}

	if input.AnnounceFailed {
		message += "\n⚠️ I could not update the giveaway channel. Check my permissions there."
	}

	return &GetCommandMessageOutput{
		Message: message,
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil || input.Err == nil {
		return nil, errors.New("input and error cannot be nil")
	}

	title := input.Title
	if title == "" {
		title = "this giveaway"
	} else {
		title = fmt.Sprintf("**%s**", title)
	}

	var messages []string
	switch {
	case errors.Is(input.Err, giveaway.ErrGiveawayNotFound):
		messages = []string{
			fmt.Sprintf("❌ Giveaway with ID **%d** not found.", input.GiveawayID),
		}
	case errors.Is(input.Err, giveaway.ErrGiveawayClosed):
		messages = []string{
			fmt.Sprintf("⏰ The giveaway %s has already ended.", title),
			fmt.Sprintf("⏰ Too late! The giveaway %s has already ended.", title),
		}
	case errors.Is(input.Err, giveaway.ErrGiveawayActive):
		messages = []string{
			fmt.Sprintf("⚠️ Giveaway %s is still active. Wait for it to end before rerolling.", title),
		}
	case errors.Is(input.Err, giveaway.ErrRoleRequired):
		messages = []string{
			fmt.Sprintf("❌ Your entry to %s has been denied. Please review the requirements for this giveaway.", title),
		}
	case errors.Is(input.Err, giveaway.ErrUnauthorized):
		messages = []string{
			"❌ Only the creator of the giveaway or an administrator can do that.",
			"❌ Nice try! Only the creator of the giveaway or an administrator can do that.",
		}
	case errors.Is(input.Err, giveaway.ErrWrongGuild):
		messages = []string{
			"❌ That giveaway belongs to another server.",
		}
	case errors.Is(input.Err, giveaway.ErrInvalidDuration):
		messages = []string{
			"⚠️ Invalid duration. Use a format like `1d 2h 3m 4s`, for example `2h30m`.",
		}
	case errors.Is(input.Err, giveaway.ErrInvalidWinnerCount):
		messages = []string{
			"⚠️ A giveaway needs at least one winner.",
		}
	case errors.Is(input.Err, giveaway.ErrNoEntries):
		messages = []string{
			fmt.Sprintf("⚠️ No participants joined the giveaway %s. Cannot reroll.", title),
		}
	default:
		messages = []string{
			"⚠️ Something went wrong on my side. Please try again in a moment.",
			"⚠️ The giveaway gremlins are at it again. Please try again in a moment.",
		}
	}

	return &GetErrorMessageOutput{
		Message: s.pick(messages),
	}, nil
}

func (s *service) pick(messages []string) string {
	return messages[s.intn(len(messages))]
}

func (s *service) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Intn(n)
}
