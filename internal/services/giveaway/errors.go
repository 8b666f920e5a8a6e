package giveaway

// GiveawayError is a custom error type for giveaway-related errors
type GiveawayError string

// Error implements the error interface
func (e GiveawayError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrGiveawayNotFound   GiveawayError = "giveaway not found"
	ErrGiveawayClosed     GiveawayError = "giveaway has already ended"
	ErrGiveawayActive     GiveawayError = "giveaway is still active"
	ErrRoleRequired       GiveawayError = "giveaway requires a role the user does not have"
	ErrUnauthorized       GiveawayError = "only the giveaway creator or an administrator can do that"
	ErrWrongGuild         GiveawayError = "giveaway does not belong to this server"
	ErrInvalidDuration    GiveawayError = "invalid duration, use a format like 1d 2h 3m 4s"
	ErrInvalidWinnerCount GiveawayError = "winner count must be at least 1"
	ErrNoEntries          GiveawayError = "giveaway has no entries"
	ErrNilConfig          GiveawayError = "config cannot be nil"
	ErrNilGiveawayRepo    GiveawayError = "giveaway repository cannot be nil"
	ErrNilEntryRepo       GiveawayError = "entry repository cannot be nil"
	ErrNilWinnerRepo      GiveawayError = "winner repository cannot be nil"
	ErrNilDrawer          GiveawayError = "winner drawer cannot be nil"
	ErrNilAnnouncer       GiveawayError = "announcer cannot be nil"
	ErrNilScheduler       GiveawayError = "scheduler cannot be nil"
	ErrNilClock           GiveawayError = "clock cannot be nil"
	ErrNilUUIDGenerator   GiveawayError = "UUID generator cannot be nil"
)
