package scheduler

import (
	"errors"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	// DefaultSweepInterval is how often active giveaways are reconciled
	DefaultSweepInterval = time.Minute

	// DefaultFinalizeTimeout bounds a single finalize attempt
	DefaultFinalizeTimeout = 30 * time.Second
)

var (
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrNilGiveawayRepo = errors.New("giveaway repository cannot be nil")
	ErrNilClock        = errors.New("clock cannot be nil")
	ErrNilFinalizer    = errors.New("finalizer cannot be nil")
	ErrAlreadyStarted  = errors.New("scheduler already started")
)

// Config holds configuration for the lifecycle scheduler
type Config struct {
	// GiveawayRepo is read at start and on every sweep
	GiveawayRepo giveawayRepo.Repository

	// Clock drives expiry timers
	Clock clock.Clock

	// Logger defaults to a no-op logger
	Logger zerolog.Logger

	// SweepInterval defaults to DefaultSweepInterval
	SweepInterval time.Duration

	// FinalizeTimeout defaults to DefaultFinalizeTimeout
	FinalizeTimeout time.Duration

	// Registerer receives the scheduler metrics; nil uses a private registry
	Registerer prometheus.Registerer
}

// handle is the in-flight expiry timer of one giveaway. version tells a
// stale callback apart from the timer that replaced it.
type handle struct {
	timer   clock.Timer
	version uint64
	endsAt  time.Time
}
