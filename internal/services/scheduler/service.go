package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/models"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Service owns one expiry timer per active giveaway plus a periodic
// reconciliation sweep. The timer table is advisory: the store's finalize
// gate is what prevents double finalization, and the sweep rebuilds the
// table from the store after a restart.
type Service struct {
	repo            giveawayRepo.Repository
	clock           clock.Clock
	log             zerolog.Logger
	sweepInterval   time.Duration
	finalizeTimeout time.Duration
	metrics         *metrics

	mu          sync.Mutex
	running     bool
	handles     map[int64]handle
	nextVersion uint64
	finalizer   Finalizer
	runCtx      context.Context
	cancel      context.CancelFunc
	cron        *cron.Cron
	sweepJob    cron.Job

	// inflight tracks timer callbacks that are finalizing
	inflight sync.WaitGroup
}

// New creates a stopped scheduler
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GiveawayRepo == nil {
		return nil, ErrNilGiveawayRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	sweepInterval := cfg.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	finalizeTimeout := cfg.FinalizeTimeout
	if finalizeTimeout <= 0 {
		finalizeTimeout = DefaultFinalizeTimeout
	}

	return &Service{
		repo:            cfg.GiveawayRepo,
		clock:           cfg.Clock,
		log:             cfg.Logger.With().Str("component", "scheduler").Logger(),
		sweepInterval:   sweepInterval,
		finalizeTimeout: finalizeTimeout,
		metrics:         newMetrics(cfg.Registerer),
		handles:         make(map[int64]handle),
	}, nil
}

// Start arms a timer for every active giveaway that has time left, starts
// the periodic sweep and runs one sweep immediately. Overdue giveaways are
// left to that sweep.
func (s *Service) Start(ctx context.Context, finalizer Finalizer) error {
	if finalizer == nil {
		return ErrNilFinalizer
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.finalizer = finalizer
	s.handles = make(map[int64]handle)
	s.running = true
	s.mu.Unlock()

	scheduled := s.rehydrate(ctx)

	// a sweep still running when the next one is due makes that one a no-op
	logger := cronLogger{log: s.log}
	sweep := cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(s.runSweep))

	c := cron.New()
	if _, err := c.AddJob(fmt.Sprintf("@every %s", s.sweepInterval), sweep); err != nil {
		s.Stop()
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.mu.Lock()
	s.cron = c
	s.sweepJob = sweep
	s.mu.Unlock()
	c.Start()

	s.log.Info().
		Int("scheduled", scheduled).
		Dur("sweep_interval", s.sweepInterval).
		Msg("scheduler started")

	sweep.Run()

	return nil
}

// Stop disarms every timer, stops the sweep and waits for in-flight
// finalize attempts to return. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	for id, h := range s.handles {
		h.timer.Stop()
		delete(s.handles, id)
	}
	s.metrics.pending.Set(0)
	c := s.cron
	cancel := s.cancel
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	s.inflight.Wait()
	if cancel != nil {
		cancel()
	}

	s.log.Info().Msg("scheduler stopped")
}

// Schedule arms the expiry timer of a giveaway, replacing any existing one.
// Before Start it does nothing; Start picks the giveaway up from the store.
func (s *Service) Schedule(g *models.Giveaway, delay time.Duration) {
	if g == nil || g.ID == 0 {
		return
	}
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.log.Debug().Int64("giveaway_id", g.ID).Msg("scheduler not running, leaving giveaway to the sweep")
		return
	}

	if existing, ok := s.handles[g.ID]; ok {
		existing.timer.Stop()
	}

	s.nextVersion++
	version := s.nextVersion
	id := g.ID
	timer := s.clock.AfterFunc(delay, func() {
		s.fire(id, version)
	})

	s.handles[id] = handle{
		timer:   timer,
		version: version,
		endsAt:  g.EndsAt,
	}
	s.metrics.pending.Set(float64(len(s.handles)))

	s.log.Debug().Int64("giveaway_id", id).Dur("delay", delay).Msg("giveaway scheduled")
}

// Cancel disarms the timer of a giveaway. It reports whether a timer was pending.
func (s *Service) Cancel(giveawayID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[giveawayID]
	if !ok {
		return false
	}

	h.timer.Stop()
	delete(s.handles, giveawayID)
	s.metrics.pending.Set(float64(len(s.handles)))

	s.log.Debug().Int64("giveaway_id", giveawayID).Msg("giveaway timer cancelled")

	return true
}

// Pending returns the IDs of giveaways with an armed timer, in ascending order
func (s *Service) Pending() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.handles))
	for id := range s.handles {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Sweep reconciles the timer table with the store. Expired giveaways are
// finalized directly and unexpired giveaways without a matching timer get one.
// A failure on one giveaway does not stop the others.
func (s *Service) Sweep(ctx context.Context) error {
	active := true
	giveaways, err := s.repo.ListGiveaways(ctx, &giveawayRepo.ListGiveawaysInput{Active: &active})
	if err != nil {
		s.metrics.failures.Inc()
		return fmt.Errorf("failed to list active giveaways: %w", err)
	}

	now := s.clock.Now()
	for _, g := range giveaways {
		s.reconcile(ctx, g, now)
	}

	s.metrics.sweeps.Inc()
	s.log.Debug().Int("active", len(giveaways)).Msg("sweep finished")

	return nil
}

func (s *Service) reconcile(ctx context.Context, g *models.Giveaway, now time.Time) {
	defer s.recoverPanic(g.ID, "sweep")

	if g.HasEnded(now) {
		s.Cancel(g.ID)
		s.finalize(ctx, g.ID, giveaway.FinalizeSourceSweep)
		return
	}

	s.mu.Lock()
	h, armed := s.handles[g.ID]
	s.mu.Unlock()

	if !armed || !h.endsAt.Equal(g.EndsAt) {
		s.Schedule(g, g.Remaining(now))
	}
}

func (s *Service) rehydrate(ctx context.Context) int {
	active := true
	giveaways, err := s.repo.ListGiveaways(ctx, &giveawayRepo.ListGiveawaysInput{Active: &active})
	if err != nil {
		s.metrics.failures.Inc()
		s.log.Error().Err(err).Msg("failed to load active giveaways, relying on the sweep")
		return 0
	}

	now := s.clock.Now()
	scheduled := 0
	for _, g := range giveaways {
		remaining := g.Remaining(now)
		if remaining <= 0 {
			continue
		}
		s.Schedule(g, remaining)
		scheduled++
	}

	return scheduled
}

func (s *Service) runSweep() {
	s.mu.Lock()
	ctx := s.runCtx
	running := s.running
	s.mu.Unlock()

	if !running || ctx.Err() != nil {
		return
	}

	if err := s.Sweep(ctx); err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
	}
}

// fire runs when a timer expires. The handle removes itself first so a
// failure leaves the giveaway for the sweep.
func (s *Service) fire(giveawayID int64, version uint64) {
	s.mu.Lock()
	h, ok := s.handles[giveawayID]
	if !ok || h.version != version || !s.running {
		s.mu.Unlock()
		return
	}
	delete(s.handles, giveawayID)
	s.metrics.pending.Set(float64(len(s.handles)))
	ctx := s.runCtx
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	s.metrics.fires.Inc()
	s.finalize(ctx, giveawayID, giveaway.FinalizeSourceTimer)
}

func (s *Service) finalize(ctx context.Context, giveawayID int64, source giveaway.FinalizeSource) {
	defer s.recoverPanic(giveawayID, string(source))

	s.mu.Lock()
	finalizer := s.finalizer
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.finalizeTimeout)
	defer cancel()

	output, err := finalizer.FinalizeGiveaway(ctx, &giveaway.FinalizeGiveawayInput{
		GiveawayID: giveawayID,
		Source:     source,
	})
	if err != nil {
		s.metrics.failures.Inc()
		s.log.Error().Err(err).Int64("giveaway_id", giveawayID).Str("source", string(source)).Msg("failed to finalize giveaway")
		return
	}

	if output != nil && output.Finalized {
		s.log.Debug().Int64("giveaway_id", giveawayID).Str("source", string(source)).Msg("finalize completed")
	}
}

func (s *Service) recoverPanic(giveawayID int64, source string) {
	if r := recover(); r != nil {
		s.metrics.failures.Inc()
		s.log.Error().
			Int64("giveaway_id", giveawayID).
			Str("source", source).
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("recovered panic in scheduler")
	}
}
