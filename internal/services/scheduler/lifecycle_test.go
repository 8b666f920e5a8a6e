package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/common/uuid"
	"github.com/KirkDiggler/giveawaybot/internal/draw"
	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/KirkDiggler/giveawaybot/internal/repositories/database"
	entryRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/entry"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	winnerRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/winner"
	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// recordingAnnouncer captures everything the service publishes
type recordingAnnouncer struct {
	mu        sync.Mutex
	posted    []int64
	disabled  []int64
	results   map[int64][][]string
	noWinners []int64
}

func newRecordingAnnouncer() *recordingAnnouncer {
	return &recordingAnnouncer{results: make(map[int64][][]string)}
}

func (a *recordingAnnouncer) Post(_ context.Context, g *models.Giveaway) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posted = append(a.posted, g.ID)
	return fmt.Sprintf("message-%d", g.ID), nil
}

func (a *recordingAnnouncer) DisableEntry(_ context.Context, g *models.Giveaway, _ int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disabled = append(a.disabled, g.ID)
	return nil
}

func (a *recordingAnnouncer) PublishResults(_ context.Context, g *models.Giveaway, winnerIDs []string, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results[g.ID] = append(a.results[g.ID], winnerIDs)
	return nil
}

func (a *recordingAnnouncer) PublishNoWinners(_ context.Context, g *models.Giveaway) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.noWinners = append(a.noWinners, g.ID)
	return nil
}

// outcomes counts result and no-winner publications for a giveaway
func (a *recordingAnnouncer) outcomes(giveawayID int64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.results[giveawayID])
	for _, id := range a.noWinners {
		if id == giveawayID {
			n++
		}
	}
	return n
}

func (a *recordingAnnouncer) postCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.posted)
}

// stack is one running process: a service wired to its own scheduler
type stack struct {
	service   giveaway.Service
	scheduler *Service
}

type LifecycleTestSuite struct {
	suite.Suite
	db           *gorm.DB
	giveawayRepo giveawayRepo.Repository
	entryRepo    entryRepo.Repository
	winnerRepo   winnerRepo.Repository
	clock        *clock.Fake
	announcer    *recordingAnnouncer
	stacks       []*stack
	ctx          context.Context
	testTime     time.Time
}

func (s *LifecycleTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.clock = clock.NewFake(s.testTime)
	s.announcer = newRecordingAnnouncer()
	s.stacks = nil

	db, err := database.OpenMemory()
	s.Require().NoError(err)
	s.db = db

	s.giveawayRepo, err = giveawayRepo.NewGorm(&giveawayRepo.GormConfig{DB: db})
	s.Require().NoError(err)
	s.entryRepo, err = entryRepo.NewGorm(&entryRepo.GormConfig{DB: db})
	s.Require().NoError(err)
	s.winnerRepo, err = winnerRepo.NewGorm(&winnerRepo.GormConfig{DB: db})
	s.Require().NoError(err)
}

func (s *LifecycleTestSuite) TearDownTest() {
	for _, st := range s.stacks {
		st.scheduler.Stop()
	}
	database.Close(s.db)
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

// boot starts a new process against the shared store
func (s *LifecycleTestSuite) boot() *stack {
	sched, err := New(&Config{
		GiveawayRepo:  s.giveawayRepo,
		Clock:         s.clock,
		SweepInterval: time.Hour,
	})
	s.Require().NoError(err)

	svc, err := giveaway.New(&giveaway.Config{
		GiveawayRepo: s.giveawayRepo,
		EntryRepo:    s.entryRepo,
		WinnerRepo:   s.winnerRepo,
		Drawer:       draw.New(nil),
		Announcer:    s.announcer,
		Scheduler:    sched,
		Clock:        s.clock,
		UUID:         uuid.New(),
	})
	s.Require().NoError(err)

	s.Require().NoError(sched.Start(s.ctx, svc))

	st := &stack{service: svc, scheduler: sched}
	s.stacks = append(s.stacks, st)
	return st
}

func (s *LifecycleTestSuite) create(st *stack, duration string, winners int, recurring bool) *models.Giveaway {
	out, err := st.service.CreateGiveaway(s.ctx, &giveaway.CreateGiveawayInput{
		GuildID:      "guild-1",
		ChannelID:    "channel-1",
		CreatorID:    "creator-1",
		Title:        "Weekly drop",
		Prize:        "Nitro",
		WinnersCount: winners,
		Duration:     duration,
		Recurring:    recurring,
	})
	s.Require().NoError(err)
	s.False(out.AnnounceFailed)
	return out.Giveaway
}

func (s *LifecycleTestSuite) toggle(st *stack, giveawayID int64, userID string) models.EntryAction {
	out, err := st.service.ToggleEntry(s.ctx, &giveaway.ToggleEntryInput{
		GiveawayID: giveawayID,
		UserID:     userID,
	})
	s.Require().NoError(err)
	return out.Action
}

func (s *LifecycleTestSuite) get(st *stack, giveawayID int64) *giveaway.GetGiveawayOutput {
	out, err := st.service.GetGiveaway(s.ctx, &giveaway.GetGiveawayInput{GiveawayID: giveawayID})
	s.Require().NoError(err)
	return out
}

func (s *LifecycleTestSuite) TestExpiryDrawsFromCurrentEntries() {
	st := s.boot()
	g := s.create(st, "1h", 5, false)
	s.Equal([]int64{g.ID}, st.scheduler.Pending())

	s.Equal(models.EntryActionJoined, s.toggle(st, g.ID, "user-a"))
	s.Equal(models.EntryActionJoined, s.toggle(st, g.ID, "user-b"))
	s.Equal(models.EntryActionJoined, s.toggle(st, g.ID, "user-c"))
	s.Equal(models.EntryActionLeft, s.toggle(st, g.ID, "user-b"))

	s.clock.Advance(time.Hour)

	out := s.get(st, g.ID)
	s.False(out.Giveaway.Active)
	s.Equal(2, out.EntryCount)
	s.Len(out.Winners, 2)

	s.Require().Equal(1, s.announcer.outcomes(g.ID))
	s.ElementsMatch([]string{"user-a", "user-c"}, s.announcer.results[g.ID][0])
	s.Equal([]int64{g.ID}, s.announcer.disabled)
	s.Empty(st.scheduler.Pending())

	_, err := st.service.ToggleEntry(s.ctx, &giveaway.ToggleEntryInput{GiveawayID: g.ID, UserID: "user-d"})
	s.ErrorIs(err, giveaway.ErrGiveawayClosed)
}

func (s *LifecycleTestSuite) TestExpiryWithoutEntries() {
	st := s.boot()
	g := s.create(st, "30m", 1, false)

	s.clock.Advance(30 * time.Minute)

	s.Equal(1, s.announcer.outcomes(g.ID))
	s.Equal([]int64{g.ID}, s.announcer.noWinners)
	s.Empty(s.get(st, g.ID).Winners)
}

func (s *LifecycleTestSuite) TestStopRacingExpiryFinalizesOnce() {
	for round := 0; round < 10; round++ {
		st := s.boot()
		g := s.create(st, "1m", 1, false)
		s.toggle(st, g.ID, "user-a")
		s.toggle(st, g.ID, "user-b")

		// the timer is due but has not run yet
		s.clock.Set(s.clock.Now().Add(time.Minute))

		var wg sync.WaitGroup
		var stopErr error
		var finalizeOut *giveaway.FinalizeGiveawayOutput
		var finalizeErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, stopErr = st.service.StopGiveaway(s.ctx, &giveaway.StopGiveawayInput{
				GiveawayID: g.ID,
				GuildID:    "guild-1",
				UserID:     "creator-1",
				Announce:   true,
			})
		}()
		go func() {
			defer wg.Done()
			finalizeOut, finalizeErr = st.service.FinalizeGiveaway(s.ctx, &giveaway.FinalizeGiveawayInput{
				GiveawayID: g.ID,
				Source:     giveaway.FinalizeSourceTimer,
			})
		}()
		wg.Wait()

		s.Require().NoError(finalizeErr)
		if stopErr == nil {
			s.False(finalizeOut.Finalized)
		} else {
			s.ErrorIs(stopErr, giveaway.ErrGiveawayClosed)
			s.True(finalizeOut.Finalized)
		}

		// a late timer is a no-op too
		s.clock.Advance(0)

		s.Equal(1, s.announcer.outcomes(g.ID), "round %d", round)
		s.Len(s.get(st, g.ID).Winners, 1)
	}
}

func (s *LifecycleTestSuite) TestStopBeforeExpiryDisarmsTimer() {
	st := s.boot()
	g := s.create(st, "1h", 1, true)
	s.toggle(st, g.ID, "user-a")

	out, err := st.service.StopGiveaway(s.ctx, &giveaway.StopGiveawayInput{
		GiveawayID: g.ID,
		GuildID:    "guild-1",
		UserID:     "creator-1",
		Announce:   true,
	})
	s.Require().NoError(err)
	s.Equal([]string{"user-a"}, out.WinnerIDs)
	s.Empty(st.scheduler.Pending())

	s.clock.Advance(2 * time.Hour)

	// stopped giveaways do not recur
	s.Equal(1, s.announcer.postCount())
	s.Equal(1, s.announcer.outcomes(g.ID))
}

func (s *LifecycleTestSuite) TestRecurringGiveawayKeepsItsDuration() {
	st := s.boot()
	first := s.create(st, "2h", 1, true)

	s.clock.Advance(2 * time.Hour)

	active := true
	list, err := st.service.ListGiveaways(s.ctx, &giveaway.ListGiveawaysInput{Active: &active})
	s.Require().NoError(err)
	s.Require().Len(list.Giveaways, 1)
	second := list.Giveaways[0]
	s.NotEqual(first.ID, second.ID)
	s.Equal(2*time.Hour, second.Duration())
	s.Equal(s.testTime.Add(2*time.Hour), second.CreatedAt)
	s.Equal("message-"+fmt.Sprint(second.ID), second.MessageID)
	s.Equal([]int64{second.ID}, st.scheduler.Pending())

	s.clock.Advance(2 * time.Hour)

	list, err = st.service.ListGiveaways(s.ctx, &giveaway.ListGiveawaysInput{Active: &active})
	s.Require().NoError(err)
	s.Require().Len(list.Giveaways, 1)
	third := list.Giveaways[0]
	s.Equal(2*time.Hour, third.Duration())
	s.Equal(s.testTime.Add(4*time.Hour), third.CreatedAt)

	s.Equal(3, s.announcer.postCount())
	s.Equal(1, s.announcer.outcomes(first.ID))
	s.Equal(1, s.announcer.outcomes(second.ID))
}

func (s *LifecycleTestSuite) TestRestartFinalizesOverdueOnce() {
	crashed := s.boot()
	g := s.create(crashed, "10m", 1, false)
	s.toggle(crashed, g.ID, "user-a")

	// the process was down while the giveaway expired
	s.clock.Set(s.testTime.Add(time.Hour))

	restarted := s.boot()
	s.Equal(1, s.announcer.outcomes(g.ID))
	s.Empty(restarted.scheduler.Pending())

	// the old process's timer still fires and loses the gate
	s.clock.Advance(0)

	s.Equal(1, s.announcer.outcomes(g.ID))
	s.Len(s.get(restarted, g.ID).Winners, 1)
}

func (s *LifecycleTestSuite) TestRestartReschedulesRunningGiveaways() {
	first := s.boot()
	g := s.create(first, "1h", 1, false)
	first.scheduler.Stop()

	restarted := s.boot()
	s.Equal([]int64{g.ID}, restarted.scheduler.Pending())

	s.clock.Advance(time.Hour)
	s.Equal(1, s.announcer.outcomes(g.ID))
}

func (s *LifecycleTestSuite) TestDeleteDisarmsTimer() {
	st := s.boot()
	g := s.create(st, "1h", 1, false)
	s.toggle(st, g.ID, "user-a")

	_, err := st.service.DeleteGiveaway(s.ctx, &giveaway.DeleteGiveawayInput{
		GiveawayID:      g.ID,
		GuildID:         "guild-1",
		IsAdministrator: true,
	})
	s.Require().NoError(err)
	s.Empty(st.scheduler.Pending())

	s.clock.Advance(time.Hour)
	s.Equal(0, s.announcer.outcomes(g.ID))

	_, err = st.service.GetGiveaway(s.ctx, &giveaway.GetGiveawayInput{GiveawayID: g.ID})
	s.True(errors.Is(err, giveaway.ErrGiveawayNotFound))
}

func (s *LifecycleTestSuite) TestRerollAfterExpiry() {
	st := s.boot()
	g := s.create(st, "1h", 1, false)
	s.toggle(st, g.ID, "user-a")
	s.toggle(st, g.ID, "user-b")

	s.clock.Advance(time.Hour)

	out, err := st.service.RerollGiveaway(s.ctx, &giveaway.RerollGiveawayInput{
		GiveawayID: g.ID,
		GuildID:    "guild-1",
		UserID:     "creator-1",
	})
	s.Require().NoError(err)
	s.Len(out.WinnerIDs, 1)
	s.Subset([]string{"user-a", "user-b"}, out.WinnerIDs)

	winners := s.get(st, g.ID).Winners
	s.Require().Len(winners, 1)
	s.Equal(out.WinnerIDs[0], winners[0].UserID)
}
