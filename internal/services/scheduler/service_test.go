package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/KirkDiggler/giveawaybot/internal/repositories/database"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	giveawayMocks "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway/mocks"
	"github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
	"github.com/KirkDiggler/giveawaybot/internal/services/scheduler/mocks"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type SchedulerTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockFinalizer *mocks.MockFinalizer
	db            *gorm.DB
	repo          giveawayRepo.Repository
	clock         *clock.Fake
	registry      *prometheus.Registry
	scheduler     *Service
	ctx           context.Context
	testTime      time.Time
}

func (s *SchedulerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockFinalizer = mocks.NewMockFinalizer(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.clock = clock.NewFake(s.testTime)
	s.registry = prometheus.NewRegistry()

	db, err := database.OpenMemory()
	s.Require().NoError(err)
	s.db = db

	repo, err := giveawayRepo.NewGorm(&giveawayRepo.GormConfig{DB: db})
	s.Require().NoError(err)
	s.repo = repo

	svc, err := New(&Config{
		GiveawayRepo:  s.repo,
		Clock:         s.clock,
		SweepInterval: time.Hour,
		Registerer:    s.registry,
	})
	s.Require().NoError(err)
	s.scheduler = svc
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.scheduler.Stop()
	database.Close(s.db)
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

// store persists an active giveaway created an hour ago that ends after endsIn
func (s *SchedulerTestSuite) store(endsIn time.Duration) *models.Giveaway {
	created, err := s.repo.CreateGiveaway(s.ctx, &giveawayRepo.CreateGiveawayInput{
		Giveaway: &models.Giveaway{
			GuildID:      "guild-1",
			ChannelID:    "channel-1",
			Title:        "Weekly drop",
			Prize:        "Nitro",
			WinnersCount: 1,
			CreatedAt:    s.testTime.Add(-time.Hour),
			EndsAt:       s.testTime.Add(endsIn),
			CreatorID:    "creator-1",
			Active:       true,
		},
	})
	s.Require().NoError(err)
	return created
}

func (s *SchedulerTestSuite) expectFinalize(id int64, source giveaway.FinalizeSource) *gomock.Call {
	return s.mockFinalizer.EXPECT().
		FinalizeGiveaway(gomock.Any(), &giveaway.FinalizeGiveawayInput{GiveawayID: id, Source: source}).
		Return(&giveaway.FinalizeGiveawayOutput{Finalized: true}, nil)
}

func (s *SchedulerTestSuite) counter(name string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range family.GetMetric() {
			if metric.GetCounter() != nil {
				total += metric.GetCounter().GetValue()
			}
		}
		return total
	}
	return 0
}

func (s *SchedulerTestSuite) pendingGauge() float64 {
	metric := &dto.Metric{}
	s.Require().NoError(s.scheduler.metrics.pending.Write(metric))
	return metric.GetGauge().GetValue()
}

func (s *SchedulerTestSuite) TestNew() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{Clock: s.clock})
	s.ErrorIs(err, ErrNilGiveawayRepo)

	_, err = New(&Config{GiveawayRepo: s.repo})
	s.ErrorIs(err, ErrNilClock)

	svc, err := New(&Config{GiveawayRepo: s.repo, Clock: s.clock})
	s.Require().NoError(err)
	s.Equal(DefaultSweepInterval, svc.sweepInterval)
	s.Equal(DefaultFinalizeTimeout, svc.finalizeTimeout)
}

func (s *SchedulerTestSuite) TestStartValidation() {
	s.ErrorIs(s.scheduler.Start(s.ctx, nil), ErrNilFinalizer)

	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))
	s.ErrorIs(s.scheduler.Start(s.ctx, s.mockFinalizer), ErrAlreadyStarted)
}

func (s *SchedulerTestSuite) TestStartRehydratesAndSweepsOverdue() {
	first := s.store(time.Hour)
	second := s.store(2 * time.Hour)
	overdue := s.store(-time.Minute)

	s.expectFinalize(overdue.ID, giveaway.FinalizeSourceSweep)

	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	s.Equal([]int64{first.ID, second.ID}, s.scheduler.Pending())
	s.Equal(float64(2), s.pendingGauge())
	s.Equal(float64(1), s.counter("giveaway_scheduler_sweeps_total"))
}

func (s *SchedulerTestSuite) TestTimerFiresAtExpiry() {
	g := s.store(time.Hour)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	s.clock.Advance(59 * time.Minute)
	s.Equal([]int64{g.ID}, s.scheduler.Pending())

	s.expectFinalize(g.ID, giveaway.FinalizeSourceTimer)
	s.clock.Advance(time.Minute)

	s.Empty(s.scheduler.Pending())
	s.Equal(float64(1), s.counter("giveaway_scheduler_fires_total"))
	s.Equal(float64(0), s.pendingGauge())
}

func (s *SchedulerTestSuite) TestCancel() {
	g := s.store(time.Hour)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	s.True(s.scheduler.Cancel(g.ID))
	s.False(s.scheduler.Cancel(g.ID))
	s.False(s.scheduler.Cancel(999))

	// no finalize is expected once the timer is cancelled
	s.clock.Advance(2 * time.Hour)
	s.Empty(s.scheduler.Pending())
}

func (s *SchedulerTestSuite) TestScheduleReplacesExistingTimer() {
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))
	g := s.store(time.Hour)

	s.scheduler.Schedule(g, time.Minute)
	s.scheduler.Schedule(g, 10*time.Minute)
	s.Equal([]int64{g.ID}, s.scheduler.Pending())

	s.clock.Advance(5 * time.Minute)
	s.Equal([]int64{g.ID}, s.scheduler.Pending())

	s.expectFinalize(g.ID, giveaway.FinalizeSourceTimer).Times(1)
	s.clock.Advance(5 * time.Minute)
	s.Empty(s.scheduler.Pending())
}

func (s *SchedulerTestSuite) TestScheduleBeforeStartIsIgnored() {
	g := s.store(time.Hour)

	s.scheduler.Schedule(g, time.Minute)
	s.Empty(s.scheduler.Pending())
	s.Equal(0, s.clock.Waiting())
}

func (s *SchedulerTestSuite) TestScheduleNegativeDelayFiresOnNextTick() {
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))
	g := s.store(time.Hour)

	s.scheduler.Schedule(g, -time.Minute)

	s.expectFinalize(g.ID, giveaway.FinalizeSourceTimer)
	s.clock.Advance(0)
	s.Empty(s.scheduler.Pending())
}

func (s *SchedulerTestSuite) TestSweepRearmsMissingTimers() {
	g := s.store(time.Hour)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))
	s.True(s.scheduler.Cancel(g.ID))

	s.Require().NoError(s.scheduler.Sweep(s.ctx))
	s.Equal([]int64{g.ID}, s.scheduler.Pending())

	s.expectFinalize(g.ID, giveaway.FinalizeSourceTimer)
	s.clock.Advance(time.Hour)
}

func (s *SchedulerTestSuite) TestSweepFinalizesOverdueAndDropsStaleTimer() {
	g := s.store(time.Hour)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	// the clock jumps past expiry without the timer running
	s.clock.Set(s.testTime.Add(2 * time.Hour))

	s.expectFinalize(g.ID, giveaway.FinalizeSourceSweep)
	s.Require().NoError(s.scheduler.Sweep(s.ctx))
	s.Empty(s.scheduler.Pending())

	// the stale timer never reaches the finalizer
	s.clock.Advance(time.Minute)
}

func (s *SchedulerTestSuite) TestSweepContinuesAfterFailures() {
	first := s.store(-2 * time.Minute)
	second := s.store(-time.Minute)
	third := s.store(-time.Second)

	gomock.InOrder(
		s.mockFinalizer.EXPECT().
			FinalizeGiveaway(gomock.Any(), &giveaway.FinalizeGiveawayInput{GiveawayID: first.ID, Source: giveaway.FinalizeSourceSweep}).
			Return(nil, errors.New("store unavailable")),
		s.mockFinalizer.EXPECT().
			FinalizeGiveaway(gomock.Any(), &giveaway.FinalizeGiveawayInput{GiveawayID: second.ID, Source: giveaway.FinalizeSourceSweep}).
			DoAndReturn(func(context.Context, *giveaway.FinalizeGiveawayInput) (*giveaway.FinalizeGiveawayOutput, error) {
				panic("announcer exploded")
			}),
		s.expectFinalize(third.ID, giveaway.FinalizeSourceSweep),
	)

	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	s.Equal(float64(2), s.counter("giveaway_scheduler_failures_total"))
	s.Equal(float64(1), s.counter("giveaway_scheduler_sweeps_total"))
}

func (s *SchedulerTestSuite) TestTimerPanicIsRecovered() {
	first := s.store(time.Minute)
	second := s.store(2 * time.Minute)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	s.mockFinalizer.EXPECT().
		FinalizeGiveaway(gomock.Any(), &giveaway.FinalizeGiveawayInput{GiveawayID: first.ID, Source: giveaway.FinalizeSourceTimer}).
		DoAndReturn(func(context.Context, *giveaway.FinalizeGiveawayInput) (*giveaway.FinalizeGiveawayOutput, error) {
			panic("boom")
		})
	s.clock.Advance(time.Minute)
	s.Equal([]int64{second.ID}, s.scheduler.Pending())

	s.expectFinalize(second.ID, giveaway.FinalizeSourceTimer)
	s.clock.Advance(time.Minute)
	s.Equal(float64(1), s.counter("giveaway_scheduler_failures_total"))
}

func (s *SchedulerTestSuite) TestFinalizeDeadline() {
	g := s.store(time.Minute)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))

	s.mockFinalizer.EXPECT().
		FinalizeGiveaway(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *giveaway.FinalizeGiveawayInput) (*giveaway.FinalizeGiveawayOutput, error) {
			s.Equal(g.ID, input.GiveawayID)
			deadline, ok := ctx.Deadline()
			s.True(ok)
			s.WithinDuration(time.Now().Add(DefaultFinalizeTimeout), deadline, 5*time.Second)
			return &giveaway.FinalizeGiveawayOutput{Finalized: true}, nil
		})
	s.clock.Advance(time.Minute)
}

func (s *SchedulerTestSuite) TestStopDisarmsTimers() {
	s.store(time.Minute)
	s.store(time.Hour)
	s.Require().NoError(s.scheduler.Start(s.ctx, s.mockFinalizer))
	s.Len(s.scheduler.Pending(), 2)

	s.scheduler.Stop()
	s.scheduler.Stop()

	s.Empty(s.scheduler.Pending())
	s.Equal(0, s.clock.Waiting())
	s.clock.Advance(2 * time.Hour)
}

func TestSchedulerStopsWithoutLeaks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctrl := gomock.NewController(t)
	repo := giveawayMocks.NewMockRepository(ctrl)
	finalizer := mocks.NewMockFinalizer(ctrl)

	g := &models.Giveaway{
		ID:           7,
		WinnersCount: 1,
		CreatedAt:    time.Now().Add(-time.Hour),
		EndsAt:       time.Now().Add(100 * time.Millisecond),
		Active:       true,
	}
	repo.EXPECT().ListGiveaways(gomock.Any(), gomock.Any()).Return([]*models.Giveaway{g}, nil).Times(2)

	fired := make(chan struct{})
	finalizer.EXPECT().
		FinalizeGiveaway(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *giveaway.FinalizeGiveawayInput) (*giveaway.FinalizeGiveawayOutput, error) {
			close(fired)
			return &giveaway.FinalizeGiveawayOutput{Finalized: true}, nil
		})

	svc, err := New(&Config{
		GiveawayRepo:  repo,
		Clock:         &clock.DefaultClock{},
		SweepInterval: time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background(), finalizer))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timer never fired")
	}

	svc.Stop()
	require.Empty(t, svc.Pending())
}

func TestSchedulerSkipsOverlappingSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := giveawayMocks.NewMockRepository(ctrl)
	finalizer := mocks.NewMockFinalizer(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		// rehydrate and the first sweep
		repo.EXPECT().ListGiveaways(gomock.Any(), gomock.Any()).Return([]*models.Giveaway{}, nil).Times(2),
		repo.EXPECT().ListGiveaways(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, *giveawayRepo.ListGiveawaysInput) ([]*models.Giveaway, error) {
				close(entered)
				<-release
				return []*models.Giveaway{}, nil
			}),
	)

	svc, err := New(&Config{
		GiveawayRepo:  repo,
		Clock:         clock.NewFake(time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)),
		SweepInterval: time.Hour,
		Registerer:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background(), finalizer))
	defer svc.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.sweepJob.Run()
	}()
	<-entered

	// the slow sweep still holds the job, so this run must not list again
	svc.sweepJob.Run()

	close(release)
	<-done
}
