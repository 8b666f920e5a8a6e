package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FakeClockTestSuite struct {
	suite.Suite
	start time.Time
	clock *Fake
}

func (s *FakeClockTestSuite) SetupTest() {
	s.start = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.clock = NewFake(s.start)
}

func TestFakeClockTestSuite(t *testing.T) {
	suite.Run(t, new(FakeClockTestSuite))
}

func (s *FakeClockTestSuite) TestAdvanceFiresDueTimersInOrder() {
	var fired []string
	s.clock.AfterFunc(2*time.Minute, func() { fired = append(fired, "second") })
	s.clock.AfterFunc(time.Minute, func() { fired = append(fired, "first") })
	s.clock.AfterFunc(time.Hour, func() { fired = append(fired, "later") })

	s.clock.Advance(5 * time.Minute)

	s.Equal([]string{"first", "second"}, fired)
	s.Equal(s.start.Add(5*time.Minute), s.clock.Now())
	s.Equal(1, s.clock.Waiting())
}

func (s *FakeClockTestSuite) TestStopPreventsFiring() {
	fired := false
	timer := s.clock.AfterFunc(time.Second, func() { fired = true })

	s.True(timer.Stop())
	s.False(timer.Stop())

	s.clock.Advance(time.Minute)
	s.False(fired)
	s.Equal(0, s.clock.Waiting())
}

func (s *FakeClockTestSuite) TestStopAfterFireReportsFalse() {
	timer := s.clock.AfterFunc(0, func() {})
	s.clock.Advance(0)
	s.False(timer.Stop())
}
