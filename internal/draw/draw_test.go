package draw

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DrawTestSuite struct {
	suite.Suite
	selector *Selector
}

func (s *DrawTestSuite) SetupTest() {
	s.selector = New(nil)
}

func TestDrawTestSuite(t *testing.T) {
	suite.Run(t, new(DrawTestSuite))
}

func candidates(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("user-%d", i)
	}
	return out
}

func (s *DrawTestSuite) TestDrawReturnsDistinctCandidates() {
	pool := candidates(10)

	for count := 1; count <= 12; count++ {
		winners, err := s.selector.Draw(pool, count)
		s.Require().NoError(err)

		expected := count
		if expected > len(pool) {
			expected = len(pool)
		}
		s.Len(winners, expected)

		seen := map[string]bool{}
		for _, w := range winners {
			s.Contains(pool, w)
			s.False(seen[w], "duplicate winner %s", w)
			seen[w] = true
		}
	}
}

func (s *DrawTestSuite) TestDrawEmptyCandidates() {
	winners, err := s.selector.Draw(nil, 3)
	s.Require().NoError(err)
	s.Empty(winners)
}

func (s *DrawTestSuite) TestDrawNegativeCount() {
	_, err := s.selector.Draw(candidates(3), -1)
	s.Error(err)
}

func (s *DrawTestSuite) TestDrawDoesNotMutateInput() {
	pool := candidates(5)
	original := append([]string(nil), pool...)

	_, err := s.selector.Draw(pool, 3)
	s.Require().NoError(err)
	s.Equal(original, pool)
}

func (s *DrawTestSuite) TestDrawDeterministicForSameSource() {
	seed := bytes.Repeat([]byte{0x5a, 0x13, 0xc7, 0x02, 0x99, 0xe1, 0x40, 0x3b}, 64)

	first, err := New(&Config{Random: bytes.NewReader(seed)}).Draw(candidates(20), 5)
	s.Require().NoError(err)
	second, err := New(&Config{Random: bytes.NewReader(seed)}).Draw(candidates(20), 5)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *DrawTestSuite) TestDrawSourceFailure() {
	_, err := New(&Config{Random: bytes.NewReader(nil)}).Draw(candidates(4), 2)
	s.ErrorIs(err, io.EOF)
}

func (s *DrawTestSuite) TestDrawIsRoughlyUniform() {
	pool := candidates(4)
	counts := map[string]int{}

	const trials = 4000
	for i := 0; i < trials; i++ {
		winners, err := s.selector.Draw(pool, 1)
		s.Require().NoError(err)
		counts[winners[0]]++
	}

	// each candidate expects 1000 picks; the bounds are many sigma wide
	for _, c := range pool {
		s.Greater(counts[c], 800, c)
		s.Less(counts[c], 1200, c)
	}
}
