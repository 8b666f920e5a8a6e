package draw

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_drawer.go github.com/KirkDiggler/giveawaybot/internal/draw Drawer

// Drawer picks winners from a set of candidates
type Drawer interface {
	// Draw returns min(count, len(candidates)) distinct candidates
	Draw(candidates []string, count int) ([]string, error)
}

// Config for the winner drawer
type Config struct {
	// Random is the entropy source, crypto/rand.Reader when nil.
	// Tests may pass a fixed reader for deterministic draws.
	Random io.Reader
}

// Selector draws winners without replacement using a cryptographic source
type Selector struct {
	random io.Reader
}

// New creates a new winner selector
func New(cfg *Config) *Selector {
	random := rand.Reader
	if cfg != nil && cfg.Random != nil {
		random = cfg.Random
	}

	return &Selector{
		random: random,
	}
}

// Draw runs a partial Fisher-Yates shuffle over a copy of candidates
func (s *Selector) Draw(candidates []string, count int) ([]string, error) {
	if count < 0 {
		return nil, errors.New("count cannot be negative")
	}

	n := len(candidates)
	if count > n {
		count = n
	}
	if count == 0 {
		return []string{}, nil
	}

	pool := make([]string, n)
	copy(pool, candidates)

	for i := 0; i < count; i++ {
		j, err := s.intn(n - i)
		if err != nil {
			return nil, fmt.Errorf("failed to draw winner: %w", err)
		}
		pool[i], pool[i+j] = pool[i+j], pool[i]
	}

	return pool[:count], nil
}

// intn returns a uniform integer in [0, n)
func (s *Selector) intn(n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	v, err := rand.Int(s.random, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
