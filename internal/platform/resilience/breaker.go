package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("breaker open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenProbes   int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenProbes:   2,
	}
}

func (c BreakerConfig) normalized() BreakerConfig {
	defaults := DefaultBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = defaults.HalfOpenProbes
	}
	return c
}

// Breaker guards an outbound dependency. It opens after a run of consecutive
// failures, rejects calls while open, and closes again once the configured
// number of half-open probes succeed.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	openedAt    time.Time
	probeBudget int
	probePassed int
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	cfg = cfg.normalized()
	return &Breaker{
		cfg:   cfg,
		now:   time.Now,
		state: BreakerClosed,
	}
}

// Do runs fn under the breaker. While the breaker is open it returns
// ErrBreakerOpen without invoking fn. A disabled breaker is a passthrough.
func (b *Breaker) Do(fn func() error) error {
	if b == nil || !b.cfg.Enabled {
		return fn()
	}

	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	b.record(err == nil)
	return err
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	switch b.state {
	case BreakerOpen:
		return ErrBreakerOpen
	case BreakerHalfOpen:
		if b.probeBudget <= 0 {
			return ErrBreakerOpen
		}
		b.probeBudget--
		return nil
	default:
		return nil
	}
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case BreakerHalfOpen:
		if !success {
			b.trip()
			return
		}
		b.probePassed++
		if b.probePassed >= b.cfg.HalfOpenProbes {
			b.state = BreakerClosed
			b.failures = 0
		}
	case BreakerOpen:
		// Late result from a call admitted before the trip; ignore.
	}
}

// refresh moves an expired open breaker into half-open. Callers hold b.mu.
func (b *Breaker) refresh() {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.state = BreakerHalfOpen
		b.probeBudget = b.cfg.HalfOpenProbes
		b.probePassed = 0
	}
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.failures = 0
	b.probeBudget = 0
	b.probePassed = 0
}
