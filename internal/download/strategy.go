package download

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrUnknownStrategy is returned by ParseStrategy for names it does not know.
var ErrUnknownStrategy = errors.New("unknown download strategy")

// Strategy selects how the photos of a batch are scheduled.
type Strategy int

const (
	// Sequential downloads one photo at a time, in listing order.
	Sequential Strategy = iota

	// Pool downloads photos on a bounded set of workers.
	Pool

	// Cooperative gives every photo its own goroutine but lets only one of
	// them run outside network and disk calls at any time.
	Cooperative
)

var strategyNames = [...]string{
	Sequential:  "sequential",
	Pool:        "pool",
	Cooperative: "cooperative",
}

// Strategies returns every known strategy in code order.
func Strategies() []Strategy {
	return []Strategy{Sequential, Pool, Cooperative}
}

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// ParseStrategy parses a strategy name ("sequential", "pool", "cooperative")
// or its numeric code ("0", "1", "2"). Matching is case-insensitive.
//
// Example:
//
//	s, _ := ParseStrategy("pool") // Pool
//	s, _ = ParseStrategy("2")     // Cooperative
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range strategyNames {
		if s == name || s == fmt.Sprint(i) {
			return Strategy(i), nil
		}
	}
	return Sequential, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Next returns the strategy after s, wrapping around. The TUI uses it to
// cycle through strategies.
func (s Strategy) Next() Strategy {
	return Strategy((int(s) + 1) % len(strategyNames))
}

// Executor returns the executor implementing s.
//
// workers bounds concurrency for Pool and Cooperative; 0 means
// runtime.NumCPU(). Sequential ignores it.
func (s Strategy) Executor(workers int) (Executor, error) {
	if workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", workers)
	}

	switch s {
	case Sequential:
		return sequentialExecutor{}, nil
	case Pool:
		if workers == 0 {
			workers = runtime.NumCPU()
		}
		return poolExecutor{workers: workers}, nil
	case Cooperative:
		if workers == 0 {
			workers = runtime.NumCPU()
		}
		return cooperativeExecutor{workers: workers}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
}

// NewExecutor is shorthand for strategy.Executor(workers).
func NewExecutor(strategy Strategy, workers int) (Executor, error) {
	return strategy.Executor(workers)
}
