// Package orderid allocates the short customer-facing order references.
package orderid

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"sazo-orders/internal/model"

	"github.com/rs/zerolog"
)

// Candidate range: 5 to 7 decimal digits.
const (
	minID = 10_000
	maxID = 9_999_999
)

// maxAttempts bounds the collision-retry loop. With the id space at
// realistic occupancy the loop terminates on the first draw; the cap
// exists so exhaustion surfaces as a defined error instead of a hang.
const maxAttempts = 64

// ExistsFunc reports whether an order id is already taken.
type ExistsFunc func(ctx context.Context, orderID string) (bool, error)

// Allocator draws candidate order ids and probes the store for
// collisions. The probe is a latency optimisation only: the storage
// layer's uniqueness constraint remains the source of truth, and callers
// must re-allocate if a concurrent insert wins the race.
type Allocator struct {
	exists ExistsFunc
	logger zerolog.Logger
}

// New creates an allocator backed by the given existence probe.
func New(exists ExistsFunc, logger zerolog.Logger) *Allocator {
	return &Allocator{
		exists: exists,
		logger: logger.With().Str("component", "orderid").Logger(),
	}
}

// Allocate returns an order id that was free at probe time. It returns
// model.ErrOrderIDExhausted if every attempt collided.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := strconv.Itoa(minID + rand.IntN(maxID-minID+1))

		taken, err := a.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe order id %s: %w", candidate, err)
		}
		if !taken {
			if attempt > 1 {
				a.logger.Debug().
					Int("attempts", attempt).
					Str("order_id", candidate).
					Msg("order id allocated after collisions")
			}
			return candidate, nil
		}

		a.logger.Warn().
			Str("order_id", candidate).
			Int("attempt", attempt).
			Msg("order id collision, retrying")
	}

	a.logger.Error().Int("attempts", maxAttempts).Msg("order id space exhausted")
	return "", model.ErrOrderIDExhausted
}
