// Package notify delivers best-effort order notifications. Delivery is
// fully decoupled from the order-creation path: the service submits the
// order to an in-process queue and a background worker attempts each
// configured transport, logging and discarding every failure.
package notify

import (
	"context"
	"sync"
	"time"

	"sazo-orders/internal/model"

	"github.com/rs/zerolog"
)

// Transport attempts one delivery of an order notification.
type Transport interface {
	// Name identifies the transport in logs.
	Name() string

	// Send attempts delivery. Errors are logged by the dispatcher and
	// never reach the order-creation caller.
	Send(ctx context.Context, order *model.Order) error
}

// sendTimeout bounds a single transport attempt so a hung provider can
// never back up the queue indefinitely.
const sendTimeout = 30 * time.Second

// Dispatcher fans submitted orders out to the configured transports from
// a single background worker.
type Dispatcher struct {
	transports []Transport
	queue      chan *model.Order
	logger     zerolog.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher creates and starts a dispatcher. With zero transports
// Submit is accepted and silently dropped, which is how the engine
// behaves when no notification credentials are configured.
func NewDispatcher(transports []Transport, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		transports: transports,
		queue:      make(chan *model.Order, 64),
		logger:     logger.With().Str("component", "notify").Logger(),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Submit queues an order notification without blocking. If the queue is
// full the notification is dropped with a warning; order creation has
// already succeeded by the time Submit is called.
func (d *Dispatcher) Submit(order *model.Order) {
	select {
	case d.queue <- order:
	default:
		d.logger.Warn().
			Str("order_id", order.OrderID).
			Msg("notification queue full, dropping notification")
	}
}

// Close stops accepting submissions, drains the queue, and waits for the
// worker to finish in-flight deliveries.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for order := range d.queue {
		d.dispatch(order)
	}
}

func (d *Dispatcher) dispatch(order *model.Order) {
	for _, t := range d.transports {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := t.Send(ctx, order)
		cancel()

		if err != nil {
			d.logger.Warn().
				Err(err).
				Str("transport", t.Name()).
				Str("order_id", order.OrderID).
				Msg("notification delivery failed")
			continue
		}

		d.logger.Debug().
			Str("transport", t.Name()).
			Str("order_id", order.OrderID).
			Msg("notification delivered")
	}
}
