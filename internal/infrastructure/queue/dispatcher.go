package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans domain events out to a set of sinks on a fixed pool of
// workers. Events are sharded by aggregate id, so all events of one
// aggregate are handled by the same worker in publish order.
type Dispatcher struct {
	workers []chan domain.Event
	sinks   []ports.EventSink
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sinks []ports.EventSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Event, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. ctx is passed to every sink call.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands e to the worker owning its aggregate. It never blocks: when
// the worker's buffer is full, or the dispatcher is stopped, the event is
// dropped and logged.
func (d *Dispatcher) Publish(_ context.Context, e domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("event_type", string(e.Type)).Msg("dispatcher stopped, event dropped")
		return
	}
	select {
	case d.workers[d.shardIndex(e.AggregateID)] <- e:
	default:
		d.log.Warn().
			Str("event_type", string(e.Type)).
			Str("aggregate_id", e.AggregateID).
			Msg("event buffer full, event dropped")
	}
}

// Stop refuses new events and waits for the workers to drain what is
// already queued, or for ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an aggregate id deterministically to a worker index.
func (d *Dispatcher) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	defer d.wg.Done()
	for event := range ch {
		for _, sink := range d.sinks {
			if err := sink.Handle(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("sink", sink.Name()).
					Str("event_type", string(event.Type)).
					Str("aggregate_id", event.AggregateID).
					Int("worker_id", id).
					Msg("event delivery failed")
			}
		}
	}
}
