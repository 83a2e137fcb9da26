package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
	"github.com/thynkpro/portal/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// Dispatcher records session events off the request path. Events are
// sharded by email so one principal's trail stays in order.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	repo    ports.EventRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.SessionEventSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers. A nil
// repo writes the trail to the log only. If numWorkers <= 0,
// defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.EventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SessionEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queues and exit once ctx is
// cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues event without blocking. A full queue drops the event.
func (d *Dispatcher) Record(event domain.SessionEvent) {
	metrics.SessionEventsTotal.WithLabelValues(string(event.Kind)).Inc()
	switch event.Kind {
	case domain.EventLoginSucceeded, domain.EventRestored:
		metrics.SessionAuthenticated.Set(1)
	case domain.EventLogout, domain.EventRestoreDiscarded:
		metrics.SessionAuthenticated.Set(0)
	}

	select {
	case d.workers[d.shardIndex(event.Email)] <- event:
	default:
		metrics.SessionEventsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(event.Kind)).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(domain.NormalizeEmail(email)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.write(ctx, id, event)
		}
	}
}

// drain flushes whatever is queued at shutdown with a fresh context.
func (d *Dispatcher) drain(id int, ch <-chan domain.SessionEvent) {
	for {
		select {
		case event := <-ch:
			d.write(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.SessionEvent) {
	d.log.Info().
		Str("kind", string(event.Kind)).
		Str("email", event.Email).
		Str("role", string(event.Role)).
		Str("reason", event.Reason).
		Time("at", event.Timestamp).
		Msg("session event")

	if d.repo == nil {
		return
	}
	if err := d.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("audit write failed")
	}
}
