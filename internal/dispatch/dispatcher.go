// Package dispatch runs event work on a fixed pool of workers while
// keeping strict FIFO order per key: work for a key that is already
// being processed queues behind it, and distinct keys proceed fully in
// parallel.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrStopped is returned by Submit after Shutdown has begun.
var ErrStopped = errors.New("dispatcher stopped")

// Task is one unit of keyed work.
type Task func(ctx context.Context) error

type item struct {
	key  string
	task Task
	stop bool
}

// Dispatcher is a parallel executor with per-key ordering.
type Dispatcher struct {
	workers int

	feeder  chan *item
	done    chan struct{}
	stopped chan struct{}
	feeds   sync.WaitGroup

	// pending holds, per in-flight key, the tasks queued behind the one
	// currently executing. A key's presence means a worker owns it.
	mu      sync.Mutex
	pending map[string][]*item

	logger *zap.Logger

	added     prometheus.Counter
	processed prometheus.Counter
	failed    prometheus.Counter
	active    prometheus.Gauge
}

// New creates a dispatcher with the given number of workers and starts them.
func New(workers int, ident string, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}

	d := &Dispatcher{
		workers:   workers,
		feeder:    make(chan *item),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		pending:   make(map[string][]*item),
		logger:    logger.Named("dispatch"),
		added:     itemsAdded.WithLabelValues(ident),
		processed: itemsProcessed.WithLabelValues(ident),
		failed:    itemsFailed.WithLabelValues(ident),
		active:    workersActive.WithLabelValues(ident),
	}

	for range workers {
		go d.worker()
	}

	d.active.Set(float64(workers))

	return d
}

// Submit enqueues a task for a key. Tasks for the same key run in
// submission order; tasks for distinct keys run concurrently. Blocks
// only while all workers are busy and no worker owns the key yet.
func (d *Dispatcher) Submit(ctx context.Context, key string, task Task) error {
	it := &item{key: key, task: task}

	d.mu.Lock()
	select {
	case <-d.stopped:
		d.mu.Unlock()
		return ErrStopped
	default:
	}

	if queue, owned := d.pending[key]; owned {
		d.pending[key] = append(queue, it)
		d.mu.Unlock()
		d.added.Inc()
		return nil
	}
	d.pending[key] = nil
	d.mu.Unlock()

	select {
	case d.feeder <- it:
		d.added.Inc()
		return nil
	case <-ctx.Done():
		d.disown(key)
		return ctx.Err()
	case <-d.stopped:
		d.disown(key)
		return ErrStopped
	}
}

// disown releases a key claimed by a Submit whose own item never
// reached the feeder. Items that queued behind the claim in the
// meantime were already accepted, so ownership passes to the first of
// them instead of the queue being dropped.
func (d *Dispatcher) disown(key string) {
	d.mu.Lock()
	queue := d.pending[key]
	if len(queue) == 0 {
		delete(d.pending, key)
		d.mu.Unlock()
		return
	}
	next := queue[0]
	d.pending[key] = queue[1:]
	d.mu.Unlock()

	d.feeds.Add(1)
	go d.feed(next)
}

// feed hands an accepted item to a worker. When shutdown wins the race
// the item is run inline so accepted work is never dropped.
func (d *Dispatcher) feed(it *item) {
	defer d.feeds.Done()

	select {
	case d.feeder <- it:
	case <-d.stopped:
		d.run(it)
	}
}

// Shutdown stops all workers after their current task finishes. Queued
// tasks for keys already owned by a worker are drained first; Submit
// calls arriving after shutdown begins fail with ErrStopped.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down dispatcher")

	close(d.stopped)

	for range d.workers {
		d.feeder <- &item{stop: true}
	}

	for range d.workers {
		<-d.done
	}
	d.feeds.Wait()

	d.active.Set(0)
	d.logger.Info("Dispatcher shutdown complete")
}

func (d *Dispatcher) worker() {
	for it := range d.feeder {
		if it.stop {
			d.done <- struct{}{}
			return
		}

		d.run(it)
	}
}

// run executes an item and everything queued behind its key, releasing
// the key once nothing is waiting.
func (d *Dispatcher) run(it *item) {
	for it != nil {
		if err := it.task(context.Background()); err != nil {
			d.failed.Inc()
			d.logger.Error("Dispatched task failed",
				zap.String("key", it.key),
				zap.Error(err))
		}
		d.processed.Inc()

		d.mu.Lock()
		queue, ok := d.pending[it.key]
		if !ok || len(queue) == 0 {
			delete(d.pending, it.key)
			d.mu.Unlock()
			return
		}
		next := queue[0]
		d.pending[it.key] = queue[1:]
		d.mu.Unlock()
		it = next
	}
}
