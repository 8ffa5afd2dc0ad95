package queue

import (
	"cocina/domain"
	"context"
	"sync"
	"sync/atomic"
)

// minuteScale keeps the running total as hundredths of a minute so that
// concurrent add/sub of fractional durations stays a single int64 atomic.
const minuteScale = 100

// WorkQueue is one chef's FIFO of assigned items plus the running total of
// estimated effort. Enqueue and dequeue are individually atomic; the total
// and the item list are not snapshotted together, so readers of both must
// tolerate slight skew.
type WorkQueue struct {
	mu     sync.Mutex
	items  []*domain.OrderItem
	signal chan struct{}

	totalHundredths int64
}

func New() *WorkQueue {
	return &WorkQueue{signal: make(chan struct{}, 1)}
}

func toFixed(minutes float64) int64 {
	return int64(minutes * minuteScale)
}

// Add enqueues the item and grows the total by duration x quantity.
func (q *WorkQueue) Add(item *domain.OrderItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	atomic.AddInt64(&q.totalHundredths, toFixed(item.TotalMinutes()))

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Take dequeues the oldest item, blocking until one is available or ctx is
// done. A cancelled wait leaves the queue untouched.
func (q *WorkQueue) Take(ctx context.Context) (*domain.OrderItem, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()
			atomic.AddInt64(&q.totalHundredths, -toFixed(item.TotalMinutes()))
			if remaining > 0 {
				select {
				case q.signal <- struct{}{}:
				default:
				}
			}
			return item, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a copied snapshot of the queued items.
func (q *WorkQueue) Items() []*domain.OrderItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	snapshot := make([]*domain.OrderItem, len(q.items))
	copy(snapshot, q.items)
	return snapshot
}

func (q *WorkQueue) TotalEstimatedMinutes() float64 {
	return float64(atomic.LoadInt64(&q.totalHundredths)) / minuteScale
}
