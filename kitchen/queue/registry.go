package queue

import (
	"sync"

	"github.com/fundwit/go-commons/types"
)

// Registry maps chef id to that chef's work queue. Creation on first
// access is an atomic get-or-insert, exactly one queue instance exists
// per chef even under concurrent first access.
type Registry struct {
	queues sync.Map
}

func (r *Registry) LoadOrCreate(chefID types.ID) *WorkQueue {
	if q, ok := r.queues.Load(chefID); ok {
		return q.(*WorkQueue)
	}
	q, _ := r.queues.LoadOrStore(chefID, New())
	return q.(*WorkQueue)
}

func (r *Registry) Get(chefID types.ID) (*WorkQueue, bool) {
	q, ok := r.queues.Load(chefID)
	if !ok {
		return nil, false
	}
	return q.(*WorkQueue), true
}

func (r *Registry) Put(chefID types.ID, q *WorkQueue) {
	r.queues.Store(chefID, q)
}

func (r *Registry) Clear() {
	r.queues.Range(func(key, value interface{}) bool {
		r.queues.Delete(key)
		return true
	})
}

func (r *Registry) Size() int {
	size := 0
	r.queues.Range(func(key, value interface{}) bool {
		size++
		return true
	})
	return size
}
