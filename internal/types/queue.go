package types

import "sync"

// Queue - set of identities which are processing right now
type Queue struct {
	m  map[uint64]struct{}
	mx *sync.RWMutex
}

// NewQueue -
func NewQueue() *Queue {
	return &Queue{
		m:  make(map[uint64]struct{}),
		mx: new(sync.RWMutex),
	}
}

// Add -
func (q *Queue) Add(id uint64) {
	q.mx.Lock()
	q.m[id] = struct{}{}
	q.mx.Unlock()
}

// Contains -
func (q *Queue) Contains(id uint64) bool {
	q.mx.RLock()
	_, ok := q.m[id]
	q.mx.RUnlock()
	return ok
}

// Delete -
func (q *Queue) Delete(id uint64) {
	q.mx.Lock()
	delete(q.m, id)
	q.mx.Unlock()
}

// Len -
func (q *Queue) Len() int {
	q.mx.RLock()
	defer q.mx.RUnlock()
	return len(q.m)
}
