// queue.go
//
// Per-worker concurrent task queue: an array-backed binary max-heap of task
// ids ordered by weight, fed through a lock-free staging ring (incoming.go)
// and drained by locality-aware extraction (gettask.go).  One mutex guards
// every heap mutation; publishing into the staging ring is the only path
// that never takes it.
//
// The queue stores indices into a task array it does not own.  It reads a
// task's weight, asks the owner for an exclusive claim, and scores locality
// between tasks — nothing else ever crosses the boundary.

package taskqueue

import (
	"sync"

	"main/constants"
)

// None is the empty sentinel: the "no task" result of GetTask and the free
// marker inside the staging ring.  Valid task ids are non-negative.
const None int32 = -1

// Source is the capability surface the task-array owner hands the queue.
// Claim resolution (dependencies, conflicts) and the locality metric live
// with the owner; the queue only invokes them.
type Source interface {
	// Weight returns the scheduling priority of a task; higher runs sooner.
	Weight(tid int32) float32
	// TryClaim attempts a non-blocking exclusive claim.  It fails when the
	// task still has unresolved dependencies or a conflicting claim held
	// elsewhere, and must never block.
	TryClaim(tid int32) bool
	// Overlap scores the locality benefit of running cand right after prev.
	// prev may be None, meaning the caller has no execution history.
	Overlap(prev, cand int32) float32
}

// Queue is a single scheduling queue instance.  Many threads may Insert
// concurrently; Insert never takes the mutex on its fast path.  Drains and
// extractions are serialized by lock.
type Queue struct {
	lock sync.Mutex // guards tid, count, and the drain side of the ring
	src  Source

	// Max-heap of task ids: tid[:count] live, weight(parent) >= weight(child).
	tid   []int32
	count int

	// Staging ring.  Producers reserve a ticket from last, CAS their id into
	// slot ticket%len(incoming), and bump countIncoming.  The drainer scans
	// from first, swapping slots back to None.  All three counters are only
	// touched atomically.
	incoming      []int32
	first         uint64 // next slot to drain
	last          uint64 // next publish ticket, monotonically increasing
	countIncoming int64  // published but not yet drained
}

// New builds an empty queue bound to src.  The task array behind src is
// shared external state; the queue never allocates or frees tasks.
func New(src Source) *Queue {
	q := &Queue{
		src:      src,
		tid:      make([]int32, constants.QueueSizeInit),
		incoming: make([]int32, constants.QueueIncomingSize),
	}
	for i := range q.incoming {
		q.incoming[i] = None
	}
	return q
}

// Clean releases queue-owned storage.  The queue must be idle: no concurrent
// Insert or GetTask may be in flight.  Go's mutexes need no destruction, so
// unlike the storage there is nothing further for the caller to tear down.
func (q *Queue) Clean() {
	q.tid = nil
	q.incoming = nil
	q.count = 0
}

// Count reports the number of tasks currently in the heap.  Snapshot only —
// staged entries are not included and the value is stale by the time the
// caller sees it.
func (q *Queue) Count() int {
	q.lock.Lock()
	n := q.count
	q.lock.Unlock()
	return n
}

// bubbleUp moves the element at ind toward the root until its parent's
// weight is at least its own, returning its final index.  Equal weights do
// not swap, so repeated re-heaps of tied tasks stay put.
func (q *Queue) bubbleUp(ind int) int {
	tid := q.tid
	w := q.src.Weight(tid[ind])

	for ind > 0 {
		parent := (ind - 1) / 2
		if q.src.Weight(tid[parent]) >= w {
			break
		}
		tid[ind], tid[parent] = tid[parent], tid[ind]
		ind = parent
	}

	return ind
}

// siftDown moves the element at ind toward the leaves, always descending
// into the heavier child (right child wins only when strictly heavier),
// returning its final index.
func (q *Queue) siftDown(ind int) int {
	tid := q.tid
	count := q.count
	w := q.src.Weight(tid[ind])

	for {
		child := 2*ind + 1
		if child >= count {
			break
		}
		if child+1 < count &&
			q.src.Weight(tid[child+1]) > q.src.Weight(tid[child]) {
			child++
		}
		if q.src.Weight(tid[child]) <= w {
			break
		}
		tid[ind], tid[child] = tid[child], tid[ind]
		ind = child
	}

	return ind
}

// grow doubles (by QueueSizeGrow) the heap's backing array, preserving the
// live prefix.  Caller holds lock, so readers can never observe the swap
// mid-copy.
func (q *Queue) grow() {
	next := make([]int32, len(q.tid)*constants.QueueSizeGrow)
	copy(next, q.tid[:q.count])
	q.tid = next
}

// verifyHeap asserts the max-heap order over the live prefix.  A violation
// is a scheduler bug, so it panics rather than returning an error.  Wired
// behind constants.DebugChecks in the drain and extraction paths; tests call
// it directly.
func (q *Queue) verifyHeap() {
	for k := 1; k < q.count; k++ {
		if q.src.Weight(q.tid[(k-1)/2]) < q.src.Weight(q.tid[k]) {
			panic("taskqueue: heap is disordered")
		}
	}
}
