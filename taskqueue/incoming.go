// incoming.go
//
// Producer side of the queue: a fixed-capacity staging ring that lets any
// number of threads publish ready tasks without contending on the heap
// mutex.  Slots hold either a task id or the None sentinel.  A producer
// reserves a monotonically increasing ticket, then CAS-publishes into the
// ticket's slot; the drainer (mutex held) scans forward from first,
// reclaiming slots back to None.
//
// Backpressure is cooperative: a producer that finds its slot still occupied
// (the ring wrapped before the drainer caught up) does not just spin — it
// try-locks the queue and, on success, runs the drain itself.  Any stuck
// producer is therefore also the thread that can unstick the ring, so the
// publish loop always makes progress.

package taskqueue

import (
	"sync/atomic"

	"main/constants"
)

// Insert publishes a ready task for later inclusion in the heap.  Safe to
// call from any thread; never blocks on the queue mutex.  The task is
// visible to extraction only after some drain moves it into the heap, which
// Insert itself may perform while relieving backpressure.
func (q *Queue) Insert(tid int32) {
	slot := (atomic.AddUint64(&q.last, 1) - 1) % uint64(len(q.incoming))

	// Spin until the slot is free.  While it is not, opportunistically help
	// whoever should be draining: a non-blocking lock attempt, a drain, and
	// back to the CAS.  A failed TryLock means another thread is already
	// inside the queue doing that work.
	for !atomic.CompareAndSwapInt32(&q.incoming[slot], None, tid) {
		if q.lock.TryLock() {
			q.getIncoming()
			q.lock.Unlock()
		}
	}

	atomic.AddInt64(&q.countIncoming, 1)
}

// getIncoming moves every currently published staging entry into the heap.
// Caller must hold q.lock.
//
// The scan stops at the first slot still holding None.  A producer that has
// reserved a ticket but not yet finished its CAS leaves a None hole; entries
// published beyond that hole stay invisible to this drain and are picked up
// by the next one.  Delivery into the heap is therefore eventual, not
// strictly FIFO by ticket.
func (q *Queue) getIncoming() {
	n := uint64(len(q.incoming))

	for {
		slot := atomic.LoadUint64(&q.first) % n
		if atomic.LoadInt32(&q.incoming[slot]) < 0 {
			break
		}

		// Reclaim the slot for future producers and advance the scan.  Only
		// the drainer writes occupied→None, so the swap cannot race with a
		// publish.
		tid := atomic.SwapInt32(&q.incoming[slot], None)
		atomic.AddUint64(&q.first, 1)

		if q.count == len(q.tid) {
			q.grow()
		}

		// Append at the end of the heap and restore order upward.
		q.tid[q.count] = tid
		q.count++
		atomic.AddInt64(&q.countIncoming, -1)
		q.bubbleUp(q.count - 1)
	}

	if constants.DebugChecks {
		q.verifyHeap()
	}
}

// Pending reports staged-but-undrained entries.  Like Count, a snapshot for
// diagnostics and tests only.
func (q *Queue) Pending() int {
	return int(atomic.LoadInt64(&q.countIncoming))
}
