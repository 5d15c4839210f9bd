// gettask.go
//
// Consumer side of the queue: extraction with a bounded sliding window that
// trades strict priority order for locality.  The window samples the first
// QueueSearchWindow heap slots in storage order, scores each against the
// caller's previous task, and always probes the highest-scoring candidate
// first.  A failed claim costs one probe and frees the slot for the next
// heap entry, so the window drifts toward claimable, high-affinity work.
//
// Weight ordering stays coarse by design: repeated drains and removals keep
// heavy tasks near the front of heap storage, which biases the sampled
// window toward them, but the contract is "a claimable task, preferring
// locality within the sample" — not the global maximum.

package taskqueue

import "main/constants"

// GetTask returns a claimed task ready for execution, or None when no
// eligible work is available.  prev is the caller's most recently completed
// task (None for no history) and steers the locality score.  With blocking
// set, the call waits for the queue mutex; otherwise contention returns
// None immediately.
func (q *Queue) GetTask(prev int32, blocking bool) int32 {
	if blocking {
		q.lock.Lock()
	} else if !q.lock.TryLock() {
		return None
	}

	// Absorb staged work first so freshly published tasks compete too.
	q.getIncoming()

	if q.count == 0 {
		q.lock.Unlock()
		return None
	}

	// Sliding window over heap storage order.  ind tracks the heap slot of
	// the selected entry so removal can re-heap from the right place.
	var window [constants.QueueSearchWindow]struct {
		ind   int
		tid   int32
		score float32
	}
	windowCount := 0
	sel := None
	ind := -1

	oldCount := q.count
	for k := 0; k < oldCount; k++ {
		if k < len(window) {
			window[windowCount].ind = k
			window[windowCount].tid = q.tid[k]
			window[windowCount].score = q.src.Overlap(prev, q.tid[k])
			windowCount++
			continue
		}

		// Window is full: probe the best-scoring member.
		best := 0
		for i := 1; i < windowCount; i++ {
			if window[i].score > window[best].score {
				best = i
			}
		}

		if q.src.TryClaim(window[best].tid) {
			sel = window[best].tid
			ind = window[best].ind
			break
		}

		// Claim failed — the task is blocked elsewhere.  Its slot is not
		// wasted: the current heap entry takes its place.
		window[best].ind = k
		window[best].tid = q.tid[k]
		window[best].score = q.src.Overlap(prev, q.tid[k])
	}

	// Main scan found nothing claimable: exhaust what the window still
	// holds, best score first, discarding failures.
	if sel == None {
		for windowCount > 0 {
			best := 0
			for i := 1; i < windowCount; i++ {
				if window[i].score > window[best].score {
					best = i
				}
			}
			if q.src.TryClaim(window[best].tid) {
				sel = window[best].tid
				ind = window[best].ind
				break
			}
			windowCount--
			window[best] = window[windowCount]
		}
	}

	if ind >= 0 {
		q.count--

		// Fill the vacated slot with the last element and re-heap.  The
		// replacement's weight relation to its new neighborhood is unknown,
		// so try both directions; one of them no-ops.
		if ind < q.count {
			q.tid[ind] = q.tid[q.count]
			at := q.bubbleUp(ind)
			q.siftDown(at)
		}
	}

	if constants.DebugChecks {
		q.verifyHeap()
	}

	q.lock.Unlock()
	return sel
}
