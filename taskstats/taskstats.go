// taskstats.go
//
// Execution accounting: workers emit one Record per completed task into a
// per-worker SPSC ring, and a single pinned collector drains every ring
// into an in-memory sample log.  The collector stays in hot-spin while
// records keep arriving and degrades to a polite relax loop when the feed
// goes quiet, mirroring the worker hot/cold discipline.
//
// Nothing here sits on the scheduling path: a worker's cost per completion
// is one ring Push.

package taskstats

import (
	"sync/atomic"
	"time"
	"unsafe"

	"main/constants"
	"main/ring"
)

// hotTimeout is the hot-spin grace window after the last drained record.
const hotTimeout = 100 * time.Millisecond

// Record is one completed task execution.  Plain data, fixed layout, safe
// to move across the ring by pointer.
type Record struct {
	Tid    int32   // task id in the shared array
	Worker int32   // executing worker
	Kind   uint8   // task.Kind, widened for storage
	Weight float32 // scheduling weight at execution time
	Start  int64   // UnixNano at claim
	Stop   int64   // UnixNano at completion
}

// Collector owns the per-worker rings and the drained sample log.
type Collector struct {
	rings   []*ring.Ring
	records []Record
	done    chan struct{}
}

// NewCollector builds one ring per worker.
func NewCollector(workers int) *Collector {
	c := &Collector{
		rings: make([]*ring.Ring, workers),
		done:  make(chan struct{}),
	}
	for i := range c.rings {
		c.rings[i] = ring.New(constants.StatsRingSize)
	}
	return c
}

// Ring returns worker w's ring.  Each ring has exactly one producer; handing
// the same ring to two workers breaks the SPSC contract.
func (c *Collector) Ring(w int) *ring.Ring {
	return c.rings[w]
}

// Emit pushes rec into worker w's ring, dropping the record when the ring
// is full.  Accounting is best-effort by contract; the scheduler never
// stalls for it.
func (c *Collector) Emit(w int, rec *Record) bool {
	return c.rings[w].Push(unsafe.Pointer(rec))
}

// Start launches the collector loop on the given core.  stop and hot are
// polled coordination flags (see control.Flags): the collector exits after
// stop is set and every ring has been drained dry.
func (c *Collector) Start(core int, stop, hot *uint32) {
	go func() {
		ring.PinThread(core)
		defer func() {
			ring.UnpinThread()
			close(c.done)
		}()

		last := time.Now()
		stopping := false

		for {
			n := 0
			for _, r := range c.rings {
				if p := r.Pop(); p != nil {
					c.records = append(c.records, *(*Record)(p))
					n++
				}
			}
			if n > 0 {
				last = time.Now()
				continue
			}

			// All rings empty.  Every record is emitted before the stop flag
			// rises, so an empty sweep that started after we saw the flag
			// means the log is complete.  A sweep already in flight when the
			// flag rose may have missed a late record, hence the extra pass.
			if stopping {
				return
			}
			if atomic.LoadUint32(stop) != 0 {
				stopping = true
				continue
			}

			if atomic.LoadUint32(hot) != 0 || time.Since(last) <= hotTimeout {
				continue // hot-spin: records are imminent
			}
			ring.Relax()
		}
	}()
}

// Wait blocks until the collector loop has exited.
func (c *Collector) Wait() {
	<-c.done
}

// Records returns the drained sample log.  Only valid after Wait.
func (c *Collector) Records() []Record {
	return c.records
}
