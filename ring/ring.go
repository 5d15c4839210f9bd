// ring.go
//
// Lock-free single-producer/single-consumer ring used to hand per-task
// execution records from a worker thread to the stats collector without
// touching the scheduling hot path.  Producer and consumer cursors live on
// separate cache-lines, and every slot carries a sequence stamp so Push and
// Pop need one atomic each.
//
// One ring per worker: the SPSC contract is load-bearing, two producers on
// one ring corrupt the sequence space.

package ring

import (
	"sync/atomic"
	"unsafe"
)

// slot couples a payload pointer with its sequence stamp.
type slot struct {
	seq uint64         // position in the sequence space
	ptr unsafe.Pointer // record payload, owned by the consumer after Pop
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer.
type Ring struct {
	_    [64]byte // consumer cursor isolated on its own cache-line
	head uint64
	//lint:ignore U1000 padding keeps head & tail on different cache-lines
	_pad1 [64]byte
	tail  uint64
	//lint:ignore U1000 padding keeps hot cursors away from metadata
	_pad2 [64]byte
	mask  uint64
	buf   []slot
}

// New allocates a ring whose size must be a power of two; anything else
// panics so the mask arithmetic stays valid.
func New(size int) *Ring {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring{
		mask: uint64(size - 1),
		buf:  make([]slot, size),
	}
	for i := range r.buf {
		r.buf[i].seq = uint64(i)
	}
	return r
}

// Push enqueues p, returning false when the buffer is full.  Producers treat
// a full ring as back-pressure, never as an error.
//
//go:nosplit
func (r *Ring) Push(p unsafe.Pointer) bool {
	t := r.tail
	s := &r.buf[t&r.mask]
	if atomic.LoadUint64(&s.seq) != t {
		return false // consumer has not yet reclaimed the slot
	}
	s.ptr = p
	atomic.StoreUint64(&s.seq, t+1)
	r.tail = t + 1
	return true
}

// Pop dequeues one record pointer, or nil when the buffer is empty.
//
//go:nosplit
func (r *Ring) Pop() unsafe.Pointer {
	h := r.head
	s := &r.buf[h&r.mask]
	if atomic.LoadUint64(&s.seq) != h+1 {
		return nil // producer has not yet published to the slot
	}
	p := s.ptr
	atomic.StoreUint64(&s.seq, h+uint64(len(r.buf)))
	r.head = h + 1
	return p
}

// PopWait busy-spins until a record becomes available.
//
//go:nosplit
func (r *Ring) PopWait() unsafe.Pointer {
	for {
		if p := r.Pop(); p != nil {
			return p
		}
		Relax()
	}
}
