// Package taskqueue stress test: long randomized runs validated against a
// container/heap reference model, plus a mixed concurrent producer/consumer
// soak. Weights are derived from Keccak digests so every run is reproducible
// without carrying PRNG state around.
package taskqueue

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/sha3"
)

// hashWeight derives a deterministic weight in (0, 65536) from a task id.
func hashWeight(tid int32) float32 {
	h := sha3.Sum256([]byte{byte(tid), byte(tid >> 8), byte(tid >> 16), byte(tid >> 24)})
	v := uint32(h[0]) | uint32(h[1])<<8
	return float32(v) + 0.5
}

// refHeap is the reference model: a plain max-heap over weights.
type refHeap []float32

func (h refHeap) Len() int            { return len(h) }
func (h refHeap) Less(i, j int) bool  { return h[i] > h[j] }
func (h refHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *refHeap) Push(x interface{}) { *h = append(*h, x.(float32)) }
func (h *refHeap) Pop() interface{} {
	old := *h
	n := len(old) - 1
	it := old[n]
	*h = old[:n]
	return it
}

// TestStressAgainstReferenceHeap interleaves insert bursts and extraction
// bursts, comparing extracted weights against the reference model. With a
// zero overlap metric and every claim succeeding, extraction is exact
// max-weight order, so the two models must agree weight-for-weight.
func TestStressAgainstReferenceHeap(t *testing.T) {
	const total = 20000

	w := make([]float32, total)
	for i := range w {
		w[i] = hashWeight(int32(i))
	}
	src := newStubSource(w)
	q := New(src)

	ref := &refHeap{}
	heap.Init(ref)

	next := int32(0)
	state := uint64(0x9e3779b97f4a7c15)
	for next < total || ref.Len() > 0 {
		state = state*6364136223846793005 + 1442695040888963407

		// Insert a burst while ids remain, then drain a burst.
		burst := int(state>>59) + 1
		for b := 0; b < burst && next < total; b++ {
			q.Insert(next)
			heap.Push(ref, w[next])
			next++
		}

		burst = int(state>>33) % 8
		for b := 0; b < burst && ref.Len() > 0; b++ {
			want := heap.Pop(ref).(float32)
			tid := q.GetTask(None, true)
			if tid == None {
				t.Fatalf("queue empty while reference holds %d entries", ref.Len()+1)
			}
			if w[tid] != want {
				t.Fatalf("extracted weight %v, reference says %v", w[tid], want)
			}
		}
	}

	if tid := q.GetTask(None, true); tid != None {
		t.Fatalf("queue should be empty, got task %d", tid)
	}
}

// TestStressHelpDrainUnderWrap forces the staging ring to wrap by pushing
// far more than its capacity through a single queue while one slow consumer
// extracts. Producers must help-drain rather than deadlock.
func TestStressHelpDrainUnderWrap(t *testing.T) {
	if testing.Short() {
		t.Skip("ring-wrap soak skipped in short mode")
	}

	const producers = 8
	const perProducer = 20000 // producers*perProducer >> QueueIncomingSize
	const n = producers * perProducer

	w := make([]float32, n)
	for i := range w {
		w[i] = hashWeight(int32(i))
	}
	src := newStubSource(w)
	q := New(src)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int32) {
			defer wg.Done()
			for i := int32(0); i < perProducer; i++ {
				q.Insert(base + i)
			}
		}(int32(p * perProducer))
	}

	var total int64
	var cg sync.WaitGroup
	cg.Add(1)
	go func() {
		defer cg.Done()
		prev := None
		for atomic.LoadInt64(&total) < n {
			tid := q.GetTask(prev, false)
			if tid == None {
				continue
			}
			atomic.AddInt64(&total, 1)
			prev = tid
		}
	}()

	wg.Wait()
	cg.Wait()

	if atomic.LoadInt64(&total) != n {
		t.Fatalf("drained %d tasks, want %d", total, n)
	}
	if q.Pending() != 0 || q.Count() != 0 {
		t.Fatalf("leftovers after soak: pending=%d count=%d", q.Pending(), q.Count())
	}
}
