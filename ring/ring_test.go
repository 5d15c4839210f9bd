package ring

import (
	"sync"
	"testing"
	"time"
	"unsafe"
)

// TestNewPanicsOnBadSize verifies the constructor rejects sizes that are
// either non-power-of-two or <= 0.
func TestNewPanicsOnBadSize(t *testing.T) {
	bad := []int{0, -4, 3, 1000}
	for _, sz := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) should panic", sz)
				}
			}()
			_ = New(sz)
		}()
	}
}

// TestPushPopRoundTrip performs a minimal sanity round-trip on a size-8
// ring: one record in, the same record out, empty afterwards.
func TestPushPopRoundTrip(t *testing.T) {
	r := New(8)
	val := &[32]byte{1, 2, 3}

	if !r.Push(unsafe.Pointer(val)) {
		t.Fatal("first push must succeed")
	}
	got := (*[32]byte)(r.Pop())
	if got == nil || *got != *val {
		t.Fatalf("got %v, want %v", got, val)
	}
	if r.Pop() != nil {
		t.Fatal("ring should now be empty")
	}
}

// TestPushFailsWhenFull fills the ring to capacity and checks that a
// further Push reports back-pressure.
func TestPushFailsWhenFull(t *testing.T) {
	r := New(4)
	val := &[32]byte{7}
	for i := 0; i < 4; i++ {
		if !r.Push(unsafe.Pointer(val)) {
			t.Fatalf("push %d unexpectedly failed", i)
		}
	}
	if r.Push(unsafe.Pointer(val)) {
		t.Fatal("push into full ring should return false")
	}
}

// TestPopWaitBlocksUntilItem pushes after a tiny delay and asserts PopWait
// spins until the value arrives.
func TestPopWaitBlocksUntilItem(t *testing.T) {
	r := New(2)
	want := &[32]byte{42}

	go func() {
		time.Sleep(5 * time.Millisecond)
		r.Push(unsafe.Pointer(want))
	}()

	got := (*[32]byte)(r.PopWait())
	if got == nil || *got != *want {
		t.Fatalf("PopWait returned %v, want %v", got, want)
	}
}

// TestSPSCOrderPreserved streams a few thousand records through concurrent
// producer and consumer goroutines and checks FIFO delivery.
func TestSPSCOrderPreserved(t *testing.T) {
	const n = 4096
	r := New(64)
	vals := make([]uint64, n)
	for i := range vals {
		vals[i] = uint64(i)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.Push(unsafe.Pointer(&vals[i])) {
				Relax()
			}
		}
	}()

	for i := 0; i < n; i++ {
		got := (*uint64)(r.PopWait())
		if *got != uint64(i) {
			t.Fatalf("record %d out of order: got %d", i, *got)
		}
	}
	wg.Wait()

	if r.Pop() != nil {
		t.Fatal("ring should be empty after the stream")
	}
}

// TestPinThreadRoundTrip just exercises the pin/unpin pair; failures to set
// affinity are swallowed by design, so this is a no-crash test.
func TestPinThreadRoundTrip(t *testing.T) {
	PinThread(0)
	UnpinThread()
}
