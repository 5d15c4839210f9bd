package control

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSignalActivitySetsHot(t *testing.T) {
	Reset()
	SignalActivity()
	_, hotFlag := Flags()
	if atomic.LoadUint32(hotFlag) != 1 {
		t.Fatal("hot flag should be 1 after SignalActivity")
	}
}

func TestShutdownSetsStop(t *testing.T) {
	Reset()
	stopFlag, _ := Flags()
	if atomic.LoadUint32(stopFlag) != 0 {
		t.Fatal("stop flag should start at 0")
	}
	Shutdown()
	if atomic.LoadUint32(stopFlag) != 1 {
		t.Fatal("stop flag should be 1 after Shutdown")
	}
}

func TestPollCooldownClearsAfterQuietPeriod(t *testing.T) {
	Reset()
	SignalActivity()

	// Shrink the cooldown so the test does not sleep a full second.
	saved := cooldownNs
	cooldownNs = int64(5 * time.Millisecond)
	defer func() { cooldownNs = saved }()

	// Immediately after activity the flag must survive a poll.
	PollCooldown()
	_, hotFlag := Flags()
	if atomic.LoadUint32(hotFlag) != 1 {
		t.Fatal("hot flag cleared too early")
	}

	time.Sleep(10 * time.Millisecond)
	PollCooldown()
	if atomic.LoadUint32(hotFlag) != 0 {
		t.Fatal("hot flag should clear after the cooldown period")
	}
}

func TestFlagsReturnStablePointers(t *testing.T) {
	s1, h1 := Flags()
	s2, h2 := Flags()
	if s1 != s2 || h1 != h2 {
		t.Fatal("Flags must return the same pointers on every call")
	}
}
