// control.go — Global control flags for worker threads and the stats collector
// ============================================================================
// ENGINE CONTROL ORCHESTRATION
// ============================================================================
//
// Control provides lightweight global signaling for coordinating activity
// states and graceful shutdown across worker threads and the pinned stats
// collector, with zero-allocation flag access.
//
// Architecture overview:
//   • Global hot/stop flags for lock-free inter-thread communication
//   • Activity tracking with automatic cooldown to stop idle hot-spinning
//   • Shutdown broadcast reaching every worker without locks or channels
//
// Threading model:
//   • Producers signal activity via SignalActivity() when tasks are published
//   • Workers and the collector poll flags via Flags() inside spin loops
//   • PollCooldown() clears the hot flag after one quiet second
//   • Shutdown() is set once, by whichever thread retires the last task
//
// Safety notes:
//   • Flags are plain word-sized stores read by spinning threads; staleness
//     of a few polls is acceptable by contract, torn reads are impossible.

package control

import "time"

var (
	hot  uint32 // 1 = tasks are flowing, workers may hot-spin
	stop uint32 // 1 = drain and exit, 0 = running

	lastHot    int64                    // nanosecond timestamp of last activity
	cooldownNs = int64(1 * time.Second) // idle period before hot clears
)

// SignalActivity marks the engine as active and records the time. Called by
// producers when newly-ready tasks enter a queue's staging ring, so idle
// workers escalate from cold polling back to hot-spin.
//
//go:norace
//go:nosplit
//go:inline
func SignalActivity() {
	hot = 1
	lastHot = time.Now().UnixNano()
}

// PollCooldown clears the hot flag once the engine has been quiet for the
// cooldown period. Designed to be called inline from worker spin loops.
//
//go:norace
//go:nosplit
//go:inline
func PollCooldown() {
	if hot == 1 && time.Now().UnixNano()-lastHot > cooldownNs {
		hot = 0
	}
}

// Shutdown initiates graceful termination by setting the global stop flag.
// Workers and the stats collector observe it on their next poll and exit
// after draining whatever they already hold.
//
//go:norace
//go:nosplit
//go:inline
func Shutdown() {
	stop = 1
}

// Reset rearms the flags for a fresh run. Test hook; production runs set
// stop exactly once.
//
//go:norace
//go:nosplit
//go:inline
func Reset() {
	stop = 0
	hot = 0
	lastHot = 0
}

// Flags returns direct pointers to the coordination flags so spin loops can
// poll them without any call overhead. Returned pointers stay valid for the
// life of the process.
//
//go:norace
//go:nosplit
//go:inline
func Flags() (*uint32, *uint32) {
	return &stop, &hot
}
