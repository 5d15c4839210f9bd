// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Engine-wide scheduling tunables
//
// Purpose:
//   - Defines the per-worker queue geometry: heap capacity, growth factor,
//     staging ring capacity, and the locality search window.
//   - Defines the stats hand-off ring capacity for execution accounting.
//
// Notes:
//   - Tunables trade memory for latency; none of them change queue semantics.
//   - Power-of-2 sizing keeps slot arithmetic cheap and cache-friendly.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Queue Geometry ──────────────────────────────

const (
	// QueueSizeInit is the initial heap capacity of a freshly built queue.
	// Sized for:
	// - 512 B of int32 task ids per queue at start
	// - Cheap creation of one queue per worker on wide machines
	// - Typical steady-state ready-set sizes; the heap grows geometrically
	//   the first time a drain finds it full
	QueueSizeInit = 128

	// QueueSizeGrow is the multiplicative growth factor applied when a drain
	// finds the heap full. Doubling keeps amortized append cost O(1) while
	// bounding peak waste to 2x the high-water mark.
	QueueSizeGrow = 2

	// QueueIncomingSize is the capacity of the lock-free staging ring that
	// decouples producers from the heap mutex. Sized for:
	// - 8,192 in-flight publishes per queue before producers start helping
	//   the drainer (32 KiB of int32 slots — comfortably L2-resident)
	// - Burst absorption when many workers finish tasks simultaneously and
	//   release large dependent fan-outs into one queue
	QueueIncomingSize = 1 << 13

	// QueueSearchWindow is the width of the sliding candidate window used by
	// task extraction. Sized for:
	// - 8 candidates balances locality quality against per-get scan cost
	// - The window lives on the extractor's stack; widening it costs one
	//   overlap evaluation plus one claim probe per extra slot, worst case
	QueueSearchWindow = 8
)

// ─────────────────────────── Consistency Checking ──────────────────────────

const (
	// DebugChecks enables the heap-order assertion after every drain and
	// every extraction. A violation is a scheduler bug, never load-dependent,
	// so production builds leave this off; tests verify the same invariant
	// from the outside.
	DebugChecks = false
)

// ──────────────────────── Execution Accounting ─────────────────────────────

const (
	// StatsRingSize is the per-worker SPSC ring capacity for execution
	// records flowing to the stats collector. Sized for:
	// - 4,096 records of slack per worker before Push reports full
	// - The collector drains far faster than workers complete tasks, so this
	//   is burst headroom, not sustained capacity
	StatsRingSize = 1 << 12

	// StatsDBPath is the SQLite file that receives flushed execution samples
	// for offline analysis of the run.
	StatsDBPath = "taskstats.db"
)
