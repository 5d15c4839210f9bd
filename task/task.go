// task.go
//
// The task-array owner the queue schedules against.  A Graph holds the
// shared task slice plus the capabilities the scheduler needs: weight
// lookup, exclusive non-blocking claims gated on unresolved dependencies,
// a cell-based locality metric, and dependency release on completion.
//
// Tasks are addressed by their index in the slice; the scheduler never
// holds pointers into it.

package task

import "sync/atomic"

// Kind labels what a task computes.  The scheduler ignores it; execution
// accounting groups by it.
type Kind uint8

const (
	KindCompute Kind = iota // cell-local number crunching
	KindGather              // pull neighbor cell data in
	KindScatter             // push results to neighbor cells
	KindReduce              // fold partial results

	// KindCount bounds the kind space for fixture generators and per-kind
	// aggregation tables.
	KindCount
)

// KindName returns a short label for diagnostics.
func KindName(k Kind) string {
	switch k {
	case KindCompute:
		return "compute"
	case KindGather:
		return "gather"
	case KindScatter:
		return "scatter"
	case KindReduce:
		return "reduce"
	}
	return "unknown"
}

// NoCell marks an unused cell slot in a task's footprint.
const NoCell int32 = -1

// Task is one schedulable unit.  Weight estimates remaining critical-path
// cost; CellA/CellB are the data cells the task touches and drive the
// locality metric.  claim and wait are only ever accessed atomically.
type Task struct {
	Kind   Kind
	Weight float32

	CellA int32 // primary cell
	CellB int32 // secondary cell, NoCell for cell-local tasks

	claim int32 // 0 = free, 1 = claimed
	wait  int32 // unresolved dependency count

	dependents []int32 // tasks unblocked when this one completes
}

// Graph owns the shared task array and implements the scheduler's Source
// capability set over it.
type Graph struct {
	Tasks []Task
}

// NewGraph wraps a prebuilt task slice.  The slice is shared state: the
// graph neither copies nor ever frees it.
func NewGraph(tasks []Task) *Graph {
	return &Graph{Tasks: tasks}
}

// AddDependency makes child wait on parent.  Build-time only — not safe
// against concurrent claims or completions.
func (g *Graph) AddDependency(parent, child int32) {
	g.Tasks[parent].dependents = append(g.Tasks[parent].dependents, child)
	g.Tasks[child].wait++
}

// Weight returns the scheduling priority of tid.
func (g *Graph) Weight(tid int32) float32 {
	return g.Tasks[tid].Weight
}

// TryClaim takes an exclusive non-blocking claim on tid.  It fails when the
// task still waits on dependencies or someone else holds the claim.
func (g *Graph) TryClaim(tid int32) bool {
	t := &g.Tasks[tid]
	if atomic.LoadInt32(&t.wait) > 0 {
		return false
	}
	return atomic.CompareAndSwapInt32(&t.claim, 0, 1)
}

// Overlap scores the locality benefit of running cand right after prev: the
// fraction of cand's cell footprint shared with prev's.  No history scores
// zero, so a worker's first pick falls back to pure heap bias.
func (g *Graph) Overlap(prev, cand int32) float32 {
	if prev < 0 {
		return 0
	}
	p := &g.Tasks[prev]
	c := &g.Tasks[cand]

	shared := 0
	cells := 0
	for _, cc := range [2]int32{c.CellA, c.CellB} {
		if cc == NoCell {
			continue
		}
		cells++
		if cc == p.CellA || cc == p.CellB {
			shared++
		}
	}
	if cells == 0 {
		return 0
	}
	return float32(shared) / float32(cells)
}

// Complete releases tid's claim and resolves one dependency on each of its
// dependents, returning the ids that just became ready.  Safe to call from
// any worker; each dependent is returned by exactly one completion.
func (g *Graph) Complete(tid int32) []int32 {
	t := &g.Tasks[tid]
	atomic.StoreInt32(&t.claim, 0)

	var ready []int32
	for _, d := range t.dependents {
		if atomic.AddInt32(&g.Tasks[d].wait, -1) == 0 {
			ready = append(ready, d)
		}
	}
	return ready
}

// Roots returns every task with no unresolved dependencies — the initial
// seed set for the queues.
func (g *Graph) Roots() []int32 {
	var roots []int32
	for i := range g.Tasks {
		if atomic.LoadInt32(&g.Tasks[i].wait) == 0 {
			roots = append(roots, int32(i))
		}
	}
	return roots
}
