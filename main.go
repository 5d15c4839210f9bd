// ════════════════════════════════════════════════════════════════════════════════════════════════
// Task Scheduling Engine - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Per-Worker Concurrent Task Queue Engine
// Component: Main Entry Point & Run Orchestration
//
// Description:
//   Phased demonstration run: build a synthetic dependency graph, execute it
//   to exhaustion on one queue per pinned worker, and persist the execution
//   samples for offline analysis.
//
// Architecture:
//   - Phase 0: Graph construction and engine sizing
//   - Phase 1: Queue / collector wiring and root seeding
//   - Phase 2: Pinned worker execution until the graph drains
//   - Phase 3: Stats flush and run summary
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"main/constants"
	"main/control"
	"main/debug"
	"main/ring"
	"main/task"
	"main/taskqueue"
	"main/taskstats"
	"main/utils"
)

// Synthetic graph dimensions.  Small enough to run in seconds, large enough
// to wrap the staging rings and force heap growth.
const (
	graphCells = 64
	cellGroup  = 8 // cells folded per reduce task
)

// sink defeats dead-code elimination of the synthetic work loops.
var sink uint64

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	// PHASE 0: Graph construction and engine sizing.
	workers := runtime.NumCPU()
	if workers > 16 {
		workers = 16
	}
	graph := buildGraph(graphCells)
	debug.DropMessage("INIT", utils.Itoa(len(graph.Tasks))+" tasks across "+
		utils.Itoa(graphCells)+" cells, "+utils.Itoa(workers)+" workers")

	// PHASE 1: One queue per worker, one stats ring per worker, a pinned
	// collector on the core after the last worker.
	queues := make([]*taskqueue.Queue, workers)
	for w := range queues {
		queues[w] = taskqueue.New(graph)
	}
	collector := taskstats.NewCollector(workers)
	stopFlag, hotFlag := control.Flags()
	collector.Start(workers, stopFlag, hotFlag)

	roots := graph.Roots()
	for i, tid := range roots {
		queues[i%workers].Insert(tid)
	}
	control.SignalActivity()
	debug.DropMessage("SEED", utils.Itoa(len(roots))+" root tasks")

	// PHASE 2: Run the graph dry.  The worker that retires the last task
	// broadcasts shutdown; everyone else drains out on the stop flag.
	remaining := int64(len(graph.Tasks))
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(id, queues[id], graph, collector, &remaining)
		}(w)
	}
	wg.Wait()
	collector.Wait()
	elapsed := time.Since(start)

	// PHASE 3: Persist samples and report.
	records := collector.Records()
	if err := taskstats.FlushToDB(constants.StatsDBPath, records); err != nil {
		debug.DropError("stats flush", err)
	} else {
		debug.DropMessage("FLUSH", utils.Itoa(len(records))+" samples → "+constants.StatsDBPath)
	}
	if js, err := taskstats.SummaryJSON(records); err != nil {
		debug.DropError("stats summary", err)
	} else {
		debug.DropMessage("STATS", string(js))
	}
	for _, k := range taskstats.Summarize(records).Kinds {
		debug.DropMessage("KIND", task.KindName(task.Kind(k.Kind))+": "+
			utils.Itoa(int(k.Count))+" tasks, avg "+
			utils.Itoa(int(k.TotalNs/max(k.Count, 1)))+" ns, weight sum "+
			utils.Ftoa(float32(k.WeightSum)))
	}

	for _, q := range queues {
		q.Clean()
	}
	debug.DropMessage("DONE", utils.Itoa(len(graph.Tasks))+" tasks in "+
		utils.Itoa(int(elapsed.Milliseconds()))+" ms")
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// WORKER LOOP
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// runWorker executes tasks from its own queue until the engine stops.  The
// previously completed task feeds the queue's locality window; completions
// release dependents straight back into the same queue, which keeps a cell's
// task chain on the worker that already has its data warm.
func runWorker(id int, q *taskqueue.Queue, g *task.Graph, c *taskstats.Collector, remaining *int64) {
	ring.PinThread(id)
	defer ring.UnpinThread()

	stopFlag, hotFlag := control.Flags()
	prev := taskqueue.None

	for {
		tid := q.GetTask(prev, false)
		if tid == taskqueue.None {
			if atomic.LoadUint32(stopFlag) != 0 {
				return
			}
			control.PollCooldown()
			if atomic.LoadUint32(hotFlag) == 0 {
				ring.Relax()
			}
			continue
		}

		startNs := time.Now().UnixNano()
		execute(g, tid)
		stopNs := time.Now().UnixNano()

		// Best-effort accounting: a full ring drops the sample, never the task.
		t := &g.Tasks[tid]
		c.Emit(id, &taskstats.Record{
			Tid:    tid,
			Worker: int32(id),
			Kind:   uint8(t.Kind),
			Weight: t.Weight,
			Start:  startNs,
			Stop:   stopNs,
		})

		for _, d := range g.Complete(tid) {
			q.Insert(d)
		}
		control.SignalActivity()
		prev = tid

		if atomic.AddInt64(remaining, -1) == 0 {
			control.Shutdown()
			return
		}
	}
}

// execute burns CPU proportional to the task's weight, standing in for the
// domain computation this engine schedules.
func execute(g *task.Graph, tid int32) {
	iters := int(g.Tasks[tid].Weight * 2000)
	x := uint64(tid) + 1
	for i := 0; i < iters; i++ {
		x = utils.Mix64(x)
	}
	atomic.AddUint64(&sink, x)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SYNTHETIC GRAPH
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// buildGraph lays out a compute→gather→scatter chain per cell plus one
// reduce per cell group, with weights descending along each chain so the
// critical-path bias of the queues has something to bite on.  Mix64 jitters
// the weights deterministically.
func buildGraph(cells int32) *task.Graph {
	jitter := func(seed uint64) float32 {
		return float32(utils.Mix64(seed)&1023) / 1024
	}

	n := 3*cells + cells/cellGroup
	tasks := make([]task.Task, 0, n)

	compute := make([]int32, cells)
	gather := make([]int32, cells)
	scatter := make([]int32, cells)

	for c := int32(0); c < cells; c++ {
		compute[c] = int32(len(tasks))
		tasks = append(tasks, task.Task{
			Kind: task.KindCompute, Weight: 4 + jitter(uint64(c) + 1),
			CellA: c, CellB: task.NoCell,
		})
	}
	for c := int32(0); c < cells; c++ {
		gather[c] = int32(len(tasks))
		tasks = append(tasks, task.Task{
			Kind: task.KindGather, Weight: 3 + jitter(uint64(c) + 1000),
			CellA: c, CellB: (c + 1) % cells,
		})
	}
	for c := int32(0); c < cells; c++ {
		scatter[c] = int32(len(tasks))
		tasks = append(tasks, task.Task{
			Kind: task.KindScatter, Weight: 2 + jitter(uint64(c) + 2000),
			CellA: c, CellB: (c + 1) % cells,
		})
	}
	reduce := make([]int32, cells/cellGroup)
	for r := range reduce {
		reduce[r] = int32(len(tasks))
		tasks = append(tasks, task.Task{
			Kind: task.KindReduce, Weight: 1 + jitter(uint64(r) + 3000),
			CellA: int32(r * cellGroup), CellB: task.NoCell,
		})
	}

	g := task.NewGraph(tasks)
	for c := int32(0); c < cells; c++ {
		g.AddDependency(compute[c], gather[c])
		g.AddDependency(compute[(c+1)%cells], gather[c])
		g.AddDependency(gather[c], scatter[c])
		g.AddDependency(scatter[c], reduce[int(c)/cellGroup])
	}
	return g
}
