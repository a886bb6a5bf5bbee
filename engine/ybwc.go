// ybwc.go implements the "young brothers wait" concept for parallel
// search: once a node's first move — the one move ordering expects to be
// best — has been searched sequentially and has narrowed the window, its
// remaining siblings are safe to search concurrently, because none of
// them can improve on the first move's result without a score that beats
// the tightened alpha.
//
// Grounded on original_source/engine/src/node.cpp and worker.cpp for the
// split discipline (split only after the first move, bound the slave
// count, stop once a cutoff is proven) and on the teacher's engine.go for
// how a single-threaded search walks the tree, adapted to Go: goroutines
// stand in for the original's OS threads, and a buffered channel of idle
// Engines stands in for the worker registry's mutex-guarded LIFO stack —
// acquiring a worker is just a channel receive, no condition variable
// needed to express "block until one is idle, otherwise hand it out".
//
// Simplification versus original_source: a master does not recursively
// ask its ancestor chain for a waiting helper thread before falling back
// to the registry (Node::GetHelper); every split goes straight to the
// registry. And a cutoff discovered by one slave stops the *launch* of
// further siblings but does not cooperatively cancel a sibling already
// running (no STOP_PARALLEL propagation into an in-flight searchTree) —
// an already-launched goroutine always runs to completion. Both are
// bounded by splitMaxSlaves, so the wasted work is small. And an empty
// registry blocks for the next free worker rather than falling back to a
// sequential search for the remaining siblings; since the registry's
// capacity already equals the maximum slave count a single split is
// allowed, this never waits longer than the other siblings already take.
package engine

import "sync"

const (
	splitMinDepth  = 6 // plies remaining before a node is worth splitting
	splitMaxSlaves = 3 // concurrent siblings per split, and pool size
)

// WorkerRegistry hands out a bounded pool of Engines that share a
// TranspositionTable, so parallel search never runs more concurrent
// searches than the pool allows.
type WorkerRegistry struct {
	idle chan *Engine
}

// NewWorkerRegistry builds a registry of n worker Engines sharing tt.
// Pass splitMaxSlaves for n to match the default split width.
func NewWorkerRegistry(n int, tt *TranspositionTable) *WorkerRegistry {
	wr := &WorkerRegistry{idle: make(chan *Engine, n)}
	for i := 0; i < n; i++ {
		wr.idle <- NewEngine(nil, tt, &NulLogger{}, Options{})
	}
	return wr
}

// getIdle blocks until a worker Engine is available.
func (wr *WorkerRegistry) getIdle() *Engine {
	return <-wr.idle
}

// putIdle returns a worker Engine to the pool.
func (wr *WorkerRegistry) putIdle(eng *Engine) {
	wr.idle <- eng
}

// searchSplit searches moves in parallel, one per worker Engine, once the
// node's first move has already narrowed the window to
// [alpha, beta). Each slave gets its own Position, cloned at the point
// the shared node is in, because Make/Undo on a shared Position from
// multiple goroutines would race. It mirrors the null-window scout with
// full-window re-search that searchTree's sequential loop performs; the
// only difference is that siblings run concurrently instead of one after
// another, each against its own bound of the shared alpha.
//
// Returns the best score and move among the parallel siblings, and
// whether any of them drove the shared window to a beta cutoff.
func (eng *Engine) searchSplit(moves []Move, alpha, beta, depth int32) (bestScore int32, bestMove Move, cutoff bool) {
	var mu sync.Mutex
	localAlpha := alpha
	bestScore = -InfinityScore
	bestMove = NullMove

	var wg sync.WaitGroup
	slots := make(chan struct{}, splitMaxSlaves)
	for _, m := range moves {
		mu.Lock()
		stop := cutoff
		mu.Unlock()
		if stop {
			break
		}

		slots <- struct{}{}
		worker := eng.Workers.getIdle()
		wg.Add(1)
		go func(m Move, worker *Engine) {
			defer wg.Done()
			defer func() { <-slots }()
			defer eng.Workers.putIdle(worker)

			slavePos := eng.Position.Clone()
			slavePos.Make(m)

			worker.SetPosition(slavePos)
			worker.TT = eng.TT
			worker.rootPly = eng.rootPly
			worker.timeControl = eng.timeControl
			worker.stopped = false
			worker.checkpoint = checkpointStep
			worker.Stats = Stats{}

			mu.Lock()
			a := localAlpha
			mu.Unlock()

			score := -worker.searchTree(-a-1, -a, depth-1)
			if score > a && score < beta {
				score = -worker.searchTree(-beta, -a, depth-1)
			}

			mu.Lock()
			defer mu.Unlock()
			eng.Stats.Nodes += worker.Stats.Nodes
			if worker.stopped {
				eng.stopped = true
			}
			if score > bestScore {
				bestScore, bestMove = score, m
			}
			if score > localAlpha {
				localAlpha = score
			}
			if localAlpha >= beta {
				cutoff = true
			}
		}(m, worker)
	}
	wg.Wait()

	return bestScore, bestMove, cutoff
}
