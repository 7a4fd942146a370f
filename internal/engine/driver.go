package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rs/zerolog/log"

	"github.com/gyrfalcon/engine/internal/board"
)

// Driver distributes the root move list across a fixed pool of worker
// goroutines for a single iterative-deepening depth: each worker searches
// its assigned root moves to depth-1 negamax against a thread-local
// context, then folds that context back into a shared root aggregate
// under a mutex. Running with one worker degrades to a plain
// single-threaded search with the same result, which is what backs the
// determinism property between threaded and unthreaded runs.
type Driver struct {
	aggregateTT *TranspositionTable
	aggregate   *MoveOrderer
	workers     []*Worker
	stop        atomic.Bool

	mu     sync.Mutex
	lastPV []board.Move
}

// NewDriver creates a driver with numWorkers worker goroutines, each
// owning a thread-local transposition table of ttSizeMB. A worker count
// below 1 is treated as 1.
func NewDriver(ttSizeMB, numWorkers int) *Driver {
	if numWorkers < 1 {
		numWorkers = 1
	}
	d := &Driver{
		aggregateTT: NewTranspositionTable(ttSizeMB),
		aggregate:   NewMoveOrderer(),
	}
	for i := 0; i < numWorkers; i++ {
		d.workers = append(d.workers, NewWorker(i, NewTranspositionTable(ttSizeMB), &d.stop))
	}
	return d
}

// Stop signals every worker to abandon its search.
func (d *Driver) Stop() {
	d.stop.Store(true)
}

// Reset clears the aggregate and every worker's thread-local context for
// a new search.
func (d *Driver) Reset() {
	d.stop.Store(false)
	d.aggregateTT.Clear()
	d.aggregate.Clear()
	for _, w := range d.workers {
		w.Reset()
	}
}

// NewIteration advances the shared table's search generation between
// iterative-deepening depths.
func (d *Driver) NewIteration() {
	d.aggregateTT.NewSearch()
}

// SetRootHistory seeds every worker's repetition path with the game
// history preceding the position about to be searched.
func (d *Driver) SetRootHistory(hashes []uint64) {
	for _, w := range d.workers {
		w.SetRootHistory(hashes)
	}
}

// SetDeadline sets the instant at which every worker must abandon its
// search, checked at the top of every node rather than only between
// iterative-deepening depths.
func (d *Driver) SetDeadline(deadline time.Time) {
	for _, w := range d.workers {
		w.SetDeadline(deadline)
	}
}

// Nodes returns the total nodes visited across all workers in the most
// recent search.
func (d *Driver) Nodes() uint64 {
	var total uint64
	for _, w := range d.workers {
		total += w.Nodes()
	}
	return total
}

// HashFull reports how full the root aggregate table is, in permille.
func (d *Driver) HashFull() int {
	return d.aggregateTT.HashFull()
}

// GetPV returns the principal variation found by the most recently
// completed SearchDepth call.
func (d *Driver) GetPV() []board.Move {
	return d.lastPV
}

// SearchDepth runs one iterative-deepening depth: the root move list is
// generated once, distributed round-robin across the worker pool, and
// each worker searches its assigned moves one at a time against its own
// thread-local context, applying the move and recursing with depth-1
// negamax. The best-scoring root move is selected under a mutex as
// results come in. If the driver was stopped mid-iteration the caller
// must not commit the returned move: a partial iteration never overwrites
// the result of the last fully completed one.
func (d *Driver) SearchDepth(ctx context.Context, pos board.Position, depth, alpha, beta int) (board.Move, int) {
	moves := board.GenerateLegal(&pos)
	if moves.Len() == 0 {
		d.lastPV = nil
		return board.NoMove, 0
	}

	d.mu.Lock()
	for _, w := range d.workers {
		w.tt.SeedFrom(d.aggregateTT)
		w.orderer.Killers.Merge(&d.aggregate.Killers)
		w.orderer.History.Merge(&d.aggregate.History)
	}
	d.mu.Unlock()

	start := time.Now()
	var resultMu sync.Mutex
	bestMove := board.NoMove
	bestScore := -Infinity
	var bestPV []board.Move

	g, _ := errgroup.WithContext(ctx)
	for wi, worker := range d.workers {
		wi, worker := wi, worker
		g.Go(func() error {
			for i := wi; i < moves.Len(); i += len(d.workers) {
				if d.stop.Load() {
					return nil
				}
				m := moves.Get(i)

				log.Debug().
					Str("move", m.String()).
					Int("index", i).
					Dur("elapsed", time.Since(start)).
					Uint64("nodes", worker.Nodes()).
					Msg("root move search")

				next, err := board.Apply(pos, m)
				if err != nil {
					continue
				}

				worker.pathHashes = append(worker.pathHashes, next.Hash)
				score := -worker.negamax(next, depth-1, 1, -beta, -alpha)
				worker.pathHashes = worker.pathHashes[:len(worker.pathHashes)-1]

				if d.stop.Load() {
					return nil
				}

				resultMu.Lock()
				if score > bestScore {
					bestScore = score
					bestMove = m
					line := worker.PVFrom(1)
					bestPV = append([]board.Move{m}, line...)
				}
				resultMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	d.mu.Lock()
	for _, w := range d.workers {
		d.aggregate.Killers.Merge(&w.orderer.Killers)
		d.aggregate.History.Merge(&w.orderer.History)
		w.tt.MergeInto(d.aggregateTT)
	}
	d.mu.Unlock()

	if d.stop.Load() {
		return bestMove, bestScore
	}

	d.lastPV = bestPV
	log.Debug().
		Int("depth", depth).
		Int("score", bestScore).
		Dur("elapsed", time.Since(start)).
		Uint64("nodes", d.Nodes()).
		Str("bestmove", bestMove.String()).
		Msg("depth complete")

	return bestMove, bestScore
}
