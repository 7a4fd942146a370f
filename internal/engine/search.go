package engine

import (
	"sync/atomic"
	"time"

	"github.com/gyrfalcon/engine/internal/board"
)

// Search constants.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation using the classic triangular
// layout: moves[ply][ply..length[ply]) holds the line found from ply
// onward.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher drives a single Worker through one depth of alpha-beta search
// against a single shared transposition table, with no root-move
// splitting. It exists as a minimal single-threaded harness for testing
// Worker's search kernel directly; production search goes through Driver,
// which degrades to the same single-worker behaviour when configured with
// one thread.
type Searcher struct {
	worker   *Worker
	stopFlag atomic.Bool
}

// NewSearcher creates a searcher backed by its own worker sharing tt.
func NewSearcher(tt *TranspositionTable) *Searcher {
	s := &Searcher{}
	s.worker = NewWorker(0, tt, &s.stopFlag)
	return s
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.worker.Reset()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.worker.Nodes()
}

// Search performs a full-window search at the given depth.
func (s *Searcher) Search(pos board.Position, depth int) (board.Move, int) {
	return s.SearchWithBounds(pos, depth, -Infinity, Infinity)
}

// SetRootHistory sets the position history from the game, used for
// repetition detection.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.worker.SetRootHistory(hashes)
}

// SetDeadline sets the instant at which the search must abandon itself,
// checked at the top of every node. The zero value never expires.
func (s *Searcher) SetDeadline(deadline time.Time) {
	s.worker.SetDeadline(deadline)
}

// SearchWithBounds performs search with custom alpha/beta bounds (for
// aspiration windows).
func (s *Searcher) SearchWithBounds(pos board.Position, depth, alpha, beta int) (board.Move, int) {
	return s.worker.SearchDepth(pos, depth, alpha, beta)
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	return s.worker.GetPV()
}

// ClearOrderer clears the move orderer state.
func (s *Searcher) ClearOrderer() {
	s.worker.orderer.Clear()
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}
