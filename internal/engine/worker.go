package engine

import (
	"sync/atomic"
	"time"

	"github.com/gyrfalcon/engine/internal/board"
)

// Worker performs a single-threaded alpha-beta search from a root
// position. It carries no forward-pruning heuristics: at a fixed depth it
// explores exactly the same tree a plain minimax would, only in a
// different order, so a cutoff never discards a line that could still
// matter.
type Worker struct {
	id      int
	tt      *TranspositionTable
	orderer *MoveOrderer
	stop    *atomic.Bool

	// deadline is the monotonic instant past which every node must
	// treat itself as cancelled, checked alongside stop at the top of
	// negamax and quiescence rather than only between iterations. The
	// zero value never expires.
	deadline time.Time

	nodes uint64
	pv    PVTable

	// pathHashes accumulates the Zobrist hash of every position from the
	// start of the game through the current search path, so a position
	// repeated three times (in-game or within the search tree) scores as
	// a draw exactly once discovered.
	pathHashes []uint64
	rootLen    int
}

// WorkerResult is what a worker reports back after searching one
// iterative-deepening depth.
type WorkerResult struct {
	WorkerID int
	Depth    int
	Move     board.Move
	Score    int
	Nodes    uint64
	Orderer  *MoveOrderer
}

// NewWorker creates a worker that searches with tt, shares the stop flag
// with its siblings, and owns its own move ordering tables.
func NewWorker(id int, tt *TranspositionTable, stop *atomic.Bool) *Worker {
	return &Worker{
		id:      id,
		tt:      tt,
		orderer: NewMoveOrderer(),
		stop:    stop,
	}
}

// SetRootHistory seeds the repetition path with the game's move history
// preceding the position about to be searched.
func (w *Worker) SetRootHistory(hashes []uint64) {
	w.pathHashes = append(w.pathHashes[:0], hashes...)
	w.rootLen = len(w.pathHashes)
}

// SetDeadline sets the monotonic instant at which the current search
// must abandon itself, checked at the top of every node. The zero
// value (the default) never expires.
func (w *Worker) SetDeadline(deadline time.Time) {
	w.deadline = deadline
}

// expired reports whether the search has been cancelled, either by an
// explicit stop or because the deadline has passed. Crossing the
// deadline also raises the shared stop flag, so sibling workers notice
// on their own next node and the iteration is never committed as if it
// had completed naturally.
func (w *Worker) expired() bool {
	if w.stop.Load() {
		return true
	}
	if !w.deadline.IsZero() && time.Now().After(w.deadline) {
		w.stop.Store(true)
		return true
	}
	return false
}

// Reset clears node count, PV, and move-ordering state for a fresh search
// while keeping the game history set by SetRootHistory.
func (w *Worker) Reset() {
	w.nodes = 0
	w.pv = PVTable{}
	w.orderer.Clear()
	w.pathHashes = w.pathHashes[:w.rootLen]
}

// Nodes returns the number of nodes visited by the most recent search.
func (w *Worker) Nodes() uint64 {
	return w.nodes
}

// GetPV returns the principal variation found by the most recent search.
func (w *Worker) GetPV() []board.Move {
	return w.PVFrom(0)
}

// PVFrom returns the principal variation found starting at ply, used by
// the root-splitting driver to read out the continuation of a root move
// searched as its own sub-tree.
func (w *Worker) PVFrom(ply int) []board.Move {
	pv := make([]board.Move, w.pv.length[ply]-ply)
	copy(pv, w.pv.moves[ply][ply:w.pv.length[ply]])
	return pv
}

// SearchDepth runs a full-width alpha-beta search to depth from rootPos
// and returns the best move found along with its score, relative to the
// side to move at rootPos.
func (w *Worker) SearchDepth(rootPos board.Position, depth, alpha, beta int) (board.Move, int) {
	w.pv.length[0] = 0
	score := w.negamax(rootPos, depth, 0, alpha, beta)
	if w.pv.length[0] == 0 {
		return board.NoMove, score
	}
	return w.pv.moves[0][0], score
}

func isRepeated(hashes []uint64, target uint64) bool {
	count := 0
	for _, h := range hashes {
		if h == target {
			count++
		}
	}
	return count >= 3
}

// relativeEval returns the static evaluation from the perspective of the
// side to move, since Evaluate itself is always white-relative.
func relativeEval(pos *board.Position) int {
	v := Evaluate(pos)
	if pos.SideToMove == board.Black {
		return -v
	}
	return v
}

// negamax implements fail-soft alpha-beta negamax. Move ordering (TT
// move, MVV-LVA, killers, history) only ever changes the ORDER children
// are visited in; it never skips a legal move or narrows the window based
// on anything but alpha/beta themselves, so the returned score always
// equals what a full minimax search to this depth would find.
func (w *Worker) negamax(pos board.Position, depth, ply, alpha, beta int) int {
	w.pv.length[ply] = ply

	if w.expired() {
		return 0
	}
	w.nodes++

	if ply > 0 {
		if pos.HalfMoveClock >= 100 || pos.IsInsufficientMaterial() || isRepeated(w.pathHashes, pos.Hash) {
			return 0
		}
	}

	if ply >= MaxPly-1 {
		return relativeEval(&pos)
	}

	if depth <= 0 {
		return w.quiescence(pos, alpha, beta, ply)
	}

	origAlpha := alpha

	ttMove := board.NoMove
	if entry, ok := w.tt.Probe(pos.Hash); ok {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score >= beta {
					return score
				}
			case TTUpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	moves := board.GenerateLegal(&pos)
	if moves.Len() == 0 {
		if pos.InCheck() {
			return -MateScore + ply
		}
		return 0
	}

	scores := w.orderer.ScoreMoves(&pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)
		quiet := m.IsQuiet(&pos)

		next, err := board.Apply(pos, m)
		if err != nil {
			continue
		}

		w.pathHashes = append(w.pathHashes, next.Hash)
		score := -w.negamax(next, depth-1, ply+1, -beta, -alpha)
		w.pathHashes = w.pathHashes[:len(w.pathHashes)-1]

		if w.expired() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score

			w.pv.moves[ply][ply] = m
			for j := ply + 1; j < w.pv.length[ply+1]; j++ {
				w.pv.moves[ply][j] = w.pv.moves[ply+1][j]
			}
			w.pv.length[ply] = w.pv.length[ply+1]

			if alpha >= beta {
				if quiet {
					w.orderer.Killers.Add(ply, m)
					w.orderer.History.Update(pos.SideToMove, m, depth)
				}
				break
			}
		}
	}

	flag := TTExact
	if bestScore <= origAlpha {
		flag = TTUpperBound
	} else if bestScore >= beta {
		flag = TTLowerBound
	}
	w.tt.Store(pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

// quiescence extends the search along capturing and promoting lines until
// the position is quiet, so the static evaluation is never sampled in the
// middle of an unresolved tactical exchange. It applies the same fail-soft
// stand-pat window as the outer search and adds no pruning of its own
// beyond the standard alpha-beta cutoff.
func (w *Worker) quiescence(pos board.Position, alpha, beta, ply int) int {
	w.nodes++

	if w.expired() {
		return 0
	}
	if ply >= MaxPly-1 {
		return relativeEval(&pos)
	}

	standPat := relativeEval(&pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := board.GenerateCaptures(&pos)
	scores := w.orderer.ScoreMoves(&pos, moves, ply, board.NoMove)

	bestScore := standPat

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		next, err := board.Apply(pos, m)
		if err != nil {
			continue
		}

		score := -w.quiescence(next, -beta, -alpha, ply+1)

		if w.expired() {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}

	return bestScore
}
