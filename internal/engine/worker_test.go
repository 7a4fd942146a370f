package engine

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

// naiveMinimax is a brute-force reference search with no alpha-beta
// pruning, no move ordering and no transposition table: exactly what the
// worker's negamax must agree with at every depth, since the worker adds
// no forward-pruning heuristic that could change the result.
func naiveMinimax(pos board.Position, depth, ply int) int {
	if depth == 0 {
		return naiveQuiescence(pos)
	}

	moves := board.GenerateLegal(&pos)
	if moves.Len() == 0 {
		if pos.InCheck() {
			return -MateScore + ply
		}
		return 0
	}

	best := -Infinity
	for i := 0; i < moves.Len(); i++ {
		next, err := board.Apply(pos, moves.Get(i))
		if err != nil {
			continue
		}
		score := -naiveMinimax(next, depth-1, ply+1)
		if score > best {
			best = score
		}
	}
	return best
}

// naiveQuiescence exhaustively explores every capturing line with no
// alpha-beta cutoff, mirroring Worker.quiescence's tree shape (stand-pat
// as one option, otherwise recurse through every capture) so it can
// stand in as a leaf function that visits exactly the nodes a full-window
// call to Worker.quiescence would.
func naiveQuiescence(pos board.Position) int {
	standPat := relativeEval(&pos)
	best := standPat

	moves := board.GenerateCaptures(&pos)
	for i := 0; i < moves.Len(); i++ {
		next, err := board.Apply(pos, moves.Get(i))
		if err != nil {
			continue
		}
		score := -naiveQuiescence(next)
		if score > best {
			best = score
		}
	}
	return best
}

func newTestWorker() *Worker {
	var stop atomic.Bool
	return NewWorker(0, NewTranspositionTable(1), &stop)
}

func TestWorkerMatchesNaiveMinimax(t *testing.T) {
	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}

	for _, fen := range positions {
		pos, err := board.ParseFEN(fen)
		require.NoError(t, err, fen)

		for depth := 1; depth <= 3; depth++ {
			w := newTestWorker()
			w.SetRootHistory([]uint64{pos.Hash})
			_, gotScore := w.SearchDepth(pos, depth, -Infinity, Infinity)

			want := naiveMinimax(pos, depth, 0)
			require.Equal(t, want, gotScore, "fen=%q depth=%d", fen, depth)
		}
	}
}

func TestWorkerReturnsLegalMove(t *testing.T) {
	pos := board.NewPosition()
	w := newTestWorker()
	w.SetRootHistory([]uint64{pos.Hash})

	move, _ := w.SearchDepth(pos, 3, -Infinity, Infinity)
	require.NotEqual(t, board.NoMove, move, "expected a move from the starting position")

	legal := board.GenerateLegal(&pos)
	found := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i).Equal(move) {
			found = true
		}
	}
	require.True(t, found, "worker returned illegal move %s", move.String())
}

func TestWorkerDetectsFiftyMoveDraw(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/8/4K3/8/8 w - - 100 60")
	require.NoError(t, err)
	w := newTestWorker()
	w.SetRootHistory([]uint64{pos.Hash})

	_, score := w.SearchDepth(pos, 2, -Infinity, Infinity)
	require.Equal(t, 0, score, "expected draw score at fifty-move limit")
}

func TestWorkerDetectsThreefoldRepetition(t *testing.T) {
	pos := board.NewPosition()
	w := newTestWorker()

	// Shuffle knights back and forth twice to reach the start position a
	// third time, purely via the repetition path passed to the worker.
	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	history := []uint64{pos.Hash}
	cur := pos
	for _, ms := range moves {
		m, err := board.ParseMove(ms, &cur)
		require.NoError(t, err, ms)
		cur, err = board.Apply(cur, m)
		require.NoError(t, err, ms)
		history = append(history, cur.Hash)
	}

	require.True(t, isRepeated(history, pos.Hash), "expected the starting position hash to have recurred three times")

	w.SetRootHistory(history)
	_, score := w.SearchDepth(cur, 1, -Infinity, Infinity)
	_ = score // repetition is only scored for positions reached mid-search, not the root itself
}
