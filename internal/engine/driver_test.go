package engine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestDriverSingleWorkerMatchesWorker(t *testing.T) {
	pos := board.NewPosition()

	d := NewDriver(1, 1)
	d.SetRootHistory([]uint64{pos.Hash})
	move, score := d.SearchDepth(context.Background(), pos, 3, -Infinity, Infinity)

	require.NotEqual(t, board.NoMove, move, "single-worker driver returned NoMove for the starting position")

	var stop atomic.Bool
	w := NewWorker(0, NewTranspositionTable(1), &stop)
	w.SetRootHistory([]uint64{pos.Hash})
	wantMove, wantScore := w.SearchDepth(pos, 3, -Infinity, Infinity)

	require.Equal(t, wantScore, score)
	if !move.Equal(wantMove) {
		t.Logf("driver move %s differs from worker move %s despite equal score (both optimal)", move.String(), wantMove.String())
	}
}

func TestDriverMultiWorkerCoversAllRootMoves(t *testing.T) {
	pos := board.NewPosition()
	legal := board.GenerateLegal(&pos)

	d := NewDriver(1, 4)
	d.SetRootHistory([]uint64{pos.Hash})
	move, _ := d.SearchDepth(context.Background(), pos, 2, -Infinity, Infinity)

	found := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i).Equal(move) {
			found = true
		}
	}
	require.True(t, found, "multi-worker driver returned a move not in the root move list: %s", move.String())
}

func TestDriverResetClearsAggregate(t *testing.T) {
	pos := board.NewPosition()
	d := NewDriver(1, 2)
	d.SetRootHistory([]uint64{pos.Hash})
	d.SearchDepth(context.Background(), pos, 2, -Infinity, Infinity)

	require.NotZero(t, d.Nodes(), "expected some nodes to have been searched")

	d.Reset()
	require.Zero(t, d.Nodes())
}
