package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestEngineSearchBasicReturnsLegalMove(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16, 1)

	limits := UCILimits{Depth: 3}
	move := eng.SearchWithLimits(context.Background(), pos, limits, []uint64{pos.Hash})
	require.NotEqual(t, board.NoMove, move, "search returned NoMove for starting position")

	legal := board.GenerateLegal(&pos)
	found := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i).Equal(move) {
			found = true
			break
		}
	}
	require.True(t, found, "search returned illegal move %s", move.String())
}

func TestEngineSearchRespectsDepthAndReportsInfo(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16, 1)

	var depthsSeen []int
	eng.OnInfo = func(info SearchInfo) {
		depthsSeen = append(depthsSeen, info.Depth)
	}

	limits := UCILimits{Depth: 3}
	eng.SearchWithLimits(context.Background(), pos, limits, []uint64{pos.Hash})

	require.Len(t, depthsSeen, 3)
	for i, d := range depthsSeen {
		require.Equal(t, i+1, d, "depth sequence out of order: %v", depthsSeen)
	}
}

func TestEngineSearchFindsMateInOne(t *testing.T) {
	// White to move, back-rank mate with Qd8#.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w - - 0 1")
	require.NoError(t, err)
	eng := NewEngine(16, 1)

	move := eng.SearchWithLimits(context.Background(), pos, UCILimits{Depth: 3}, []uint64{pos.Hash})
	require.Equal(t, board.D8, move.To, "expected mating move to d8, got %s", move.String())
}

func TestEngineStopHaltsSearch(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16, 1)

	done := make(chan board.Move, 1)
	go func() {
		done <- eng.SearchWithLimits(context.Background(), pos, UCILimits{Infinite: true}, []uint64{pos.Hash})
	}()

	time.Sleep(20 * time.Millisecond)
	eng.Stop()

	select {
	case move := <-done:
		require.NotEqual(t, board.NoMove, move, "stopped search should still return the best move found so far")
	case <-time.After(2 * time.Second):
		t.Fatal("search did not stop in time")
	}
}

func TestPerftStartingPosition(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16, 1)

	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	for _, c := range cases {
		require.Equal(t, c.want, eng.Perft(pos, c.depth), "Perft(%d)", c.depth)
	}
}

func TestScoreToString(t *testing.T) {
	require.Equal(t, "1.35", ScoreToString(135))
	require.Equal(t, "-1.35", ScoreToString(-135))

	s := ScoreToString(MateScore - 3)
	require.True(t, len(s) >= 7 && s[:7] == "Mate in", "ScoreToString near mate = %q, want prefix %q", s, "Mate in")
}
