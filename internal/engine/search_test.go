package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestSearcherMatchesWorkerDirectly(t *testing.T) {
	pos := board.NewPosition()
	tt := NewTranspositionTable(1)

	s := NewSearcher(tt)
	s.SetRootHistory([]uint64{pos.Hash})

	move, score := s.Search(pos, 3)
	require.NotEqual(t, board.NoMove, move, "Searcher.Search returned NoMove for the starting position")

	legal := board.GenerateLegal(&pos)
	found := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i).Equal(move) {
			found = true
		}
	}
	require.True(t, found, "Searcher returned illegal move %s (score %d)", move.String(), score)
	require.NotEmpty(t, s.GetPV(), "expected a non-empty principal variation")
}

func TestSearcherStopIsRespected(t *testing.T) {
	tt := NewTranspositionTable(1)
	s := NewSearcher(tt)
	s.Stop()
	require.True(t, s.IsStopped(), "expected IsStopped to report true after Stop")
	s.Reset()
	require.False(t, s.IsStopped(), "expected IsStopped to report false after Reset")
}
