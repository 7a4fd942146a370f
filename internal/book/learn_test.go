package book

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestLearnStoreRecordAndAdjust(t *testing.T) {
	store, err := OpenLearnStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	pos := board.NewPosition()
	m := board.Move{From: board.E2, To: board.E4}
	entry := Entry{Move: m, Weight: 100}

	require.Equal(t, uint16(100), store.AdjustedWeight(&pos, entry))

	require.NoError(t, store.Record(&pos, m, OutcomeWin))
	require.NoError(t, store.Record(&pos, m, OutcomeWin))
	require.Equal(t, uint16(104), store.AdjustedWeight(&pos, entry))

	require.NoError(t, store.Record(&pos, m, OutcomeLoss))
	require.NoError(t, store.Record(&pos, m, OutcomeLoss))
	require.NoError(t, store.Record(&pos, m, OutcomeLoss))
	// 2 wins (+4) and 3 losses (-6) nets to -2 -> 98.
	require.Equal(t, uint16(98), store.AdjustedWeight(&pos, entry))
}

func TestLearnStoreNilIsHarmless(t *testing.T) {
	var store *LearnStore
	pos := board.NewPosition()
	m := board.Move{From: board.E2, To: board.E4}

	require.NoError(t, store.Record(&pos, m, OutcomeWin))
	require.Equal(t, uint16(50), store.AdjustedWeight(&pos, Entry{Move: m, Weight: 50}))
}
