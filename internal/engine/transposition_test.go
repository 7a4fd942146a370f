package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestTranspositionStoreReplacesOnlyWhenDeeper(t *testing.T) {
	tt := NewTranspositionTable(1)
	m := board.Move{From: board.E2, To: board.E4}

	tt.Store(1234, 4, 50, TTExact, m)
	entry, ok := tt.Probe(1234)
	require.True(t, ok)
	require.Equal(t, int8(4), entry.Depth)

	// Shallower result must not replace a deeper one.
	tt.Store(1234, 2, 10, TTExact, m)
	entry, _ = tt.Probe(1234)
	require.Equal(t, int8(4), entry.Depth, "shallower store overwrote deeper entry")
	require.Equal(t, int16(50), entry.Score)

	// Strictly deeper result replaces.
	tt.Store(1234, 6, 90, TTExact, m)
	entry, _ = tt.Probe(1234)
	require.Equal(t, int8(6), entry.Depth, "deeper store did not replace")
	require.Equal(t, int16(90), entry.Score)
}

func TestTranspositionMergeBreaksTiesOnAge(t *testing.T) {
	tt := NewTranspositionTable(1)
	m := board.Move{From: board.D2, To: board.D4}

	tt.Merge(555, 4, 20, TTExact, m, 1)
	tt.Merge(555, 4, 99, TTExact, m, 1) // same depth, same age: newer wins on >=
	entry, _ := tt.Probe(555)
	require.Equal(t, int16(99), entry.Score, "equal-depth equal-age merge should replace")

	tt.Merge(555, 3, 1, TTExact, m, 5) // shallower: must not replace
	entry, _ = tt.Probe(555)
	require.Equal(t, int16(99), entry.Score, "shallower merge replaced a deeper entry")
}

func TestTranspositionSeedFromAndMergeInto(t *testing.T) {
	src := NewTranspositionTable(1)
	dst := NewTranspositionTable(1)
	m := board.Move{From: board.G1, To: board.F3}

	src.Store(42, 5, 30, TTExact, m)

	dst.SeedFrom(src)
	entry, ok := dst.Probe(42)
	require.True(t, ok)
	require.Equal(t, int8(5), entry.Depth, "SeedFrom did not copy entry")

	worker := NewTranspositionTable(1)
	worker.Store(42, 8, 77, TTExact, m)
	worker.MergeInto(dst)

	entry, _ = dst.Probe(42)
	require.Equal(t, int8(8), entry.Depth, "MergeInto did not fold in the deeper worker entry")
	require.Equal(t, int16(77), entry.Score)
}

func TestAdjustScoreRoundTripsThroughTT(t *testing.T) {
	score := MateScore - 5
	ply := 3

	stored := AdjustScoreToTT(score, ply)
	restored := AdjustScoreFromTT(stored, ply)
	require.Equal(t, score, restored, "mate score did not round-trip")
}
