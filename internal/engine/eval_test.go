package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestEvaluateStartPositionIsSymmetric(t *testing.T) {
	pos := board.NewPosition()
	require.Equal(t, 0, Evaluate(&pos), "starting position should evaluate to 0")
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	require.Greater(t, Evaluate(&pos), 800, "queen advantage should score well above a rook")
}

func TestEvaluateIsWhiteRelative(t *testing.T) {
	white, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	black, err := board.ParseFEN("3qk3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	require.Equal(t, Evaluate(&white), -Evaluate(&black), "mirrored material should evaluate to opposite scores")
}

func TestEvaluateFiftyMoveRuleIsDraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 100 60")
	require.NoError(t, err)
	require.Equal(t, 0, Evaluate(&pos), "halfmove clock at 100 forces a draw score")
}

func TestEvaluatePassedPawnBeatsBlockedPawn(t *testing.T) {
	passed, err := board.ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	blocked, err := board.ParseFEN("4k3/4p3/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)

	require.Greater(t, Evaluate(&passed), Evaluate(&blocked),
		"a passed pawn should score higher than one blocked by an enemy pawn ahead")
}

func TestEvaluateDoubledPawnsPenalized(t *testing.T) {
	doubled, err := board.ParseFEN("4k3/8/8/8/4P3/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	spread, err := board.ParseFEN("4k3/8/8/8/3P4/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)

	require.Less(t, Evaluate(&doubled), Evaluate(&spread),
		"doubled pawns should score lower than spread pawns")
}

func TestIsInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},     // K v K
		{"4k3/8/8/8/8/8/8/3NK3 w - - 0 1", true},    // K+N v K
		{"4k3/8/8/8/8/8/2B5/4K3 w - - 0 1", true},   // K+B v K
		{"2b1k3/8/8/8/8/8/2B5/4K3 w - - 0 1", true}, // same-colour bishops
		{"4k3/8/8/8/8/8/2B5/3BK3 w - - 0 1", false}, // two same-side bishops
		{"4k3/8/8/8/8/8/8/2Q1K3 w - - 0 1", false},  // queen present
	}
	for _, c := range cases {
		pos, err := board.ParseFEN(c.fen)
		require.NoError(t, err, c.fen)
		require.Equal(t, c.want, pos.IsInsufficientMaterial(), c.fen)
	}
}
