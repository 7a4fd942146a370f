package uci

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
	"github.com/gyrfalcon/engine/internal/config"
	"github.com/gyrfalcon/engine/internal/engine"
)

func newTestUCI() *UCI {
	cfg := config.Default()
	cfg.UseBook = false
	return New(engine.NewEngine(1, 1), cfg)
}

func TestHandlePositionStartpos(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"startpos"})

	want := board.NewPosition()
	require.Equal(t, want.Hash, u.position.Hash)
	require.Equal(t, []uint64{want.Hash}, u.positionHashes)
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"startpos", "moves", "e2e4", "e7e5"})

	require.NotEqual(t, board.NewPosition().Hash, u.position.Hash)
	require.Len(t, u.positionHashes, 3, "expected start + two applied moves recorded")
	require.Equal(t, u.position.Hash, u.positionHashes[len(u.positionHashes)-1])
}

func TestHandlePositionFEN(t *testing.T) {
	u := newTestUCI()
	fen := "6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w - - 0 1"
	u.handlePosition([]string{"fen", "6k1/5ppp/8/8/8/8/5PPP/3Q2K1", "w", "-", "-", "0", "1"})

	want, err := board.ParseFEN(fen)
	require.NoError(t, err)
	require.Equal(t, want.Hash, u.position.Hash)
}

func TestHandlePositionFENWithMoves(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{
		"fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", "w", "KQkq", "-", "0", "1",
		"moves", "e2e4",
	})

	after4, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)
	m, err := board.ParseMove("e2e4", &after4)
	require.NoError(t, err)
	want, err := board.Apply(after4, m)
	require.NoError(t, err)

	require.Equal(t, want.Hash, u.position.Hash)
}

func TestHandlePositionInvalidMoveLeavesPositionUnchanged(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"startpos"})
	before := u.position.Hash

	u.handlePosition([]string{"startpos", "moves", "e2e5"}) // not a legal pawn move
	require.Equal(t, before, u.position.Hash)
}

func TestParseGoOptionsAllFields(t *testing.T) {
	u := newTestUCI()
	opts := u.parseGoOptions([]string{
		"depth", "10",
		"nodes", "50000",
		"movetime", "1500",
		"wtime", "60000",
		"btime", "55000",
		"winc", "500",
		"binc", "400",
		"movestogo", "25",
	})

	require.Equal(t, 10, opts.Depth)
	require.Equal(t, uint64(50000), opts.Nodes)
	require.Equal(t, 1500*time.Millisecond, opts.MoveTime)
	require.Equal(t, 60000*time.Millisecond, opts.WTime)
	require.Equal(t, 55000*time.Millisecond, opts.BTime)
	require.Equal(t, 500*time.Millisecond, opts.WInc)
	require.Equal(t, 400*time.Millisecond, opts.BInc)
	require.Equal(t, 25, opts.MovesToGo)
	require.False(t, opts.Infinite)
}

func TestParseGoOptionsInfinite(t *testing.T) {
	u := newTestUCI()
	opts := u.parseGoOptions([]string{"infinite"})
	require.True(t, opts.Infinite)
}

func TestLimitsFromOptionsMapsColorIndexedFields(t *testing.T) {
	u := newTestUCI()
	opts := GoOptions{
		Depth:     8,
		WTime:     10 * time.Second,
		BTime:     8 * time.Second,
		WInc:      100 * time.Millisecond,
		BInc:      200 * time.Millisecond,
		MovesToGo: 30,
	}

	limits := u.limitsFromOptions(opts)

	require.Equal(t, 8, limits.Depth)
	require.Equal(t, 30, limits.MovesToGo)
	require.Equal(t, 10*time.Second, limits.Time[board.White])
	require.Equal(t, 8*time.Second, limits.Time[board.Black])
	require.Equal(t, 100*time.Millisecond, limits.Inc[board.White])
	require.Equal(t, 200*time.Millisecond, limits.Inc[board.Black])
}

func TestHandleSetOptionHash(t *testing.T) {
	u := newTestUCI()
	u.handleSetOption([]string{"name", "Hash", "value", "64"})
	require.Equal(t, 64, u.cfg.HashMB)
}

func TestHandleSetOptionHashIgnoresInvalidValue(t *testing.T) {
	u := newTestUCI()
	before := u.cfg.HashMB
	u.handleSetOption([]string{"name", "Hash", "value", "notanumber"})
	require.Equal(t, before, u.cfg.HashMB)
}

func TestHandleSetOptionUseBook(t *testing.T) {
	u := newTestUCI()
	u.handleSetOption([]string{"name", "UseBook", "value", "true"})
	require.True(t, u.useBook)
	require.True(t, u.cfg.UseBook)

	u.handleSetOption([]string{"name", "UseBook", "value", "false"})
	require.False(t, u.useBook)
}

func TestHandleSetOptionBookUpdatesConfig(t *testing.T) {
	u := newTestUCI()
	u.handleSetOption([]string{"name", "Book", "value", "custom.bin"})
	require.Equal(t, "custom.bin", u.cfg.Book)
}

func TestHandleNewGameResetsPosition(t *testing.T) {
	u := newTestUCI()
	u.handlePosition([]string{"startpos", "moves", "e2e4"})
	require.NotEqual(t, board.NewPosition().Hash, u.position.Hash)

	u.handleNewGame()
	require.Equal(t, board.NewPosition().Hash, u.position.Hash)
	require.Len(t, u.positionHashes, 1)
}
