package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gyrfalcon/engine/internal/board"
)

func TestTimeManagerFixedMoveTime(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(UCILimits{MoveTime: 250 * time.Millisecond}, board.White, 1)
	require.Equal(t, 250*time.Millisecond, tm.Allotted())
}

func TestTimeManagerFormula(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{MovesToGo: 20}
	limits.Time[board.White] = 10 * time.Second
	limits.Inc[board.White] = 200 * time.Millisecond

	tm.Init(limits, board.White, 1)

	want := 10*time.Second/20 + 200*time.Millisecond/2
	require.Equal(t, want, tm.Allotted())
}

func TestTimeManagerDefaultMovesToGo(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{}
	limits.Time[board.White] = 30 * time.Second

	tm.Init(limits, board.White, 1)

	want := 30 * time.Second / DefaultMovesToGo
	require.Equal(t, want, tm.Allotted())
}

func TestTimeManagerFloorsAtMinimum(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{MovesToGo: 100}
	limits.Time[board.White] = 1 * time.Millisecond

	tm.Init(limits, board.White, 1)

	require.Equal(t, minMoveTime, tm.Allotted(), "expected the minimum move time floor")
}

func TestTimeManagerInfiniteGetsLongBudget(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(UCILimits{Infinite: true}, board.White, 1)
	require.GreaterOrEqual(t, tm.Allotted(), time.Hour, "infinite search should get a long budget")
}

func TestTimeManagerShouldStop(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(UCILimits{MoveTime: 5 * time.Millisecond}, board.White, 1)
	require.False(t, tm.ShouldStop(), "should not report stop immediately after Init")
	time.Sleep(10 * time.Millisecond)
	require.True(t, tm.ShouldStop(), "expected ShouldStop to be true after the budget elapsed")
}
