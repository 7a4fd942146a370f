package engine

import (
	"time"

	"github.com/gyrfalcon/engine/internal/board"
)

// DefaultMovesToGo is assumed when the UCI client gives no movestogo
// hint (sudden-death time control).
const DefaultMovesToGo = 30

// DefaultDepthCap bounds iterative deepening whenever no depth limit is
// given and the search is not infinite, in addition to any time budget.
const DefaultDepthCap = 12

// minMoveTime is the floor below which a search is never allocated less
// time than needed to complete at least one ply.
const minMoveTime = 50 * time.Millisecond

// UCILimits contains UCI time control parameters. It doubles as the
// engine's production search-limits type; a UCI "go" command is parsed
// directly into one and handed to Engine.SearchWithLimits.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode

	// Threads is not read by Engine.SearchWithLimits: the
	// root-move-splitting worker count is fixed when the Engine is built
	// by NewEngine.
	Threads int
}

// TimeManager allocates a single move-time budget: remaining time divided
// by an estimated number of moves left, plus half the increment, floored
// at minMoveTime.
type TimeManager struct {
	allotted  time.Duration
	startTime time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init computes the time budget for the upcoming search and starts the
// clock. us is the side about to move.
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.allotted = limits.MoveTime
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		tm.allotted = time.Hour
		return
	}

	mtg := limits.MovesToGo
	if mtg <= 0 {
		mtg = DefaultMovesToGo
	}

	budget := limits.Time[us]/time.Duration(mtg) + limits.Inc[us]/2
	if budget < minMoveTime {
		budget = minMoveTime
	}
	tm.allotted = budget
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Allotted returns this move's computed time budget.
func (tm *TimeManager) Allotted() time.Duration {
	return tm.allotted
}

// ShouldStop reports whether the allotted time has elapsed.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.allotted
}

// Deadline returns the monotonic point in time at which the current
// search's budget runs out, for workers to check at every node rather
// than only between iterative-deepening depths.
func (tm *TimeManager) Deadline() time.Time {
	return tm.startTime.Add(tm.allotted)
}
