package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gyrfalcon/engine/internal/board"
)

// SearchInfo reports the state of one completed iterative-deepening
// iteration, suitable for translation into a UCI "info" line.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// Engine ties the root-move-splitting driver, transposition table and
// time manager together into the single search surface the UCI layer
// drives. There is no separate single-threaded code path: an Engine
// constructed with numThreads<=1 simply runs the driver with one worker.
type Engine struct {
	driver *Driver
	tm     *TimeManager

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a chess engine with a transposition table of
// ttSizeMB, split across numThreads root-move-splitting workers.
func NewEngine(ttSizeMB, numThreads int) *Engine {
	return &Engine{
		driver: NewDriver(ttSizeMB, numThreads),
		tm:     NewTimeManager(),
	}
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.driver.Stop()
}

// Clear clears the transposition table and move-ordering state.
func (e *Engine) Clear() {
	e.driver.Reset()
}

// SearchWithLimits runs iterative deepening from pos under limits and
// returns the best move found. history is the Zobrist hash of every
// position since the start of the game, used for repetition detection.
func (e *Engine) SearchWithLimits(ctx context.Context, pos board.Position, limits UCILimits, history []uint64) board.Move {
	e.driver.Reset()
	e.driver.SetRootHistory(history)

	e.tm.Init(limits, pos.SideToMove, pos.FullMoveNumber)
	e.driver.SetDeadline(e.tm.Deadline())
	startTime := time.Now()

	maxDepth := DefaultDepthCap
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	} else if limits.Infinite {
		maxDepth = MaxPly - 1
	}

	var bestMove board.Move
	var bestScore int

	const initialWindow = 50

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && !limits.Infinite && e.tm.ShouldStop() {
			break
		}

		e.driver.NewIteration()

		var move board.Move
		var score int

		if depth >= 5 && bestMove != board.NoMove {
			window := initialWindow
			alpha := bestScore - window
			beta := bestScore + window

			for {
				move, score = e.driver.SearchDepth(ctx, pos, depth, alpha, beta)
				if e.driver.stop.Load() {
					break
				}
				if score <= alpha {
					alpha = -Infinity
				} else if score >= beta {
					beta = Infinity
				} else {
					break
				}
				if alpha == -Infinity && beta == Infinity {
					break
				}
			}
		} else {
			move, score = e.driver.SearchDepth(ctx, pos, depth, -Infinity, Infinity)
		}

		if e.driver.stop.Load() {
			break
		}

		if move != board.NoMove {
			bestMove = move
			bestScore = score
		}

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    bestScore,
				Nodes:    e.driver.Nodes(),
				Time:     time.Since(startTime),
				PV:       e.driver.GetPV(),
				HashFull: e.driver.HashFull(),
			})
		}

		if bestScore > MateScore-100 || bestScore < -MateScore+100 {
			break
		}
	}

	log.Debug().Str("bestmove", bestMove.String()).Int("score", bestScore).Msg("search finished")
	return bestMove
}

// Perft counts the number of leaf positions depth plies deep, used to
// validate move generation against known node counts.
func (e *Engine) Perft(pos board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := board.GenerateLegal(&pos)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		next, err := board.Apply(pos, moves.Get(i))
		if err != nil {
			continue
		}
		nodes += e.Perft(next, depth-1)
	}
	return nodes
}

// Evaluate returns the static, white-relative evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string: "Mate in N",
// "Mated in N", or a signed pawn value like "-1.35".
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	pad := ""
	if centipawns < 10 {
		pad = "0"
	}
	return sign + itoa(pawns) + "." + pad + itoa(centipawns)
}

// itoa is a tiny integer formatter kept local to avoid pulling in
// strconv/fmt for this single call site.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
