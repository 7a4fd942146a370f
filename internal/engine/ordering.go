package engine

import (
	"math"

	"github.com/gyrfalcon/engine/internal/board"
)

// Move ordering priorities. TT moves and captures always sort ahead of
// killers, which always sort ahead of quiet history scores.
const (
	ttMoveScore  = math.MaxInt32
	captureBase  = 1000000
	killerScore1 = 900000
	killerScore2 = 800000
)

// HistoryTable counts how often a quiet move has caused a beta cutoff,
// keyed by the side to move and the move's origin and destination square.
// Scores saturate at int16 range rather than overflow.
type HistoryTable struct {
	scores [2][64][64]int16
}

// Score returns the current history score for a quiet move.
func (h *HistoryTable) Score(side board.Color, m board.Move) int {
	return int(h.scores[side][m.From][m.To])
}

// Update bumps the score for a cutoff-causing quiet move by depth squared,
// clamped to avoid overflowing the underlying int16.
func (h *HistoryTable) Update(side board.Color, m board.Move, depth int) {
	bonus := int32(depth * depth)
	next := int32(h.scores[side][m.From][m.To]) + bonus
	if next > math.MaxInt16 {
		next = math.MaxInt16
	}
	h.scores[side][m.From][m.To] = int16(next)
}

// Clear resets every history score to zero.
func (h *HistoryTable) Clear() {
	for side := range h.scores {
		for from := range h.scores[side] {
			for to := range h.scores[side][from] {
				h.scores[side][from][to] = 0
			}
		}
	}
}

// Merge folds another worker's history table into this one, summing
// scores elementwise and saturating on overflow. Used to build the root
// aggregate from each parallel worker's local table.
func (h *HistoryTable) Merge(other *HistoryTable) {
	for side := range h.scores {
		for from := range h.scores[side] {
			for to := range h.scores[side][from] {
				sum := int32(h.scores[side][from][to]) + int32(other.scores[side][from][to])
				if sum > math.MaxInt16 {
					sum = math.MaxInt16
				} else if sum < math.MinInt16 {
					sum = math.MinInt16
				}
				h.scores[side][from][to] = int16(sum)
			}
		}
	}
}

// KillerTable remembers, per ply, up to two quiet moves that have caused a
// beta cutoff. Captures are never stored as killers since MVV-LVA already
// orders them well.
type KillerTable struct {
	moves [MaxPly][2]board.Move
}

// Add records m as the newest killer at ply, displacing the older slot.
// Re-adding the current first killer is a no-op.
func (k *KillerTable) Add(ply int, m board.Move) {
	if ply >= MaxPly {
		return
	}
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// Rank reports whether m is a killer at ply, and if so which slot (1 or
// 2, first preferred over second).
func (k *KillerTable) Rank(ply int, m board.Move) (int, bool) {
	if ply >= MaxPly {
		return 0, false
	}
	if k.moves[ply][0] == m {
		return 1, true
	}
	if k.moves[ply][1] == m {
		return 2, true
	}
	return 0, false
}

// Clear resets every killer slot.
func (k *KillerTable) Clear() {
	for i := range k.moves {
		k.moves[i][0] = board.NoMove
		k.moves[i][1] = board.NoMove
	}
}

// Merge takes the union of another worker's killers into this one,
// preferring this table's own entries when both slots are already filled.
func (k *KillerTable) Merge(other *KillerTable) {
	for ply := range k.moves {
		for slot := 0; slot < 2; slot++ {
			m := other.moves[ply][slot]
			if m == board.NoMove {
				continue
			}
			if k.moves[ply][0] == board.NoMove {
				k.moves[ply][0] = m
			} else if k.moves[ply][1] == board.NoMove && k.moves[ply][0] != m {
				k.moves[ply][1] = m
			}
		}
	}
}

// MoveOrderer scores and sorts moves for a single search thread, combining
// the TT move, MVV-LVA captures and promotions, killer moves, and the
// history heuristic.
type MoveOrderer struct {
	Killers KillerTable
	History HistoryTable
}

// NewMoveOrderer returns an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets both underlying tables for a new search.
func (mo *MoveOrderer) Clear() {
	mo.Killers.Clear()
	mo.History.Clear()
}

// ScoreMoves assigns an ordering score to every move in moves.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m.Equal(ttMove) {
		return ttMoveScore
	}

	if m.IsCapture(pos) {
		attacker := pos.PieceAt(m.From).Type()
		return captureBase + 10*captureVictimValue(pos, m) - board.PieceValue[attacker]
	}

	if m.IsPromotion() {
		return captureBase + 10*board.PieceValue[m.Promotion]
	}

	if slot, ok := mo.Killers.Rank(ply, m); ok {
		if slot == 1 {
			return killerScore1
		}
		return killerScore2
	}

	return mo.History.Score(pos.SideToMove, m)
}

func captureVictimValue(pos *board.Position, m board.Move) int {
	if m.EnPassant {
		return board.PieceValue[board.Pawn]
	}
	return board.PieceValue[pos.PieceAt(m.To).Type()]
}

// SortMoves fully sorts moves by descending score.
func SortMoves(moves *board.MoveList, scores []int) {
	n := moves.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// PickMove selects the best-scoring move at or after index and swaps it
// into place, allowing search to sort lazily rather than up front.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}
