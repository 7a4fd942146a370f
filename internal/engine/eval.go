package engine

import "github.com/gyrfalcon/engine/internal/board"

const (
	doubledPawnPenalty    = 10
	isolatedPawnPenalty   = 20
	backwardPawnPenalty   = 8
	passedPawnRankBonus   = 20
	rookSemiOpenBonus     = 10
	rookOpenBonus         = 15
	rookSeventhRankBonus  = 20
	openFilePenalty       = 10
	kingSafetyScale       = 3100
	endgameMaterialCutoff = 1200
)

// Piece-square tables, indexed the same way the board package numbers
// squares: row-major, a8=0, h1=63. A white piece is scored psTable[sq]; a
// black piece is scored psTable[sq.Mirror()], reusing the same table by
// flipping across the board's horizontal midline.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// kingMidPST rewards a castled king tucked behind its shield; row index 0
// is rank 8 (the row-major square numbering's top row).
var kingMidPST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var kingEndPST = [64]int{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

// noPawnAdvancement marks a file with no pawn of a given colour: a sentinel
// large enough that it never reads as "further back" than a real pawn,
// so isolated/backward checks near the board edge need no bounds checks.
const noPawnAdvancement = 99

// pawnScratch holds, per file (with sentinel columns 0 and 9 for the
// board's left/right edges), the least-advanced pawn's advancement for
// each colour. It is rebuilt fresh at the start of every evaluation call.
type pawnScratch struct {
	leastAdvanced [2][10]int
}

// advancement measures progress from a colour's own back rank, using the
// board package's own relative-rank convention (0 at the back rank). Pawns
// never start further back than their second rank, so pawn callers treat
// advancement-1 as "ranks moved from home".
func advancement(c board.Color, sq board.Square) int {
	return sq.RelativeRank(c)
}

func buildPawnScratch(pos *board.Position) *pawnScratch {
	ps := &pawnScratch{}
	for file := 0; file < 10; file++ {
		ps.leastAdvanced[board.White][file] = noPawnAdvancement
		ps.leastAdvanced[board.Black][file] = noPawnAdvancement
	}

	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece || pc.Type() != board.Pawn {
			continue
		}
		c := pc.Color()
		f := sq.File() + 1
		adv := advancement(c, sq)
		if adv < ps.leastAdvanced[c][f] {
			ps.leastAdvanced[c][f] = adv
		}
	}
	return ps
}

// Evaluate returns the white-relative static evaluation of pos in
// centipawns: material, piece-square placement, pawn structure, rook file
// and 7th-rank bonuses, and king safety scaled by the opponent's attacking
// material. The 50-move rule folds directly to a draw score.
func Evaluate(pos *board.Position) int {
	if pos.HalfMoveClock >= 100 {
		return 0
	}

	score := materialAndPST(pos)
	score += pawnStructure(pos)
	score += rookFiles(pos)
	score += kingSafety(pos)

	return score
}

func materialAndPST(pos *board.Position) int {
	whiteNonPawn := pos.NonPawnMaterial(board.White)
	blackNonPawn := pos.NonPawnMaterial(board.Black)

	score := 0
	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece {
			continue
		}
		pt := pc.Type()
		c := pc.Color()

		sign := 1
		idx := sq
		if c == board.Black {
			sign = -1
			idx = sq.Mirror()
		}

		score += sign * board.PieceValue[pt]

		switch pt {
		case board.Pawn:
			score += sign * pawnPST[idx]
		case board.Knight:
			score += sign * knightPST[idx]
		case board.Bishop:
			score += sign * bishopPST[idx]
		case board.King:
			opponentNonPawn := whiteNonPawn
			if c == board.White {
				opponentNonPawn = blackNonPawn
			}
			if opponentNonPawn <= endgameMaterialCutoff {
				score += sign * kingEndPST[idx]
			} else {
				score += sign * kingMidPST[idx]
			}
		}
	}
	return score
}

func pawnStructure(pos *board.Position) int {
	ps := buildPawnScratch(pos)
	score := 0

	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece || pc.Type() != board.Pawn {
			continue
		}
		c := pc.Color()
		sign := 1
		if c == board.Black {
			sign = -1
		}
		file := sq.File() + 1
		adv := advancement(c, sq)

		if doubledBehind(pos, sq, c) {
			score -= sign * doubledPawnPenalty
		}

		leftEmpty := ps.leastAdvanced[c][file-1] == noPawnAdvancement
		rightEmpty := ps.leastAdvanced[c][file+1] == noPawnAdvancement
		if leftEmpty && rightEmpty {
			score -= sign * isolatedPawnPenalty
		} else {
			leftBehind := ps.leastAdvanced[c][file-1] < adv
			rightBehind := ps.leastAdvanced[c][file+1] < adv
			if leftBehind && rightBehind {
				score -= sign * backwardPawnPenalty
			}
		}

		if isPassed(pos, sq, c) {
			score += sign * passedPawnRankBonus * (adv - 1)
		}
	}

	return score
}

// doubledBehind reports whether a same-colour pawn stands behind sq on the
// same file (i.e. sq's pawn is not the least-advanced of a doubled pair,
// so the penalty is charged exactly once per pair).
func doubledBehind(pos *board.Position, sq board.Square, c board.Color) bool {
	file := sq.File()
	myAdv := advancement(c, sq)
	for r := 0; r < 8; r++ {
		other := board.NewSquare(file, r)
		if other == sq {
			continue
		}
		pc := pos.Board[other]
		if pc == board.NoPiece || pc.Type() != board.Pawn || pc.Color() != c {
			continue
		}
		if advancement(c, other) < myAdv {
			return true
		}
	}
	return false
}

// isPassed reports whether no enemy pawn stands on sq's file or either
// adjacent file at or ahead of sq's rank, from sq's own colour's direction
// of travel.
func isPassed(pos *board.Position, sq board.Square, c board.Color) bool {
	file := sq.File()
	rank := sq.Rank()
	opp := c.Other()

	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		for r := 0; r < 8; r++ {
			pc := pos.Board[board.NewSquare(f, r)]
			if pc == board.NoPiece || pc.Type() != board.Pawn || pc.Color() != opp {
				continue
			}
			if c == board.White && r >= rank {
				return false
			}
			if c == board.Black && r <= rank {
				return false
			}
		}
	}
	return true
}

func rookFiles(pos *board.Position) int {
	score := 0
	for sq := board.Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece || pc.Type() != board.Rook {
			continue
		}
		c := pc.Color()
		sign := 1
		if c == board.Black {
			sign = -1
		}
		file := sq.File()

		ownPawns, enemyPawns := false, false
		for r := 0; r < 8; r++ {
			other := pos.Board[board.NewSquare(file, r)]
			if other == board.NoPiece || other.Type() != board.Pawn {
				continue
			}
			if other.Color() == c {
				ownPawns = true
			} else {
				enemyPawns = true
			}
		}
		if !ownPawns {
			score += sign * rookSemiOpenBonus
			if !enemyPawns {
				score += sign * rookOpenBonus
			}
		}

		seventh := 6
		if c == board.Black {
			seventh = 1
		}
		if sq.Rank() == seventh {
			score += sign * rookSeventhRankBonus
		}
	}
	return score
}

// kingSafety scores each king's shelter, scaled by how much non-pawn
// material the opponent still has to press an attack with.
func kingSafety(pos *board.Position) int {
	whiteNonPawn := pos.NonPawnMaterial(board.White)
	blackNonPawn := pos.NonPawnMaterial(board.Black)

	whiteDanger := kingDanger(pos, board.White)
	blackDanger := kingDanger(pos, board.Black)

	// Each king's exposure is only worth as much as the opponent's
	// remaining attacking material.
	return blackDanger*whiteNonPawn/kingSafetyScale - whiteDanger*blackNonPawn/kingSafetyScale
}

// kingDanger returns a non-negative danger score for c's king: higher is
// worse. Before scaling by the opponent's material, the sign convention is
// deliberately unsigned so both colours share the same scoring logic.
func kingDanger(pos *board.Position, c board.Color) int {
	kingSq := pos.KingSquare(c)
	file := kingSq.File()

	if file >= 3 && file <= 4 {
		// Centred king: penalise every fully open file in its neighbourhood.
		danger := 0
		for f := file - 1; f <= file+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			if fileIsOpen(pos, f) {
				danger += openFilePenalty
			}
		}
		return danger
	}

	var shelterFiles [3]int
	if file <= 2 {
		shelterFiles = [3]int{0, 1, 2}
	} else {
		shelterFiles = [3]int{5, 6, 7}
	}

	shelterRank := 1
	if c == board.Black {
		shelterRank = 6
	}

	danger := 0
	for _, f := range shelterFiles {
		hasOwn, ownRank := false, 0
		hasEnemy := false
		for r := 0; r < 8; r++ {
			pc := pos.Board[board.NewSquare(f, r)]
			if pc == board.NoPiece || pc.Type() != board.Pawn {
				continue
			}
			if pc.Color() == c {
				hasOwn = true
				ownRank = r
			} else {
				hasEnemy = true
			}
		}

		if !hasOwn {
			danger += 25
		} else {
			advanced := ownRank - shelterRank
			if c == board.Black {
				advanced = shelterRank - ownRank
			}
			if advanced > 0 {
				danger += 10 * advanced
			}
		}
		if !hasEnemy {
			danger += 15
		}
	}
	return danger
}

func fileIsOpen(pos *board.Position, file int) bool {
	for r := 0; r < 8; r++ {
		pc := pos.Board[board.NewSquare(file, r)]
		if pc != board.NoPiece && pc.Type() == board.Pawn {
			return false
		}
	}
	return true
}
