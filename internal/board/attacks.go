package board

// pawnAttackOffsets gives, for a pawn of color c, the 10x12 offsets from the
// pawn's own square toward the squares it attacks.
func pawnAttackOffsets(c Color) [2]int {
	if c == White {
		return [2]int{-11, -9} // toward decreasing row, i.e. toward rank 8
	}
	return [2]int{9, 11} // toward increasing row, i.e. toward rank 1
}

// Attacked reports whether any piece of color bySide attacks sq under
// normal chess attack rules. Pawn pushes are never attacks; only diagonal
// pawn captures count.
func Attacked(pos *Position, sq Square, bySide Color) bool {
	// Pawns: look from sq back toward the attacker.
	offs := pawnAttackOffsets(bySide.Other())
	for _, o := range offs {
		if from, ok := step(sq, o); ok {
			pc := pos.Board[from]
			if pc.Color() == bySide && pc.Type() == Pawn {
				return true
			}
		}
	}

	// Knights.
	for _, o := range knightOffsets {
		if from, ok := step(sq, o); ok {
			pc := pos.Board[from]
			if pc.Color() == bySide && pc.Type() == Knight {
				return true
			}
		}
	}

	// King (adjacency only).
	for _, o := range kingOffsets {
		if from, ok := step(sq, o); ok {
			pc := pos.Board[from]
			if pc.Color() == bySide && pc.Type() == King {
				return true
			}
		}
	}

	// Sliding bishops/queens on the diagonals.
	for _, o := range bishopOffsets {
		cur := sq
		for {
			next, ok := step(cur, o)
			if !ok {
				break
			}
			pc := pos.Board[next]
			if pc == NoPiece {
				cur = next
				continue
			}
			if pc.Color() == bySide && (pc.Type() == Bishop || pc.Type() == Queen) {
				return true
			}
			break
		}
	}

	// Sliding rooks/queens on ranks/files.
	for _, o := range rookOffsets {
		cur := sq
		for {
			next, ok := step(cur, o)
			if !ok {
				break
			}
			pc := pos.Board[next]
			if pc == NoPiece {
				cur = next
				continue
			}
			if pc.Color() == bySide && (pc.Type() == Rook || pc.Type() == Queen) {
				return true
			}
			break
		}
	}

	return false
}

// InCheckSide reports whether side's king is currently attacked.
func InCheckSide(pos *Position, side Color) bool {
	ksq := pos.KingSquare(side)
	if ksq == NoSquare {
		return false
	}
	return Attacked(pos, ksq, side.Other())
}
