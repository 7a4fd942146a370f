package board

import "fmt"

// Apply is a pure function from (position, move) to the resulting position.
// It never mutates pos; callers pass positions by value down the search
// tree instead of mutating and undoing a shared position. Apply only
// returns an error for a structurally malformed move (no piece on the
// origin square); the search never calls Apply with anything other than a
// move drawn from legal generation, so in practice it never fails there.
func Apply(pos Position, m Move) (Position, error) {
	piece := pos.Board[m.From]
	if piece == NoPiece {
		return pos, fmt.Errorf("apply: no piece on origin square %s", m.From)
	}

	next := pos
	us := piece.Color()
	them := us.Other()

	if next.EnPassant != NoSquare {
		next.Hash ^= ZobristEnPassant(next.EnPassant.File())
	}
	next.EnPassant = NoSquare

	capturedSq := m.To
	captured := next.Board[m.To]
	if m.EnPassant {
		if us == White {
			capturedSq = m.To + 8
		} else {
			capturedSq = m.To - 8
		}
		captured = next.Board[capturedSq]
	}

	if captured != NoPiece {
		next.Hash ^= ZobristPiece(captured.Color(), captured.Type(), capturedSq)
		next.Board[capturedSq] = NoPiece
	}

	next.Hash ^= ZobristPiece(us, piece.Type(), m.From)
	next.Board[m.From] = NoPiece

	finalPiece := piece
	if m.IsPromotion() {
		finalPiece = NewPiece(m.Promotion, us)
	}
	next.Hash ^= ZobristPiece(us, finalPiece.Type(), m.To)
	next.Board[m.To] = finalPiece

	if m.Castling {
		row := m.From.row()
		var rookFrom, rookTo Square
		if m.To.File() > m.From.File() {
			rookFrom = Square(row*8 + 7)
			rookTo = Square(row*8 + 5)
		} else {
			rookFrom = Square(row*8 + 0)
			rookTo = Square(row*8 + 3)
		}
		rook := next.Board[rookFrom]
		next.Hash ^= ZobristPiece(us, Rook, rookFrom)
		next.Board[rookFrom] = NoPiece
		next.Hash ^= ZobristPiece(us, Rook, rookTo)
		next.Board[rookTo] = rook
	}

	oldCR := next.CastlingRights
	newCR := oldCR
	if piece.Type() == King {
		if us == White {
			newCR &^= WhiteKingSide | WhiteQueenSide
		} else {
			newCR &^= BlackKingSide | BlackQueenSide
		}
	}
	clearIfHomeRook := func(sq Square) {
		switch sq {
		case A1:
			newCR &^= WhiteQueenSide
		case H1:
			newCR &^= WhiteKingSide
		case A8:
			newCR &^= BlackQueenSide
		case H8:
			newCR &^= BlackKingSide
		}
	}
	clearIfHomeRook(m.From)
	clearIfHomeRook(m.To)
	if newCR != oldCR {
		next.Hash ^= ZobristCastling(oldCR)
		next.Hash ^= ZobristCastling(newCR)
		next.CastlingRights = newCR
	}

	if piece.Type() == Pawn && absInt(int(m.To)-int(m.From)) == 16 {
		var epSq Square
		if us == White {
			epSq = m.To + 8
		} else {
			epSq = m.To - 8
		}
		next.EnPassant = epSq
		next.Hash ^= ZobristEnPassant(epSq.File())
	}

	if piece.Type() == Pawn || captured != NoPiece {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}

	if us == Black {
		next.FullMoveNumber++
	}

	next.SideToMove = them
	next.Hash ^= ZobristSideToMove()

	return next, nil
}
