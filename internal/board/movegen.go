package board

// MVV/LVA and promotion ordering scores, per the capture/promotion scoring
// rule: captures score 1_000_000 + 10*victim - attacker; non-capturing
// promotions score 1_000_000 + 10*promotion_piece; quiet moves score 0.
const captureBase = 1_000_000

func captureScore(victim, attacker PieceType) int32 {
	return captureBase + 10*int32(PieceValue[victim]) - int32(PieceValue[attacker])
}

func promotionScore(promo PieceType) int32 {
	return captureBase + 10*int32(PieceValue[promo])
}

var promotionPieces = [4]PieceType{Knight, Bishop, Rook, Queen}

// GeneratePseudoLegal appends every pseudo-legal move for the side to move
// in pos to ml: pawn pushes, captures, en passant, promotions, mailbox ray
// walks for the other piece types, and castling.
func GeneratePseudoLegal(pos *Position, ml *MoveList) {
	us := pos.SideToMove
	for sq := Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		switch pc.Type() {
		case Pawn:
			genPawnMoves(pos, sq, us, ml)
		default:
			genPieceMoves(pos, sq, pc.Type(), us, ml)
		}
	}
	genCastling(pos, us, ml)
}

func addPromotions(ml *MoveList, from, to Square, victim PieceType, isCapture bool) {
	for _, promo := range promotionPieces {
		score := promotionScore(promo)
		if isCapture {
			score = captureScore(victim, Pawn) + 10*int32(PieceValue[promo])
		}
		ml.Add(Move{From: from, To: to, Promotion: promo, Score: score})
	}
}

func genPawnMoves(pos *Position, from Square, us Color, ml *MoveList) {
	var forward int
	var startRow int
	var lastRow int
	if us == White {
		forward = -10
		startRow = 6 // rank 2
		lastRow = 0  // rank 8
	} else {
		forward = 10
		startRow = 1 // rank 7
		lastRow = 7  // rank 1
	}

	// Single and double push.
	if one, ok := step(from, forward); ok && pos.Board[one] == NoPiece {
		if one.row() == lastRow {
			addPromotions(ml, from, one, NoPieceType, false)
		} else {
			ml.Add(Move{From: from, To: one})
			if from.row() == startRow {
				if two, ok := step(one, forward); ok && pos.Board[two] == NoPiece {
					ml.Add(Move{From: from, To: two})
				}
			}
		}
	}

	// Captures (including promotions) and en passant.
	for _, o := range []int{forward - 1, forward + 1} {
		to, ok := step(from, o)
		if !ok {
			continue
		}
		target := pos.Board[to]
		if target != NoPiece {
			if target.Color() == us {
				continue
			}
			if to.row() == lastRow {
				addPromotions(ml, from, to, target.Type(), true)
			} else {
				ml.Add(Move{From: from, To: to, Score: captureScore(target.Type(), Pawn)})
			}
			continue
		}
		if pos.EnPassant != NoSquare && to == pos.EnPassant {
			ml.Add(Move{From: from, To: to, EnPassant: true, Score: captureScore(Pawn, Pawn)})
		}
	}
}

// genPieceMoves walks the mailbox rays (or single steps for non-sliders)
// for a knight/bishop/rook/queen/king on from.
func genPieceMoves(pos *Position, from Square, pt PieceType, us Color, ml *MoveList) {
	offsets := offsetsFor(pt)
	slider := isSlider(pt)

	for _, o := range offsets {
		cur := from
		for {
			to, ok := step(cur, o)
			if !ok {
				break
			}
			target := pos.Board[to]
			if target == NoPiece {
				ml.Add(Move{From: from, To: to})
				if !slider {
					break
				}
				cur = to
				continue
			}
			if target.Color() != us {
				ml.Add(Move{From: from, To: to, Score: captureScore(target.Type(), pt)})
			}
			break
		}
	}
}

func genCastling(pos *Position, us Color, ml *MoveList) {
	opp := us.Other()
	if us == White {
		if pos.CastlingRights.CanCastle(White, true) &&
			pos.Board[F1] == NoPiece && pos.Board[G1] == NoPiece &&
			!Attacked(pos, E1, opp) && !Attacked(pos, F1, opp) && !Attacked(pos, G1, opp) {
			ml.Add(Move{From: E1, To: G1, Castling: true})
		}
		if pos.CastlingRights.CanCastle(White, false) &&
			pos.Board[D1] == NoPiece && pos.Board[C1] == NoPiece && pos.Board[B1] == NoPiece &&
			!Attacked(pos, E1, opp) && !Attacked(pos, D1, opp) && !Attacked(pos, C1, opp) {
			ml.Add(Move{From: E1, To: C1, Castling: true})
		}
	} else {
		if pos.CastlingRights.CanCastle(Black, true) &&
			pos.Board[F8] == NoPiece && pos.Board[G8] == NoPiece &&
			!Attacked(pos, E8, opp) && !Attacked(pos, F8, opp) && !Attacked(pos, G8, opp) {
			ml.Add(Move{From: E8, To: G8, Castling: true})
		}
		if pos.CastlingRights.CanCastle(Black, false) &&
			pos.Board[D8] == NoPiece && pos.Board[C8] == NoPiece && pos.Board[B8] == NoPiece &&
			!Attacked(pos, E8, opp) && !Attacked(pos, D8, opp) && !Attacked(pos, C8, opp) {
			ml.Add(Move{From: E8, To: C8, Castling: true})
		}
	}
}

// GenerateLegal returns every pseudo-legal move that does not leave the
// mover's own king in check.
func GenerateLegal(pos *Position) *MoveList {
	pseudo := &MoveList{}
	GeneratePseudoLegal(pos, pseudo)

	legal := &MoveList{}
	side := pos.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		next, err := Apply(*pos, m)
		if err != nil {
			continue
		}
		if !InCheckSide(&next, side) {
			legal.Add(m)
		}
	}
	return legal
}

// GenerateCaptures returns only legal capture-or-promotion moves; it is the
// move source for quiescence search.
func GenerateCaptures(pos *Position) *MoveList {
	pseudo := &MoveList{}
	GeneratePseudoLegal(pos, pseudo)

	captures := &MoveList{}
	side := pos.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if !m.IsCapture(pos) && !m.IsPromotion() {
			continue
		}
		next, err := Apply(*pos, m)
		if err != nil {
			continue
		}
		if !InCheckSide(&next, side) {
			captures.Add(m)
		}
	}
	return captures
}
