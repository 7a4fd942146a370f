package board

import "fmt"

// Move is an immutable value describing a single chess move. Equality of
// two moves is defined by (From, To, Promotion); Score is an ordering
// hint attached by the move generator and carries no semantic weight.
type Move struct {
	From       Square
	To         Square
	Promotion  PieceType // NoPieceType, or the zero value Pawn, if this is not a promotion
	EnPassant  bool
	Castling   bool
	Score      int32
}

// NoMove is the null move, used as a sentinel for "no move found".
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// IsNone reports whether m is the null move.
func (m Move) IsNone() bool {
	return m.From == NoSquare && m.To == NoSquare
}

// Equal compares two moves by (From, To, Promotion) only, ignoring Score
// and the derived EnPassant/Castling flags.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.promo() == o.promo()
}

// promo returns the promotion piece type, mapping the zero value Pawn
// (left by a literal that omits Promotion) to NoPieceType.
func (m Move) promo() PieceType {
	if m.Promotion == Pawn {
		return NoPieceType
	}
	return m.Promotion
}

// IsPromotion reports whether this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.promo() != NoPieceType
}

// IsCapture reports whether this move captures a piece in pos, including
// en-passant captures where the destination square itself is empty.
func (m Move) IsCapture(pos *Position) bool {
	if m.EnPassant {
		return true
	}
	return pos.PieceAt(m.To) != NoPiece
}

// IsQuiet reports whether this move is neither a capture nor a promotion.
func (m Move) IsQuiet(pos *Position) bool {
	return !m.IsCapture(pos) && !m.IsPromotion()
}

// String returns the pure-coordinate (UCI-style) form of the move, e.g.
// "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a pure-coordinate move string against pos, inferring
// the en-passant and castling flags from the position.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) >= 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	m := Move{From: from, To: to, Promotion: promo}
	if piece.Type() == King && absInt(int(to)-int(from)) == 2 {
		m.Castling = true
	}
	if piece.Type() == Pawn && to == pos.EnPassant && to.File() != from.File() {
		m.EnPassant = true
	}
	return m, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// MoveList is a fixed-size, allocation-free list of moves used throughout
// generation and search.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether the list holds a move equal to m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Equal(m) {
			return true
		}
	}
	return false
}

// Slice returns the populated portion of the list as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// SortByScore performs an in-place descending insertion sort by Score,
// suitable for the short lists move ordering deals with.
func (ml *MoveList) SortByScore() {
	for i := 1; i < ml.count; i++ {
		m := ml.moves[i]
		j := i - 1
		for j >= 0 && ml.moves[j].Score < m.Score {
			ml.moves[j+1] = ml.moves[j]
			j--
		}
		ml.moves[j+1] = m
	}
}
