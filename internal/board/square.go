package board

import "fmt"

// Square identifies one of the 64 board squares using a row-major index
// with row 0 at the top of the board (rank 8) and column 0 at file A.
// So A8 = 0, H8 = 7, A1 = 56, H1 = 63.
type Square uint8

// Square constants for all 64 squares, listed rank 8 down to rank 1.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// File returns the file (column) of the square, 0=a .. 7=h.
func (sq Square) File() int {
	return int(sq) & 7
}

// row returns the 0-indexed board row, row 0 being rank 8.
func (sq Square) row() int {
	return int(sq) >> 3
}

// Rank returns the rank of the square, 0-indexed from rank 1 (0=rank1..7=rank8).
func (sq Square) Rank() int {
	return 7 - sq.row()
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank, both 0-indexed
// with rank 0 meaning rank 1 (matching algebraic notation minus one).
func NewSquare(file, rank int) Square {
	row := 7 - rank
	return Square(row*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically (rank 1 <-> rank 8).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// RelativeRank returns the rank from a given color's perspective;
// for Black, rank 0 is the 8th rank rather than the 1st.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}
