package board

// The mailbox scheme pads the 8x8 board into a 10x12 array so that
// direction offsets can be applied without per-step bounds checks: walking
// off the real board always lands on a sentinel cell instead of wrapping.
//
// mailbox120 maps a 10x12 index to a 0..63 square, or -1 for a border cell.
// mailbox64 maps a 0..63 square to its 10x12 index.
var (
	mailbox120 [120]int
	mailbox64  [64]int
)

func init() {
	for i := range mailbox120 {
		mailbox120[i] = -1
	}
	for sq := 0; sq < 64; sq++ {
		row := sq / 8
		col := sq % 8
		idx := (row+2)*10 + col + 1
		mailbox120[idx] = sq
		mailbox64[sq] = idx
	}
}

// Direction offsets in 10x12 space, applied to a mailbox64-mapped index.
var (
	knightOffsets = [8]int{-21, -19, -12, -8, 8, 12, 19, 21}
	bishopOffsets = [4]int{-11, -9, 9, 11}
	rookOffsets   = [4]int{-10, -1, 1, 10}
	queenOffsets  = [8]int{-11, -10, -9, -1, 1, 9, 10, 11}
	kingOffsets   = [8]int{-11, -10, -9, -1, 1, 9, 10, 11}
)

// offsetsFor returns the step offsets for a piece type; sliders walk
// repeatedly along these directions, non-sliders take a single step.
func offsetsFor(pt PieceType) []int {
	switch pt {
	case Knight:
		return knightOffsets[:]
	case Bishop:
		return bishopOffsets[:]
	case Rook:
		return rookOffsets[:]
	case Queen, King:
		return queenOffsets[:]
	default:
		return nil
	}
}

// isSlider reports whether the piece type walks a ray rather than a
// single step.
func isSlider(pt PieceType) bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

// step applies an offset in 10x12 space and returns the resulting square,
// or (NoSquare, false) if the step leaves the board.
func step(sq Square, offset int) (Square, bool) {
	idx := mailbox64[sq] + offset
	target := mailbox120[idx]
	if target < 0 {
		return NoSquare, false
	}
	return Square(target), true
}
