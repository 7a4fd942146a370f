package board

// Zobrist hash keys for the engine's own position hash. This table is
// distinct from the Polyglot-compatible table in polyglot.go: it exists to
// let the engine hash positions consistently, while the Polyglot table
// exists to match a published third-party wire format. Both are
// process-wide immutable tables built once at init time; per-node
// recomputation is forbidden, and Apply updates Hash incrementally.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // one per file
	zobristCastling   [16]uint64       // all 16 castling-rights combinations
	zobristSideToMove uint64
)

func init() {
	initZobrist()
}

// prng is a small xorshift64* generator used to fill the Zobrist tables
// deterministically, so the same binary always hashes the same way.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// ZobristPiece returns the key for a piece of type pt and color c on sq.
func ZobristPiece(c Color, pt PieceType, sq Square) uint64 {
	return zobristPiece[c][pt][sq]
}

// ZobristEnPassant returns the key for an en-passant file.
func ZobristEnPassant(file int) uint64 {
	return zobristEnPassant[file]
}

// ZobristCastling returns the key for a full castling-rights value.
func ZobristCastling(cr CastlingRights) uint64 {
	return zobristCastling[cr]
}

// ZobristSideToMove returns the key XORed in when it is Black to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

// ComputeHash recomputes pos's Zobrist hash from scratch. Used only by FEN
// parsing; every other path (Apply) maintains Hash incrementally.
func ComputeHash(pos *Position) uint64 {
	var hash uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == NoPiece {
			continue
		}
		hash ^= zobristPiece[pc.Color()][pc.Type()][sq]
	}
	if pos.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[pos.CastlingRights]
	if pos.EnPassant != NoSquare {
		hash ^= zobristEnPassant[pos.EnPassant.File()]
	}
	return hash
}
