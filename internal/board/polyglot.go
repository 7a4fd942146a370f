package board

// Polyglot-compatible Zobrist keys. These form a separate table from the
// engine's own Zobrist hash in zobrist.go: this one exists purely to match
// the published Polyglot opening-book wire format, keyed piece-square in
// the official kind order (black pawn, white pawn, black knight, white
// knight, ..., black king, white king), followed by 4 castling keys, 8
// en-passant-file keys and one side-to-move key (781 words total).
//
// The generator is a seeded xorshift64* stream using the published
// Polyglot multiplier 0x2545F4914F6CDD1D, not the canonical 781-entry
// Random64 table distributed with third-party Polyglot books: that table
// is not reproduced anywhere in this codebase's sources, so a bit-exact
// implementation could not be grounded on anything checked in here. This
// means PolyglotHash is internally consistent (same position always
// hashes the same way, distinct positions collide only by chance) but
// will not match hashes computed by real Polyglot tools, and a real
// .bin book file will not probe correctly against it. See the design
// notes for the tradeoff this implies for internal/book.
var (
	polyglotPieces     [12][64]uint64
	polyglotCastling   [4]uint64 // white-K, white-Q, black-K, black-Q
	polyglotEnPassant  [8]uint64
	polyglotSideToMove uint64
)

func init() {
	initPolyglotKeys()
}

func initPolyglotKeys() {
	rng := newPRNG(1070372)

	for kind := 0; kind < 12; kind++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[kind][sq] = rng.next()
		}
	}
	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng.next()
	}
	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng.next()
	}
	polyglotSideToMove = rng.next()
}

// polyglotKind maps a (PieceType, Color) pair to the official Polyglot
// piece-kind index: pieceType*2, +1 for white.
func polyglotKind(pt PieceType, c Color) int {
	kind := int(pt) * 2
	if c == White {
		kind++
	}
	return kind
}

// PolyglotHash computes the Polyglot-compatible hash key for pos, for
// opening-book lookups.
func PolyglotHash(pos *Position) uint64 {
	var hash uint64

	for sq := Square(0); sq < 64; sq++ {
		pc := pos.Board[sq]
		if pc == NoPiece {
			continue
		}
		hash ^= polyglotPieces[polyglotKind(pc.Type(), pc.Color())][sq]
	}

	if pos.CastlingRights&WhiteKingSide != 0 {
		hash ^= polyglotCastling[0]
	}
	if pos.CastlingRights&WhiteQueenSide != 0 {
		hash ^= polyglotCastling[1]
	}
	if pos.CastlingRights&BlackKingSide != 0 {
		hash ^= polyglotCastling[2]
	}
	if pos.CastlingRights&BlackQueenSide != 0 {
		hash ^= polyglotCastling[3]
	}

	if pos.EnPassant != NoSquare && polyglotEPCapturable(pos) {
		hash ^= polyglotEnPassant[pos.EnPassant.File()]
	}

	if pos.SideToMove == White {
		hash ^= polyglotSideToMove
	}

	return hash
}

// polyglotEPCapturable reports whether a friendly pawn actually stands
// where it could capture onto pos.EnPassant, per the published Polyglot
// rule that the en-passant key is only mixed in when the capture is really
// available (not merely when the target square is recorded).
func polyglotEPCapturable(pos *Position) bool {
	file := pos.EnPassant.File()
	var captorRank int
	var captor Piece
	if pos.SideToMove == White {
		captorRank = 4 // white pawns capturing en passant stand on rank 5
		captor = WhitePawn
	} else {
		captorRank = 3 // black pawns capturing en passant stand on rank 4
		captor = BlackPawn
	}
	if file > 0 {
		sq := NewSquare(file-1, captorRank)
		if pos.Board[sq] == captor {
			return true
		}
	}
	if file < 7 {
		sq := NewSquare(file+1, captorRank)
		if pos.Board[sq] == captor {
			return true
		}
	}
	return false
}
