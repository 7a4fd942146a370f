package board

import "testing"

func TestGenerateLegalStartingPosition(t *testing.T) {
	pos := NewPosition()
	moves := GenerateLegal(&pos)
	if moves.Len() != 20 {
		t.Errorf("expected 20 legal moves from the start position, got %d", moves.Len())
	}
}

// TestKingEscapeLeavesNoCheck exercises every move generate_legal produces
// for a lone king in the open: none of them may leave that king in check.
func TestKingEscapeLeavesNoCheck(t *testing.T) {
	pos, err := ParseFEN("4r3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}

	moves := GenerateLegal(&pos)
	if moves.Len() == 0 {
		t.Fatal("expected at least one legal move for the white king")
	}
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		next, err := Apply(pos, m)
		if err != nil {
			t.Fatalf("Apply(%v) error: %v", m, err)
		}
		if InCheckSide(&next, White) {
			t.Errorf("move %v leaves white king in check", m)
		}
	}
}

// TestMateInOne checks the queen mate Qxf7# is found among the legal moves
// and that applying it produces checkmate for black.
func TestMateInOne(t *testing.T) {
	pos, err := ParseFEN("r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}

	moves := GenerateLegal(&pos)
	var mating Move
	found := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if ToSAN(&pos, m) == "Qxf7#" {
			mating = m
			found = true
			break
		}
	}
	if !found {
		t.Fatal("Qxf7# not found among legal moves")
	}

	next, err := Apply(pos, mating)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if !next.IsCheckmate() {
		t.Error("Qxf7 was expected to be checkmate")
	}
}

func TestCastlingBlockedWhenKingOriginAttacked(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	moves := GenerateLegal(&pos)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.Castling && m.To == G1 {
			t.Error("O-O should be illegal: e1 is attacked by the rook on e4")
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	moves := GenerateLegal(&pos)
	var found bool
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.EnPassant && m.From == E5 && m.To == D6 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected en passant capture e5xd6 among legal moves")
	}
}
