package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a six-field FEN string into a Position. Parsing then
// printing the result is the identity for any FEN this package itself
// produces.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return Position{}, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := Position{EnPassant: NoSquare, FullMoveNumber: 1}
	for i := range pos.Board {
		pos.Board[i] = NoPiece
	}

	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return Position{}, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return Position{}, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(&pos, parts[2]); err != nil {
		return Position{}, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return Position{}, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return Position{}, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.Hash = ComputeHash(&pos)
	return pos, nil
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN ranks run 8 down to 1
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				pos.Board[NewSquare(file, rank)] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}
	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights |= WhiteKingSide
		case 'Q':
			pos.CastlingRights |= WhiteQueenSide
		case 'k':
			pos.CastlingRights |= BlackKingSide
		case 'q':
			pos.CastlingRights |= BlackQueenSide
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}
	return nil
}

// ToFEN renders pos as a six-field FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
