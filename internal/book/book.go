// Package book implements a Polyglot-format opening book: a binary
// key-to-weighted-move table consulted before search begins.
package book

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/gyrfalcon/engine/internal/board"
)

// Entry is a single (move, weight) pair recorded for a position key.
type Entry struct {
	Move   board.Move
	Weight uint16
}

// Book is an in-memory Polyglot opening book, keyed by the position's
// Polyglot Zobrist hash.
type Book struct {
	entries map[uint64][]Entry
}

// New returns an empty book, useful as a always-miss fallback.
func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// Load opens filename and parses it as a Polyglot book, retrying transient
// open failures (e.g. the file briefly locked by another process copying
// it into place).
func Load(filename string) (*Book, error) {
	var file *os.File
	err := retry.Do(
		func() error {
			f, err := os.Open(filename)
			if err != nil {
				return err
			}
			file = f
			return nil
		},
		retry.Attempts(3),
		retry.Delay(20*time.Millisecond),
		retry.Context(context.Background()),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n).Str("file", filename).Msg("retrying book open")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", filename, err)
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader parses a Polyglot book from r: a stream of 16-byte
// big-endian entries (u64 key, u16 move, u16 weight, u32 learn).
func LoadReader(r io.Reader) (*Book, error) {
	b := New()

	var raw [16]byte
	for {
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("book: truncated entry: %w", err)
		}

		key := binary.BigEndian.Uint64(raw[0:8])
		moveWord := binary.BigEndian.Uint16(raw[8:10])
		weight := binary.BigEndian.Uint16(raw[10:12])

		m := decodePolyglotMove(moveWord)
		if m.IsNone() {
			continue
		}
		b.entries[key] = append(b.entries[key], Entry{Move: m, Weight: weight})
	}

	total := 0
	for _, es := range b.entries {
		total += len(es)
	}
	log.Debug().Int("positions", len(b.entries)).Int("entries", total).Msg("loaded opening book")

	return b, nil
}

var polyglotPromotion = [8]board.PieceType{
	board.NoPieceType, board.Knight, board.Bishop, board.Rook, board.Queen,
}

// decodePolyglotMove unpacks the 16-bit Polyglot move word: bits 0-2
// to_file, 3-5 to_rank, 6-8 from_file, 9-11 from_rank, 12-14 promotion.
// Polyglot encodes castling unconventionally as the king capturing its
// own rook (e1h1, e1a1, e8h8, e8a8); those four combinations are rewritten
// to the engine's e1g1/e1c1/e8g8/e8c8 castling form.
func decodePolyglotMove(word uint16) board.Move {
	toFile := int(word & 7)
	toRank := int((word >> 3) & 7)
	fromFile := int((word >> 6) & 7)
	fromRank := int((word >> 9) & 7)
	promo := (word >> 12) & 7

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	switch {
	case from == board.E1 && to == board.H1:
		return board.Move{From: board.E1, To: board.G1, Castling: true}
	case from == board.E1 && to == board.A1:
		return board.Move{From: board.E1, To: board.C1, Castling: true}
	case from == board.E8 && to == board.H8:
		return board.Move{From: board.E8, To: board.G8, Castling: true}
	case from == board.E8 && to == board.A8:
		return board.Move{From: board.E8, To: board.C8, Castling: true}
	}

	if promo > 0 && int(promo) < len(polyglotPromotion) {
		return board.Move{From: from, To: to, Promotion: polyglotPromotion[promo]}
	}
	return board.Move{From: from, To: to}
}

// Probe looks up pos in the book and returns a single move chosen by
// weighted random selection: draw uniformly from [1, 10000], reduce modulo
// the sum of weights for that key, then linear-scan the cumulative weights
// to the winning entry.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	entries := b.entries[board.PolyglotHash(pos)]
	if len(entries) == 0 {
		return board.NoMove, false
	}

	total := uint32(0)
	for _, e := range entries {
		total += uint32(e.Weight)
	}
	if total == 0 {
		return verifyAndConvert(pos, entries[0].Move)
	}

	draw := uint32(rand.Intn(10000)+1) % total
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if draw < cumulative {
			return verifyAndConvert(pos, e.Move)
		}
	}
	return verifyAndConvert(pos, entries[len(entries)-1].Move)
}

// ProbeAll returns every book entry for pos, sorted by descending weight,
// for diagnostics and the "book" debug command.
func (b *Book) ProbeAll(pos *board.Position) []Entry {
	if b == nil {
		return nil
	}
	entries := b.entries[board.PolyglotHash(pos)]
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// verifyAndConvert re-resolves a decoded book move against the position's
// actual legal moves, so a book compiled against a slightly different
// convention (or a corrupt entry) can never hand the driver an illegal move.
func verifyAndConvert(pos *board.Position, m board.Move) (board.Move, bool) {
	legal := board.GenerateLegal(pos)
	for i := 0; i < legal.Len(); i++ {
		lm := legal.Get(i)
		if lm.From == m.From && lm.To == m.To && lm.Promotion == m.Promotion {
			return lm, true
		}
	}
	return board.NoMove, false
}

// Size returns the number of distinct positions recorded in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
