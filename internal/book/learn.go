package book

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"github.com/gyrfalcon/engine/internal/board"
)

// LearnRecord accumulates observed outcomes for one book move at one
// position key, mirroring the semantics of the Polyglot wire format's
// otherwise-unused 32-bit learn field: a running adjustment that nudges
// selection weight from actual game results rather than the static
// weights baked into the book file.
type LearnRecord struct {
	Move  board.Move `json:"move"`
	Wins  int        `json:"wins"`
	Draws int        `json:"draws"`
	Losses int       `json:"losses"`
}

// score returns a signed adjustment in the same rough scale as Polyglot
// weights: wins count double, losses count negative, draws are neutral.
func (r LearnRecord) score() int {
	return 2*r.Wins - 2*r.Losses
}

// LearnStore is a persistent, opt-in store of per-position move outcomes,
// layered read-only on top of a static Book: AdjustedWeight adds the
// learned adjustment to a book entry's static weight without mutating the
// loaded book itself.
type LearnStore struct {
	db *badger.DB
}

// OpenLearnStore opens (creating if absent) a Badger store at dir.
func OpenLearnStore(dir string) (*LearnStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("book: open learn store: %w", err)
	}
	return &LearnStore{db: db}, nil
}

// Close closes the underlying database.
func (s *LearnStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func learnKey(hash uint64, m board.Move) []byte {
	key := make([]byte, 8+2)
	binary.BigEndian.PutUint64(key[0:8], hash)
	binary.BigEndian.PutUint16(key[8:10], uint16(m.From)<<8|uint16(m.To))
	return key
}

// Record updates the learned outcome tally for (pos, move).
func (s *LearnStore) Record(pos *board.Position, m board.Move, result GameOutcome) error {
	if s == nil || s.db == nil {
		return nil
	}
	hash := board.PolyglotHash(pos)
	key := learnKey(hash, m)

	return s.db.Update(func(txn *badger.Txn) error {
		var rec LearnRecord
		item, err := txn.Get(key)
		switch err {
		case nil:
			if uerr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); uerr != nil {
				return uerr
			}
		case badger.ErrKeyNotFound:
			rec = LearnRecord{Move: m}
		default:
			return err
		}

		switch result {
		case OutcomeWin:
			rec.Wins++
		case OutcomeDraw:
			rec.Draws++
		case OutcomeLoss:
			rec.Losses++
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		log.Debug().
			Uint64("key", hash).
			Str("move", m.String()).
			Int("wins", rec.Wins).Int("draws", rec.Draws).Int("losses", rec.Losses).
			Msg("recorded book outcome")
		return nil
	})
}

// AdjustedWeight returns e's static weight plus any learned adjustment on
// file for (pos, e.Move), floored at zero so a heavily-losing move never
// receives a negative selection weight.
func (s *LearnStore) AdjustedWeight(pos *board.Position, e Entry) uint16 {
	if s == nil || s.db == nil {
		return e.Weight
	}
	hash := board.PolyglotHash(pos)
	key := learnKey(hash, e.Move)

	adjustment := 0
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var rec LearnRecord
		if uerr := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		}); uerr != nil {
			return uerr
		}
		adjustment = rec.score()
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("book: learn store read failed, using static weight")
		return e.Weight
	}

	adjusted := int(e.Weight) + adjustment
	if adjusted < 0 {
		return 0
	}
	if adjusted > 0xFFFF {
		return 0xFFFF
	}
	return uint16(adjusted)
}

// GameOutcome is the result of a completed game from the book-move side's
// perspective.
type GameOutcome int

const (
	OutcomeLoss GameOutcome = iota
	OutcomeDraw
	OutcomeWin
)
