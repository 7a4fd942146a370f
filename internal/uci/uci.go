// Package uci implements the subset of the Universal Chess Interface
// protocol described in the interface specification: identify/ready
// handshake, position setup, timed and fixed-depth search, and a perft
// debug command.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gyrfalcon/engine/internal/board"
	"github.com/gyrfalcon/engine/internal/book"
	"github.com/gyrfalcon/engine/internal/config"
	"github.com/gyrfalcon/engine/internal/engine"
)

// UCI implements the engine's external command loop.
type UCI struct {
	engine   *engine.Engine
	position board.Position
	cfg      config.Config

	book    *book.Book
	useBook bool

	// positionHashes records the Zobrist hash of every position since the
	// start of the current game, for repetition detection.
	positionHashes []uint64

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool
	cancel        context.CancelFunc
}

// New creates a UCI handler around eng, configured from cfg.
func New(eng *engine.Engine, cfg config.Config) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		cfg:      cfg,
		useBook:  cfg.UseBook,
		book:     book.New(),
	}
	u.positionHashes = []uint64{u.position.Hash}

	if cfg.UseBook && cfg.Book != "" {
		u.loadBook(cfg.Book)
	}
	return u
}

func (u *UCI) loadBook(path string) {
	b, err := book.Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not load opening book")
		u.book = book.New()
		return
	}
	u.book = b
}

// Run reads commands from stdin until "quit" or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

// handleUCI responds to the "uci" command with the identify block.
func (u *UCI) handleUCI() {
	fmt.Println("id name Gyrfalcon")
	fmt.Println("id author Gyrfalcon Contributors")
	fmt.Println()
	fmt.Printf("option name Hash type spin default %d min 1 max 512\n", u.cfg.HashMB)
	fmt.Printf("option name Book type string default %s\n", u.cfg.Book)
	fmt.Printf("option name UseBook type check default %v\n", u.cfg.UseBook)
	fmt.Println("uciok")
}

// handleNewGame resets the engine and game history for a fresh game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses:
//
//	position startpos [moves ...]
//	position fen <6-field fen> [moves ...]
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				fenEnd = i
				break
			}
		}
		if fenEnd < 1 {
			return
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			log.Warn().Err(err).Msg("invalid fen from position command")
			return
		}
		u.position = pos
		moveStart = fenEnd
	default:
		return
	}

	for i, arg := range args {
		if arg == "moves" {
			moveStart = i + 1
			break
		}
	}

	u.positionHashes = []uint64{u.position.Hash}

	if moveStart <= len(args) {
		for _, moveStr := range args[moveStart:] {
			m, err := board.ParseMove(moveStr, &u.position)
			if err != nil {
				log.Warn().Err(err).Str("move", moveStr).Msg("invalid move in position command")
				return
			}
			if !board.GenerateLegal(&u.position).Contains(m) {
				log.Warn().Str("move", moveStr).Msg("illegal move in position command")
				return
			}
			next, err := board.Apply(u.position, m)
			if err != nil {
				log.Warn().Err(err).Str("move", moveStr).Msg("illegal move in position command")
				return
			}
			u.position = next
			u.positionHashes = append(u.positionHashes, u.position.Hash)
		}
	}
}

// GoOptions holds parsed "go" command arguments.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search in the background and prints "bestmove" once
// it completes.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	if u.useBook {
		if m, ok := u.book.Probe(&u.position); ok {
			fmt.Printf("bestmove %s\n", m.String())
			return
		}
	}

	limits := u.limitsFromOptions(opts)

	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel

	pos := u.position
	history := append([]uint64(nil), u.positionHashes...)

	go func() {
		defer close(u.searchDone)
		defer cancel()

		bestMove := u.engine.SearchWithLimits(ctx, pos, limits, history)
		u.searching = false

		if bestMove == board.NoMove {
			legal := board.GenerateLegal(&pos)
			if legal.Len() > 0 {
				bestMove = legal.Get(0)
			}
		}

		if bestMove == board.NoMove {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Printf("bestmove %s\n", bestMove.String())
	}()
}

func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// limitsFromOptions converts GoOptions into engine.UCILimits.
func (u *UCI) limitsFromOptions(opts GoOptions) engine.UCILimits {
	limits := engine.UCILimits{
		Depth:     opts.Depth,
		Nodes:     opts.Nodes,
		MoveTime:  opts.MoveTime,
		Infinite:  opts.Infinite,
		MovesToGo: opts.MovesToGo,
	}
	limits.Time[board.White] = opts.WTime
	limits.Time[board.Black] = opts.BTime
	limits.Inc[board.White] = opts.WInc
	limits.Inc[board.Black] = opts.BInc
	return limits
}

// sendInfo prints one "info" line for a completed iterative-deepening
// iteration.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateScore-100 {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+100 {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if len(info.PV) > 0 {
		strs := make([]string, len(info.PV))
		for i, m := range info.PV {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop signals the running search to stop and waits for it to
// report its best move.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.engine.Stop()
		if u.cancel != nil {
			u.cancel()
		}
		<-u.searchDone
	}
}

// handleQuit stops any running search and exits.
func (u *UCI) handleQuit() {
	u.handleStop()
	os.Exit(0)
}

// handleSetOption processes "setoption name <name> value <value>". A
// setoption always overrides whatever was loaded from the config file or
// environment at startup.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb >= 1 {
			u.cfg.HashMB = mb
			u.engine = engine.NewEngine(mb, u.cfg.Threads)
		}
	case "book":
		u.cfg.Book = value
		if u.useBook {
			u.loadBook(value)
		}
	case "usebook":
		u.useBook = strings.EqualFold(value, "true")
		u.cfg.UseBook = u.useBook
	}
}

// handlePerft runs a perft test on the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("NPS: %.0f\n", nps)
	}
}
