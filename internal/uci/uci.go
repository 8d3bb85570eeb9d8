// Package uci speaks a subset of the Universal Chess Interface protocol on
// top of the engine, so the AI can be driven by standard chess GUIs.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Board
	out      io.Writer
	logger   *zap.Logger

	outMu sync.Mutex

	// Search state
	searching  bool
	searchDone chan struct{}
}

// New creates a new UCI protocol handler writing responses to out.
func New(eng *engine.Engine, out io.Writer, logger *zap.Logger) *UCI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UCI{
		engine:   eng,
		position: board.NewBoard(),
		out:      out,
		logger:   logger,
	}
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

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
			u.waitSearch()
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.waitSearch()
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.waitSearch()
		case "quit":
			u.waitSearch()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.waitSearch()
			u.println(u.position.String())
			u.printf("Fen: %s\n", u.position.FEN())
		case "eval":
			u.printf("Evaluation: %s\n", engine.ScoreToString(u.engine.Evaluate(u.position)))
		case "perft":
			u.handlePerft(args)
		default:
			u.logger.Debug("unknown command", zap.String("line", line))
		}
	}

	u.waitSearch()
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessPlay")
	u.println("id author ChessPlay Team")
	u.println("")
	u.printf("option name Difficulty type combo default %s var beginner var normal var professional\n", u.engine.Difficulty())
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.waitSearch()
	u.position = board.NewBoard()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Board
	switch args[0] {
	case "startpos":
		pos = board.NewBoard()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, err := board.ParseMove(moveStr, pos)
			if err != nil {
				u.printf("info string Invalid move: %s\n", moveStr)
				return
			}
			pos.MakeMove(move)
		}
	}

	u.position = pos
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	u.waitSearch()

	opts := parseGoOptions(args)
	limits := engine.DifficultySettings[u.engine.Difficulty()]
	if opts.Depth > 0 {
		limits.Depth = opts.Depth
		limits.RandomMoveChance = 0
	}

	pos := u.position.Copy()
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(pos, info)
	}

	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		move, ok := u.engine.SearchWithLimits(pos, pos.SideToMove, limits)
		if !ok {
			// Only checkmate/stalemate leave no legal moves.
			u.println("bestmove 0000")
			return
		}
		u.printf("bestmove %s\n", move)
	}()
}

// waitSearch blocks until a running search has reported its move.
// The search itself cannot be interrupted.
func (u *UCI) waitSearch() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// parseGoOptions parses "go" command arguments. Time controls are accepted
// and ignored; the search is depth-limited.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes":
			i++
		}
	}

	return opts
}

// sendInfo outputs search info in UCI format. Scores are reported from the
// side to move's point of view.
func (u *UCI) sendInfo(pos *board.Board, info engine.SearchInfo) {
	score := info.Score
	if pos.SideToMove == board.Black {
		score = -score
	}

	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if !info.Move.IsNull() {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	switch strings.ToLower(strings.Join(name, " ")) {
	case "difficulty":
		d, err := engine.ParseDifficulty(strings.Join(value, " "))
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.waitSearch()
		u.engine.SetDifficulty(d)
	default:
		u.printf("info string Unknown option: %s\n", strings.Join(name, " "))
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	u.waitSearch()

	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			depth = d
		}
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, s)
}
