// Package engine chooses moves for the computer player with a depth-limited
// minimax search and a tiered static evaluation.
package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth            int        // Search depth in plies (0 = depth of Difficulty)
	Difficulty       Difficulty // Evaluation tiers to use
	RandomMoveChance float64    // Probability of playing a uniformly random legal move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Beginner     Difficulty = iota // 2 ply, material only, 30% random moves
	Normal                         // 4 ply, positional terms
	Professional                   // 6 ply, all evaluation terms
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Beginner:     {Depth: 2, Difficulty: Beginner, RandomMoveChance: 0.3},
	Normal:       {Depth: 4, Difficulty: Normal},
	Professional: {Depth: 6, Difficulty: Professional},
}

// Depth returns the search depth for the difficulty.
func (d Difficulty) Depth() int {
	return DifficultySettings[d].Depth
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Normal:
		return "normal"
	case Professional:
		return "professional"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses a difficulty name (case-insensitive).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "easy":
		return Beginner, nil
	case "normal", "medium":
		return Normal, nil
	case "professional", "hard":
		return Professional, nil
	}
	return Normal, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ThinkResult is delivered by Think when the search finishes.
type ThinkResult struct {
	Move board.Move
	OK   bool
}

// Engine is the chess AI engine.
type Engine struct {
	mu         sync.Mutex // guards rng
	rng        *rand.Rand
	logger     *zap.Logger
	difficulty Difficulty

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine drawing randomness from rng. A nil rng is
// seeded from the clock and a nil logger discards output.
func NewEngine(rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rng:        rng,
		logger:     logger,
		difficulty: Normal,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Search finds a move for the side to move at the engine's difficulty.
func (e *Engine) Search(b *board.Board) (board.Move, bool) {
	return e.ChooseMove(b, b.SideToMove, e.difficulty)
}

// ChooseMove picks a move for color at difficulty d. It reports false when
// color has no legal move; recognizing mate or stalemate is up to the caller.
// b is not modified.
func (e *Engine) ChooseMove(b *board.Board, color board.Color, d Difficulty) (board.Move, bool) {
	limits, ok := DifficultySettings[d]
	if !ok {
		limits = DifficultySettings[Normal]
	}
	return e.SearchWithLimits(b, color, limits)
}

// SearchWithLimits finds a move with specific search limits.
func (e *Engine) SearchWithLimits(b *board.Board, color board.Color, limits SearchLimits) (board.Move, bool) {
	startTime := time.Now()

	depth := limits.Depth
	if depth <= 0 {
		depth = limits.Difficulty.Depth()
	}

	if limits.RandomMoveChance > 0 && e.randFloat() < limits.RandomMoveChance {
		moves := b.AllLegalMoves(color)
		if len(moves) == 0 {
			return board.NoMove, false
		}
		m := withSearchPromotion(moves[e.randIntn(len(moves))])
		e.logger.Debug("random move",
			zap.Stringer("difficulty", limits.Difficulty),
			zap.Stringer("move", m))
		return m, true
	}

	searcher := NewSearcher(b, limits.Difficulty)
	bestMoves, score := searcher.SearchRoot(color, depth)
	if len(bestMoves) == 0 {
		e.logger.Debug("no legal moves", zap.Stringer("color", color))
		return board.NoMove, false
	}

	move := bestMoves[0]
	if len(bestMoves) > 1 {
		move = bestMoves[e.randIntn(len(bestMoves))]
	}

	info := SearchInfo{
		Depth: depth,
		Score: score,
		Nodes: searcher.Nodes(),
		Time:  time.Since(startTime),
		Move:  move,
	}
	e.logger.Debug("search complete",
		zap.Stringer("difficulty", limits.Difficulty),
		zap.Int("depth", info.Depth),
		zap.Int("score", info.Score),
		zap.Uint64("nodes", info.Nodes),
		zap.Int("ties", len(bestMoves)),
		zap.Duration("elapsed", info.Time),
		zap.Stringer("move", move))
	if e.OnInfo != nil {
		e.OnInfo(info)
	}

	return move, true
}

// Think runs ChooseMove on a goroutine over a private copy of b and delivers
// the result on the returned channel, which receives exactly one value.
func (e *Engine) Think(b *board.Board, color board.Color, d Difficulty) <-chan ThinkResult {
	result := make(chan ThinkResult, 1)
	snapshot := b.Copy()
	go func() {
		m, ok := e.ChooseMove(snapshot, color, d)
		result <- ThinkResult{Move: m, OK: ok}
	}()
	return result
}

// Evaluate returns the static evaluation of b at the engine's difficulty.
func (e *Engine) Evaluate(b *board.Board) int {
	return Evaluate(b, e.difficulty)
}

// Perft counts leaf nodes of the legal move tree (for debugging move generation).
func (e *Engine) Perft(b *board.Board, depth int) int64 {
	return b.Copy().Perft(depth)
}

func (e *Engine) randFloat() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) randIntn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

// ScoreToString converts a score to a human-readable string in pawns.
func ScoreToString(score int) string {
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
