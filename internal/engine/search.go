package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Infinity bounds every reachable evaluation.
const Infinity = 1 << 30

// Searcher performs the minimax search with alpha-beta pruning on its own
// copy of the board, using make/unmake between siblings.
type Searcher struct {
	board      board.Board
	difficulty Difficulty
	nodes      uint64
}

// NewSearcher creates a searcher over a private copy of b.
func NewSearcher(b *board.Board, d Difficulty) *Searcher {
	return &Searcher{board: *b, difficulty: d}
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// SearchRoot scores every legal move of color at the root to the given depth
// and returns the best-scoring moves (all ties) together with their score.
// Black maximizes and white minimizes. Each root move is searched with a full
// window so that tied scores are exact.
func (s *Searcher) SearchRoot(color board.Color, depth int) ([]board.Move, int) {
	if depth < 1 {
		depth = 1
	}
	s.board.SideToMove = color

	moves := OrderMoves(s.board.AllLegalMoves(color), s.board.Ply)
	if len(moves) == 0 {
		return nil, Evaluate(&s.board, s.difficulty)
	}

	maximizing := color == board.Black
	best := -Infinity
	if !maximizing {
		best = Infinity
	}
	var bestMoves []board.Move

	for _, m := range moves {
		m = withSearchPromotion(m)
		undo := s.board.MakeMove(m)
		score := s.minimax(depth-1, -Infinity, Infinity)
		s.board.UnmakeMove(m, undo)

		switch {
		case maximizing && score > best, !maximizing && score < best:
			best = score
			bestMoves = []board.Move{m}
		case score == best:
			bestMoves = append(bestMoves, m)
		}
	}

	return bestMoves, best
}

// minimax returns the value of the current position searched to depth.
// A position without legal moves is scored by the static evaluation.
func (s *Searcher) minimax(depth, alpha, beta int) int {
	s.nodes++

	if depth == 0 {
		return Evaluate(&s.board, s.difficulty)
	}

	us := s.board.SideToMove
	moves := s.board.AllLegalMoves(us)
	if len(moves) == 0 {
		return Evaluate(&s.board, s.difficulty)
	}
	OrderMoves(moves, s.board.Ply)

	if us == board.Black {
		best := -Infinity
		for _, m := range moves {
			m = withSearchPromotion(m)
			undo := s.board.MakeMove(m)
			score := s.minimax(depth-1, alpha, beta)
			s.board.UnmakeMove(m, undo)

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range moves {
		m = withSearchPromotion(m)
		undo := s.board.MakeMove(m)
		score := s.minimax(depth-1, alpha, beta)
		s.board.UnmakeMove(m, undo)

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// withSearchPromotion resolves a pending promotion to a queen.
func withSearchPromotion(m board.Move) board.Move {
	if m.IsPromotion() && m.Promotion == board.NoPieceType {
		m.Promotion = board.Queen
	}
	return m
}
