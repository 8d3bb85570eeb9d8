package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering weights.
const (
	captureWeight     = 10
	centralityWeight  = 2
	openingPlies      = 10
	pawnDevelopBonus  = 5
	minorDevelopBonus = 3
)

// ScoreMove returns the ordering score of m. Captures of valuable pieces come
// first, then moves toward the centre. During the first plies of the game,
// pawns leaving their starting row and minor pieces leaving the back rank get
// a development bonus.
func ScoreMove(m board.Move, ply int) int {
	score := m.Captured.Value() * captureWeight

	// (7 - centerDistance) * 2, with centerDistance in half-square steps.
	score += 7*centralityWeight - int(m.To.CenterDistance()*centralityWeight)

	if ply < openingPlies {
		us := m.Piece.Color()
		switch m.Piece.Type() {
		case board.Pawn:
			if m.From.Row == us.PawnRow() {
				score += pawnDevelopBonus
			}
		case board.Knight, board.Bishop:
			if m.From.Row == us.BackRow() {
				score += minorDevelopBonus
			}
		}
	}

	return score
}

// ScoreMoves scores every move in the list.
func ScoreMoves(moves []board.Move, ply int) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = ScoreMove(m, ply)
	}
	return scores
}

// SortMoves sorts moves by their scores (descending), keeping generation
// order among equal scores.
func SortMoves(moves []board.Move, scores []int) {
	// Insertion sort (sufficient for ~40 moves)
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && scores[j] > scores[j-1]; j-- {
			moves[j], moves[j-1] = moves[j-1], moves[j]
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
}

// OrderMoves sorts moves in place for the search and returns them.
func OrderMoves(moves []board.Move, ply int) []board.Move {
	SortMoves(moves, ScoreMoves(moves, ply))
	return moves
}
