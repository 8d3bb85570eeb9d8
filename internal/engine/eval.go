package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Positional weights, in centipawns. Scores are always from white's point of
// view: positive favors white.
const (
	centerOccupancy    = 15
	pawnDevelopment    = 8
	mobilityWeight     = 2
	semiOpenFile       = 5
	pawnAdvancement    = 5
	doubledPawn        = 20
	kingHomeDistance   = 5
	activityWeight     = 3
	activityCentrality = 5
	kingAttacker       = 10
)

var centerSquares = [4]board.Square{{Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 4, Col: 3}, {Row: 4, Col: 4}}

// Home squares the king-distance term measures from.
var kingHome = [2]board.Square{
	board.White: {Row: 7, Col: 4},
	board.Black: {Row: 0, Col: 4},
}

// Evaluate returns the static evaluation of b at the given difficulty.
//
// Beginner counts material only. Normal adds the positional terms and
// Professional adds pawn structure, king safety and piece activity on top.
func Evaluate(b *board.Board, d Difficulty) int {
	score := EvaluateMaterial(b)

	if d >= Normal {
		score += evaluatePosition(b)
	}
	if d >= Professional {
		score += evaluateAdvanced(b)
	}

	return score
}

// EvaluateMaterial returns the material balance.
func EvaluateMaterial(b *board.Board) int {
	return b.Material()
}

// sign returns +1 for white and -1 for black.
func sign(c board.Color) int {
	if c == board.White {
		return 1
	}
	return -1
}

func evaluatePosition(b *board.Board) int {
	score := 0

	for _, sq := range centerSquares {
		if p := b.PieceAt(sq); p != board.NoPiece {
			score += sign(p.Color()) * centerOccupancy
		}
	}

	score += evaluatePawns(b)
	score += mobilityWeight * (b.Mobility(board.White) - b.Mobility(board.Black))
	score += evaluateOpenFiles(b)

	return score
}

// evaluatePawns covers black pawn development and pawn advancement, both
// measured from each side's starting row.
func evaluatePawns(b *board.Board) int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			switch b.Squares[row][col] {
			case board.WhitePawn:
				score += pawnAdvancement * (board.White.PawnRow() - row)
			case board.BlackPawn:
				advanced := row - board.Black.PawnRow()
				score -= pawnAdvancement * advanced
				if advanced != 0 {
					score += pawnDevelopment
				}
			}
		}
	}
	return score
}

// pawnsOnFile counts pawns of each color on the file.
func pawnsOnFile(b *board.Board, col int) (white, black int) {
	for row := 0; row < 8; row++ {
		switch b.Squares[row][col] {
		case board.WhitePawn:
			white++
		case board.BlackPawn:
			black++
		}
	}
	return white, black
}

// evaluateOpenFiles scores files holding pawns of one color only.
// A file with only white pawns is open for black's pieces and costs white.
func evaluateOpenFiles(b *board.Board) int {
	score := 0
	for col := 0; col < 8; col++ {
		white, black := pawnsOnFile(b, col)
		switch {
		case white > 0 && black == 0:
			score -= semiOpenFile
		case black > 0 && white == 0:
			score += semiOpenFile
		}
	}
	return score
}

func evaluateAdvanced(b *board.Board) int {
	score := 0

	// Doubled pawns
	for col := 0; col < 8; col++ {
		white, black := pawnsOnFile(b, col)
		if white > 1 {
			score -= doubledPawn
		}
		if black > 1 {
			score += doubledPawn
		}
	}

	score += evaluateKingSafety(b)
	score += evaluatePieceActivity(b)

	return score
}

// evaluateKingSafety penalizes kings that have left their home square and
// counts the enemy pieces attacking each king, credited to the king's side.
func evaluateKingSafety(b *board.Board) int {
	score := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		king := b.KingSquare(c)
		if king == board.NoSquare {
			continue
		}
		home := kingHome[c]
		dist := absInt(king.Row-home.Row) + absInt(king.Col-home.Col)
		score -= sign(c) * dist * kingHomeDistance
		score += sign(c) * b.CountAttackers(king, c.Other()) * kingAttacker
	}
	return score
}

// evaluatePieceActivity rewards mobile and central minor and major pieces.
func evaluatePieceActivity(b *board.Board) int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[row][col]
			if p == board.NoPiece || p.Type() == board.Pawn || p.Type() == board.King {
				continue
			}
			sq := board.NewSquare(row, col)
			s := sign(p.Color())
			score += s * activityWeight * b.CountPseudoMoves(sq)
			if sq.CenterDistance() < 3 {
				score += s * activityCentrality
			}
		}
	}
	return score
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
