// Package board implements the mailbox chess board, move generation and the
// attack oracle shared by the game state machine and the search engine.
package board

import "fmt"

// Square addresses one cell of the 8x8 grid.
// Row 0 is black's back rank (rank 8), row 7 is white's back rank (rank 1).
// Col 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// NoSquare is the sentinel for "no square" (no en passant target, missing king).
var NoSquare = Square{Row: -1, Col: -1}

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Valid reports whether both coordinates lie in [0,8).
func (sq Square) Valid() bool {
	return sq.Row >= 0 && sq.Row < 8 && sq.Col >= 0 && sq.Col < 8
}

// File returns the file letter of the square ('a'-'h').
func (sq Square) File() byte {
	return 'a' + byte(sq.Col)
}

// Rank returns the rank digit of the square ('1'-'8').
func (sq Square) Rank() byte {
	return '8' - byte(sq.Row)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", sq.File(), sq.Rank())
}

// Offset returns the square shifted by (dRow, dCol). The result may be invalid.
func (sq Square) Offset(dRow, dCol int) Square {
	return Square{Row: sq.Row + dRow, Col: sq.Col + dCol}
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	col := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if col < 0 || col > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(7-rank, col), nil
}

// centerDistance2 returns twice the Manhattan distance to the board centre (3.5, 3.5),
// kept integral so callers can compare without floats.
func (sq Square) centerDistance2() int {
	return abs(2*sq.Row-7) + abs(2*sq.Col-7)
}

// CenterDistance returns the Manhattan distance to the board centre.
func (sq Square) CenterDistance() float64 {
	return float64(sq.centerDistance2()) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
