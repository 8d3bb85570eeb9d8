package board

import (
	"fmt"
	"strings"
)

// Board represents a complete position on the 8x8 mailbox grid.
//
// Board is a value type: assigning it copies the whole position, which is
// what the legality filter and WithMoveApplied rely on.
type Board struct {
	// Squares is indexed [row][col]; row 0 is black's back rank.
	Squares [8][8]Piece

	SideToMove Color

	// EnPassant is the square a pawn passed over on the previous move,
	// NoSquare if the previous move was not a double push.
	EnPassant Square

	// Ply counts half-moves made since the game started.
	Ply int
}

var initialBackRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard creates the starting position with white to move.
func NewBoard() *Board {
	b := Empty()
	for col := 0; col < 8; col++ {
		b.Squares[0][col] = NewPiece(initialBackRank[col], Black)
		b.Squares[1][col] = BlackPawn
		b.Squares[6][col] = WhitePawn
		b.Squares[7][col] = NewPiece(initialBackRank[col], White)
	}
	return b
}

// Empty returns a board with no pieces, white to move.
func Empty() *Board {
	b := &Board{SideToMove: White, EnPassant: NoSquare}
	b.Clear()
	return b
}

// Clear resets the board to an empty grid.
func (b *Board) Clear() {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			b.Squares[row][col] = NoPiece
		}
	}
	b.SideToMove = White
	b.EnPassant = NoSquare
	b.Ply = 0
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
// The square must be valid.
func (b *Board) PieceAt(sq Square) Piece {
	return b.Squares[sq.Row][sq.Col]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.Squares[sq.Row][sq.Col] == NoPiece
}

// Set places a piece on a square (NoPiece clears it).
func (b *Board) Set(sq Square, p Piece) {
	b.Squares[sq.Row][sq.Col] = p
}

// KingSquare returns the square of the king of the given color, or NoSquare.
func (b *Board) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b.Squares[row][col] == king {
				return Square{Row: row, Col: col}
			}
		}
	}
	return NoSquare
}

// MakeMove plays m on the board and returns what is needed to take it back.
//
// The move is trusted: callers pass moves obtained from the generator. A
// promotion move without a chosen piece leaves the pawn on the last rank.
func (b *Board) MakeMove(m Move) Undo {
	undo := Undo{
		Captured:   NoPiece,
		CapturedAt: NoSquare,
		EnPassant:  b.EnPassant,
		SideToMove: b.SideToMove,
		Ply:        b.Ply,
	}

	capSq := m.CapturedSquare()
	if captured := b.PieceAt(capSq); captured != NoPiece {
		undo.Captured = captured
		undo.CapturedAt = capSq
		b.Set(capSq, NoPiece)
	}

	piece := b.PieceAt(m.From)
	b.Set(m.From, NoPiece)
	if m.Promotion != NoPieceType && piece.Type() == Pawn {
		piece = NewPiece(m.Promotion, piece.Color())
	}
	b.Set(m.To, piece)

	b.EnPassant = NoSquare
	if piece.Type() == Pawn && abs(m.To.Row-m.From.Row) == 2 {
		b.EnPassant = Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
	}

	b.SideToMove = b.SideToMove.Other()
	b.Ply++

	return undo
}

// UnmakeMove takes back m, which must be the last move made with MakeMove.
func (b *Board) UnmakeMove(m Move, undo Undo) {
	piece := b.PieceAt(m.To)
	if m.Promotion != NoPieceType && m.Piece.Type() == Pawn {
		piece = m.Piece
	}
	b.Set(m.To, NoPiece)
	b.Set(m.From, piece)

	if undo.Captured != NoPiece {
		b.Set(undo.CapturedAt, undo.Captured)
	}

	b.EnPassant = undo.EnPassant
	b.SideToMove = undo.SideToMove
	b.Ply = undo.Ply
}

// WithMoveApplied returns a new board with m played. b is not modified.
func (b *Board) WithMoveApplied(m Move) *Board {
	nb := *b
	nb.MakeMove(m)
	return &nb
}

// CountPieces returns the number of pieces of the given kind and color.
func (b *Board) CountPieces(p Piece) int {
	n := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b.Squares[row][col] == p {
				n++
			}
		}
	}
	return n
}

// Material returns the material balance (positive favors white).
func (b *Board) Material() int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[row][col]
			if p == NoPiece {
				continue
			}
			if p.Color() == White {
				score += p.Value()
			} else {
				score -= p.Value()
			}
		}
	}
	return score
}

// Validate checks if the position is valid.
func (b *Board) Validate() error {
	if b.CountPieces(WhiteKing) != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if b.CountPieces(BlackKing) != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	for col := 0; col < 8; col++ {
		for _, row := range []int{0, 7} {
			if b.Squares[row][col].Type() == Pawn {
				return fmt.Errorf("pawns cannot be on rank 1 or 8")
			}
		}
	}

	if b.InCheck(b.SideToMove.Other()) {
		return fmt.Errorf("side not to move is in check")
	}

	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for col := 0; col < 8; col++ {
			piece := b.Squares[row][col]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.SideToMove)
	fmt.Fprintf(&sb, "En passant: %s\n", b.EnPassant)
	return sb.String()
}
