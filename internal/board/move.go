package board

import "fmt"

// Move describes a single piece move on the board.
//
// Candidates produced by the generator carry From, To, Piece, Captured and
// EnPassant. Promotion is NoPieceType until the promotion piece is chosen,
// and Notation is filled in by the game when the move is applied.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	EnPassant bool
	Promotion PieceType
	Notation  string
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPiece, Captured: NoPiece, Promotion: NoPieceType}

// IsNull reports whether m is NoMove (or any move without a valid origin).
func (m Move) IsNull() bool {
	return !m.From.Valid()
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsPromotion returns true if the move takes a pawn to its last rank.
func (m Move) IsPromotion() bool {
	return m.Piece.Type() == Pawn && m.To.Row == m.Piece.Color().PromotionRow()
}

// IsDoublePush returns true for a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m.Piece.Type() == Pawn && abs(m.To.Row-m.From.Row) == 2
}

// CapturedSquare returns the square the captured piece stood on.
// For en passant this is the origin's row on the destination's file.
func (m Move) CapturedSquare() Square {
	if m.EnPassant {
		return Square{Row: m.From.Row, Col: m.To.Col}
	}
	return m.To
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.Promotion != NoPieceType {
		s += string(m.Promotion.Char())
	}

	return s
}

// ParseMove parses a UCI format move string against the board and returns
// the matching legal move. A promotion suffix, if present, is recorded in
// the returned move's Promotion field.
func ParseMove(s string, b *Board) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		pt, ok := ParsePromotion(s[4:5])
		if !ok {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		promo = pt
	}

	if b.PieceAt(from) == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	for _, m := range b.LegalMoves(from) {
		if m.To != to {
			continue
		}
		if m.IsPromotion() {
			if promo == NoPieceType {
				promo = Queen
			}
			m.Promotion = promo
		} else if promo != NoPieceType {
			return NoMove, fmt.Errorf("move %s is not a promotion", s)
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("illegal move: %s", s)
}

// Undo stores information needed to undo a move made with MakeMove.
type Undo struct {
	Captured   Piece
	CapturedAt Square
	EnPassant  Square
	SideToMove Color
	Ply        int
}
