package board

import "strings"

// PendingPromotionSuffix marks a pawn move whose promotion piece is not chosen yet.
const PendingPromotionSuffix = "=Q"

// Notation formats a move in short algebraic notation: the piece letter
// (none for pawns), the capture marker with the origin file for pawn
// captures, and the destination. A pawn reaching the last rank gets the
// pending suffix "=Q" until PromotionNotation replaces it.
//
// Moves are not disambiguated and carry no check markers.
func Notation(from, to Square, piece, captured Piece) string {
	var sb strings.Builder

	pt := piece.Type()
	sb.WriteString(pt.Letter())

	if captured != NoPiece {
		if pt == Pawn {
			sb.WriteByte(from.File())
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if pt == Pawn && to.Row == piece.Color().PromotionRow() {
		sb.WriteString(PendingPromotionSuffix)
	}

	return sb.String()
}

// PromotionNotation replaces the pending suffix of notation with the chosen piece.
func PromotionNotation(notation string, pt PieceType) string {
	return strings.TrimSuffix(notation, PendingPromotionSuffix) + "=" + pt.Letter()
}

// MoveNotation formats m with Notation, including its promotion if chosen.
func MoveNotation(m Move) string {
	s := Notation(m.From, m.To, m.Piece, m.Captured)
	if m.Promotion != NoPieceType && strings.HasSuffix(s, PendingPromotionSuffix) {
		s = PromotionNotation(s, m.Promotion)
	}
	return s
}

// MovesToNotation formats a sequence of moves.
func MovesToNotation(moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = MoveNotation(m)
	}
	return result
}
