package board

// Ray directions as (dRow, dCol). The first four are orthogonal.
var (
	rookDirections   = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirections = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirections  = [8][2]int{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
		{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	}
	knightJumps = [8][2]int{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
)

// IsSquareAttacked reports whether any piece of color by could move to sq
// under the pseudo-legal rules, ignoring whether that move would expose its
// own king. A square holding a piece of color by is never attacked by by.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackers(sq, by, true) > 0
}

// CountAttackers returns the number of by pieces whose pseudo-legal
// destinations include sq.
func (b *Board) CountAttackers(sq Square, by Color) int {
	return b.attackers(sq, by, false)
}

// InCheck reports whether the king of color c is attacked.
// A missing king is never in check.
func (b *Board) InCheck(c Color) bool {
	king := b.KingSquare(c)
	if king == NoSquare {
		return false
	}
	return b.IsSquareAttacked(king, c.Other())
}

// attackers scans outward from sq for pieces of color by that reach it.
// With first set it returns as soon as one attacker is found.
func (b *Board) attackers(sq Square, by Color, first bool) int {
	if !sq.Valid() {
		return 0
	}
	target := b.PieceAt(sq)
	if target != NoPiece && target.Color() == by {
		return 0
	}

	count := 0

	// Sliders and the king share the ray walk; the king only at distance 1.
	for i, d := range queenDirections {
		orthogonal := i < 4
		for dist := 1; ; dist++ {
			s := sq.Offset(d[0]*dist, d[1]*dist)
			if !s.Valid() {
				break
			}
			p := b.PieceAt(s)
			if p == NoPiece {
				continue
			}
			if p.Color() == by {
				switch p.Type() {
				case Queen:
					count++
				case Rook:
					if orthogonal {
						count++
					}
				case Bishop:
					if !orthogonal {
						count++
					}
				case King:
					if dist == 1 {
						count++
					}
				}
			}
			break
		}
		if first && count > 0 {
			return count
		}
	}

	knight := NewPiece(Knight, by)
	for _, j := range knightJumps {
		s := sq.Offset(j[0], j[1])
		if s.Valid() && b.PieceAt(s) == knight {
			count++
			if first {
				return count
			}
		}
	}

	count += b.pawnAttackers(sq, by, target)
	return count
}

// pawnAttackers counts by pawns that can reach sq: diagonally when sq holds
// an enemy piece or is the en passant target, straight ahead when it is empty.
func (b *Board) pawnAttackers(sq Square, by Color, target Piece) int {
	pawn := NewPiece(Pawn, by)
	back := -by.forward()
	count := 0

	if target != NoPiece || sq == b.EnPassant {
		for _, dCol := range [2]int{-1, 1} {
			s := sq.Offset(back, dCol)
			if !s.Valid() || b.PieceAt(s) != pawn {
				continue
			}
			if target == NoPiece && !b.enPassantVictim(s, sq) {
				continue
			}
			count++
		}
	}

	if target == NoPiece {
		one := sq.Offset(back, 0)
		if one.Valid() {
			switch b.PieceAt(one) {
			case pawn:
				count++
			case NoPiece:
				two := sq.Offset(2*back, 0)
				if two.Valid() && two.Row == by.PawnRow() && b.PieceAt(two) == pawn {
					count++
				}
			}
		}
	}

	return count
}

// enPassantVictim reports whether a pawn on from capturing onto the empty
// square to would take an enemy pawn en passant.
func (b *Board) enPassantVictim(from, to Square) bool {
	if to != b.EnPassant {
		return false
	}
	pawn := b.PieceAt(from)
	victim := b.PieceAt(Square{Row: from.Row, Col: to.Col})
	return victim.Type() == Pawn && victim.Color() == pawn.Color().Other()
}
