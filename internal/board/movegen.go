package board

// PseudoMoves returns the moves of the piece on sq under the per-kind rules,
// without checking whether they leave its own king attacked.
func (b *Board) PseudoMoves(sq Square) []Move {
	var moves []Move
	b.generate(sq, func(m Move) {
		moves = append(moves, m)
	})
	return moves
}

// CountPseudoMoves returns len(b.PseudoMoves(sq)) without allocating.
func (b *Board) CountPseudoMoves(sq Square) int {
	n := 0
	b.generate(sq, func(Move) { n++ })
	return n
}

// LegalMoves returns the moves of the piece on sq that do not leave its own
// king attacked. It returns nil when sq is empty or invalid.
func (b *Board) LegalMoves(sq Square) []Move {
	var moves []Move
	b.generate(sq, func(m Move) {
		if b.IsLegal(m) {
			moves = append(moves, m)
		}
	})
	return moves
}

// IsLegal reports whether the pseudo-legal move m keeps the mover's king safe.
func (b *Board) IsLegal(m Move) bool {
	scratch := *b
	scratch.MakeMove(m)
	return !scratch.InCheck(m.Piece.Color())
}

// AllLegalMoves returns every legal move for color c in board scan order.
func (b *Board) AllLegalMoves(c Color) []Move {
	moves := make([]Move, 0, 48)
	b.eachPiece(c, func(sq Square) bool {
		b.generate(sq, func(m Move) {
			if b.IsLegal(m) {
				moves = append(moves, m)
			}
		})
		return true
	})
	return moves
}

// HasLegalMoves reports whether color c has at least one legal move.
// It stops at the first one found.
func (b *Board) HasLegalMoves(c Color) bool {
	found := false
	b.eachPiece(c, func(sq Square) bool {
		for _, m := range b.PseudoMoves(sq) {
			if b.IsLegal(m) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// Mobility returns the total number of pseudo-legal moves for color c.
func (b *Board) Mobility(c Color) int {
	n := 0
	b.eachPiece(c, func(sq Square) bool {
		n += b.CountPseudoMoves(sq)
		return true
	})
	return n
}

// IsCheckmate returns true if the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck(b.SideToMove) && !b.HasLegalMoves(b.SideToMove)
}

// IsStalemate returns true if the side to move has no legal moves and is not in check.
func (b *Board) IsStalemate() bool {
	return !b.InCheck(b.SideToMove) && !b.HasLegalMoves(b.SideToMove)
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// A pawn reaching the last rank counts as a single move.
func (b *Board) Perft(depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := b.AllLegalMoves(b.SideToMove)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		undo := b.MakeMove(m)
		nodes += b.Perft(depth - 1)
		b.UnmakeMove(m, undo)
	}
	return nodes
}

// eachPiece calls fn for every square holding a piece of color c, in row-major
// order, until fn returns false.
func (b *Board) eachPiece(c Color, fn func(Square) bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[row][col]
			if p == NoPiece || p.Color() != c {
				continue
			}
			if !fn(Square{Row: row, Col: col}) {
				return
			}
		}
	}
}

// generate emits the pseudo-legal moves of the piece on sq.
func (b *Board) generate(sq Square, emit func(Move)) {
	if !sq.Valid() {
		return
	}
	piece := b.PieceAt(sq)
	if piece == NoPiece {
		return
	}

	switch piece.Type() {
	case Pawn:
		b.generatePawnMoves(sq, piece, emit)
	case Knight:
		for _, j := range knightJumps {
			b.step(sq, sq.Offset(j[0], j[1]), piece, emit)
		}
	case Bishop:
		for _, d := range bishopDirections {
			b.slide(sq, d, piece, 7, emit)
		}
	case Rook:
		for _, d := range rookDirections {
			b.slide(sq, d, piece, 7, emit)
		}
	case Queen:
		for _, d := range queenDirections {
			b.slide(sq, d, piece, 7, emit)
		}
	case King:
		for _, d := range queenDirections {
			b.slide(sq, d, piece, 1, emit)
		}
	}
}

// step emits a single move to to if it is on the board and not occupied by a friendly piece.
func (b *Board) step(from, to Square, piece Piece, emit func(Move)) bool {
	if !to.Valid() {
		return false
	}
	target := b.PieceAt(to)
	if target != NoPiece && target.Color() == piece.Color() {
		return false
	}
	emit(newMove(from, to, piece, target))
	return target == NoPiece
}

// slide walks a ray up to limit squares, stopping after a capture or before a friendly piece.
func (b *Board) slide(from Square, d [2]int, piece Piece, limit int, emit func(Move)) {
	for dist := 1; dist <= limit; dist++ {
		if !b.step(from, from.Offset(d[0]*dist, d[1]*dist), piece, emit) {
			return
		}
	}
}

func (b *Board) generatePawnMoves(from Square, piece Piece, emit func(Move)) {
	us := piece.Color()
	fwd := us.forward()

	one := from.Offset(fwd, 0)
	if one.Valid() && b.IsEmpty(one) {
		emit(newMove(from, one, piece, NoPiece))
		two := from.Offset(2*fwd, 0)
		if from.Row == us.PawnRow() && two.Valid() && b.IsEmpty(two) {
			emit(newMove(from, two, piece, NoPiece))
		}
	}

	for _, dCol := range [2]int{-1, 1} {
		to := from.Offset(fwd, dCol)
		if !to.Valid() {
			continue
		}
		target := b.PieceAt(to)
		switch {
		case target != NoPiece && target.Color() != us:
			emit(newMove(from, to, piece, target))
		case target == NoPiece && b.enPassantVictim(from, to):
			m := newMove(from, to, piece, b.PieceAt(Square{Row: from.Row, Col: to.Col}))
			m.EnPassant = true
			emit(m)
		}
	}
}

func newMove(from, to Square, piece, captured Piece) Move {
	return Move{
		From:      from,
		To:        to,
		Piece:     piece,
		Captured:  captured,
		Promotion: NoPieceType,
	}
}
