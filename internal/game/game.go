// Package game holds the state machine of a single chess game: move
// application with deferred promotion, undo, the captured-piece tally and
// status classification after every change.
package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// record is one applied move with what is needed to take it back.
type record struct {
	move board.Move
	undo board.Undo
}

// Game is a chess game between two sides. It is not safe for concurrent use;
// hand the engine a copy of Board() when searching in the background.
type Game struct {
	id         uuid.UUID
	board      board.Board
	phase      Phase
	status     Status
	difficulty engine.Difficulty
	history    []record
	captured   [2][]board.Piece // pieces captured by each color
	pending    *record          // pawn move awaiting a promotion choice
	logger     *zap.Logger
}

// New creates a game in the waiting_for_selection phase. A nil logger
// discards output.
func New(logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{logger: logger, difficulty: engine.Normal}
	g.NewGame()
	return g
}

// NewGame resets to the starting position under a fresh ID and waits for a
// difficulty to be selected.
func (g *Game) NewGame() {
	g.id = uuid.New()
	g.board = *board.NewBoard()
	g.phase = WaitingForSelection
	g.history = nil
	g.captured = [2][]board.Piece{}
	g.pending = nil
	g.status = Status{Kind: InProgress, Color: board.White}
}

// Start begins play at the given difficulty from the starting position.
func (g *Game) Start(d engine.Difficulty) {
	g.NewGame()
	g.difficulty = d
	g.phase = Playing
	g.logger.Info("game started",
		zap.Stringer("game", g.id),
		zap.Stringer("difficulty", d))
}

// StartFromFEN begins play at the given difficulty from a FEN position.
// The game's ply count starts at zero there, whatever the FEN's move number.
func (g *Game) StartFromFEN(fen string, d engine.Difficulty) error {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	g.Start(d)
	g.board = *b
	g.board.Ply = 0
	g.status = classify(&g.board)
	switch g.status.Kind {
	case Mate:
		g.phase = Checkmate
	case Stale:
		g.phase = Stalemate
	}
	return nil
}

// ID returns the game identifier.
func (g *Game) ID() uuid.UUID { return g.id }

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board { return g.board.Copy() }

// Phase returns the lifecycle phase.
func (g *Game) Phase() Phase { return g.phase }

// Status returns the status derived after the last change.
func (g *Game) Status() Status { return g.status }

// Difficulty returns the difficulty selected at Start.
func (g *Game) Difficulty() engine.Difficulty { return g.difficulty }

// SetDifficulty changes the difficulty of a running game.
func (g *Game) SetDifficulty(d engine.Difficulty) { g.difficulty = d }

// Turn returns the color to move.
func (g *Game) Turn() board.Color {
	if g.pending != nil {
		return g.pending.move.Piece.Color()
	}
	return g.board.SideToMove
}

// History returns the completed moves in order.
func (g *Game) History() []board.Move {
	moves := make([]board.Move, len(g.history))
	for i, r := range g.history {
		moves[i] = r.move
	}
	return moves
}

// Captured returns the pieces captured by color c, in capture order.
func (g *Game) Captured(c board.Color) []board.Piece {
	return append([]board.Piece(nil), g.captured[c]...)
}

// PendingPromotion returns the pawn move awaiting a promotion choice.
func (g *Game) PendingPromotion() (board.Move, bool) {
	if g.pending == nil {
		return board.NoMove, false
	}
	return g.pending.move, true
}

// LegalMoves returns the legal moves of the piece on sq. It returns nil for
// an empty or invalid square and while no move can be played.
func (g *Game) LegalMoves(sq board.Square) []board.Move {
	if g.phase != Playing || g.pending != nil || !sq.Valid() {
		return nil
	}
	return g.board.LegalMoves(sq)
}

// Apply moves the piece on from to to for the side to move.
//
// A pawn reaching the last rank stays a pawn on that square and the game
// waits for CompletePromotion; the returned status is then AwaitingPromotion.
func (g *Game) Apply(from, to board.Square) (Status, error) {
	const op = "apply"

	if !from.Valid() || !to.Valid() {
		return g.status, moveError(op, from, to, ErrInvalidSquare)
	}
	if g.pending != nil {
		return g.status, moveError(op, from, to, ErrPromotionPending)
	}
	if g.phase != Playing {
		return g.status, moveError(op, from, to, ErrGameNotActive)
	}

	piece := g.board.PieceAt(from)
	if piece == board.NoPiece {
		return g.status, moveError(op, from, to, ErrNoPieceAtOrigin)
	}
	if piece.Color() != g.board.SideToMove {
		return g.status, moveError(op, from, to, ErrNotCurrentPlayersPiece)
	}

	var move board.Move
	found := false
	for _, m := range g.board.LegalMoves(from) {
		if m.To == to {
			move, found = m, true
			break
		}
	}
	if !found {
		return g.status, moveError(op, from, to, ErrIllegalMove)
	}

	move.Notation = board.Notation(move.From, move.To, move.Piece, move.Captured)
	undo := g.board.MakeMove(move)

	if move.IsPromotion() {
		g.pending = &record{move: move, undo: undo}
		g.status = Status{Kind: AwaitingPromotion, Color: piece.Color()}
		g.logger.Debug("promotion pending",
			zap.Stringer("game", g.id),
			zap.String("move", move.Notation))
		return g.status, nil
	}

	return g.complete(record{move: move, undo: undo}), nil
}

// CompletePromotion replaces the pawn awaiting promotion with a piece of the
// given type and finishes the move.
func (g *Game) CompletePromotion(pt board.PieceType) (Status, error) {
	const op = "promote"

	if g.pending == nil {
		return g.status, opError(op, ErrPromotionNotPending)
	}
	if !pt.CanPromoteTo() {
		return g.status, moveError(op, g.pending.move.From, g.pending.move.To, ErrInvalidPromotion)
	}

	r := *g.pending
	g.pending = nil

	r.move.Promotion = pt
	r.move.Notation = board.PromotionNotation(r.move.Notation, pt)
	g.board.Set(r.move.To, board.NewPiece(pt, r.move.Piece.Color()))

	return g.complete(r), nil
}

// complete records a finished move and recomputes the status.
func (g *Game) complete(r record) Status {
	g.history = append(g.history, r)

	mover := r.move.Piece.Color()
	if r.move.Captured != board.NoPiece {
		g.captured[mover] = append(g.captured[mover], r.move.Captured)
	}

	g.status = classify(&g.board)
	switch g.status.Kind {
	case Mate:
		g.phase = Checkmate
	case Stale:
		g.phase = Stalemate
	}

	g.logger.Debug("move applied",
		zap.Stringer("game", g.id),
		zap.Int("ply", len(g.history)),
		zap.String("move", r.move.Notation),
		zap.Stringer("status", g.status))

	return g.status
}

// Undo takes back the last move, or cancels a pending promotion. The board,
// side to move, en passant target and captured tally are restored exactly,
// including pawns taken en passant. A finished checkmate or stalemate
// returns to play.
func (g *Game) Undo() error {
	const op = "undo"

	if g.phase == Resigned || g.phase == Drawn || g.phase == WaitingForSelection {
		return opError(op, ErrGameNotActive)
	}

	if g.pending != nil {
		g.board.UnmakeMove(g.pending.move, g.pending.undo)
		g.pending = nil
		g.status = classify(&g.board)
		return nil
	}

	if len(g.history) == 0 {
		return opError(op, ErrNoMoveToUndo)
	}

	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.board.UnmakeMove(last.move, last.undo)

	mover := last.move.Piece.Color()
	if last.move.Captured != board.NoPiece && len(g.captured[mover]) > 0 {
		g.captured[mover] = g.captured[mover][:len(g.captured[mover])-1]
	}

	g.phase = Playing
	g.status = classify(&g.board)

	g.logger.Debug("move undone",
		zap.Stringer("game", g.id),
		zap.String("move", last.move.Notation))

	return nil
}

// Resign ends the game in favor of c's opponent.
func (g *Game) Resign(c board.Color) (Status, error) {
	if g.phase != Playing && g.phase != DrawOffered {
		return g.status, opError("resign", ErrGameNotActive)
	}
	g.pending = nil
	g.phase = Resigned
	g.status = Status{Kind: Resignation, Color: c.Other()}
	g.logger.Info("game resigned",
		zap.Stringer("game", g.id),
		zap.Stringer("winner", c.Other()))
	return g.status, nil
}

// OfferDraw suspends play until the offer is accepted or declined.
func (g *Game) OfferDraw() (Status, error) {
	if g.phase != Playing || g.pending != nil {
		return g.status, opError("offer draw", ErrGameNotActive)
	}
	g.phase = DrawOffered
	g.status = Status{Kind: DrawOffer, Color: g.board.SideToMove}
	return g.status, nil
}

// AcceptDraw ends the game drawn.
func (g *Game) AcceptDraw() (Status, error) {
	if g.phase != DrawOffered {
		return g.status, opError("accept draw", ErrGameNotActive)
	}
	g.phase = Drawn
	g.status = Status{Kind: DrawAgreed, Color: g.board.SideToMove}
	g.logger.Info("draw agreed", zap.Stringer("game", g.id))
	return g.status, nil
}

// DeclineDraw resumes play after a draw offer.
func (g *Game) DeclineDraw() (Status, error) {
	if g.phase != DrawOffered {
		return g.status, opError("decline draw", ErrGameNotActive)
	}
	g.phase = Playing
	g.status = classify(&g.board)
	return g.status, nil
}
