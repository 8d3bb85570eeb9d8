package game

import (
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Sentinel errors for rejected game operations.
// Use these with errors.Is() to check for specific failures.
var (
	// ErrInvalidSquare indicates coordinates outside the board.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrNoPieceAtOrigin indicates a move from an empty square.
	ErrNoPieceAtOrigin = errors.New("no piece at origin")

	// ErrNotCurrentPlayersPiece indicates a move of the opponent's piece.
	ErrNotCurrentPlayersPiece = errors.New("not the current player's piece")

	// ErrIllegalMove indicates a destination outside the piece's legal moves.
	ErrIllegalMove = errors.New("illegal move")

	// ErrPromotionNotPending indicates CompletePromotion without a pawn awaiting promotion.
	ErrPromotionNotPending = errors.New("no promotion pending")

	// ErrNoMoveToUndo indicates Undo on an empty history.
	ErrNoMoveToUndo = errors.New("no move to undo")

	// ErrGameNotActive indicates a move while the game is not being played.
	ErrGameNotActive = errors.New("game not active")

	// ErrPromotionPending indicates a move while a promotion choice is outstanding.
	ErrPromotionPending = errors.New("promotion pending")

	// ErrInvalidPromotion indicates a promotion to a pawn or king.
	ErrInvalidPromotion = errors.New("invalid promotion piece")
)

// MoveError wraps a sentinel with the operation and squares involved.
// It supports unwrapping via errors.Is() and errors.As().
type MoveError struct {
	Op   string       // Operation that failed ("apply", "promote", "undo", ...)
	From board.Square // Origin square, NoSquare if not applicable
	To   board.Square // Destination square, NoSquare if not applicable
	Err  error        // The underlying error
}

// Error returns a formatted error message including the squares when known.
func (e *MoveError) Error() string {
	switch {
	case e.From.Valid() && e.To.Valid():
		return fmt.Sprintf("%s %s%s: %v", e.Op, e.From, e.To, e.Err)
	case e.From.Valid():
		return fmt.Sprintf("%s %s: %v", e.Op, e.From, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is() and errors.As().
func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveError(op string, from, to board.Square, err error) error {
	return &MoveError{Op: op, From: from, To: to, Err: err}
}

func opError(op string, err error) error {
	return &MoveError{Op: op, From: board.NoSquare, To: board.NoSquare, Err: err}
}
