package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Phase is the lifecycle stage of a game.
type Phase int

const (
	WaitingForSelection Phase = iota // no difficulty chosen yet
	Playing
	Checkmate
	Stalemate
	Resigned
	DrawOffered
	Drawn
)

var phaseNames = [...]string{
	WaitingForSelection: "waiting_for_selection",
	Playing:             "playing",
	Checkmate:           "checkmate",
	Stalemate:           "stalemate",
	Resigned:            "resigned",
	DrawOffered:         "draw_offered",
	Drawn:               "drawn",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Over reports whether no further moves can be played in this phase.
func (p Phase) Over() bool {
	return p == Checkmate || p == Stalemate || p == Resigned || p == Drawn
}

// StatusKind classifies the position after the last mutation.
type StatusKind int

const (
	InProgress StatusKind = iota
	Check
	Mate
	Stale
	AwaitingPromotion
	Resignation
	DrawOffer
	DrawAgreed
)

var statusNames = [...]string{
	InProgress:        "in_progress",
	Check:             "check",
	Mate:              "checkmate",
	Stale:             "stalemate",
	AwaitingPromotion: "awaiting_promotion",
	Resignation:       "resigned",
	DrawOffer:         "draw_offered",
	DrawAgreed:        "draw",
}

func (k StatusKind) String() string {
	if k < 0 || int(k) >= len(statusNames) {
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
	return statusNames[k]
}

// Status is the derived state of the game.
//
// Color is the side in check for Check, the winner for Mate and
// Resignation, the side to choose a piece for AwaitingPromotion and the
// side to move otherwise.
type Status struct {
	Kind  StatusKind
	Color board.Color
}

func (s Status) String() string {
	switch s.Kind {
	case Check, Mate, Resignation, AwaitingPromotion:
		return s.Kind.String() + "(" + s.Color.String() + ")"
	}
	return s.Kind.String()
}

// classify derives the status for the side to move on b.
func classify(b *board.Board) Status {
	side := b.SideToMove
	inCheck := b.InCheck(side)
	hasMoves := b.HasLegalMoves(side)

	switch {
	case !hasMoves && inCheck:
		return Status{Kind: Mate, Color: side.Other()}
	case !hasMoves:
		return Status{Kind: Stale, Color: side}
	case inCheck:
		return Status{Kind: Check, Color: side}
	}
	return Status{Kind: InProgress, Color: side}
}
