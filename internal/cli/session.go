// Package cli runs an interactive game against the engine on a text terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/msgcat"
	"github.com/hailam/chesscore/internal/render"
	"github.com/hailam/chesscore/internal/storage"
)

// Options wires a Session to its collaborators. Store may be nil, in which
// case results are not recorded. Now defaults to time.Now.
type Options struct {
	Engine     *engine.Engine
	Catalog    *msgcat.Catalog
	Renderer   *render.Renderer
	Store      *storage.Storage
	Logger     *zap.Logger
	Out        io.Writer
	Username   string
	Human      board.Color
	Difficulty engine.Difficulty
	Now        func() time.Time
}

// Session is one terminal player's sitting, possibly spanning several games.
type Session struct {
	opts    Options
	game    *game.Game
	human   board.Color
	logger  *zap.Logger
	started time.Time

	lastMove *board.Move
	recorded bool

	// Per-side clocks; only the side to move runs, and only while playing.
	clocks     [2]time.Duration
	clockSide  board.Color
	clockStart time.Time
}

// NewSession creates a session. Call Start before executing commands.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		opts:   opts,
		game:   game.New(opts.Logger.Named("game")),
		human:  opts.Human,
		logger: opts.Logger,

		clockSide: board.NoColor,
	}
}

// Game returns the current game.
func (s *Session) Game() *game.Game { return s.game }

// Start begins a new game and lets the computer open if it plays white.
func (s *Session) Start(ctx context.Context) error {
	s.game.Start(s.opts.Difficulty)
	s.started = s.opts.Now()
	s.lastMove = nil
	s.recorded = false
	s.clocks = [2]time.Duration{}
	s.clockSide = board.NoColor
	s.syncClock()
	return s.computerTurn(ctx)
}

// Run greets the player and executes commands read from in until quit,
// end of input or cancellation of ctx.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.say("game.welcome", map[string]any{
		"Username":   s.opts.Username,
		"Color":      s.human,
		"Difficulty": s.opts.Difficulty,
	})
	if err := s.Start(ctx); err != nil {
		return err
	}
	s.showBoard()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.say("error.generic", map[string]any{"Err": err})
		}
		if quit {
			s.say("game.goodbye", nil)
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line. It reports true when the player asked to quit.
func (s *Session) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	// Arguments keep their case; png paths may need it.
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		s.say("game.help", nil)
	case "show":
		s.showBoard()
	case "fen":
		s.println(s.game.Board().FEN())
	case "history":
		s.showHistory()
	case "moves":
		return false, s.listMoves(args)
	case "move":
		if len(args) != 1 {
			s.say("error.usage", map[string]any{"Usage": "move <from><to>"})
			return false, nil
		}
		return false, s.playMove(ctx, strings.ToLower(args[0]))
	case "promote":
		return false, s.promote(ctx, args)
	case "undo":
		return false, s.undo(ctx)
	case "level":
		return false, s.setLevel(args)
	case "draw":
		return false, s.offerDraw()
	case "resign":
		return false, s.resign()
	case "png":
		return false, s.savePNG(ctx, args)
	case "stats":
		return false, s.showStats()
	case "new":
		s.say("game.new_game", nil)
		if err := s.Start(ctx); err != nil {
			return false, err
		}
		s.showBoard()
	default:
		if looksLikeMove(cmd) {
			return false, s.playMove(ctx, cmd)
		}
		s.say("error.unknown_command", map[string]any{"Command": cmd})
	}
	return false, nil
}

func looksLikeMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	_, errFrom := board.ParseSquare(s[0:2])
	_, errTo := board.ParseSquare(s[2:4])
	return errFrom == nil && errTo == nil
}

func (s *Session) listMoves(args []string) error {
	if len(args) != 1 {
		s.say("error.usage", map[string]any{"Usage": "moves <square>"})
		return nil
	}
	sq, err := board.ParseSquare(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	moves := s.game.LegalMoves(sq)
	if len(moves) == 0 {
		s.say("game.no_moves", map[string]any{"Square": sq})
		return nil
	}
	targets := make([]string, len(moves))
	for i, m := range moves {
		targets[i] = board.MoveNotation(m)
	}
	s.say("game.moves", map[string]any{"Square": sq, "Moves": strings.Join(targets, " ")})
	return nil
}

// playMove applies a human move written as <from><to>[piece].
func (s *Session) playMove(ctx context.Context, text string) error {
	if !looksLikeMove(text) {
		s.say("error.usage", map[string]any{"Usage": "move <from><to>"})
		return nil
	}
	if s.game.Turn() != s.human {
		return errors.New("it is not your turn")
	}
	from, _ := board.ParseSquare(text[0:2])
	to, _ := board.ParseSquare(text[2:4])

	status, err := s.game.Apply(from, to)
	if err != nil {
		return err
	}

	// A trailing piece letter answers the promotion question up front.
	if status.Kind == game.AwaitingPromotion && len(text) == 5 {
		pt, ok := board.ParsePromotion(text[4:])
		if !ok {
			s.reportStatus(status)
			return nil
		}
		return s.finishPromotion(ctx, pt)
	}
	return s.afterHumanMove(ctx, status)
}

func (s *Session) promote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		s.say("error.usage", map[string]any{"Usage": "promote q|r|b|n"})
		return nil
	}
	pt, ok := board.ParsePromotion(args[0])
	if !ok {
		return game.ErrInvalidPromotion
	}
	return s.finishPromotion(ctx, pt)
}

func (s *Session) finishPromotion(ctx context.Context, pt board.PieceType) error {
	status, err := s.game.CompletePromotion(pt)
	if err != nil {
		return err
	}
	return s.afterHumanMove(ctx, status)
}

func (s *Session) afterHumanMove(ctx context.Context, status game.Status) error {
	if status.Kind == game.AwaitingPromotion {
		s.reportStatus(status)
		return nil
	}
	s.syncClock()
	s.noteLastMove()
	s.say("game.player_move", map[string]any{"Notation": s.lastMove.Notation})
	s.reportStatus(status)
	if err := s.finishIfOver(); err != nil {
		return err
	}
	return s.computerTurn(ctx)
}

// computerTurn lets the engine move while it is the computer's turn.
func (s *Session) computerTurn(ctx context.Context) error {
	if s.game.Phase() != game.Playing || s.game.Turn() == s.human {
		return nil
	}

	color := s.game.Turn()
	difficulty := s.game.Difficulty()
	s.say("game.thinking", map[string]any{"Difficulty": difficulty})

	var result engine.ThinkResult
	select {
	case result = <-s.opts.Engine.Think(s.game.Board(), color, difficulty):
	case <-ctx.Done():
		return ctx.Err()
	}
	if !result.OK {
		// The position was already classified as mate or stalemate.
		return nil
	}

	m := result.Move
	status, err := s.game.Apply(m.From, m.To)
	if err != nil {
		return fmt.Errorf("computer move %s: %w", m, err)
	}
	if status.Kind == game.AwaitingPromotion {
		pt := m.Promotion
		if pt == board.NoPieceType {
			pt = board.Queen
		}
		if status, err = s.game.CompletePromotion(pt); err != nil {
			return fmt.Errorf("computer promotion %s: %w", m, err)
		}
	}

	s.syncClock()
	s.noteLastMove()
	s.say("game.computer_move", map[string]any{"Notation": s.lastMove.Notation})
	s.showBoard()
	s.reportStatus(status)
	return s.finishIfOver()
}

func (s *Session) noteLastMove() {
	history := s.game.History()
	if len(history) == 0 {
		s.lastMove = nil
		return
	}
	last := history[len(history)-1]
	s.lastMove = &last
}

// undo takes back the player's last move together with the computer's reply.
// Taking back a finished game's final move reopens it, and the ending that
// follows replaces the recorded result.
func (s *Session) undo(ctx context.Context) error {
	wasOver := s.game.Phase().Over()
	count := 0
	for {
		if err := s.game.Undo(); err != nil {
			if count > 0 && errors.Is(err, game.ErrNoMoveToUndo) {
				break
			}
			return err
		}
		count++
		if s.game.Turn() == s.human {
			break
		}
	}
	if wasOver && !s.game.Phase().Over() {
		s.recorded = false
	}
	s.syncClock()
	s.noteLastMove()
	s.say("game.undone", map[string]any{"Count": count})
	s.showBoard()

	// Taking back the computer's opening move hands it the turn again.
	return s.computerTurn(ctx)
}

func (s *Session) setLevel(args []string) error {
	if len(args) != 1 {
		s.say("error.usage", map[string]any{"Usage": "level beginner|normal|professional"})
		return nil
	}
	d, err := engine.ParseDifficulty(args[0])
	if err != nil {
		return err
	}
	s.opts.Difficulty = d
	s.game.SetDifficulty(d)
	s.say("game.level_changed", map[string]any{"Difficulty": d})
	return nil
}

// offerDraw proposes a draw; the computer accepts when its side is behind.
func (s *Session) offerDraw() error {
	status, err := s.game.OfferDraw()
	if err != nil {
		return err
	}
	s.reportStatus(status)

	eval := s.opts.Engine.Evaluate(s.game.Board())
	if s.human == board.White {
		eval = -eval
	}
	if eval < 0 {
		if status, err = s.game.AcceptDraw(); err != nil {
			return err
		}
		s.syncClock()
		s.reportStatus(status)
		return s.finishIfOver()
	}

	if _, err := s.game.DeclineDraw(); err != nil {
		return err
	}
	s.syncClock()
	s.say("game.draw_declined", nil)
	return nil
}

func (s *Session) resign() error {
	status, err := s.game.Resign(s.human)
	if err != nil {
		return err
	}
	s.syncClock()
	s.reportStatus(status)
	return s.finishIfOver()
}

func (s *Session) savePNG(ctx context.Context, args []string) error {
	if len(args) != 1 {
		s.say("error.usage", map[string]any{"Usage": "png <file>"})
		return nil
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	opts := render.Options{
		Flip:      s.human == board.Black,
		LastMove:  s.lastMove,
		MarkCheck: true,
	}
	if err := s.opts.Renderer.WritePNG(ctx, f, s.game.Board(), opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.say("game.saved_png", map[string]any{"Path": args[0]})
	return nil
}

func (s *Session) showStats() error {
	if s.opts.Store == nil {
		return errors.New("statistics are not available")
	}
	stats, err := s.opts.Store.LoadStats()
	if err != nil {
		return err
	}
	s.say("game.stats", map[string]any{
		"Played":  stats.GamesPlayed,
		"Wins":    stats.Wins,
		"Losses":  stats.Losses,
		"Draws":   stats.Draws,
		"WinRate": stats.GetWinRate(),
	})
	return nil
}

// finishIfOver records the result once when the game has ended.
func (s *Session) finishIfOver() error {
	if !s.game.Phase().Over() || s.recorded {
		return nil
	}
	s.recorded = true
	s.syncClock()

	status := s.game.Status()
	result := storage.GameResult{
		GameID:      s.game.ID(),
		Difficulty:  s.game.Difficulty(),
		PlayerColor: s.human,
		Moves:       len(s.game.History()),
		Duration:    s.opts.Now().Sub(s.started),
		FinishedAt:  s.opts.Now(),
	}
	switch status.Kind {
	case game.Mate:
		result.Reason = storage.ReasonCheckmate
		result.Won = status.Color == s.human
	case game.Resignation:
		result.Reason = storage.ReasonResigned
		result.Won = status.Color == s.human
	case game.Stale:
		result.Reason = storage.ReasonStalemate
		result.Draw = true
	default:
		result.Reason = storage.ReasonDraw
		result.Draw = true
	}

	s.logger.Info("game over",
		zap.Stringer("game", result.GameID),
		zap.String("reason", result.Reason),
		zap.Bool("won", result.Won))

	if s.opts.Store == nil {
		return nil
	}
	return s.opts.Store.RecordGame(result)
}

func (s *Session) reportStatus(status game.Status) {
	s.say("status."+status.Kind.String(), map[string]any{
		"Color":  status.Color,
		"Winner": status.Color,
		"Loser":  status.Color.Other(),
	})
}

func (s *Session) showBoard() {
	s.syncClock()
	b := s.game.Board()
	s.println(b.String())
	for _, c := range []board.Color{board.White, board.Black} {
		captured := s.game.Captured(c)
		if len(captured) == 0 {
			continue
		}
		names := make([]string, len(captured))
		for i, p := range captured {
			names[i] = p.String()
		}
		s.say("game.captured", map[string]any{"Color": c, "Pieces": strings.Join(names, " ")})
	}
	s.say("game.clocks", map[string]any{
		"White": formatClock(s.clocks[board.White]),
		"Black": formatClock(s.clocks[board.Black]),
	})
}

// showHistory prints the moves played so far as numbered pairs.
func (s *Session) showHistory() {
	history := s.game.History()
	if len(history) == 0 {
		s.say("game.no_history", nil)
		return
	}
	first := s.game.Turn()
	if len(history)%2 == 1 {
		first = first.Other()
	}
	s.say("game.history", map[string]any{"Moves": numberedMoves(history, first)})
}

// numberedMoves formats a move list as "1. e4 e5 2. Nf3". A list opened by
// black starts with "1... ".
func numberedMoves(history []board.Move, first board.Color) string {
	var sb strings.Builder
	offset := 0
	if first == board.Black {
		offset = 1
		sb.WriteString("1...")
	}
	for i, m := range history {
		ply := i + offset
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		if ply%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", ply/2+1)
		}
		sb.WriteString(m.Notation)
	}
	return sb.String()
}

// syncClock charges the time since the last sync to the side whose clock was
// running, then starts the clock of the side to move if the game is in play.
func (s *Session) syncClock() {
	now := s.opts.Now()
	if s.clockSide != board.NoColor {
		s.clocks[s.clockSide] += now.Sub(s.clockStart)
	}
	s.clockSide = board.NoColor
	if s.game.Phase() == game.Playing {
		s.clockSide = s.game.Turn()
		s.clockStart = now
	}
}

// formatClock renders d as mm:ss.
func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (s *Session) say(key string, data any) {
	s.println(s.opts.Catalog.Text(key, data))
}

func (s *Session) println(text string) {
	fmt.Fprintln(s.opts.Out, text)
}
