package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/testutil"
)

var allDifficulties = []Difficulty{Beginner, Normal, Professional}

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func mustFEN(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return b
}

func TestEvaluateInitialIsZero(t *testing.T) {
	for _, d := range allDifficulties {
		testutil.AssertEqual(t, Evaluate(board.NewBoard(), d), 0, d.String())
	}
}

func TestEvaluateMaterial(t *testing.T) {
	b := board.NewBoard()
	b.Set(board.NewSquare(0, 3), board.NoPiece) // black queen
	testutil.AssertEqual(t, Evaluate(b, Beginner), 900, "missing black queen")

	b = board.NewBoard()
	b.Set(board.NewSquare(7, 1), board.NoPiece) // white knight
	testutil.AssertEqual(t, Evaluate(b, Beginner), -320, "missing white knight")
}

func TestEvaluateTiersDiffer(t *testing.T) {
	// After 1.e4 white occupies the centre and gains mobility.
	b := board.NewBoard()
	m, err := board.ParseMove("e2e4", b)
	testutil.AssertNoError(t, err, "parse e2e4")
	b.MakeMove(m)

	testutil.AssertEqual(t, Evaluate(b, Beginner), 0, "material only")
	testutil.AssertTrue(t, Evaluate(b, Normal) > 0, "positional terms favor white")
}

func TestEvaluatePawnTerms(t *testing.T) {
	// A black pawn advanced from d7 to d5: development +8, advancement -10.
	b := mustFEN(t, "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1")
	testutil.AssertEqual(t, evaluatePawns(b), -2, "black pawn on d5")

	// A white pawn on e4 has advanced two ranks.
	b = mustFEN(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	testutil.AssertEqual(t, evaluatePawns(b), 10, "white pawn on e4")
}

func TestEvaluateOpenFiles(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/8/8/P7/4K3 w - - 0 1")
	testutil.AssertEqual(t, evaluateOpenFiles(b), -5, "only white pawns on a-file")

	b = mustFEN(t, "4k3/p7/8/8/8/8/P7/4K3 w - - 0 1")
	testutil.AssertEqual(t, evaluateOpenFiles(b), 0, "pawns of both colors")
}

func TestEvaluateKingSafety(t *testing.T) {
	// White king walked to e3 (distance 2), black king at home.
	b := mustFEN(t, "4k3/8/8/8/8/4K3/8/8 w - - 0 1")
	testutil.AssertEqual(t, evaluateKingSafety(b), -10, "displaced white king")

	// Black rook attacks the white king on its home square.
	b = mustFEN(t, "4k3/8/8/8/8/8/8/r3K3 w - - 0 1")
	testutil.AssertEqual(t, evaluateKingSafety(b), 10, "white king attacked once")
}

func TestOrderingPutsCapturesFirst(t *testing.T) {
	b := mustFEN(t, "r1bqkbnr/pppp1ppp/2n5/4p3/3PP3/5N2/PPP2PPP/RNBQKB1R w - - 1 3")
	moves := OrderMoves(b.AllLegalMoves(board.White), b.Ply)

	seenQuiet := false
	for i, m := range moves {
		if m.IsCapture() && seenQuiet {
			t.Errorf("capture %s ordered after a quiet move", m)
		}
		if !m.IsCapture() {
			seenQuiet = true
		}
		if i > 0 && ScoreMove(moves[i-1], b.Ply) < ScoreMove(m, b.Ply) {
			t.Errorf("moves not in descending score order at %d", i)
		}
	}
}

func TestScoreMoveOpeningBonus(t *testing.T) {
	b := board.NewBoard()
	e4, err := board.ParseMove("e2e4", b)
	testutil.AssertNoError(t, err, "parse e2e4")
	nf3, err := board.ParseMove("g1f3", b)
	testutil.AssertNoError(t, err, "parse g1f3")

	// e4 is one and a half squares from the centre: (7-1)*2 + 5.
	testutil.AssertEqual(t, ScoreMove(e4, 0), 17, "e4 in the opening")
	testutil.AssertEqual(t, ScoreMove(e4, 10), 12, "e4 after the opening")
	// f3 is three squares from the centre: (7-3)*2 + 3.
	testutil.AssertEqual(t, ScoreMove(nf3, 0), 11, "Nf3 in the opening")
}

// TestDepthOneIsGreedy checks that a one-ply search picks a move with the best
// immediate evaluation for the side to move.
func TestDepthOneIsGreedy(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/3PP3/5N2/PPP2PPP/RNBQKB1R b - - 1 3",
		"4k3/8/8/3q4/8/2N5/8/3RK3 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
	}

	for _, fen := range fens {
		b := mustFEN(t, fen)
		color := b.SideToMove

		best := 0
		for i, m := range b.AllLegalMoves(color) {
			score := Evaluate(b.WithMoveApplied(m), Normal)
			if i == 0 || (color == board.Black && score > best) || (color == board.White && score < best) {
				best = score
			}
		}

		for seed := int64(0); seed < 5; seed++ {
			eng := NewEngine(testutil.Rand(seed), nil)
			m, ok := eng.SearchWithLimits(b, color, SearchLimits{Depth: 1, Difficulty: Normal})
			testutil.AssertTrue(t, ok, fen)
			testutil.AssertEqual(t, Evaluate(b.WithMoveApplied(m), Normal), best, fen)
		}
	}
}

// bruteForce is minimax without pruning or ordering.
func bruteForce(b *board.Board, depth int, d Difficulty) int {
	if depth == 0 {
		return Evaluate(b, d)
	}
	moves := b.AllLegalMoves(b.SideToMove)
	if len(moves) == 0 {
		return Evaluate(b, d)
	}
	best := Infinity
	if b.SideToMove == board.Black {
		best = -Infinity
	}
	for _, m := range moves {
		score := bruteForce(b.WithMoveApplied(withSearchPromotion(m)), depth-1, d)
		if b.SideToMove == board.Black {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
		d     Difficulty
	}{
		{"4k3/8/8/3q4/8/2N5/8/3RK3 w - - 0 1", 3, Beginner},
		{"4k3/8/8/3q4/8/2N5/8/3RK3 b - - 0 1", 2, Normal},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, Professional},
	}

	for _, tc := range tests {
		b := mustFEN(t, tc.fen)

		var want []string
		wantScore := 0
		for i, m := range b.AllLegalMoves(b.SideToMove) {
			score := bruteForce(b.WithMoveApplied(m), tc.depth-1, tc.d)
			better := score > wantScore
			if b.SideToMove == board.White {
				better = score < wantScore
			}
			switch {
			case i == 0 || better:
				wantScore = score
				want = []string{m.String()}
			case score == wantScore:
				want = append(want, m.String())
			}
		}

		moves, score := NewSearcher(b, tc.d).SearchRoot(b.SideToMove, tc.depth)
		var got []string
		for _, m := range moves {
			got = append(got, m.String())
		}

		testutil.AssertEqual(t, score, wantScore, tc.fen)
		testutil.AssertEqual(t, got, want, tc.fen, sortStrings)
	}
}

func TestSearchDoesNotModifyBoard(t *testing.T) {
	b := board.NewBoard()
	before := *b
	eng := NewEngine(testutil.Rand(3), nil)
	eng.ChooseMove(b, board.White, Beginner)
	testutil.AssertEqual(t, *b, before, "board after search")
}

func TestChooseMoveWithoutLegalMoves(t *testing.T) {
	b := mustFEN(t, "k7/8/8/8/8/7p/6q1/7K w - - 0 1")
	eng := NewEngine(testutil.Rand(1), nil)
	for _, d := range allDifficulties {
		_, ok := eng.ChooseMove(b, board.White, d)
		testutil.AssertFalse(t, ok, d.String())
	}
}

func TestRandomMovesAreLegalAndVaried(t *testing.T) {
	b := board.NewBoard()
	legal := make(map[string]bool)
	for _, m := range b.AllLegalMoves(board.White) {
		legal[m.String()] = true
	}

	eng := NewEngine(testutil.Rand(99), nil)
	seen := make(map[string]bool)
	for i := 0; i < 40; i++ {
		m, ok := eng.SearchWithLimits(b, board.White, SearchLimits{Depth: 1, Difficulty: Beginner, RandomMoveChance: 1})
		testutil.AssertTrue(t, ok, "random move")
		testutil.AssertTrue(t, legal[m.String()], "random move is legal")
		seen[m.String()] = true
	}
	testutil.AssertTrue(t, len(seen) > 1, "random moves vary")
}

func TestSeededSearchIsReproducible(t *testing.T) {
	b := board.NewBoard()
	a, _ := NewEngine(testutil.Rand(5), nil).ChooseMove(b, board.White, Beginner)
	c, _ := NewEngine(testutil.Rand(5), nil).ChooseMove(b, board.White, Beginner)
	testutil.AssertEqual(t, a, c, "same seed, same move")
}

func TestThink(t *testing.T) {
	b := board.NewBoard()
	eng := NewEngine(testutil.Rand(11), nil)

	select {
	case res := <-eng.Think(b, board.White, Beginner):
		testutil.AssertTrue(t, res.OK, "think result")
		testutil.AssertTrue(t, b.IsLegal(res.Move), "think move is legal")
	case <-time.After(30 * time.Second):
		t.Fatal("Think did not deliver a move")
	}
}

func TestOnInfo(t *testing.T) {
	var got SearchInfo
	eng := NewEngine(testutil.Rand(2), nil)
	eng.OnInfo = func(info SearchInfo) { got = info }

	m, ok := eng.SearchWithLimits(board.NewBoard(), board.White, SearchLimits{Depth: 2, Difficulty: Beginner})
	testutil.AssertTrue(t, ok, "search")
	testutil.AssertEqual(t, got.Depth, 2, "info depth")
	testutil.AssertEqual(t, got.Move, m, "info move")
	testutil.AssertTrue(t, got.Nodes > 0, "info nodes")
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range allDifficulties {
		parsed, err := ParseDifficulty(d.String())
		testutil.AssertNoError(t, err, d.String())
		testutil.AssertEqual(t, parsed, d, d.String())
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("expected error for unknown difficulty")
	}

	var d Difficulty
	testutil.AssertNoError(t, d.UnmarshalText([]byte("Professional")), "unmarshal")
	testutil.AssertEqual(t, d, Professional, "unmarshal")
	testutil.AssertEqual(t, []int{Beginner.Depth(), Normal.Depth(), Professional.Depth()}, []int{2, 4, 6}, "depths")
}

func TestScoreToString(t *testing.T) {
	testutil.AssertEqual(t, ScoreToString(150), "1.50", "positive")
	testutil.AssertEqual(t, ScoreToString(-205), "-2.05", "negative")
	testutil.AssertEqual(t, ScoreToString(0), "0.00", "zero")
}
