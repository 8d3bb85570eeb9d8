package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/testutil"
)

// run feeds script to a fresh handler and returns everything it printed.
func run(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	u := New(engine.NewEngine(testutil.Rand(1), nil), &out, nil)
	testutil.AssertNoError(t, u.Run(strings.NewReader(script)), "Run")
	return out.String()
}

func bestMove(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
			return rest
		}
	}
	t.Fatalf("no bestmove in output:\n%s", output)
	return ""
}

func TestHandshake(t *testing.T) {
	out := run(t, "uci\nisready\nquit\n")
	for _, want := range []string{"id name ChessPlay", "option name Difficulty", "uciok", "readyok"} {
		testutil.AssertTrue(t, strings.Contains(out, want), want)
	}
}

func TestPositionMoves(t *testing.T) {
	out := run(t, "position startpos moves e2e4 e7e5\nd\n")
	want := "Fen: rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - e6 0 2"
	testutil.AssertTrue(t, strings.Contains(out, want), "board after e2e4 e7e5")
}

func TestPositionErrors(t *testing.T) {
	out := run(t, "position startpos moves e2e5\n")
	testutil.AssertTrue(t, strings.Contains(out, "info string Invalid move: e2e5"), "illegal move reported")

	out = run(t, "position fen not-a-fen\n")
	testutil.AssertTrue(t, strings.Contains(out, "info string Invalid FEN"), "bad FEN reported")
}

func TestGo(t *testing.T) {
	out := run(t, "position startpos\ngo depth 2\nquit\n")
	move := bestMove(t, out)
	_, err := board.ParseMove(move, board.NewBoard())
	testutil.AssertNoError(t, err, "bestmove is legal: "+move)
	testutil.AssertTrue(t, strings.Contains(out, "info depth 2 score cp"), "search info printed")
}

func TestGoWithoutMoves(t *testing.T) {
	out := run(t, "position fen k7/8/8/8/8/7p/6q1/7K w - - 0 1\ngo depth 1\n")
	testutil.AssertEqual(t, bestMove(t, out), "0000", "mated side has no move")
}

func TestSetOption(t *testing.T) {
	var out bytes.Buffer
	eng := engine.NewEngine(testutil.Rand(1), nil)
	u := New(eng, &out, nil)

	testutil.AssertNoError(t, u.Run(strings.NewReader("setoption name Difficulty value professional\n")), "Run")
	testutil.AssertEqual(t, eng.Difficulty(), engine.Professional, "difficulty")

	testutil.AssertNoError(t, u.Run(strings.NewReader("setoption name Difficulty value silly\nsetoption name Hash value 16\n")), "Run")
	testutil.AssertEqual(t, eng.Difficulty(), engine.Professional, "unchanged by bad value")
	testutil.AssertTrue(t, strings.Contains(out.String(), "info string Unknown option: Hash"), "unknown option reported")
}

func TestPerft(t *testing.T) {
	out := run(t, "position startpos\nperft 2\n")
	testutil.AssertTrue(t, strings.Contains(out, "Nodes: 400"), "perft 2 from start")
}

func TestParseGoOptions(t *testing.T) {
	testutil.AssertEqual(t, parseGoOptions([]string{"wtime", "1000", "depth", "3"}), GoOptions{Depth: 3}, "depth after time control")
	testutil.AssertEqual(t, parseGoOptions(nil), GoOptions{}, "empty")
}
