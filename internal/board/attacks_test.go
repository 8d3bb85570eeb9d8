package board

import (
	"testing"

	"github.com/hailam/chesscore/internal/testutil"
)

func TestIsSquareAttacked(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		sq   string
		by   Color
		want bool
	}{
		{"rook on file", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a8", White, true},
		{"rook blocked", "4k3/8/8/8/P7/8/8/R3K3 w - - 0 1", "a8", White, false},
		{"bishop diagonal", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", "h6", White, true},
		{"knight jump", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", "c3", White, true},
		{"king adjacent", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d2", White, true},
		{"king not two away", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e3", White, false},
		{"pawn capture onto enemy", "4k3/8/8/8/8/3n4/4P3/4K3 w - - 0 1", "d3", White, true},
		{"pawn does not capture empty", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "d3", White, false},
		{"pawn push onto empty", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e4", White, true},
		{"pawn push blocked", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e4", White, false},
		{"black pawn captures downward", "4k3/8/8/3p4/4N3/8/8/4K3 b - - 0 1", "e4", Black, true},
		{"own piece never attacked", "4k3/8/8/8/8/8/8/R2NK3 w - - 0 1", "d1", White, false},
		{"pinned piece still attacks", "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1", "d4", White, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			testutil.AssertNoError(t, err, "parse fen")
			got := b.IsSquareAttacked(mustSquare(t, tc.sq), tc.by)
			testutil.AssertEqual(t, got, tc.want, tc.name)
		})
	}
}

// TestAttackOracleMatchesPseudoMoves cross-checks the reverse scan against the
// forward generator on every square of a few busy positions.
func TestAttackOracleMatchesPseudoMoves(t *testing.T) {
	fens := []string{
		StartFEN,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b - - 3 3",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
	}

	for _, fen := range fens {
		b, err := ParseFEN(fen)
		testutil.AssertNoError(t, err, fen)

		for _, by := range []Color{White, Black} {
			var reach [8][8]int
			b.eachPiece(by, func(sq Square) bool {
				for _, m := range b.PseudoMoves(sq) {
					reach[m.To.Row][m.To.Col]++
				}
				return true
			})

			for row := 0; row < 8; row++ {
				for col := 0; col < 8; col++ {
					sq := NewSquare(row, col)
					if got, want := b.CountAttackers(sq, by), reach[row][col]; got != want {
						t.Errorf("%s: CountAttackers(%s, %s) = %d, want %d", fen, sq, by, got, want)
					}
					if got, want := b.IsSquareAttacked(sq, by), reach[row][col] > 0; got != want {
						t.Errorf("%s: IsSquareAttacked(%s, %s) = %v, want %v", fen, sq, by, got, want)
					}
				}
			}
		}
	}
}
