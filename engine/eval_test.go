package engine

import "testing"

// Ported from original_source/engine/src/evaluation_test.cpp's
// EvaluationTestSuite: ScoreStartingPosition, RandomPositionOne and
// RandomPositionTwo pin down Evaluate's mandatory output on fixed
// positions, and EvalBackwardPawns pins down the backward-pawn detector
// evalPawns relies on.
var evaluateTests = []struct {
	name string
	fen  string
	want int32
}{
	{
		name: "ScoreStartingPosition",
		fen:  FENStartPos,
		want: 20,
	},
	{
		name: "RandomPositionOne",
		fen:  "1r3rk1/3bb1pp/2p1p3/1p2Pp1Q/2pP4/1P4P1/q3NPBP/2RR2K1 w - - 0 1",
		want: -242,
	},
	{
		name: "RandomPositionTwo",
		fen:  "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		want: 224,
	},
}

func TestEvaluate(t *testing.T) {
	for _, tc := range evaluateTests {
		pos, err := PositionFromFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := Evaluate(pos); got != tc.want {
			t.Errorf("%s: Evaluate(%q) = %d, want %d", tc.name, tc.fen, got, tc.want)
		}
	}
}

// countBackwardPawns mirrors evalPawns' own backward-pawn detection so it
// can be exercised independently of the rest of the pawn-structure score.
func countBackwardPawns(us Color, pawns Bitboard) int {
	count := 0
	for bb := pawns; bb != 0; {
		sq := bb.Pop()
		f := sq.File()

		var neighborFiles Bitboard
		if f > 0 {
			neighborFiles |= FileBb(f - 1)
		}
		if f < 7 {
			neighborFiles |= FileBb(f + 1)
		}
		adjacentPawns := pawns & neighborFiles
		if adjacentPawns == 0 {
			continue
		}
		if isBackwardPawn(us, sq, adjacentPawns) {
			count++
		}
	}
	return count
}

func TestEvalBackwardPawns(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		{"8/8/P1P5/8/1P6/8/8/8 w - - 0 1", 1},
		{"8/8/2P5/P7/1P6/8/8/8 w - - 0 1", 0},
		{"8/8/2P5/Pp6/1P6/8/8/8 w - - 0 1", 1},
		{"8/8/8/P1p5/1P6/8/8/8 w - - 0 1", 1},
		{"8/8/2p5/P7/1P6/8/8/8 w - - 0 1", 1},
		{"8/8/2p5/PP6/8/8/8/8 w - - 0 1", 0},
		{"8/8/8/8/P7/8/1P6/8 w - - 0 1", 0},
		{"8/8/8/8/PP6/8/1P6/8 w - - 0 1", 1},
		{"8/8/8/2p5/P7/8/1P6/8 w - - 0 1", 1},
	}
	for _, tc := range tests {
		pos, err := PositionFromFEN(tc.fen)
		if err != nil {
			t.Fatalf("%q: %v", tc.fen, err)
		}
		if got := countBackwardPawns(White, pos.ByPiece(White, Pawn)); got != tc.want {
			t.Errorf("countBackwardPawns(%q) = %d, want %d", tc.fen, got, tc.want)
		}
	}
}
