package engine

import "testing"

func TestSANToMovePlay(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	sanMoves := []string{"e4", "e5", "Nf3", "Nc6"}
	for i, san := range sanMoves {
		m, err := pos.SANToMove(san)
		if err != nil {
			t.Fatalf("#%d %s parse error: %v", i, san, err)
		}
		pos.Make(m)
	}
}

func TestSANToMoveFixed(t *testing.T) {
	pos, _ := PositionFromFEN("2r3k1/6pp/4pp2/3bp3/1Pq5/3R1P2/r1PQ2PP/1K1RN3 b - - 0 1")
	actual, err := pos.SANToMove("Ra1+")
	if err != nil {
		t.Fatal("could not parse move:", err)
	}
	if actual.To != SquareA1 || actual.Piece.Figure() != Rook {
		t.Errorf("expected a rook move to a1, got %v", actual)
	}
}

func TestUCIToMove(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	m, err := pos.UCIToMove("e2e4")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if m.From != SquareE2 || m.To != SquareE4 {
		t.Errorf("expected e2e4, got %v", m)
	}
}
