package engine

import "testing"

var (
	testBoard1 = "r3k2r/3ppp2/1BB3B1/pp2P1pp/PP4PP/5b2/3PPP2/R3K2R w KQkq - 0 1"
	testBoard2 = "3k4/8/8/p1P2p2/PpP1pP2/pPPpP3/2P2pp1/3K3R w - - 0 1"
)

// perftCount walks the game tree rooted at pos to depth plies and returns
// the number of leaf positions, the same count the Perft tool reports.
func perftCount(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range GenerateMoves(pos) {
		pos.Make(m)
		nodes += perftCount(pos, depth-1)
		pos.Undo(m)
	}
	return nodes
}

func TestPerftStartPos(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	want := []uint64{1, 20, 400, 8902, 197281}
	for depth, w := range want {
		if got := perftCount(pos, depth); got != w {
			t.Errorf("perft(startpos, %d) = %d, want %d", depth, got, w)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, _ := PositionFromFEN(fenKiwipete)
	want := []uint64{1, 48, 2039, 97862}
	for depth, w := range want {
		if got := perftCount(pos, depth); got != w {
			t.Errorf("perft(kiwipete, %d) = %d, want %d", depth, got, w)
		}
	}
}

func TestPerftDuplain(t *testing.T) {
	pos, _ := PositionFromFEN(fenDuplain)
	want := []uint64{1, 14, 191, 2812, 43238}
	for depth, w := range want {
		if got := perftCount(pos, depth); got != w {
			t.Errorf("perft(duplain, %d) = %d, want %d", depth, got, w)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range append([]string{FENStartPos, fenKiwipete, fenDuplain}, testFENs...) {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Errorf("%s: %v", fen, err)
			continue
		}
		if got := pos.String(); got != fen {
			t.Errorf("round-trip mismatch:\n got  %s\n want %s", got, fen)
		}
	}
}

func findMove(moves []Move, uci string) (Move, bool) {
	for _, m := range moves {
		if m.UCI() == uci {
			return m, true
		}
	}
	return Move{}, false
}

func TestCastlingRightsPreservedOnUndo(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard1)
	before := pos.CastlingAbility

	moves := GenerateMoves(pos)
	m, ok := findMove(moves, "e1g1")
	if !ok {
		t.Fatal("expected e1g1 (white O-O) to be legal")
	}

	pos.Make(m)
	if pos.CastlingAbility&(WhiteOO|WhiteOOO) != 0 {
		t.Errorf("expected white to lose all castling rights after castling, got %v", pos.CastlingAbility)
	}
	if pos.CastlingAbility&(BlackOO|BlackOOO) == 0 {
		t.Errorf("expected black castling rights untouched, got %v", pos.CastlingAbility)
	}
	pos.Undo(m)

	if pos.CastlingAbility != before {
		t.Errorf("expected castling rights %v restored on undo, got %v", before, pos.CastlingAbility)
	}
	if pos.String() != testBoard1 {
		t.Errorf("expected position %s restored on undo, got %s", testBoard1, pos.String())
	}
}

func TestCastlingRightsLostOnRookMove(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard1)

	m, ok := findMove(GenerateMoves(pos), "a1b1")
	if !ok {
		t.Fatal("expected a1b1 to be legal")
	}
	pos.Make(m)
	if pos.CastlingAbility&WhiteOOO != 0 {
		t.Errorf("expected white queenside rights lost after moving the rook, got %v", pos.CastlingAbility)
	}
	if pos.CastlingAbility&WhiteOO == 0 {
		t.Errorf("expected white kingside rights untouched, got %v", pos.CastlingAbility)
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	play := func(uci string) {
		m, ok := findMove(GenerateMoves(pos), uci)
		if !ok {
			t.Fatalf("%s not found among legal moves", uci)
		}
		pos.Make(m)
	}
	play("e2e4")
	play("a7a6")
	play("e4e5")
	play("d7d5")

	m, ok := findMove(GenerateMoves(pos), "e5d6")
	if !ok {
		t.Fatal("expected e5d6 en passant capture to be legal")
	}
	if !m.Flags.Is(FlagEnPassant) {
		t.Errorf("expected e5d6 to be flagged as en passant, got flags %v", m.Flags)
	}
	if m.CaptureSquare() != SquareD5 {
		t.Errorf("expected capture square d5, got %v", m.CaptureSquare())
	}

	pos.Make(m)
	if pos.Get(SquareD5) != NoPiece {
		t.Errorf("expected the captured pawn removed from d5")
	}
	if pos.Get(SquareD6) != WhitePawn {
		t.Errorf("expected a white pawn on d6")
	}
}

func TestIsThreeFoldRepetition(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard1)
	var played []Move

	play := func(uci string) {
		m, ok := findMove(GenerateMoves(pos), uci)
		if !ok {
			t.Fatalf("%s not found among legal moves", uci)
		}
		pos.Make(m)
		played = append(played, m)
	}
	undo := func() {
		l := len(played) - 1
		pos.Undo(played[l])
		played = played[:l]
	}

	repeat := func() {
		play("e1f1")
		play("e8f8")
		play("f1e1")
		play("f8e8")
	}

	// The first king moves give up all castling rights, so the start
	// position never recurs: the position reached after each cycle is the
	// one that repeats.
	repeat()
	repeat()
	if pos.IsThreeFoldRepetition() {
		t.Errorf("did not expect a repetition after only two occurrences")
	}
	repeat()
	if !pos.IsThreeFoldRepetition() {
		t.Errorf("expected a repetition after three occurrences")
	}

	for range played {
		undo()
	}
	if pos.IsThreeFoldRepetition() {
		t.Errorf("did not expect a repetition once back at the start")
	}
}

func TestIsChecked(t *testing.T) {
	pos, _ := PositionFromFEN(fenKiwipete)
	if pos.IsChecked() {
		t.Errorf("kiwipete's side to move should not be in check")
	}

	pos, _ = PositionFromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !pos.IsChecked() {
		t.Errorf("expected white to be in check (fool's mate setup)")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	data := []struct {
		fen  string
		want bool
	}{
		{FENStartPos, false},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/2b5/4KB2 w - - 0 1", true},
		{testBoard2, false},
	}
	for _, d := range data {
		pos, err := PositionFromFEN(d.fen)
		if err != nil {
			t.Fatalf("%s: %v", d.fen, err)
		}
		if got := pos.InsufficientMaterial(); got != d.want {
			t.Errorf("%s: InsufficientMaterial() = %v, want %v", d.fen, got, d.want)
		}
	}
}
