package engine

import "testing"

func testFENHelper(t *testing.T, expected *Position, fen string) {
	epd, err := ParseFEN(fen)
	if err != nil {
		t.Error(err)
		return
	}

	actual := epd.Position
	for sq := SquareA1; sq <= SquareH8; sq++ {
		epi := expected.Get(sq)
		api := actual.Get(sq)
		if epi != api {
			t.Errorf("expected %v at %v, got %v", epi, sq, api)
		}
	}
	if expected.SideToMove != actual.SideToMove {
		t.Errorf("expected to move %v, got %v", expected.SideToMove, actual.SideToMove)
	}
	if expected.CastlingAbility != actual.CastlingAbility {
		t.Errorf("expected castling rights %v, got %v", expected.CastlingAbility, actual.CastlingAbility)
	}
	if expected.EnpassantSquare != actual.EnpassantSquare {
		t.Errorf("expected enpassant square %v, got %v", expected.EnpassantSquare, actual.EnpassantSquare)
	}
}

// newEmptyPosition returns a position with no pieces on it, every mailbox
// slot holding NoPiece the way PositionFromFEN leaves empty squares.
func newEmptyPosition() *Position {
	pos := &Position{EnpassantSquare: SquareA1}
	for sq := range pos.Mailbox {
		pos.Mailbox[sq] = NoPiece
	}
	return pos
}

func TestFENStartPosition(t *testing.T) {
	expected := newEmptyPosition()
	expected.place(SquareA1, WhiteRook)
	expected.place(SquareB1, WhiteKnight)
	expected.place(SquareC1, WhiteBishop)
	expected.place(SquareD1, WhiteQueen)
	expected.place(SquareE1, WhiteKing)
	expected.place(SquareF1, WhiteBishop)
	expected.place(SquareG1, WhiteKnight)
	expected.place(SquareH1, WhiteRook)

	expected.place(SquareA8, BlackRook)
	expected.place(SquareB8, BlackKnight)
	expected.place(SquareC8, BlackBishop)
	expected.place(SquareD8, BlackQueen)
	expected.place(SquareE8, BlackKing)
	expected.place(SquareF8, BlackBishop)
	expected.place(SquareG8, BlackKnight)
	expected.place(SquareH8, BlackRook)

	for f := 0; f < 8; f++ {
		expected.place(RankFile(1, f), WhitePawn)
		expected.place(RankFile(6, f), BlackPawn)
	}

	expected.SideToMove = White
	expected.CastlingAbility = AnyCastle
	testFENHelper(t, expected, FENStartPos)
}

func TestFENKiwipete(t *testing.T) {
	expected := newEmptyPosition()
	expected.place(SquareA1, WhiteRook)
	expected.place(SquareC3, WhiteKnight)
	expected.place(SquareD2, WhiteBishop)
	expected.place(SquareF3, WhiteQueen)
	expected.place(SquareE1, WhiteKing)
	expected.place(SquareE2, WhiteBishop)
	expected.place(SquareE5, WhiteKnight)
	expected.place(SquareH1, WhiteRook)

	expected.place(SquareA8, BlackRook)
	expected.place(SquareB6, BlackKnight)
	expected.place(SquareA6, BlackBishop)
	expected.place(SquareE7, BlackQueen)
	expected.place(SquareE8, BlackKing)
	expected.place(SquareG7, BlackBishop)
	expected.place(SquareF6, BlackKnight)
	expected.place(SquareH8, BlackRook)

	expected.place(SquareA2, WhitePawn)
	expected.place(SquareB2, WhitePawn)
	expected.place(SquareC2, WhitePawn)
	expected.place(SquareD5, WhitePawn)
	expected.place(SquareE4, WhitePawn)
	expected.place(SquareF2, WhitePawn)
	expected.place(SquareG2, WhitePawn)
	expected.place(SquareH2, WhitePawn)

	expected.place(SquareA7, BlackPawn)
	expected.place(SquareB4, BlackPawn)
	expected.place(SquareC7, BlackPawn)
	expected.place(SquareD7, BlackPawn)
	expected.place(SquareE6, BlackPawn)
	expected.place(SquareF7, BlackPawn)
	expected.place(SquareG6, BlackPawn)
	expected.place(SquareH3, BlackPawn)

	expected.SideToMove = White
	expected.CastlingAbility = AnyCastle
	testFENHelper(t, expected, fenKiwipete)
}

func TestEPDParser(t *testing.T) {
	// An EPD taken from http://www.stmintz.com/ccc/index.php?id=20631
	line := `rnb2r1k/pp2p2p/2pp2p1/q2P1p2/8/1Pb2NP1/PB2PPBP/R2Q1RK1 w - - bm Qd2 Qe1; id "BK.14";`
	epd, err := ParseEPD(line)
	if err != nil {
		t.Fatal(err)
	}

	expectedId := `BK.14`
	if expectedId != epd.Id {
		t.Fatalf("expected id %s, got %s", expectedId, epd.Id)
	}

	if len(epd.BestMove) != 2 {
		t.Fatalf("expected 2 best moves, got %d", len(epd.BestMove))
	}
	for _, bm := range epd.BestMove {
		if bm.From != SquareD1 || bm.Piece.Figure() != Queen {
			t.Errorf("expected a queen move from d1, got %v", bm)
		}
	}
	if epd.BestMove[0].To != SquareD2 || epd.BestMove[1].To != SquareE1 {
		t.Errorf("expected best moves to d2 and e1, got %v and %v", epd.BestMove[0], epd.BestMove[1])
	}
}
