// convert.go holds the FEN symbol tables shared by Position's parser and
// formatter. Grounded on the teacher's convert.go, rebuilt against the
// Figure/Color ordering in basic.go (the teacher's positional
// pieceToSymbol/symbolToPiece arrays assumed its own enum layout, which
// this engine's reordered Figure constants no longer match).
package engine

import "fmt"

// castleInfo records, for one FEN castling-rights letter, the right it
// grants and the king/rook placement required for that right to hold.
type castleInfo struct {
	Castle Castle
	Piece  [2]Piece
	Square [2]Square
}

var (
	// itoa is a shortcut for strconv.Itoa over the small range FEN
	// empty-square counts need (0-8).
	itoa = [9]string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}

	colorToSymbol = [ColorArraySize]string{White: "w", Black: "b"}

	pieceToSymbol = map[Piece]string{
		WhitePawn: "P", WhiteKnight: "N", WhiteBishop: "B",
		WhiteRook: "R", WhiteQueen: "Q", WhiteKing: "K",
		BlackPawn: "p", BlackKnight: "n", BlackBishop: "b",
		BlackRook: "r", BlackQueen: "q", BlackKing: "k",
	}

	symbolToPiece = map[rune]Piece{
		'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
		'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
		'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
		'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
	}

	symbolToColor = map[string]Color{"w": White, "b": Black}

	symbolToCastleInfo = map[rune]castleInfo{
		'K': {Castle: WhiteOO, Piece: [2]Piece{WhiteKing, WhiteRook}, Square: [2]Square{SquareE1, SquareH1}},
		'Q': {Castle: WhiteOOO, Piece: [2]Piece{WhiteKing, WhiteRook}, Square: [2]Square{SquareE1, SquareA1}},
		'k': {Castle: BlackOO, Piece: [2]Piece{BlackKing, BlackRook}, Square: [2]Square{SquareE8, SquareH8}},
		'q': {Castle: BlackOOO, Piece: [2]Piece{BlackKing, BlackRook}, Square: [2]Square{SquareE8, SquareA8}},
	}
)

// ParseSideToMove parses the FEN side-to-move field.
func ParseSideToMove(str string) (Color, error) {
	if col, ok := symbolToColor[str]; ok {
		return col, nil
	}
	return White, fmt.Errorf("invalid side to move %q", str)
}
