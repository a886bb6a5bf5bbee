package engine

import "fmt"

var figureNames = [FigureArraySize]string{
	Rook: "Rook", Bishop: "Bishop", Knight: "Knight",
	King: "King", Queen: "Queen", Pawn: "Pawn", NoFigure: "NoFigure",
}

func (f Figure) String() string {
	if int(f) < len(figureNames) {
		return figureNames[f]
	}
	return fmt.Sprintf("Figure(%d)", f)
}

var pieceNames = [PieceArraySize]string{
	WhiteRook: "WhiteRook", BlackRook: "BlackRook",
	WhiteBishop: "WhiteBishop", BlackBishop: "BlackBishop",
	WhiteKnight: "WhiteKnight", BlackKnight: "BlackKnight",
	WhiteKing: "WhiteKing", BlackKing: "BlackKing",
	WhiteQueen: "WhiteQueen", BlackQueen: "BlackQueen",
	WhitePawn: "WhitePawn", BlackPawn: "BlackPawn",
}

func (pi Piece) String() string {
	if pi == NoPiece {
		return "NoPiece"
	}
	if int(pi) < len(pieceNames) && pieceNames[pi] != "" {
		return pieceNames[pi]
	}
	return fmt.Sprintf("Piece(%d)", pi)
}
