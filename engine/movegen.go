// movegen.go generates fully legal moves in a single pass: no pseudo-legal
// intermediate list, no after-the-fact Make/IsChecked/Undo filtering.
// Check evasion and pin constraints are folded into the per-figure
// bitboard masks before any move is appended.
//
// Grounded on original_source/engine/src/move_gen.cpp's algorithm; the
// per-figure scalar-loop style (genKnightMoves, genBishopMoves, ...)
// follows the teacher's position.go generator idiom.
package engine

// GenerateMoves returns every legal move available to pos.SideToMove.
func GenerateMoves(pos *Position) []Move {
	us := pos.SideToMove
	them := us.Opposite()
	ksq := pos.ByPiece(us, King).AsSquare()

	pawnCheckers := BbPawnAttack[us][ksq] & pos.ByPiece(them, Pawn)
	knightCheckers := BbKnightAttack[ksq] & pos.ByPiece(them, Knight)
	bishopCheckers := BishopMagic[ksq].Attack(pos.Occupied) & (pos.ByPiece(them, Bishop) | pos.ByPiece(them, Queen))
	rookCheckers := RookMagic[ksq].Attack(pos.Occupied) & (pos.ByPiece(them, Rook) | pos.ByPiece(them, Queen))
	checkers := pawnCheckers | knightCheckers | bishopCheckers | rookCheckers

	var checkMask Bitboard
	switch checkers.Count() {
	case 0:
		checkMask = BbFull
	case 1:
		checkMask = checkers
		if bishopCheckers|rookCheckers != 0 {
			checkMask |= InBetween[ksq][checkers.AsSquare()]
		}
	default:
		checkMask = BbEmpty
	}

	pinHV, pinDiag := pos.pinMasks()
	pos.CheckMask, pos.PinMaskHV, pos.PinMaskDiag = checkMask, pinHV, pinDiag

	moves := make([]Move, 0, 40)
	pos.genKingMoves(&moves)
	if checkMask == BbEmpty {
		// Double check: only the king can move.
		return moves
	}

	pos.genPawnMoves(&moves, checkMask, pinHV, pinDiag)
	pos.genKnightMoves(&moves, checkMask, pinHV, pinDiag)
	pos.genDiagSliderMoves(&moves, checkMask, pinHV, pinDiag)
	pos.genOrthoSliderMoves(&moves, checkMask, pinHV, pinDiag)
	pos.genCastling(&moves, checkMask)
	return moves
}

// makeMove builds the move of fig from from to to, filling in capture
// bookkeeping from whatever currently sits on to.
func (pos *Position) makeMove(us Color, from Square, fig Figure, to Square) Move {
	m := Move{From: from, To: to, Piece: ColorFigure(us, fig)}
	if captured := pos.Get(to); captured != NoPiece {
		m.Flags.Set(FlagCapture)
		m.Captured = captured
	}
	return m
}

func (pos *Position) genKingMoves(moves *[]Move) {
	us := pos.SideToMove
	ksq := pos.ByPiece(us, King).AsSquare()
	targets := BbKingAttack[ksq] &^ pos.ByColor[us] &^ pos.KingBan
	for targets != 0 {
		to := targets.Pop()
		*moves = append(*moves, pos.makeMove(us, ksq, King, to))
	}
}

func (pos *Position) genKnightMoves(moves *[]Move, checkMask, pinHV, pinDiag Bitboard) {
	us := pos.SideToMove
	for bb := pos.ByPiece(us, Knight) &^ (pinHV | pinDiag); bb != 0; {
		from := bb.Pop()
		targets := BbKnightAttack[from] &^ pos.ByColor[us] & checkMask
		for targets != 0 {
			to := targets.Pop()
			*moves = append(*moves, pos.makeMove(us, from, Knight, to))
		}
	}
}

// genDiagSliderMoves handles bishops and queens on diagonal rays. A piece
// pinned orthogonally (pinHV) has no legal diagonal moves at all, so it is
// excluded from the scan; a piece pinned diagonally is restricted to its
// own pin ray.
func (pos *Position) genDiagSliderMoves(moves *[]Move, checkMask, pinHV, pinDiag Bitboard) {
	us := pos.SideToMove
	for bb := (pos.ByPiece(us, Bishop) | pos.ByPiece(us, Queen)) &^ pinHV; bb != 0; {
		from := bb.Pop()
		fig := pos.Get(from).Figure()
		att := BishopMagic[from].Attack(pos.Occupied) &^ pos.ByColor[us] & checkMask
		if pinDiag.Has(from) {
			att &= pinDiag
		}
		for att != 0 {
			to := att.Pop()
			*moves = append(*moves, pos.makeMove(us, from, fig, to))
		}
	}
}

// genOrthoSliderMoves handles rooks and queens on orthogonal rays,
// mirroring genDiagSliderMoves. Queens unpinned by either mask appear in
// both scans, which together give them the union of rook and bishop
// sliding attacks without any special-cased union logic.
func (pos *Position) genOrthoSliderMoves(moves *[]Move, checkMask, pinHV, pinDiag Bitboard) {
	us := pos.SideToMove
	for bb := (pos.ByPiece(us, Rook) | pos.ByPiece(us, Queen)) &^ pinDiag; bb != 0; {
		from := bb.Pop()
		fig := pos.Get(from).Figure()
		att := RookMagic[from].Attack(pos.Occupied) &^ pos.ByColor[us] & checkMask
		if pinHV.Has(from) {
			att &= pinHV
		}
		for att != 0 {
			to := att.Pop()
			*moves = append(*moves, pos.makeMove(us, from, fig, to))
		}
	}
}

func isPromoRank(us Color, sq Square) bool {
	if us == White {
		return sq.Rank() == 7
	}
	return sq.Rank() == 0
}

func isPawnStartRank(us Color, sq Square) bool {
	if us == White {
		return sq.Rank() == 1
	}
	return sq.Rank() == 6
}

// addPromotion appends the four under/over-promotion choices for a pawn
// arriving on to, which must be on the last rank.
func addPromotion(moves *[]Move, us Color, from, to Square, captured Piece, flags MoveFlag) {
	flags.Set(FlagPromotion)
	for _, fig := range [4]Figure{Queen, Rook, Bishop, Knight} {
		*moves = append(*moves, Move{
			From: from, To: to, Piece: ColorFigure(us, Pawn),
			Flags: flags, Captured: captured, Promoted: ColorFigure(us, fig),
		})
	}
}

// genPawnMoves handles pushes (single, double, promoting), diagonal
// captures (including promoting captures) and en-passant.
func (pos *Position) genPawnMoves(moves *[]Move, checkMask, pinHV, pinDiag Bitboard) {
	us := pos.SideToMove
	them := us.Opposite()
	pawns := pos.ByPiece(us, Pawn)

	dr := 1
	if us == Black {
		dr = -1
	}

	// Pushes: a pawn pinned diagonally cannot push at all.
	for bb := pawns &^ pinDiag; bb != 0; {
		from := bb.Pop()
		to := from.Relative(dr, 0)
		if pos.Occupied.Has(to) {
			continue
		}
		if !pinHV.Has(from) || pinHV.Has(to) {
			if checkMask.Has(to) {
				if isPromoRank(us, to) {
					addPromotion(moves, us, from, to, NoPiece, 0)
				} else {
					*moves = append(*moves, Move{From: from, To: to, Piece: ColorFigure(us, Pawn)})
				}
			}
		}
		if isPawnStartRank(us, from) {
			to2 := to.Relative(dr, 0)
			if !pos.Occupied.Has(to2) && checkMask.Has(to2) && (!pinHV.Has(from) || pinHV.Has(to2)) {
				*moves = append(*moves, Move{From: from, To: to2, Piece: ColorFigure(us, Pawn)})
			}
		}
	}

	// Captures: a pawn pinned orthogonally cannot capture diagonally.
	for bb := pawns &^ pinHV; bb != 0; {
		from := bb.Pop()
		for _, df := range [2]int{-1, 1} {
			if from.File()+df < 0 || from.File()+df > 7 {
				continue
			}
			to := from.Relative(dr, df)
			if !pos.ByColor[them].Has(to) {
				continue
			}
			if pinDiag.Has(from) && !pinDiag.Has(to) {
				continue
			}
			if !checkMask.Has(to) {
				continue
			}
			captured := pos.Get(to)
			if isPromoRank(us, to) {
				addPromotion(moves, us, from, to, captured, FlagCapture)
			} else {
				*moves = append(*moves, Move{From: from, To: to, Piece: ColorFigure(us, Pawn), Flags: FlagCapture, Captured: captured})
			}
		}
	}

	if pos.EnpassantSquare == SquareA1 {
		return
	}
	epSq := pos.EnpassantSquare
	capturedSq := pos.EnpassantTarget
	for bb := BbPawnAttack[them][epSq] & pawns &^ pinHV; bb != 0; {
		from := bb.Pop()
		if pinDiag.Has(from) && !pinDiag.Has(epSq) {
			continue
		}
		if !checkMask.Has(epSq) && !checkMask.Has(capturedSq) {
			continue
		}
		*moves = append(*moves, Move{
			From: from, To: epSq, Piece: ColorFigure(us, Pawn),
			Flags: FlagCapture | FlagEnPassant, Captured: ColorFigure(them, Pawn),
		})
	}
}

// genCastling appends the castling moves still available to the side to
// move. Only legal outside of check; KingBan already accounts for
// opponent attacks with the moving king removed from slider occupancy.
func (pos *Position) genCastling(moves *[]Move, checkMask Bitboard) {
	if checkMask != BbFull {
		return
	}
	us := pos.SideToMove
	rank := us.KingHomeRank()
	ksq := RankFile(rank, 4)

	oo, ooo := WhiteOO, WhiteOOO
	if us == Black {
		oo, ooo = BlackOO, BlackOOO
	}

	if pos.CastlingAbility&oo != 0 {
		f, g := RankFile(rank, 5), RankFile(rank, 6)
		if pos.Occupied&(f.Bitboard()|g.Bitboard()) == 0 &&
			pos.KingBan&(ksq.Bitboard()|f.Bitboard()|g.Bitboard()) == 0 {
			*moves = append(*moves, Move{From: ksq, To: g, Piece: ColorFigure(us, King), Flags: FlagCastleKingSide})
		}
	}
	if pos.CastlingAbility&ooo != 0 {
		b, c, d := RankFile(rank, 1), RankFile(rank, 2), RankFile(rank, 3)
		if pos.Occupied&(b.Bitboard()|c.Bitboard()|d.Bitboard()) == 0 &&
			pos.KingBan&(ksq.Bitboard()|c.Bitboard()|d.Bitboard()) == 0 {
			*moves = append(*moves, Move{From: ksq, To: c, Piece: ColorFigure(us, King), Flags: FlagCastleQueenSide})
		}
	}
}
