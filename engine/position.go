// position.go implements the position/state-history side of the engine:
// FEN decoding/encoding, Make/Undo, and the check/pin/king-ban bitboards
// the generator in movegen.go consumes.
//
// Grounded on the teacher's Position (state stack, DoMove/UndoMove, FEN
// parsing) and on original_source/engine/src/position.cpp for Make's
// exact field-by-field update order and the UpdateKingBan formula.
package engine

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// lostCastleRights[sq] is the set of castling rights forfeited the moment
// a piece leaves or arrives on sq (king and rook home squares).
var lostCastleRights [SquareArraySize]Castle

func init() {
	lostCastleRights[SquareE1] = WhiteOO | WhiteOOO
	lostCastleRights[SquareA1] = WhiteOOO
	lostCastleRights[SquareH1] = WhiteOO
	lostCastleRights[SquareE8] = BlackOO | BlackOOO
	lostCastleRights[SquareA8] = BlackOOO
	lostCastleRights[SquareH8] = BlackOO
}

// state is the snapshot of everything Make cannot cheaply recompute on
// Undo: it is pushed before a move is applied and popped to reverse it.
type state struct {
	KingBan         Bitboard
	Occupied        Bitboard
	EnpassantSquare Square
	EnpassantTarget Square
	CastlingAbility Castle
	HalfMoveClock   int
	Hash            uint64
}

// Position is one point in a game: a Board plus the state Board alone
// cannot express (side to move, castling rights, en-passant, move
// counters) and the derived bitboards movegen.go needs. KingBan is
// refreshed after every Make/Undo; CheckMask, PinMaskHV and PinMaskDiag
// are written only by GenerateMoves, and Make/Undo leave them as the last
// GenerateMoves call set them.
type Position struct {
	Board

	SideToMove      Color
	FullMoveNumber  int
	HalfMoveClock   int
	EnpassantSquare Square
	EnpassantTarget Square
	CastlingAbility Castle
	Hash            uint64

	KingBan     Bitboard
	CheckMask   Bitboard
	PinMaskHV   Bitboard
	PinMaskDiag Bitboard

	history     []state
	hashHistory []uint64
}

// FENStartPos is the FEN of the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns the standard chess starting position.
func NewPosition() *Position {
	pos, err := PositionFromFEN(FENStartPos)
	if err != nil {
		panic(err)
	}
	return pos
}

// Clone returns an independent copy of pos: a YBWC slave searches from its
// own clone so that appending to its history stack as it descends can never
// alias, and thus corrupt, the master's or a sibling's history.
func (pos *Position) Clone() *Position {
	clone := *pos
	clone.history = append([]state(nil), pos.history...)
	clone.hashHistory = append([]uint64(nil), pos.hashHistory...)
	return &clone
}

// FiftyMoveRule reports whether the game is drawn by the fifty-move rule.
func (pos *Position) FiftyMoveRule() bool {
	return pos.HalfMoveClock >= 100
}

// InsufficientMaterial reports whether neither side has enough material
// left to deliver checkmate: king vs king, king+minor vs king, or
// king+bishop vs king+bishop with same-colored bishops.
func (pos *Position) InsufficientMaterial() bool {
	if pos.ByPiece(White, Pawn)|pos.ByPiece(Black, Pawn) != 0 {
		return false
	}
	if pos.ByPiece(White, Rook)|pos.ByPiece(Black, Rook) != 0 {
		return false
	}
	if pos.ByPiece(White, Queen)|pos.ByPiece(Black, Queen) != 0 {
		return false
	}

	whiteMinors := pos.ByPiece(White, Knight).Count() + pos.ByPiece(White, Bishop).Count()
	blackMinors := pos.ByPiece(Black, Knight).Count() + pos.ByPiece(Black, Bishop).Count()
	if whiteMinors+blackMinors <= 1 {
		return true
	}
	if whiteMinors == 1 && blackMinors == 1 &&
		pos.ByPiece(White, Bishop) != 0 && pos.ByPiece(Black, Bishop) != 0 {
		whiteBishop := pos.ByPiece(White, Bishop)
		blackBishop := pos.ByPiece(Black, Bishop)
		return whiteBishop&darkSquares != 0 == (blackBishop&darkSquares != 0)
	}
	return false
}

// PositionFromFEN parses a position from Forsyth-Edwards Notation.
func PositionFromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid FEN %q: not enough fields", fen)
	}

	pos := &Position{EnpassantSquare: SquareA1, EnpassantTarget: SquareA1}
	for sq := range pos.Mailbox {
		pos.Mailbox[sq] = NoPiece
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pi, ok := symbolToPiece[c]
			if !ok {
				return nil, fmt.Errorf("invalid FEN %q: unknown piece symbol %q", fen, c)
			}
			if file > 7 {
				return nil, fmt.Errorf("invalid FEN %q: rank %d overflows", fen, rank+1)
			}
			pos.put(RankFile(rank, file), pi)
			pos.Hash ^= ZobristPiece[pi][RankFile(rank, file)]
			file++
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
		pos.Hash ^= ZobristColor[White] ^ ZobristColor[Black]
	default:
		return nil, fmt.Errorf("invalid FEN %q: bad side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			ci, ok := symbolToCastleInfo[c]
			if !ok {
				return nil, fmt.Errorf("invalid FEN %q: bad castling symbol %q", fen, c)
			}
			pos.CastlingAbility |= ci.Castle
		}
	}
	pos.Hash ^= ZobristCastle[pos.CastlingAbility]

	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN %q: bad en-passant square %q", fen, fields[3])
		}
		pos.EnpassantSquare = sq
		if pos.SideToMove == White {
			pos.EnpassantTarget = sq.Relative(-1, 0)
		} else {
			pos.EnpassantTarget = sq.Relative(+1, 0)
		}
		pos.Hash ^= ZobristEnpassant[sq.File()]
	}

	pos.HalfMoveClock = 0
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			pos.HalfMoveClock = n
		}
	}
	pos.FullMoveNumber = 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			pos.FullMoveNumber = n
		}
	}

	pos.refreshKingBan()
	pos.hashHistory = append(pos.hashHistory, pos.Hash)
	return pos, nil
}

// String renders the position as a FEN string.
func (pos *Position) String() string {
	var b bytes.Buffer
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pi := pos.Get(RankFile(r, f))
			if pi == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(itoa[empty])
				empty = 0
			}
			b.WriteString(pieceToSymbol[pi])
		}
		if empty > 0 {
			b.WriteString(itoa[empty])
		}
		if r > 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	b.WriteString(colorToSymbol[pos.SideToMove])

	b.WriteByte(' ')
	b.WriteString(pos.CastlingAbility.String())

	b.WriteByte(' ')
	if pos.EnpassantSquare == SquareA1 {
		b.WriteByte('-')
	} else {
		b.WriteString(pos.EnpassantSquare.String())
	}

	fmt.Fprintf(&b, " %d %d", pos.HalfMoveClock, pos.FullMoveNumber)
	return b.String()
}

// place puts pi on sq and folds the change into the incremental hash.
func (pos *Position) place(sq Square, pi Piece) {
	pos.put(sq, pi)
	pos.Hash ^= ZobristPiece[pi][sq]
}

// displace removes pi from sq and folds the change into the incremental hash.
func (pos *Position) displace(sq Square, pi Piece) {
	pos.remove(sq, pi)
	pos.Hash ^= ZobristPiece[pi][sq]
}

func (pos *Position) setCastlingAbility(c Castle) {
	if c == pos.CastlingAbility {
		return
	}
	pos.Hash ^= ZobristCastle[pos.CastlingAbility] ^ ZobristCastle[c]
	pos.CastlingAbility = c
}

func (pos *Position) clearEnpassant() {
	if pos.EnpassantSquare != SquareA1 {
		pos.Hash ^= ZobristEnpassant[pos.EnpassantSquare.File()]
	}
	pos.EnpassantSquare = SquareA1
	pos.EnpassantTarget = SquareA1
}

func (pos *Position) setEnpassant(sq, target Square) {
	pos.EnpassantSquare = sq
	pos.EnpassantTarget = target
	pos.Hash ^= ZobristEnpassant[sq.File()]
}

// epWouldExposeCheck reports whether offering an en-passant capture on
// the square a pawn just vacated by double-pushing to movedPawnSq would,
// once both the mover and a capturing pawn are lifted off the rank,
// expose us's king to a rook or queen along that rank.
func (pos *Position) epWouldExposeCheck(us Color, movedPawnSq Square) bool {
	them := us.Opposite()
	ksq := pos.ByPiece(us, King).AsSquare()
	if ksq.Rank() != movedPawnSq.Rank() {
		return false
	}
	occ := pos.Occupied &^ movedPawnSq.Bitboard()
	rank := movedPawnSq.Rank()
	for _, df := range [2]int{-1, 1} {
		f := movedPawnSq.File() + df
		if f < 0 || f > 7 {
			continue
		}
		candidate := RankFile(rank, f)
		if !pos.ByPiece(us, Pawn).Has(candidate) {
			continue
		}
		occ2 := occ &^ candidate.Bitboard()
		if RookMagic[ksq].Attack(occ2)&(pos.ByPiece(them, Rook)|pos.ByPiece(them, Queen)) != 0 {
			return true
		}
	}
	return false
}

// refreshKingBan recomputes the squares SideToMove's king may not step
// onto: every square attacked by the opponent, with the king itself
// pulled out of the occupancy so it cannot shield itself from a slider it
// is about to step behind.
func (pos *Position) refreshKingBan() {
	us := pos.SideToMove
	them := us.Opposite()
	ksq := pos.ByPiece(us, King).AsSquare()
	occ := pos.Occupied &^ ksq.Bitboard()

	var ban Bitboard
	if king := pos.ByPiece(them, King); king != 0 {
		ban |= BbKingAttack[king.AsSquare()]
	}
	for bb := pos.ByPiece(them, Knight); bb != 0; {
		ban |= BbKnightAttack[bb.Pop()]
	}
	for bb := pos.ByPiece(them, Bishop) | pos.ByPiece(them, Queen); bb != 0; {
		ban |= BishopMagic[bb.Pop()].Attack(occ)
	}
	for bb := pos.ByPiece(them, Rook) | pos.ByPiece(them, Queen); bb != 0; {
		ban |= RookMagic[bb.Pop()].Attack(occ)
	}
	for bb := pos.ByPiece(them, Pawn); bb != 0; {
		ban |= BbPawnAttack[them][bb.Pop()]
	}
	pos.KingBan = ban
}

// Make applies m, pushing enough state onto the history stack for Undo to
// reverse it exactly. Follows the order in original_source's
// Position::Make: move the piece, lift any capture, relocate the castling
// rook, retire stale castling rights, update the en-passant square, reset
// or advance the halfmove clock, flip the side to move, and finally
// refresh the king-ban bitboard for whoever moves next.
func (pos *Position) Make(m Move) {
	us := pos.SideToMove
	them := us.Opposite()

	pos.history = append(pos.history, state{
		KingBan:         pos.KingBan,
		Occupied:        pos.Occupied,
		EnpassantSquare: pos.EnpassantSquare,
		EnpassantTarget: pos.EnpassantTarget,
		CastlingAbility: pos.CastlingAbility,
		HalfMoveClock:   pos.HalfMoveClock,
		Hash:            pos.Hash,
	})

	pos.displace(m.From, m.Piece)
	if m.Flags.Is(FlagCapture) && !m.Flags.Is(FlagEnPassant) {
		pos.displace(m.To, m.Captured)
	}
	if m.Flags.Is(FlagPromotion) {
		pos.place(m.To, m.Promoted)
	} else {
		pos.place(m.To, m.Piece)
	}
	if m.Flags.Is(FlagEnPassant) {
		pos.displace(m.CaptureSquare(), m.Captured)
	}

	if m.Flags.Is(FlagCastleKingSide) || m.Flags.Is(FlagCastleQueenSide) {
		rook, rookStart, rookEnd := CastlingRook(m.To)
		pos.displace(rookStart, rook)
		pos.place(rookEnd, rook)
	}

	pos.setCastlingAbility(pos.CastlingAbility &^ lostCastleRights[m.From] &^ lostCastleRights[m.To])

	pos.clearEnpassant()
	if m.Piece.Figure() == Pawn {
		doublePush := (us == White && m.From.Rank() == 1 && m.To.Rank() == 3) ||
			(us == Black && m.From.Rank() == 6 && m.To.Rank() == 4)
		if doublePush && !pos.epWouldExposeCheck(them, m.To) {
			epSq := RankFile((m.From.Rank()+m.To.Rank())/2, m.From.File())
			pos.setEnpassant(epSq, m.To)
		}
	}

	if m.Piece.Figure() == Pawn || m.Flags.Is(FlagCapture) {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
	if us == Black {
		pos.FullMoveNumber++
	}

	pos.SideToMove = them
	pos.Hash ^= ZobristColor[White] ^ ZobristColor[Black]

	pos.refreshKingBan()
	pos.hashHistory = append(pos.hashHistory, pos.Hash)
}

// Undo reverses the last move Make applied, which must be m.
func (pos *Position) Undo(m Move) {
	pos.hashHistory = pos.hashHistory[:len(pos.hashHistory)-1]

	them := pos.SideToMove
	us := them.Opposite()
	pos.SideToMove = us

	if m.Flags.Is(FlagCastleKingSide) || m.Flags.Is(FlagCastleQueenSide) {
		rook, rookStart, rookEnd := CastlingRook(m.To)
		pos.displace(rookEnd, rook)
		pos.place(rookStart, rook)
	}

	if m.Flags.Is(FlagPromotion) {
		pos.displace(m.To, m.Promoted)
	} else {
		pos.displace(m.To, m.Piece)
	}
	if m.Flags.Is(FlagEnPassant) {
		pos.place(m.CaptureSquare(), m.Captured)
	} else if m.Flags.Is(FlagCapture) {
		pos.place(m.To, m.Captured)
	}
	pos.place(m.From, m.Piece)

	if us == Black {
		pos.FullMoveNumber--
	}

	prev := pos.history[len(pos.history)-1]
	pos.history = pos.history[:len(pos.history)-1]
	pos.KingBan = prev.KingBan
	pos.Occupied = prev.Occupied
	pos.EnpassantSquare = prev.EnpassantSquare
	pos.EnpassantTarget = prev.EnpassantTarget
	pos.CastlingAbility = prev.CastlingAbility
	pos.HalfMoveClock = prev.HalfMoveClock
	pos.Hash = prev.Hash
}

// pinsAlong walks the four ray directions in deltas from the king of
// SideToMove and returns the union, over every ray that pins an own
// piece, of the squares from the king (exclusive) to (and including) the
// pinning slider, the pinned piece among them.
func (pos *Position) pinsAlong(deltas [][2]int, enemySliders Bitboard) Bitboard {
	us := pos.SideToMove
	ksq := pos.ByPiece(us, King).AsSquare()
	ownOcc := pos.ByColor[us]
	r0, f0 := ksq.Rank(), ksq.File()

	var pinMask Bitboard
	for _, d := range deltas {
		r, f := r0, f0
		var ray Bitboard
		sawOwn := false
		for {
			r, f = r+d[0], f+d[1]
			if r < 0 || r > 7 || f < 0 || f > 7 {
				break
			}
			sq := RankFile(r, f)
			bb := sq.Bitboard()
			if !sawOwn {
				if ownOcc.Has(sq) {
					sawOwn = true
					ray |= bb
					continue
				}
				if pos.Occupied.Has(sq) {
					break
				}
				ray |= bb
				continue
			}
			if pos.Occupied.Has(sq) {
				if enemySliders.Has(sq) {
					pinMask |= ray | bb
				}
				break
			}
			ray |= bb
		}
	}
	return pinMask
}

// pinMasks returns the orthogonal and diagonal pin masks for the side to
// move, per the pin scan in original_source/engine/src/move_gen.cpp.
func (pos *Position) pinMasks() (hv, diag Bitboard) {
	us := pos.SideToMove
	them := us.Opposite()
	hv = pos.pinsAlong(rookDeltas, pos.ByPiece(them, Rook)|pos.ByPiece(them, Queen))
	diag = pos.pinsAlong(bishopDeltas, pos.ByPiece(them, Bishop)|pos.ByPiece(them, Queen))
	return hv, diag
}

// IsChecked reports whether SideToMove's king is currently attacked.
func (pos *Position) IsChecked() bool {
	us := pos.SideToMove
	them := us.Opposite()
	ksq := pos.ByPiece(us, King).AsSquare()
	if BbPawnAttack[us][ksq]&pos.ByPiece(them, Pawn) != 0 {
		return true
	}
	if BbKnightAttack[ksq]&pos.ByPiece(them, Knight) != 0 {
		return true
	}
	if BishopMagic[ksq].Attack(pos.Occupied)&(pos.ByPiece(them, Bishop)|pos.ByPiece(them, Queen)) != 0 {
		return true
	}
	if RookMagic[ksq].Attack(pos.Occupied)&(pos.ByPiece(them, Rook)|pos.ByPiece(them, Queen)) != 0 {
		return true
	}
	return false
}

// IsThreeFoldRepetition reports whether the current hash has occurred at
// least twice before within the irreversible window bounded by
// HalfMoveClock (repetitions cannot straddle a pawn move or a capture).
func (pos *Position) IsThreeFoldRepetition() bool {
	n := len(pos.hashHistory)
	if n == 0 {
		return false
	}
	limit := n - 1 - pos.HalfMoveClock
	if limit < 0 {
		limit = 0
	}
	count := 1
	for i := n - 3; i >= limit; i -= 2 {
		if pos.hashHistory[i] == pos.Hash {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// KnightMobility returns the squares a knight on sq attacks.
func (pos *Position) KnightMobility(sq Square) Bitboard {
	return BbKnightAttack[sq]
}

// BishopMobility returns the squares a bishop on sq attacks given occ.
func (pos *Position) BishopMobility(sq Square, occ Bitboard) Bitboard {
	return BishopMagic[sq].Attack(occ)
}

// RookMobility returns the squares a rook on sq attacks given occ.
func (pos *Position) RookMobility(sq Square, occ Bitboard) Bitboard {
	return RookMagic[sq].Attack(occ)
}

// QueenMobility returns the squares a queen on sq attacks given occ.
func (pos *Position) QueenMobility(sq Square, occ Bitboard) Bitboard {
	return pos.BishopMobility(sq, occ) | pos.RookMobility(sq, occ)
}

// KingMobility returns the squares a king on sq attacks.
func (pos *Position) KingMobility(sq Square) Bitboard {
	return BbKingAttack[sq]
}
