// see.go implements static exchange evaluation: the material balance of
// a capture sequence on one square, replaying least-valuable-attacker
// recaptures until one side has nothing left to take with.
//
// Grounded on the teacher's see.go (the swap algorithm and its backward
// minimax over the gain array); rebuilt against this engine's Move
// struct (From/To/Piece/Captured/Promoted) and magic-bitboard attack
// tables instead of the teacher's now-removed Mobility free functions.
package engine

// seeBonus gives each figure's value for exchange evaluation, indexed by
// Figure so it lines up with pieceValue's material weights.
var seeBonus = [FigureArraySize]int32{
	Rook:   500,
	Bishop: 325,
	Knight: 325,
	King:   20000,
	Queen:  975,
	Pawn:   100,
}

var seeOrder = [6]Figure{Pawn, Knight, Bishop, Rook, Queen, King}

// seeSign reports whether see(pos, m) is negative: a losing capture.
// Capturing with a piece no more valuable than what it takes is always
// safe, so the expensive swap algorithm only runs when that isn't
// already obvious.
func seeSign(pos *Position, m Move) bool {
	if seeBonus[m.Piece.Figure()] <= seeBonus[m.Captured.Figure()] {
		return false
	}
	return see(pos, m) < 0
}

// attackersTo returns every piece of color us attacking sq, given an
// occupancy that may differ from pos.Occupied (SEE removes attackers as
// the exchange is replayed).
func attackersTo(pos *Position, sq Square, us Color, occ Bitboard) Bitboard {
	them := us.Opposite()
	var att Bitboard
	att |= BbPawnAttack[them][sq] & pos.ByPiece(us, Pawn)
	att |= BbKnightAttack[sq] & pos.ByPiece(us, Knight)
	att |= BishopMagic[sq].Attack(occ) & (pos.ByPiece(us, Bishop) | pos.ByPiece(us, Queen))
	att |= RookMagic[sq].Attack(occ) & (pos.ByPiece(us, Rook) | pos.ByPiece(us, Queen))
	att |= BbKingAttack[sq] & pos.ByPiece(us, King)
	return att & occ
}

// see returns the static exchange evaluation of m, the net material
// gained by the side playing m if the exchange on m.To is played out to
// its end with both sides always recapturing with their least valuable
// attacker.
func see(pos *Position, m Move) int32 {
	sq := m.To
	occ := (pos.Occupied &^ m.From.Bitboard()) | m.To.Bitboard()
	if m.Flags.Is(FlagEnPassant) {
		occ &^= m.CaptureSquare().Bitboard()
	}

	gain := make([]int32, 1, 16)
	gain[0] = seeBonus[m.Captured.Figure()]
	if m.Flags.Is(FlagPromotion) {
		gain[0] += seeBonus[m.Promoted.Figure()] - seeBonus[Pawn]
	}

	attackerValue := seeBonus[m.Piece.Figure()]
	if m.Flags.Is(FlagPromotion) {
		attackerValue = seeBonus[Queen]
	}
	us := m.Piece.Color().Opposite()

	for {
		attackers := attackersTo(pos, sq, us, occ)
		if attackers == 0 {
			break
		}

		var from Bitboard
		var fig Figure
		for _, f := range seeOrder {
			if bb := attackers & pos.ByPiece(us, f); bb != 0 {
				from, fig = bb.LSB(), f
				break
			}
		}
		if from == 0 {
			break
		}

		gain = append(gain, attackerValue-gain[len(gain)-1])
		occ &^= from
		attackerValue = seeBonus[fig]
		us = us.Opposite()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}
