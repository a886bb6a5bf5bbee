// score.go holds the mid/end game score pair and the running Eval
// accumulator evaluation.go adds to, tapered by Feed at the very end.
//
// Grounded on the teacher's score.go; the per-color pawn-structure cache
// it built on top of this (pawn_table.go) assumed a single-threaded
// search and was dropped, see DESIGN.md.
package engine

// Score represents a pair of mid and end game scores.
type Score struct {
	M, E int32 // mid game, end game
}

// Eval is a running sum of scores, tapered between mid and end game by
// Phase once the position is fully scored.
type Eval struct {
	M, E  int32 // mid game, end game
	Phase int32
}

func (e *Eval) Make(pos *Position) {
	e.M, e.E = 0, 0
	e.Phase = phase(pos)
}

func (e *Eval) Feed() int32 {
	return (e.M*(256-e.Phase) + e.E*e.Phase) / 256
}

func (e *Eval) Add(s Score) {
	e.M += s.M
	e.E += s.E
}

func (e *Eval) AddN(s Score, n int32) {
	e.M += s.M * n
	e.E += s.E * n
}

func (e *Eval) Neg() {
	e.M = -e.M
	e.E = -e.E
}
