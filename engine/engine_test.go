// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"strings"
	"testing"
)

func TestGame(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	tt := NewTranspositionTable(1)
	eng := NewEngine(pos, tt, nil, Options{})
	for i := 0; i < 3; i++ {
		tc := NewFixedDepthTimeControl(pos, 3)
		tc.Start(false)
		pv := eng.Play(tc)
		if len(pv) == 0 {
			break
		}
		eng.DoMove(pv[0])
	}
}

// TestScore checks that the score of a position reached by playing moves
// one at a time matches the score of the same position reached directly
// from its FEN.
func TestScore(t *testing.T) {
	for _, game := range testGames[:1] {
		pos, _ := PositionFromFEN(FENStartPos)
		tt := NewTranspositionTable(1)
		dynamic := NewEngine(pos, tt, nil, Options{})

		for _, move := range strings.Fields(game) {
			m, err := pos.UCIToMove(move)
			if err != nil {
				t.Fatalf("cannot parse move %s: %v", move, err)
			}
			dynamic.DoMove(m)

			staticPos, err := PositionFromFEN(pos.String())
			if err != nil {
				t.Fatalf("cannot parse FEN %s: %v", pos.String(), err)
			}
			static := NewEngine(staticPos, tt, nil, Options{})
			if dynamic.Score() != static.Score() {
				t.Fatalf("expected static score %v, got dynamic score %v", static.Score(), dynamic.Score())
			}
		}
	}
}

func TestEndGamePosition(t *testing.T) {
	pos, _ := PositionFromFEN("6k1/5p1p/4p1p1/3p4/5P1P/8/3r2q1/6K1 w - - 2 55")
	tt := NewTranspositionTable(1)
	tc := NewFixedDepthTimeControl(pos, 3)
	tc.Start(false)
	eng := NewEngine(pos, tt, nil, Options{})
	pv := eng.Play(tc)
	if len(pv) != 0 {
		t.Errorf("white is checkmated, expected an empty PV, got %v", pv)
	}
}

func BenchmarkGame(b *testing.B) {
	for i := 0; i < b.N; i++ {
		pos, _ := PositionFromFEN(FENStartPos)
		tt := NewTranspositionTable(1)
		eng := NewEngine(pos, tt, nil, Options{})
		for j := 0; j < 10; j++ {
			tc := NewFixedDepthTimeControl(pos, 3)
			tc.Start(false)
			pv := eng.Play(tc)
			if len(pv) == 0 {
				break
			}
			eng.DoMove(pv[0])
		}
	}
}
