package engine

import "testing"

func TestWorkerRegistryGetPutIdle(t *testing.T) {
	tt := NewTranspositionTable(1)
	reg := NewWorkerRegistry(2, tt)

	w := reg.getIdle()
	if w == nil {
		t.Fatal("expected an idle worker")
	}
	if len(reg.idle) != 1 {
		t.Errorf("expected 1 idle worker left, got %d", len(reg.idle))
	}

	reg.putIdle(w)
	if len(reg.idle) != 2 {
		t.Errorf("expected 2 idle workers after put, got %d", len(reg.idle))
	}
}

// TestParallelSearchAgreesWithSequential checks that splitting moves
// across worker Engines does not change the best move found compared to
// a purely sequential search of the same position, for a position simple
// enough that there should not be multiple equally-scored best moves.
func TestParallelSearchAgreesWithSequential(t *testing.T) {
	fen := "4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1"

	pos, err := PositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	ttSeq := NewTranspositionTable(1)
	seq := NewEngine(pos, ttSeq, nil, Options{})
	tcSeq := NewFixedDepthTimeControl(pos, 6)
	tcSeq.Start(false)
	seqPV := seq.Play(tcSeq)
	if len(seqPV) == 0 {
		t.Fatal("sequential search found no move")
	}

	pos2, _ := PositionFromFEN(fen)
	ttPar := NewTranspositionTable(1)
	par := NewEngine(pos2, ttPar, nil, Options{})
	par.Workers = NewWorkerRegistry(splitMaxSlaves, ttPar)
	tcPar := NewFixedDepthTimeControl(pos2, 6)
	tcPar.Start(false)
	parPV := par.Play(tcPar)
	if len(parPV) == 0 {
		t.Fatal("parallel search found no move")
	}

	if parPV[0].UCI() != seqPV[0].UCI() {
		t.Errorf("parallel search picked %v, sequential picked %v", parPV[0], seqPV[0])
	}
}
