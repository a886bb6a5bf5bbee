// tt.go implements the transposition table: a fixed-capacity, power-of-two
// array of spin-locked slots shared by every search worker. Add records a
// finished subtree's result; Probe looks one up and CutOff reports whether
// its bound lets the caller stop searching early; Clear empties the table
// between games.
//
// Grounded on the teacher's hash_table.go (two-way-bucket replacement,
// lock word to guard against hash collisions) and on
// original_source/engine/src/transposition.cpp for the depth/age
// replacement policy and the PV/CUT/ALL node-type vocabulary. The parallel
// split in ybwc.go keeps its own cutoff flag and does not read node types.
package engine

import (
	"sync/atomic"
	"unsafe"
)

// nodeType records which side of the window a stored score bounds.
type nodeType uint8

const (
	nodeNone nodeType = iota
	nodePV            // score is exact
	nodeCut           // score is a lower bound (search failed high / beta cutoff)
	nodeAll           // score is an upper bound (search failed low)
)

// ttEntry is the payload of one transposition table slot.
type ttEntry struct {
	hash     uint64
	bestMove Move
	score    int16
	depth    int8
	age      uint8
	kind     nodeType
}

// ttSlot guards one entry with a spinlock so concurrent YBWC workers can
// Add/Probe the same index without a global mutex serializing the table.
type ttSlot struct {
	spin  int32
	entry ttEntry
}

func (s *ttSlot) lock() {
	for !atomic.CompareAndSwapInt32(&s.spin, 0, 1) {
		// busy-wait: table critical sections are a handful of field copies.
	}
}

func (s *ttSlot) unlock() {
	atomic.StoreInt32(&s.spin, 0)
}

// TranspositionTable is a fixed-capacity hash table shared by all search
// workers, addressed by the low bits of the position's Zobrist hash.
type TranspositionTable struct {
	slots []ttSlot
	mask  uint64
	age   uint8
}

// NewTranspositionTable allocates a table of roughly sizeMB megabytes,
// rounded down to a power of two number of entries.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	entrySize := uint64(unsafe.Sizeof(ttSlot{}))
	n := uint64(sizeMB) << 20 / entrySize
	if n == 0 {
		n = 1
	}
	for n&(n-1) != 0 {
		n &= n - 1
	}
	return &TranspositionTable{
		slots: make([]ttSlot, n),
		mask:  n - 1,
	}
}

// Size returns the number of addressable entries.
func (tt *TranspositionTable) Size() int {
	return len(tt.slots)
}

// NewGeneration bumps the table's age counter. Called once per search so
// stale entries from previous searches are preferred as replacement
// candidates over fresh ones from the search in progress.
func (tt *TranspositionTable) NewGeneration() {
	tt.age++
}

// Add records a search result for pos. A slot is overwritten when it is
// empty, is from an older generation, or holds a shallower search than the
// one being stored; otherwise the existing (at least as deep,
// current-generation) entry is kept, whichever position it belongs to.
func (tt *TranspositionTable) Add(pos *Position, depth int, score int32, move Move, kind nodeType) {
	idx := pos.Hash & tt.mask
	slot := &tt.slots[idx]
	slot.lock()
	defer slot.unlock()

	e := &slot.entry
	if e.kind != nodeNone && e.age == tt.age && int(e.depth) >= depth {
		return
	}
	e.hash = pos.Hash
	e.bestMove = move
	e.score = int16(score)
	e.depth = int8(depth)
	e.age = tt.age
	e.kind = kind
}

// Probe looks up pos and reports the stored entry's move and score plus
// whether that entry is deep enough to answer the current search at all
// (found). Use CutOff to decide whether the score can stand in for a
// fresh search given the window [alpha, beta].
func (tt *TranspositionTable) Probe(pos *Position, depth int) (score int32, move Move, kind nodeType, found bool) {
	idx := pos.Hash & tt.mask
	slot := &tt.slots[idx]
	slot.lock()
	defer slot.unlock()

	e := slot.entry
	if e.kind == nodeNone || e.hash != pos.Hash {
		return 0, NullMove, nodeNone, false
	}
	if int(e.depth) < depth {
		return 0, e.bestMove, nodeNone, false
	}
	return int32(e.score), e.bestMove, e.kind, true
}

// CutOff reports whether a stored (score, kind) pair resolves the search
// window [alpha, beta] without expanding the node any further.
func CutOff(kind nodeType, score, alpha, beta int32) bool {
	switch kind {
	case nodePV:
		return true
	case nodeCut:
		return score >= beta
	case nodeAll:
		return score <= alpha
	default:
		return false
	}
}

// Clear empties every slot and resets the generation counter.
func (tt *TranspositionTable) Clear() {
	for i := range tt.slots {
		tt.slots[i] = ttSlot{}
	}
	tt.age = 0
}
