// search.go implements the sequential search one Engine performs inside
// a single YBWC worker: iterative deepening over principal variation
// search, with a null-window scout re-searched on a fail-high, and a
// captures-only quiescence search at the horizon.
//
// Grounded on the teacher's engine.go for the overall shape (Options,
// Stats, Logger, iterative deepening with aspiration windows, the
// mvvlva/shellsort move ordering, the history table) and on
// original_source/engine/src/search.cpp for which refinements to leave
// out: no null-move pruning, late move reductions, futility pruning or
// check extensions. GenerateMoves already returns only legal moves, so
// unlike the teacher's pseudo-legal generator this search never needs
// to detect and discard a move that leaves its own king in check.
package engine

// Options keeps engine's options.
type Options struct {
	AnalyseMode bool // true to display info strings
}

// Stats stores statistics about the search.
type Stats struct {
	CacheHit  uint64 // number of times the position was found in the transposition table
	CacheMiss uint64 // number of times the position was not found in the transposition table
	Nodes     uint64 // number of nodes searched
	Depth     int32  // depth searched
	SelDepth  int32  // maximum depth reached on the principal variation
}

// CacheHitRatio returns the ratio of transposition table hits over total lookups.
func (s *Stats) CacheHitRatio() float32 {
	return float32(s.CacheHit) / float32(s.CacheHit+s.CacheMiss)
}

// Logger logs search progress.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, score int32, pv []Move)
}

// NulLogger is a Logger that does nothing.
type NulLogger struct{}

func (*NulLogger) BeginSearch()                            {}
func (*NulLogger) EndSearch()                              {}
func (*NulLogger) PrintPV(Stats, int32, []Move)            {}

const historyTableBits = 12

// historyEntry records how well a quiet move has performed historically.
type historyEntry struct {
	move Move
	stat int32
}

// historyTable is an always-replace hash table of move statistics, used
// to order quiet moves that are neither the hash move nor a killer.
type historyTable [1 << historyTableBits]historyEntry

func historyHash(m Move) uint32 {
	h := (uint32(m.From)<<10 ^ uint32(m.To)<<4 ^ uint32(m.Piece)) * 2654435761
	return h & (1<<historyTableBits - 1)
}

func (ht *historyTable) get(m Move) int32 {
	e := &ht[historyHash(m)]
	if e.move != m {
		return 0
	}
	return e.stat
}

func (ht *historyTable) add(m Move, delta int32) {
	e := &ht[historyHash(m)]
	if e.move != m {
		*e = historyEntry{move: m, stat: delta}
	} else {
		e.stat += delta
	}
}

// mvvlvaBonus scores the value of a figure for Most Valuable
// Victim/Least Valuable Aggressor move ordering; approximate relative
// weights, not evaluation material values.
var mvvlvaBonus = [FigureArraySize]int32{
	Rook:   40,
	Bishop: 32,
	Knight: 32,
	King:   900,
	Queen:  90,
	Pawn:   10,
}

// shellSortGaps are Marcin Ciura's gaps for the Best Increments for the
// Average Case shellsort.
var shellSortGaps = [...]int{132, 57, 23, 10, 4, 1}

// sortMoves orders moves by descending Score in place.
func sortMoves(moves []Move) {
	for _, gap := range shellSortGaps {
		for i := gap; i < len(moves); i++ {
			j := i
			tmp := moves[j]
			for ; j >= gap && moves[j-gap].Score < tmp.Score; j -= gap {
				moves[j] = moves[j-gap]
			}
			moves[j] = tmp
		}
	}
}

const maxKillerPly = 64

// Engine searches for the best move in a position.
type Engine struct {
	Options  Options
	Log      Logger
	Stats    Stats
	Position *Position
	TT       *TranspositionTable

	rootPly int
	pv      pvTable
	history *historyTable
	killers [maxKillerPly][2]Move

	timeControl *TimeControl
	stopped     bool
	checkpoint  uint64

	// Workers is the pool of sibling-search engines used to split moves
	// across goroutines once the young-brothers condition is met. Nil
	// disables parallel search entirely.
	Workers *WorkerRegistry
}

// NewEngine creates a new engine to search for pos, sharing tt with any
// sibling workers. If pos is nil the starting position is used.
func NewEngine(pos *Position, tt *TranspositionTable, log Logger, options Options) *Engine {
	if log == nil {
		log = &NulLogger{}
	}
	eng := &Engine{
		Options: options,
		Log:     log,
		TT:      tt,
		pv:      newPvTable(),
		history: new(historyTable),
	}
	eng.SetPosition(pos)
	return eng
}

// SetPosition sets the current position. If pos is nil, the starting
// position is set.
func (eng *Engine) SetPosition(pos *Position) {
	if pos != nil {
		eng.Position = pos
	} else {
		eng.Position = NewPosition()
	}
}

// DoMove plays m on the engine's current position, e.g. to apply the
// move Play chose before searching the next one.
func (eng *Engine) DoMove(m Move) {
	eng.Position.Make(m)
}

// Score evaluates the current position from the side to move's POV.
func (eng *Engine) Score() int32 {
	score := Evaluate(eng.Position)
	if eng.Position.SideToMove == Black {
		score = -score
	}
	return score
}

// ply returns the ply count since the search started.
func (eng *Engine) ply() int32 {
	return int32(len(eng.Position.history) - eng.rootPly)
}

// endPosition reports a drawn position's score, or false if the game is
// still undecided by anything other than the absence of legal moves
// (checkmate/stalemate are detected by the move loop in searchTree).
func (eng *Engine) endPosition() (int32, bool) {
	pos := eng.Position
	if pos.InsufficientMaterial() {
		return 0, true
	}
	if pos.FiftyMoveRule() {
		return 0, true
	}
	if pos.IsThreeFoldRepetition() {
		return 0, true
	}
	return 0, false
}

func (eng *Engine) killerMoves(ply int32) (Move, Move) {
	if ply < 0 || ply >= maxKillerPly {
		return NullMove, NullMove
	}
	k := &eng.killers[ply]
	return k[0], k[1]
}

func (eng *Engine) saveKiller(ply int32, m Move) {
	if ply < 0 || ply >= maxKillerPly || m == NullMove {
		return
	}
	k := &eng.killers[ply]
	if m != k[0] {
		k[1] = k[0]
		k[0] = m
	}
}

func (eng *Engine) moveOrderScore(m, hash, k0, k1 Move) int32 {
	switch {
	case m == hash:
		return 1 << 30
	case m.Flags.Is(FlagPromotion):
		return 1<<20 + mvvlvaBonus[m.Promoted.Figure()]*64
	case m.Flags.Is(FlagCapture):
		return 1<<20 + mvvlvaBonus[m.Captured.Figure()]*64 - mvvlvaBonus[m.Piece.Figure()]
	case m == k0:
		return 1 << 19
	case m == k1:
		return 1<<19 - 1
	default:
		return eng.history.get(m)
	}
}

func (eng *Engine) orderMoves(moves []Move, hash Move, ply int32) {
	k0, k1 := eng.killerMoves(ply)
	for i := range moves {
		moves[i].Score = eng.moveOrderScore(moves[i], hash, k0, k1)
	}
	sortMoves(moves)
	// Clear the ordering scores again so that the moves stored in the
	// tables compare equal to freshly generated ones.
	for i := range moves {
		moves[i].Score = 0
	}
}

// searchQuiescence evaluates the position after resolving all captures
// that aren't clearly losing. Like the teacher, it assumes move
// ordering puts any king-winning capture first and never considers
// checks.
func (eng *Engine) searchQuiescence(alpha, beta int32) int32 {
	eng.Stats.Nodes++
	pos := eng.Position

	static := eng.Score()
	if static >= beta {
		return static
	}
	localAlpha := alpha
	if static > localAlpha {
		localAlpha = static
	}

	moves := GenerateMoves(pos)
	captures := moves[:0:0]
	for _, m := range moves {
		if m.IsViolent() {
			captures = append(captures, m)
		}
	}
	eng.orderMoves(captures, NullMove, eng.ply())

	for _, m := range captures {
		if m.Flags.Is(FlagCapture) && seeSign(pos, m) {
			continue
		}
		pos.Make(m)
		score := -eng.searchQuiescence(-beta, -localAlpha)
		pos.Undo(m)

		if score >= beta {
			return score
		}
		if score > localAlpha {
			localAlpha = score
		}
	}
	return localAlpha
}

// searchTree implements the negamax/PVS framework. It fails soft: the
// score returned can lie outside [alpha, beta].
//
//	score <= alpha: the search failed low, score is an upper bound.
//	score >= beta:  the search failed high, score is a lower bound.
//	otherwise:      score is exact.
func (eng *Engine) searchTree(alpha, beta, depth int32) int32 {
	pos := eng.Position
	ply := eng.ply()
	pvNode := beta-alpha > 1

	eng.Stats.Nodes++
	if !eng.stopped && eng.Stats.Nodes >= eng.checkpoint {
		eng.checkpoint = eng.Stats.Nodes + checkpointStep
		if eng.timeControl.Stopped() {
			eng.stopped = true
		}
	}
	if eng.stopped {
		return alpha
	}
	if pvNode && ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = ply
	}

	if score, done := eng.endPosition(); done {
		if ply != 0 || score != 0 {
			return score
		}
	}
	if MateScore-ply <= alpha {
		return KnownWinScore
	}
	if depth <= 0 {
		return eng.searchQuiescence(alpha, beta)
	}

	hashMove := NullMove
	if score, move, kind, found := eng.TT.Probe(pos, int(depth)); found {
		if CutOff(kind, score, alpha, beta) {
			if alpha < score && score < beta {
				eng.pv.Put(pos, move)
			}
			eng.Stats.CacheHit++
			return score
		}
		hashMove = move
	} else {
		eng.Stats.CacheMiss++
		hashMove = move
	}

	moves := GenerateMoves(pos)
	if len(moves) == 0 {
		if pos.IsChecked() {
			return MatedScore + ply
		}
		return 0
	}
	eng.orderMoves(moves, hashMove, ply)

	localAlpha := alpha
	kind := nodeAll

	// The first move is always searched sequentially and on a full
	// window: it is the hash/PV move that ordering put first, and PVS
	// only gets to skip full-window searches on moves it expects to be
	// refuted. Only once it has narrowed the window are the remaining
	// (expected-to-fail-low) siblings safe to search in parallel — the
	// "young brothers wait" condition.
	pos.Make(moves[0])
	score := -eng.searchTree(-beta, -localAlpha, depth-1)
	pos.Undo(moves[0])
	if eng.stopped {
		return localAlpha
	}

	bestMove, bestScore := moves[0], score
	if score > localAlpha {
		localAlpha = score
		kind = nodePV
	}
	if localAlpha >= beta {
		kind = nodeCut
		if moves[0].IsQuiet() {
			eng.saveKiller(ply, moves[0])
			eng.history.add(moves[0], depth*depth)
		}
	}

	rest := moves[1:]
	if localAlpha < beta && len(rest) > 0 {
		if eng.Workers != nil && depth >= splitMinDepth && len(rest) > 1 {
			splitScore, splitMove, cutoff := eng.searchSplit(rest, localAlpha, beta, depth)
			if eng.stopped {
				return localAlpha
			}
			if splitScore > bestScore {
				bestMove, bestScore = splitMove, splitScore
			}
			if splitScore > localAlpha {
				localAlpha = splitScore
				kind = nodePV
			}
			if cutoff {
				if splitMove.IsQuiet() {
					eng.saveKiller(ply, splitMove)
					eng.history.add(splitMove, depth*depth)
				}
				kind = nodeCut
			}
		} else {
			for _, m := range rest {
				pos.Make(m)
				score = -eng.searchTree(-localAlpha-1, -localAlpha, depth-1)
				if localAlpha < score && score < beta {
					score = -eng.searchTree(-beta, -localAlpha, depth-1)
				}
				pos.Undo(m)

				if eng.stopped {
					return localAlpha
				}
				if score > bestScore {
					bestMove, bestScore = m, score
				}
				if score > localAlpha {
					localAlpha = score
					kind = nodePV
				}
				if localAlpha >= beta {
					if m.IsQuiet() {
						eng.saveKiller(ply, m)
						eng.history.add(m, depth*depth)
					}
					kind = nodeCut
					break
				}
			}
		}
	}

	eng.TT.Add(pos, int(depth), bestScore, bestMove, kind)
	if alpha < bestScore && bestScore < beta {
		eng.pv.Put(pos, bestMove)
	}
	return bestScore
}

const (
	initialAspirationWindow = 21
	checkpointStep          = 10000
)

// search runs one iterative deepening step to depth, widening the
// aspiration window around estimated (the previous depth's score) until
// the result lands strictly inside it.
func (eng *Engine) search(depth, estimated int32) int32 {
	center, delta := estimated, int32(initialAspirationWindow)
	alpha, beta := center-delta, center+delta
	if alpha < -InfinityScore {
		alpha = -InfinityScore
	}
	if beta > InfinityScore {
		beta = InfinityScore
	}
	if depth < 4 {
		alpha, beta = -InfinityScore, InfinityScore
	}

	score := estimated
	for !eng.stopped {
		score = eng.searchTree(alpha, beta, depth)
		switch {
		case score <= alpha:
			alpha -= delta
			if alpha < -InfinityScore {
				alpha = -InfinityScore
			}
			delta += delta / 2
		case score >= beta:
			beta += delta
			if beta > InfinityScore {
				beta = InfinityScore
			}
			delta += delta / 2
		default:
			return score
		}
	}
	return score
}

// Play searches tc.Depth plies deep or until tc runs out of time and
// returns the principal variation: moves[0] is the best move found.
// tc must already be started.
func (eng *Engine) Play(tc *TimeControl) (moves []Move) {
	eng.Log.BeginSearch()
	eng.Stats = Stats{Depth: -1}

	eng.rootPly = len(eng.Position.history)
	eng.timeControl = tc
	eng.stopped = false
	eng.checkpoint = checkpointStep
	eng.TT.NewGeneration()

	score := int32(0)
	for depth := int32(0); depth < 64; depth++ {
		if !tc.NextDepth(int(depth)) {
			break
		}
		eng.Stats.Depth = depth
		score = eng.search(depth, score)
		if !eng.stopped {
			moves = eng.pv.Get(eng.Position)
			eng.Log.PrintPV(eng.Stats, score, moves)
		}
	}

	eng.Log.EndSearch()
	return moves
}
