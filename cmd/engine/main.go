// Command engine is a thin driver over the search core: it reads a FEN
// from argv or stdin, searches it to a bounded depth, and prints the best
// move in UCI move-string format plus a one-line principal variation. It
// is deliberately not a UCI protocol implementation — see zurichess/ for
// that.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fenwick-tillo/chesscore/engine"
)

var (
	fen      = flag.String("fen", "", "position to search; reads stdin if empty")
	depth    = flag.Int("depth", 8, "maximum depth to search")
	hashMB   = flag.Int("hash", 64, "transposition table size in MB")
	parallel = flag.Int("workers", 0, "parallel search slave count (0 disables splitting)")
)

func readFEN() (string, error) {
	if *fen != "" {
		return *fen, nil
	}
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	line, err := readFEN()
	if err != nil {
		log.Fatalf("cannot read FEN: %v", err)
	}
	if line == "" {
		line = engine.FENStartPos
	}

	pos, err := engine.PositionFromFEN(line)
	if err != nil {
		log.Fatalf("malformed FEN %q: %v", line, err)
	}

	tt := engine.NewTranspositionTable(*hashMB)
	eng := engine.NewEngine(pos, tt, nil, engine.Options{})
	if *parallel > 0 {
		eng.Workers = engine.NewWorkerRegistry(*parallel, tt)
	}

	tc := engine.NewFixedDepthTimeControl(pos, *depth)
	tc.Start(false)
	pv := eng.Play(tc)

	if len(pv) == 0 {
		fmt.Println("bestmove (none)")
		return
	}

	var sb strings.Builder
	for i, m := range pv {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.UCI())
	}
	fmt.Printf("bestmove %s\n", pv[0].UCI())
	fmt.Printf("pv %s\n", sb.String())
}
