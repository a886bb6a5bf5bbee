// epd.go implements parsing and formatting of positions in Extended
// Position Description notation, FEN plus an optional opcode tail
// (best move, id, free-form comment).
//
// Grounded on the teacher's epd.go/epd_ast.go for the EPD vocabulary
// (bm/id/c0 opcodes) and the FEN formatting helpers, but hand-rolled as
// a straight-line tokenizer instead of the teacher's yacc grammar: the
// retrieval pack never included the generated lexer/parser that
// epd_parser.y depends on, so that implementation could never have
// compiled as checked in.
package engine

import (
	"fmt"
	"strings"
)

// EPD is a parsed Extended Position Description line.
type EPD struct {
	Position *Position
	Id       string
	BestMove []Move
	Comment  map[string]string
}

// ParseFEN parses a bare FEN string (no opcodes) and returns an EPD
// wrapping the resulting position.
func ParseFEN(line string) (*EPD, error) {
	pos, err := PositionFromFEN(line)
	if err != nil {
		return nil, err
	}
	return &EPD{Position: pos, Comment: make(map[string]string)}, nil
}

// ParseEPD parses a FEN string followed by semicolon-terminated EPD
// opcodes, e.g. `... w - - bm Qd2 Qe1; id "BK.14";`.
func ParseEPD(line string) (*EPD, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("epd line too short: %q", line)
	}
	pos, err := PositionFromFEN(strings.Join(fields[:4], " "))
	if err != nil {
		return nil, err
	}
	epd := &EPD{Position: pos, Comment: make(map[string]string)}

	rest := strings.Join(fields[4:], " ")
	for _, op := range strings.Split(rest, ";") {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		fields := strings.Fields(op)
		opcode, args := fields[0], strings.TrimSpace(op[len(fields[0]):])

		switch opcode {
		case "bm":
			for _, san := range strings.Fields(args) {
				m, err := pos.SANToMove(san)
				if err != nil {
					return nil, fmt.Errorf("bad best move %q: %v", san, err)
				}
				epd.BestMove = append(epd.BestMove, m)
			}
		case "id":
			epd.Id = strings.Trim(args, `"`)
		default:
			epd.Comment[opcode] = strings.Trim(args, `"`)
		}
	}
	return epd, nil
}

func (e *EPD) String() string {
	s := e.Position.String()
	for _, bm := range e.BestMove {
		s += " bm " + bm.UCI() + ";"
	}
	if e.Id != "" {
		s += ` id "` + e.Id + `";`
	}
	for k, v := range e.Comment {
		s += " " + k + ` "` + v + `";`
	}
	return s
}
