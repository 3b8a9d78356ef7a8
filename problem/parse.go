package problem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/square"
	"github.com/euclide-go/euclide/tables"
)

// Parse builds a Problem from a Forsythe-like notation string:
//
//	<initial position> <diagram position> <half-move budget> <castling flags> <variant>
//
// Positions are FEN board fields (ranks 8..1, '/'-separated, piece letters
// KQRBNP upper for White / lower for Black, digits for empty-square runs).
// Castling flags are a FEN-style subset of "KQkq", or "-" for none. Variant
// is currently always "orthodox". Malformed input raises
// euclerr.IncorrectInput rather than reaching the deduction core, mirroring
// the teacher's cgp.ParseCGP field-splitting and explicit field-count
// validation.
func Parse(forsythe string) (*Problem, error) {
	fields := strings.Fields(forsythe)
	if len(fields) != 5 {
		return nil, incorrect("expected 5 space-separated fields, got %d", len(fields))
	}

	initial, err := parseBoard(fields[0])
	if err != nil {
		return nil, err
	}
	diagram, err := parseBoard(fields[1])
	if err != nil {
		return nil, err
	}

	halfMoves, err := strconv.Atoi(fields[2])
	if err != nil || halfMoves < 0 {
		return nil, incorrect("invalid half-move budget %q", fields[2])
	}

	castle, err := parseCastling(fields[3])
	if err != nil {
		return nil, err
	}

	variant, err := parseVariant(fields[4])
	if err != nil {
		return nil, err
	}

	p := &Problem{
		Initial:   initial,
		Diagram:   diagram,
		HalfMoves: halfMoves,
		Castle:    castle,
		Variant:   variant,
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func parseBoard(field string) ([square.NumSquares]square.Glyph, error) {
	var position [square.NumSquares]square.Glyph

	rows := strings.Split(field, "/")
	if len(rows) != square.NumRanks {
		return position, incorrect("position %q must have %d ranks, got %d", field, square.NumRanks, len(rows))
	}

	for i, row := range rows {
		rank := square.Rank(square.NumRanks - 1 - i)
		file := square.FileA
		for _, r := range row {
			if file >= square.NumFiles {
				return position, incorrect("rank %q overflows the board", row)
			}
			if r >= '1' && r <= '8' {
				file += square.File(r - '0')
				continue
			}
			glyph, err := glyphFromLetter(r)
			if err != nil {
				return position, err
			}
			position[square.FromFileRank(file, rank)] = glyph
			file++
		}
		if file != square.NumFiles {
			return position, incorrect("rank %q does not cover %d files", row, square.NumFiles)
		}
	}
	return position, nil
}

func glyphFromLetter(r rune) (square.Glyph, error) {
	color := square.White
	letter := r
	if r >= 'a' && r <= 'z' {
		color = square.Black
		letter = r - ('a' - 'A')
	}
	species, ok := map[rune]square.Species{
		'K': square.King, 'Q': square.Queen, 'R': square.Rook,
		'B': square.Bishop, 'N': square.Knight, 'P': square.Pawn,
	}[letter]
	if !ok {
		return square.Empty, incorrect("unrecognised piece letter %q", r)
	}
	return square.NewGlyph(color, species), nil
}

func parseCastling(field string) ([square.NumColors][square.NumCastlingSides]bool, error) {
	var c [square.NumColors][square.NumCastlingSides]bool
	if field == "-" {
		return c, nil
	}
	for _, r := range field {
		switch r {
		case 'K':
			c[square.White][square.KingSide] = true
		case 'Q':
			c[square.White][square.QueenSide] = true
		case 'k':
			c[square.Black][square.KingSide] = true
		case 'q':
			c[square.Black][square.QueenSide] = true
		default:
			return c, incorrect("unrecognised castling flag %q", r)
		}
	}
	return c, nil
}

func parseVariant(field string) (tables.Variant, error) {
	switch strings.ToLower(field) {
	case "orthodox", "":
		return tables.Orthodox, nil
	default:
		return 0, incorrect("unsupported variant %q", field)
	}
}

// validate enforces the structural preconditions the deduction core relies
// on: exactly one king per color, a piece count that cannot grow between
// the initial position and the diagram, and castling flags that are only
// set when the relevant king and rook still occupy their home squares in
// the initial position.
func validate(p *Problem) error {
	for _, color := range []square.Color{square.White, square.Black} {
		kings := 0
		for _, g := range p.Initial {
			if !g.IsEmpty() && g.Color() == color && g.Species() == square.King {
				kings++
			}
		}
		if kings != 1 {
			return incorrect("%v must have exactly one king in the initial position, found %d", color, kings)
		}
		if p.DiagramPieces(color) > p.InitialPieces(color) {
			return incorrect("%v has more pieces in the diagram than initially", color)
		}

		for _, side := range []square.CastlingSide{square.KingSide, square.QueenSide} {
			if !p.Castle[color][side] {
				continue
			}
			c := square.Castlings[color][side]
			if p.Initial[c.From] != square.NewGlyph(color, square.King) {
				return incorrect("%v cannot castle %v: king not on its home square", color, side)
			}
			if p.Initial[c.Rook] != square.NewGlyph(color, square.Rook) {
				return incorrect("%v cannot castle %v: rook not on its home square", color, side)
			}
		}
	}
	return nil
}

func incorrect(format string, args ...any) error {
	return fmt.Errorf("%w: %s", euclerr.IncorrectInput, fmt.Sprintf(format, args...))
}
