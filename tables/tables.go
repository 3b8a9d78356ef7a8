// Package tables builds the static, per-(species,color,variant) move
// tables the deduction core treats as read-only input: the legal-move
// adjacency M, the capture-only adjacency Mx, the per-move constraint
// bitboards C/Cx (squares that must be empty), and the unstoppable-check
// table K. Tables are geometric and depend only on board topology, so they
// are computed once per (species,color,variant) and shared by every Piece
// that needs them.
package tables

import (
	"github.com/euclide-go/euclide/cache"
	"github.com/euclide-go/euclide/square"
)

// Variant names a chess variant's move geometry. Orthodox is the only one
// implemented; the type is an extension point for fairy-piece variants the
// specification allows but this deduction core does not yet implement.
type Variant int

const Orthodox Variant = 0

// MoveTable holds the static move data for one (species, color, variant).
type MoveTable struct {
	// M[from] is the set of squares reachable from from in one move,
	// including captures, excluding castling (Piece wires castling in).
	M [square.NumSquares]square.Squares

	// Mx[from] is non-nil only for species whose moves are split into
	// capture and non-capture variants (pawns): the subset of M[from]
	// that may only be played as a capture.
	Mx *[square.NumSquares]square.Squares

	// C[from][to] is the set of squares that must be empty for the move
	// from->to to be legal (the transited squares of a sliding move; empty
	// for knight and king moves).
	C [square.NumSquares][square.NumSquares]square.Squares

	// Cx[from][to] is the constraint set to use when the move is played
	// with capturing intent. For every species this deduction core models,
	// a capturing move's transit requirement is identical to a quiet move's
	// (no variant implements en passant's extra vacated-square rule), so Cx
	// always equals C; the field is kept distinct because the design names
	// two flavours and a future variant may need to diverge them.
	Cx [square.NumSquares][square.NumSquares]square.Squares

	// K[sq] is the unstoppable-check set: squares on which a piece of this
	// species/color standing on sq attacks an enemy royal, ignoring
	// blockers.
	K [square.NumSquares]square.Squares
}

type key struct {
	species square.Species
	color   square.Color
	variant Variant
}

var objects = cache.New[key, *MoveTable]()

// For returns the static move table for (species, color, variant), building
// it on first use. The result is shared and must never be mutated by
// callers.
func For(species square.Species, color square.Color, variant Variant) *MoveTable {
	k := key{species, color, variant}
	t, _ := objects.Get(k, func(k key) (*MoveTable, error) {
		return build(k.species, k.color, k.variant), nil
	})
	return t
}

type offset struct{ df, dr int }

var (
	kingOffsets   = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffsets = []offset{{1, 2}, {2, 1}, {-1, 2}, {-2, 1}, {1, -2}, {2, -1}, {-1, -2}, {-2, -1}}
	rookDirs      = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs     = append(append([]offset{}, rookDirs...), bishopDirs...)
)

func build(species square.Species, color square.Color, variant Variant) *MoveTable {
	t := &MoveTable{}

	switch species {
	case King:
		buildSteps(t, kingOffsets)
	case Knight:
		buildSteps(t, knightOffsets)
	case Rook:
		buildSlides(t, rookDirs)
	case Bishop:
		buildSlides(t, bishopDirs)
	case Queen:
		buildSlides(t, queenDirs)
	case Pawn:
		buildPawn(t, color)
	}

	buildChecks(t, species)
	return t
}

// Re-export square.Species values under tables-local names so callers don't
// need two imports for the common case of tables.For(tables.King, ...).
const (
	King   = square.King
	Queen  = square.Queen
	Rook   = square.Rook
	Bishop = square.Bishop
	Knight = square.Knight
	Pawn   = square.Pawn
)

func buildSteps(t *MoveTable, offsets []offset) {
	for _, from := range square.AllSquares() {
		for _, o := range offsets {
			to, ok := step(from, o)
			if !ok {
				continue
			}
			t.M[from] = t.M[from].Set(to, true)
			// No intervening squares for a single step.
		}
	}
}

func buildSlides(t *MoveTable, dirs []offset) {
	for _, from := range square.AllSquares() {
		for _, d := range dirs {
			path := square.Squares(0)
			cur := from
			for {
				next, ok := step(cur, d)
				if !ok {
					break
				}
				t.M[from] = t.M[from].Set(next, true)
				t.C[from][next] = path
				t.Cx[from][next] = path
				path = path.Set(next, true)
				cur = next
			}
		}
	}
}

func buildPawn(t *MoveTable, color square.Color) {
	mx := &[square.NumSquares]square.Squares{}
	dir := color.PawnDirection()

	for _, from := range square.AllSquares() {
		r := int(from.Rank())

		// Single step forward (never a capture).
		if one, ok := stepRank(from, dir); ok {
			t.M[from] = t.M[from].Set(one, true)

			// Double step from the starting rank, with the intervening
			// square required to be empty.
			if square.Rank(r) == color.PawnStartRank() {
				if two, ok := stepRank(from, 2*dir); ok {
					t.M[from] = t.M[from].Set(two, true)
					t.C[from][two] = t.C[from][two].Set(one, true)
					t.Cx[from][two] = t.C[from][two]
				}
			}
		}

		// Diagonal captures.
		for _, df := range []int{-1, 1} {
			to, ok := step(from, offset{df, dir})
			if !ok {
				continue
			}
			t.M[from] = t.M[from].Set(to, true)
			mx[from] = mx[from].Set(to, true)
		}
	}

	t.Mx = mx
}

func buildChecks(t *MoveTable, species square.Species) {
	for _, from := range square.AllSquares() {
		if t.Mx != nil {
			t.K[from] = t.Mx[from]
		} else {
			t.K[from] = t.M[from]
		}
	}
}

func step(from square.Square, o offset) (square.Square, bool) {
	f := int(from.File()) + o.df
	r := int(from.Rank()) + o.dr
	if f < 0 || f >= square.NumFiles || r < 0 || r >= square.NumRanks {
		return 0, false
	}
	return square.FromFileRank(square.File(f), square.Rank(r)), true
}

func stepRank(from square.Square, dr int) (square.Square, bool) {
	return step(from, offset{0, dr})
}
