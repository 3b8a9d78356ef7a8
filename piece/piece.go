// Package piece implements the per-piece deduction engine: the data model
// of a single tracked piece (spec.md §3) and the fixed-point algorithm that
// tightens its admissible moves, reachable squares, required move/capture
// counts, and cross-piece blocking relationships (spec.md §4).
//
// Every mutator is monotone: it either strictly tightens a field and sets
// the Update dirty flag, or is a no-op. That invariant is what lets the
// driver's "repeat until no Piece reports Update" loop terminate: the
// lattice of (glyphs, squares, moves, bounds) each Piece lives in is
// finite, so a process that only ever shrinks it must reach a fixed point.
package piece

import (
	"github.com/samber/lo"

	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/problem"
	"github.com/euclide-go/euclide/square"
	"github.com/euclide-go/euclide/tables"
)

// Infinity stands in for "unreachable" in distance/capture-count vectors.
// It is kept well below the int overflow line so distances+1 arithmetic
// never wraps.
const Infinity = 1 << 28

// occupancy carries, for one square a Piece might occupy, the set of other
// squares that are provably also occupied at that moment, and which Piece
// occupies each of them. Populated and transitively closed by
// MutualInteractions / Update step 8 (spec.md §4.2 step 8, §9 "ownership of
// occupancy facts").
type occupancy struct {
	squares square.Squares
	owners  [square.NumSquares]*Piece
}

// Piece is one tracked occupant of the initial position, live for the
// whole deduction phase of a single problem.
type Piece struct {
	glyph   square.Glyph
	color   square.Color
	species square.Species
	royal   bool

	initialSquare  square.Square
	castlingSquare square.Square
	finalSquare    square.Square

	captured square.Tristate
	promoted square.Tristate

	glyphs square.Glyphs

	availableMoves    int
	availableCaptures int
	requiredMoves     int
	requiredCaptures  int

	possibleSquares  square.Squares
	possibleCaptures square.Squares

	moves [square.NumSquares]square.Squares

	distances    [square.NumSquares]int
	rdistances   [square.NumSquares]int
	captureDist  [square.NumSquares]int
	rcaptureDist [square.NumSquares]int

	stops   square.Squares
	route   square.Squares
	threats square.Squares

	occupied [square.NumSquares]occupancy

	castling [square.NumCastlingSides]square.Tristate

	update bool

	table   *tables.MoveTable
	variant tables.Variant
}

// New constructs the Piece standing on sq in problem's initial position,
// mirroring the original constructor field for field (spec.md pieces.cpp).
func New(p *problem.Problem, sq square.Square) *Piece {
	glyph := p.InitialPosition(sq)
	euclerr.Assertf(!glyph.IsEmpty(), "piece.New: square %s is empty in the initial position", sq)

	pc := &Piece{
		glyph:   glyph,
		color:   glyph.Color(),
		species: p.Piece(glyph),
		variant: p.Variant,
	}
	pc.royal = pc.species == square.King

	pc.initialSquare = sq
	pc.castlingSquare = sq
	pc.finalSquare = square.NoSquare

	if pc.royal || !p.CapturedPieces(pc.color) {
		pc.captured = square.False
	} else {
		pc.captured = square.Unknown
	}
	if pc.species == square.Pawn {
		pc.promoted = square.Unknown
	} else {
		pc.promoted = square.False
	}

	pc.glyphs = pc.glyphs.Set(pc.glyph, true)
	if square.Maybe(pc.captured) {
		pc.glyphs = pc.glyphs.Set(square.Empty, true)
	}
	if square.Maybe(pc.promoted) {
		for g := square.Glyph(1); g < square.NumGlyphs; g++ {
			if g.Color() == pc.color {
				pc.glyphs = pc.glyphs.Set(g, true)
			}
		}
	}

	pc.availableMoves = p.Moves(pc.color)
	pc.availableCaptures = p.InitialPieces(pc.color.Opposite()) - p.DiagramPieces(pc.color.Opposite())

	pc.requiredMoves = 0
	pc.requiredCaptures = 0

	for _, dest := range square.AllSquares() {
		possible := square.Maybe(pc.captured) ||
			(p.DiagramPosition(dest) == pc.glyph) ||
			(square.Maybe(pc.promoted) && !p.DiagramPosition(dest).IsEmpty() && p.DiagramPosition(dest).Color() == pc.color)
		pc.possibleSquares = pc.possibleSquares.Set(dest, possible)
	}

	if pc.availableCaptures > 0 {
		pc.possibleCaptures = square.Mask[square.Square](square.NumSquares)
	}

	pc.table = tables.For(pc.species, pc.color, pc.variant)
	pc.moves = pc.table.M

	pc.stops = square.Mask[square.Square](square.NumSquares)
	pc.route = square.Mask[square.Square](square.NumSquares)

	for i := range pc.castling {
		pc.castling[i] = square.False
	}

	if pc.species == square.King {
		for _, side := range []square.CastlingSide{square.KingSide, square.QueenSide} {
			c := square.Castlings[pc.color][side]
			if pc.initialSquare == c.From && p.Castling(pc.color, side) {
				pc.moves[c.From] = pc.moves[c.From].Set(c.To, true)
				pc.castling[side] = square.Unknown
			}
		}
	}
	if pc.species == square.Rook {
		for _, side := range []square.CastlingSide{square.KingSide, square.QueenSide} {
			c := square.Castlings[pc.color][side]
			if pc.initialSquare == c.Rook && p.Castling(pc.color, side) {
				pc.castlingSquare = c.Free
				pc.castling[side] = square.Unknown
			}
		}
	}

	pc.update = true
	pc.Update()

	return pc
}

// --- Read-only queries exposed to the driver (spec.md §6) ---

func (pc *Piece) Glyph() square.Glyph     { return pc.glyph }
func (pc *Piece) Color() square.Color     { return pc.color }
func (pc *Piece) Species() square.Species { return pc.species }
func (pc *Piece) Royal() bool             { return pc.royal }

func (pc *Piece) InitialSquare() square.Square  { return pc.initialSquare }
func (pc *Piece) CastlingSquare() square.Square { return pc.castlingSquare }

// FinalSquare returns the piece's pinned destination square and whether one
// has been determined yet.
func (pc *Piece) FinalSquare() (square.Square, bool) {
	return pc.finalSquare, pc.finalSquare != square.NoSquare
}

func (pc *Piece) Captured() square.Tristate { return pc.captured }
func (pc *Piece) Promoted() square.Tristate { return pc.promoted }
func (pc *Piece) Glyphs() square.Glyphs     { return pc.glyphs }

func (pc *Piece) AvailableMoves() int    { return pc.availableMoves }
func (pc *Piece) AvailableCaptures() int { return pc.availableCaptures }
func (pc *Piece) RequiredMoves() int     { return pc.requiredMoves }
func (pc *Piece) RequiredCaptures() int  { return pc.requiredCaptures }

func (pc *Piece) PossibleSquares() square.Squares  { return pc.possibleSquares }
func (pc *Piece) PossibleCaptures() square.Squares { return pc.possibleCaptures }

// Moves returns the set of squares still reachable in one move from from.
func (pc *Piece) Moves(from square.Square) square.Squares { return pc.moves[from] }

func (pc *Piece) Distance(sq square.Square) int            { return pc.distances[sq] }
func (pc *Piece) ReverseDistance(sq square.Square) int      { return pc.rdistances[sq] }
func (pc *Piece) CaptureCount(sq square.Square) int         { return pc.captureDist[sq] }
func (pc *Piece) ReverseCaptureCount(sq square.Square) int  { return pc.rcaptureDist[sq] }

func (pc *Piece) Stops() square.Squares   { return pc.stops }
func (pc *Piece) Route() square.Squares   { return pc.route }
func (pc *Piece) Threats() square.Squares { return pc.threats }

func (pc *Piece) Castling(side square.CastlingSide) square.Tristate { return pc.castling[side] }

// Occupied returns the set of squares provably also occupied (by a named
// other Piece) when this Piece stands on sq, and a lookup of which Piece
// occupies each of them.
func (pc *Piece) Occupied(sq square.Square) (squares square.Squares, owner func(square.Square) *Piece) {
	o := &pc.occupied[sq]
	return o.squares, func(other square.Square) *Piece { return o.owners[other] }
}

func (pc *Piece) NeedsUpdate() bool { return pc.update }

func (pc *Piece) nmoves() int {
	return lo.SumBy(square.AllSquares(), func(from square.Square) int { return pc.moves[from].Count() })
}
