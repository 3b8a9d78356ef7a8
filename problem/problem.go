// Package problem builds a Problem — the external input the deduction
// core consumes (spec.md §6) — from parsed position data, and validates
// it, raising euclerr.IncorrectInput on malformed input rather than
// letting bad data reach the deduction core.
package problem

import (
	"github.com/euclide-go/euclide/square"
	"github.com/euclide-go/euclide/tables"
)

// Problem is the input to one deduction run: a starting position, a target
// diagram, a half-move budget, per-color castling availability, and a
// variant tag.
type Problem struct {
	Initial  [square.NumSquares]square.Glyph
	Diagram  [square.NumSquares]square.Glyph
	HalfMoves int
	Castle   [square.NumColors][square.NumCastlingSides]bool
	Variant  tables.Variant
}

// InitialPosition returns the glyph occupying sq in the starting position.
func (p *Problem) InitialPosition(sq square.Square) square.Glyph { return p.Initial[sq] }

// DiagramPosition returns the glyph occupying sq in the target diagram.
func (p *Problem) DiagramPosition(sq square.Square) square.Glyph { return p.Diagram[sq] }

// Moves returns color's share of the half-move budget: White plays the
// ceiling half, Black the floor half, since White is assumed to move
// first from the initial position (spec.md §6 "derived: N split by
// parity").
func (p *Problem) Moves(color square.Color) int {
	if color == square.White {
		return (p.HalfMoves + 1) / 2
	}
	return p.HalfMoves / 2
}

// Castling reports whether color may still castle on side per the problem's
// input flags.
func (p *Problem) Castling(color square.Color, side square.CastlingSide) bool {
	return p.Castle[color][side]
}

// InitialPieces counts color's occupants in the starting position.
func (p *Problem) InitialPieces(color square.Color) int {
	return countColor(p.Initial, color)
}

// DiagramPieces counts color's occupants in the target diagram.
func (p *Problem) DiagramPieces(color square.Color) int {
	return countColor(p.Diagram, color)
}

// CapturedPieces reports whether color lost at least one piece between the
// starting position and the diagram (spec.md pieces.cpp: a piece is born
// possibly-captured only if its side has lost material overall).
func (p *Problem) CapturedPieces(color square.Color) bool {
	return p.InitialPieces(color) > p.DiagramPieces(color)
}

// Piece returns the species a glyph represents.
func (p *Problem) Piece(g square.Glyph) square.Species { return g.Species() }

func countColor(position [square.NumSquares]square.Glyph, color square.Color) int {
	count := 0
	for _, g := range position {
		if !g.IsEmpty() && g.Color() == color {
			count++
		}
	}
	return count
}
