package piece

import "github.com/euclide-go/euclide/square"

// SetCastling pins castling availability on side. A no-op once side's
// tristate has already settled (spec.md §7: "setters must reject
// transitions away from a settled value").
func (pc *Piece) SetCastling(side square.CastlingSide, castling bool) {
	if pc.castling[side] != square.Unknown {
		return
	}

	if castling && pc.royal {
		for _, other := range []square.CastlingSide{square.KingSide, square.QueenSide} {
			if other != side {
				pc.SetCastling(other, false)
			}
		}
	}

	if !castling {
		if pc.royal {
			c := square.Castlings[pc.color][side]
			pc.moves[c.From] = pc.moves[c.From].Set(c.To, false)
		}
		pc.castlingSquare = pc.initialSquare
	}

	if castling {
		pc.castling[side] = square.True
	} else {
		pc.castling[side] = square.False
	}
	pc.update = true
}

// SetCaptured pins whether this piece was ever captured.
func (pc *Piece) SetCaptured(captured bool) {
	if pc.captured != square.Unknown {
		return
	}
	if captured {
		pc.captured = square.True
	} else {
		pc.captured = square.False
	}
	pc.update = true
}

// SetPromoted pins whether this piece was ever promoted.
func (pc *Piece) SetPromoted(promoted bool) {
	if pc.promoted != square.Unknown {
		return
	}
	if promoted {
		pc.promoted = square.True
	} else {
		pc.promoted = square.False
	}
	pc.update = true
}

// SetAvailableMoves tightens the upper bound on moves this piece may still
// play. A no-op unless it strictly lowers the bound.
func (pc *Piece) SetAvailableMoves(n int) {
	if n >= pc.availableMoves {
		return
	}
	pc.availableMoves = n
	pc.update = true
}

// SetAvailableCaptures tightens the upper bound on captures this piece may
// still perform.
func (pc *Piece) SetAvailableCaptures(n int) {
	if n >= pc.availableCaptures {
		return
	}
	pc.availableCaptures = n
	pc.update = true
}

// SetPossibleSquares intersects the admissible final-square set with
// squares. A no-op unless it strictly shrinks the set.
func (pc *Piece) SetPossibleSquares(squares square.Squares) {
	if squares.Contains(pc.possibleSquares) {
		return
	}
	pc.possibleSquares = pc.possibleSquares.And(squares)
	pc.update = true
}

// SetPossibleCaptures intersects the admissible capture-square set with
// squares.
func (pc *Piece) SetPossibleCaptures(squares square.Squares) {
	if squares.Contains(pc.possibleCaptures) {
		return
	}
	pc.possibleCaptures = pc.possibleCaptures.And(squares)
	pc.update = true
}
