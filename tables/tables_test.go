package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/euclide-go/euclide/square"
)

func sq(file square.File, rank square.Rank) square.Square {
	return square.FromFileRank(file, rank)
}

func TestKnightMovesFromCorner(t *testing.T) {
	tbl := For(Knight, square.White, Orthodox)
	from := sq(square.FileA, 0)
	dests := tbl.M[from]
	assert.True(t, dests.Test(sq(square.FileB, 2)))
	assert.True(t, dests.Test(sq(square.FileC, 1)))
	assert.Equal(t, 2, dests.Count())
}

func TestRookSlideConstraints(t *testing.T) {
	tbl := For(Rook, square.White, Orthodox)
	from := sq(square.FileA, 0)
	to := sq(square.FileA, 3)
	assert.True(t, tbl.M[from].Test(to))
	constraint := tbl.C[from][to]
	assert.True(t, constraint.Test(sq(square.FileA, 1)))
	assert.True(t, constraint.Test(sq(square.FileA, 2)))
	assert.False(t, constraint.Test(to))
	assert.False(t, constraint.Test(from))
}

func TestPawnDoubleStepAndCaptures(t *testing.T) {
	tbl := For(Pawn, square.White, Orthodox)
	from := sq(square.FileE, 1)
	one := sq(square.FileE, 2)
	two := sq(square.FileE, 3)

	assert.True(t, tbl.M[from].Test(one))
	assert.True(t, tbl.M[from].Test(two))
	assert.True(t, tbl.C[from][two].Test(one))

	require := tbl.Mx
	assert.NotNil(t, require)
	assert.False(t, (*require)[from].Test(one))

	captureLeft := sq(square.FileD, 2)
	assert.True(t, tbl.M[from].Test(captureLeft))
	assert.True(t, (*require)[from].Test(captureLeft))
}

func TestPawnNoDoubleStepOffStartingRank(t *testing.T) {
	tbl := For(Pawn, square.White, Orthodox)
	from := sq(square.FileE, 2)
	two := sq(square.FileE, 4)
	assert.False(t, tbl.M[from].Test(two))
}

func TestKingCheckTableIsStepPattern(t *testing.T) {
	tbl := For(King, square.White, Orthodox)
	from := sq(square.FileE, 3)
	assert.Equal(t, tbl.M[from], tbl.K[from])
}

func TestTablesAreCached(t *testing.T) {
	a := For(Queen, square.Black, Orthodox)
	b := For(Queen, square.Black, Orthodox)
	assert.Same(t, a, b)
}
