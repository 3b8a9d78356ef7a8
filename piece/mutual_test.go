package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euclide-go/euclide/square"
)

func TestMutualInteractionsSkipsDisjointRoutes(t *testing.T) {
	p := mustParse(t, orthodoxStart+" "+orthodoxStart+" 0 KQkq orthodox")
	whiteRook := New(p, square.FromFileRank(square.FileA, 0))
	blackRook := New(p, square.FromFileRank(square.FileA, 7))

	before := whiteRook.RequiredMoves() + blackRook.RequiredMoves()

	required, err := MutualInteractions(whiteRook, blackRook, [square.NumColors]int{10, 10}, true)
	require.NoError(t, err)
	assert.Equal(t, before, required)
}

func TestMutualInteractionsFastModeOnInteractingPieces(t *testing.T) {
	p := mustParse(t, orthodoxStart+" "+orthodoxStart+" 4 KQkq orthodox")
	whiteKnight := New(p, square.FromFileRank(square.FileB, 0))
	whiteBishop := New(p, square.FromFileRank(square.FileC, 0))

	required, err := MutualInteractions(whiteKnight, whiteBishop, [square.NumColors]int{3, 3}, true)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, required, 0)
	assert.Less(t, required, Infinity)
}
