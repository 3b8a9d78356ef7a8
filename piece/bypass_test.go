package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euclide-go/euclide/square"
)

// A direct a1-c1 rook slide passes over a knight permanently pinned to b1;
// once the knight is known to block that transit square, BypassObstacles
// forces a three-move detour around it (a1-a2-c2-c1).
func TestBypassObstaclesForcesRookDetourAroundPinnedKnight(t *testing.T) {
	initial := "4k3/8/8/8/8/8/8/Rn2K3"
	diagram := "4k3/8/8/8/8/8/8/1nR1K3"
	p := mustParse(t, initial+" "+diagram+" 6 - orthodox")

	rook := New(p, square.FromFileRank(square.FileA, 0))
	knight := New(p, square.FromFileRank(square.FileB, 0))
	require.Equal(t, 1, rook.RequiredMoves(), "a1 to c1 is one direct rook slide before the knight is known to block it")

	knight.availableMoves = 0
	knight.update = true
	knight.Update()

	rook.BypassObstacles(knight)
	rook.Update()

	assert.Equal(t, 3, rook.RequiredMoves())
	sq, ok := rook.FinalSquare()
	require.True(t, ok)
	assert.Equal(t, square.FromFileRank(square.FileC, 0), sq)
}
