package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euclide-go/euclide/piece"
	"github.com/euclide-go/euclide/problem"
	"github.com/euclide-go/euclide/square"
)

func TestParseSquareRoundTrips(t *testing.T) {
	sq, err := parseSquare("e4")
	require.NoError(t, err)
	assert.Equal(t, square.FromFileRank(square.FileE, 3), sq)
	assert.Equal(t, "e4", sq.String())
}

func TestParseSquareRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "e", "z9", "e0", "e9"} {
		_, err := parseSquare(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestDescribePieceMentionsColorAndSquares(t *testing.T) {
	orthodoxStart := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
	p, err := problem.Parse(orthodoxStart + " " + orthodoxStart + " 0 KQkq orthodox")
	require.NoError(t, err)

	pc := piece.New(p, square.FromFileRank(square.FileE, 1))
	desc := describePiece(pc)
	assert.Contains(t, desc, "white")
	assert.Contains(t, desc, "e2")
}

func TestDispatchReturnsErrQuitOnQuit(t *testing.T) {
	c := &Controller{}
	err := c.dispatch("quit")
	assert.Equal(t, errQuit, err)
}

func TestDispatchRejectsUnknownCommand(t *testing.T) {
	c := &Controller{}
	err := c.dispatch("frobnicate")
	assert.Error(t, err)
}
