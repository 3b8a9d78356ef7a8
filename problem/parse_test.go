package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/square"
)

const orthodoxStart = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

func TestParseOrthodoxStartAsBothPositions(t *testing.T) {
	p, err := Parse(orthodoxStart + " " + orthodoxStart + " 4 KQkq orthodox")
	require.NoError(t, err)

	assert.Equal(t, square.NewGlyph(square.White, square.Rook), p.InitialPosition(square.FromFileRank(square.FileA, 0)))
	assert.Equal(t, square.NewGlyph(square.Black, square.Pawn), p.InitialPosition(square.FromFileRank(square.FileA, 6)))
	assert.True(t, p.Initial[square.FromFileRank(square.FileE, 3)].IsEmpty())

	assert.Equal(t, 2, p.Moves(square.White))
	assert.Equal(t, 2, p.Moves(square.Black))
	assert.False(t, p.CapturedPieces(square.White))
	assert.True(t, p.Castling(square.White, square.KingSide))
}

func TestParseOddHalfMoveSplit(t *testing.T) {
	p, err := Parse(orthodoxStart + " " + orthodoxStart + " 5 - orthodox")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Moves(square.White))
	assert.Equal(t, 2, p.Moves(square.Black))
}

func TestParseRejectsWrongFieldCount(t *testing.T) {
	_, err := Parse(orthodoxStart + " " + orthodoxStart + " 4 KQkq")
	assert.ErrorIs(t, err, euclerr.IncorrectInput)
}

func TestParseRejectsMissingKing(t *testing.T) {
	noKing := "rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR"
	_, err := Parse(noKing + " " + noKing + " 0 - orthodox")
	assert.ErrorIs(t, err, euclerr.IncorrectInput)
}

func TestParseRejectsDiagramWithMorePiecesThanInitial(t *testing.T) {
	sparse := "4k3/8/8/8/8/8/8/4K3"
	_, err := Parse(sparse + " " + orthodoxStart + " 0 - orthodox")
	assert.ErrorIs(t, err, euclerr.IncorrectInput)
}

func TestParseRejectsCastlingWithoutRookOnHome(t *testing.T) {
	noRook := "rnbqkbn1/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1"
	_, err := Parse(noRook + " " + noRook + " 0 KQkq orthodox")
	assert.ErrorIs(t, err, euclerr.IncorrectInput)
}

func TestParseRejectsUnsupportedVariant(t *testing.T) {
	_, err := Parse(orthodoxStart + " " + orthodoxStart + " 0 - fairyland")
	assert.ErrorIs(t, err, euclerr.IncorrectInput)
}
