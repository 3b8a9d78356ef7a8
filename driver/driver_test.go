package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euclide-go/euclide/config"
	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/piece"
	"github.com/euclide-go/euclide/problem"
	"github.com/euclide-go/euclide/square"
)

const orthodoxStart = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

func pieceFrom(t *testing.T, pieces []*piece.Piece, sq square.Square) *piece.Piece {
	t.Helper()
	for _, pc := range pieces {
		if pc.InitialSquare() == sq {
			return pc
		}
	}
	t.Fatalf("no piece starts on %s", sq)
	return nil
}

func TestSolveOnIdenticalStartAndDiagramReachesFixedPoint(t *testing.T) {
	p, err := problem.Parse(orthodoxStart + " " + orthodoxStart + " 0 KQkq orthodox")
	require.NoError(t, err)

	d := New(p, config.Default())
	pieces, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.Len(t, pieces, 32)

	for _, pc := range pieces {
		assert.False(t, pc.NeedsUpdate())
		sq, ok := pc.FinalSquare()
		assert.True(t, ok)
		assert.Equal(t, pc.InitialSquare(), sq)
	}
}

func TestNewSplitsFreeMovesByColor(t *testing.T) {
	p, err := problem.Parse(orthodoxStart + " " + orthodoxStart + " 4 KQkq orthodox")
	require.NoError(t, err)

	d := New(p, config.Default())
	assert.GreaterOrEqual(t, d.freeMoves[0], 0)
	assert.GreaterOrEqual(t, d.freeMoves[1], 0)
}

// After 1.e4 e5 2.Nf3 Nc6, every piece but the four movers must be pinned
// to its own initial square with nothing required of it, and each mover
// must be pinned to its destination with exactly one required move.
func TestSolveAfterFourPliesPinsOnlyTheFourMovers(t *testing.T) {
	diagram := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R"
	p, err := problem.Parse(orthodoxStart + " " + diagram + " 4 KQkq orthodox")
	require.NoError(t, err)

	d := New(p, config.Default())
	pieces, err := d.Solve(context.Background())
	require.NoError(t, err)
	require.Len(t, pieces, 32)

	movers := map[square.Square]square.Square{
		square.FromFileRank(square.FileE, 1): square.FromFileRank(square.FileE, 3), // e2-e4
		square.FromFileRank(square.FileE, 6): square.FromFileRank(square.FileE, 4), // e7-e5
		square.FromFileRank(square.FileG, 0): square.FromFileRank(square.FileF, 2), // Ng1-f3
		square.FromFileRank(square.FileB, 7): square.FromFileRank(square.FileC, 5), // Nb8-c6
	}

	for _, pc := range pieces {
		dest, moved := movers[pc.InitialSquare()]
		if moved {
			sq, ok := pc.FinalSquare()
			require.True(t, ok, "mover on %s never pinned a final square", pc.InitialSquare())
			assert.Equal(t, dest, sq, "mover on %s", pc.InitialSquare())
			assert.Equal(t, 1, pc.RequiredMoves(), "mover on %s", pc.InitialSquare())
		} else {
			// Some non-movers (e.g. the two otherwise-identical unmoved
			// rooks, or the two unmoved knights) share a symmetric diagram
			// candidate with their twin and so do not individually pin a
			// final square; every non-mover is still provably required to
			// make zero moves, and its own initial square always survives
			// as one of its possible squares.
			assert.Equal(t, 0, pc.RequiredMoves(), "non-mover on %s", pc.InitialSquare())
			assert.True(t, pc.PossibleSquares().Test(pc.InitialSquare()), "non-mover on %s", pc.InitialSquare())
		}
	}
}

// White must play its one available move from the orthodox start; a
// diagram identical to the start is unreachable.
func TestSolveRejectsUnchangedDiagramWhenAColorMustMove(t *testing.T) {
	p, err := problem.Parse(orthodoxStart + " " + orthodoxStart + " 2 KQkq orthodox")
	require.NoError(t, err)

	d := New(p, config.Default())
	_, err = d.Solve(context.Background())
	assert.ErrorIs(t, err, euclerr.NoSolution)
}

// White, with only its king and kingside rook, castles kingside (O-O) with
// its single move; the king pins its castling flag and the rook's
// post-castling square.
func TestSolveRecognisesCompletedKingsideCastling(t *testing.T) {
	initial := "4k3/8/8/8/8/8/8/4K2R"
	diagram := "4k3/8/8/8/8/8/8/5RK1"
	p, err := problem.Parse(initial + " " + diagram + " 1 K orthodox")
	require.NoError(t, err)

	d := New(p, config.Default())
	pieces, err := d.Solve(context.Background())
	require.NoError(t, err)

	king := pieceFrom(t, pieces, square.FromFileRank(square.FileE, 0))
	assert.Equal(t, square.True, king.Castling(square.KingSide))
	kingFinal, ok := king.FinalSquare()
	require.True(t, ok)
	assert.Equal(t, square.FromFileRank(square.FileG, 0), kingFinal)

	rook := pieceFrom(t, pieces, square.FromFileRank(square.FileH, 0))
	assert.Equal(t, square.FromFileRank(square.FileF, 0), rook.CastlingSquare())
	rookFinal, ok := rook.FinalSquare()
	require.True(t, ok)
	assert.Equal(t, square.FromFileRank(square.FileF, 0), rookFinal)
}

// A white queen on a1 must reach h8, but a permanently-pinned black pawn
// on d4 blocks her only diagonal, and she has no spare move (and no
// available captures) to route around it.
func TestSolveRejectsQueenBlockedOffHerOnlyRoute(t *testing.T) {
	initial := "4k3/8/8/8/3p4/8/8/Q3K3"
	diagram := "4k2Q/8/8/8/3p4/8/8/4K3"
	p, err := problem.Parse(initial + " " + diagram + " 1 - orthodox")
	require.NoError(t, err)

	d := New(p, config.Default())
	_, err = d.Solve(context.Background())
	assert.ErrorIs(t, err, euclerr.NoSolution)
}
