// Package driver owns every Piece of one Problem for the lifetime of a
// deduction run, and implements the fixed-point scheduling loop of spec.md
// §5/§9: repeat single-piece Update, pairwise BypassObstacles and scheduled
// MutualInteractions calls until a full pass changes nothing, or a piece
// proves no solution exists.
package driver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/euclide-go/euclide/config"
	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/piece"
	"github.com/euclide-go/euclide/problem"
	"github.com/euclide-go/euclide/square"
)

// Driver runs the deduction core for one Problem.
type Driver struct {
	pieces    []*piece.Piece
	freeMoves [square.NumColors]int
	budget    [square.NumColors]int
	cfg       config.Config
}

// New constructs a Driver owning one Piece per occupied square of p's
// initial position, and applies cfg's tunables to the piece package's
// mutual-analysis thresholds.
func New(p *problem.Problem, cfg config.Config) *Driver {
	piece.MutualFastThreshold = cfg.MutualFastThreshold
	piece.QueueCapacityFactor = cfg.QueueCapacityFactor

	var pieces []*piece.Piece
	for _, sq := range square.AllSquares() {
		if p.InitialPosition(sq).IsEmpty() {
			continue
		}
		pieces = append(pieces, piece.New(p, sq))
	}

	var freeMoves, budget [square.NumColors]int
	for _, color := range []square.Color{square.White, square.Black} {
		budget[color] = p.Moves(color)
		freeMoves[color] = budget[color] - requiredMovesOf(pieces, color)
	}

	return &Driver{pieces: pieces, freeMoves: freeMoves, budget: budget, cfg: cfg}
}

func requiredMovesOf(pieces []*piece.Piece, color square.Color) int {
	total := 0
	for _, pc := range pieces {
		if pc.Color() == color {
			total += pc.RequiredMoves()
		}
	}
	return total
}

// Pieces returns the Driver's owned Pieces, in construction order.
func (d *Driver) Pieces() []*piece.Piece { return d.pieces }

// pair is two distinct Pieces considered together by MutualInteractions,
// scored by their combined required-move count for scheduling purposes
// only (spec.md §9: "a pure performance heuristic").
type pair struct {
	a, b  *piece.Piece
	score int
}

// Solve runs the fixed-point loop to completion, returning the quiesced
// Pieces. It raises euclerr.NoSolution (returned as err) if any Piece's
// possible-squares set collapses to empty, and returns euclerr.InternalLogic
// if cfg.Timeout elapses before a fixed point is reached.
func (d *Driver) Solve(ctx context.Context) (pieces []*piece.Piece, err error) {
	defer euclerr.Recover(&err)

	var deadline time.Time
	if d.cfg.Timeout > 0 {
		deadline = time.Now().Add(d.cfg.Timeout)
	}

	for pass := 1; ; pass++ {
		log.Debug().Int("pass", pass).Msg("driver: starting pass")

		for d.updateAll() {
			d.checkDeadline(ctx, deadline)
		}

		changed := d.bypassAllPairs()
		if changed {
			continue
		}
		d.checkDeadline(ctx, deadline)

		if !d.runScheduledMutualInteractions() {
			log.Debug().Int("pass", pass).Msg("driver: reached fixed point")
			d.checkSingleMoveParity()
			return d.pieces, nil
		}
		d.checkDeadline(ctx, deadline)
	}
}

// checkSingleMoveParity raises euclerr.NoSolution for a color whose entire
// move budget is exactly one half-move if every one of its Pieces is
// pinned to its own initial square. A lone move always changes the
// occupant of its own departure square, and a color with only one move
// available has no second move left to restore it, so a diagram that is
// pixel-identical to the initial position for that color is unreachable.
// This does not generalise to a budget above one: a piece can use two
// moves to visit a square and return, leaving the diagram unchanged while
// genuinely having moved.
func (d *Driver) checkSingleMoveParity() {
	for _, color := range []square.Color{square.White, square.Black} {
		if d.budget[color] != 1 {
			continue
		}

		unchanged := true
		for _, pc := range d.pieces {
			if pc.Color() != color {
				continue
			}
			sq, ok := pc.FinalSquare()
			if !ok || sq != pc.InitialSquare() {
				unchanged = false
				break
			}
		}
		if unchanged {
			euclerr.Raise(euclerr.NoSolution)
		}
	}
}

func (d *Driver) checkDeadline(ctx context.Context, deadline time.Time) {
	if err := ctx.Err(); err != nil {
		euclerr.Assertf(false, "driver: %s before reaching a fixed point", err)
	}
	if deadline.IsZero() {
		return
	}
	if time.Now().After(deadline) {
		euclerr.Assertf(false, "driver: timed out after %s without reaching a fixed point", d.cfg.Timeout)
	}
}

// updateAll runs Piece.Update on every Piece in turn, reporting whether any
// Piece actually updated. Pieces are updated strictly sequentially:
// Update's occupied-set closure (piece/update.go step 8) reads the
// `occupied` state of other Pieces, and MutualInteractions may have linked
// any two Pieces as owner/other in that graph regardless of color (a
// castling king and rook, or any mutual-blocking pair), so two Update
// calls running concurrently could race on a shared Piece's occupied
// array. There is no partition of d.pieces that is safe to update
// concurrently without re-deriving which Pieces are mutually linked on
// every pass, so this loop stays sequential.
func (d *Driver) updateAll() bool {
	any := false
	for _, pc := range d.pieces {
		if pc.Update() {
			any = true
		}
	}
	return any
}

// bypassAllPairs runs BypassObstacles(blocker) for every ordered pair of
// distinct Pieces, reporting whether any Piece newly needs an update.
func (d *Driver) bypassAllPairs() bool {
	changed := false
	for _, blocker := range d.pieces {
		for _, pc := range d.pieces {
			if pc == blocker {
				continue
			}
			before := pc.NeedsUpdate()
			pc.BypassObstacles(blocker)
			if pc.NeedsUpdate() && !before {
				changed = true
			}
		}
	}
	return changed
}

// runScheduledMutualInteractions calls MutualInteractions on every distinct
// pair of Pieces, ordered least-required-moves-first (spec.md §9), and
// reports whether any call tightened a required-moves bound or left either
// Piece of its pair needing an update (pruned moves, new occupancy facts or
// raised distances).
func (d *Driver) runScheduledMutualInteractions() bool {
	pairs := d.scheduledPairs()

	changed := false
	for _, pr := range pairs {
		before := pr.a.RequiredMoves() + pr.b.RequiredMoves()

		fast := false
		if _, err := piece.MutualInteractions(pr.a, pr.b, d.freeMoves, fast); err != nil {
			euclerr.Raise(err)
		}

		if pr.a.RequiredMoves()+pr.b.RequiredMoves() > before || pr.a.NeedsUpdate() || pr.b.NeedsUpdate() {
			changed = true
		}
	}
	return changed
}

func (d *Driver) scheduledPairs() []pair {
	total := 0
	byScore := map[int][]pair{}
	for i := 0; i < len(d.pieces); i++ {
		for j := i + 1; j < len(d.pieces); j++ {
			a, b := d.pieces[i], d.pieces[j]
			pr := pair{a: a, b: b, score: a.RequiredMoves() + b.RequiredMoves()}
			byScore[pr.score] = append(byScore[pr.score], pr)
			total++
		}
	}

	ordered := make([]pair, 0, total)
	for len(ordered) < total {
		best := minScore(byScore)
		bucket := byScore[best]
		chosen := problem.PickTieBreak(bucket)
		ordered = append(ordered, chosen)

		bucket = lo.Filter(bucket, func(pr pair, _ int) bool { return pr != chosen })
		if len(bucket) == 0 {
			delete(byScore, best)
		} else {
			byScore[best] = bucket
		}
	}
	return ordered
}

func minScore(byScore map[int][]pair) int {
	best := 0
	first := true
	for score := range byScore {
		if first || score < best {
			best = score
			first = false
		}
	}
	return best
}
