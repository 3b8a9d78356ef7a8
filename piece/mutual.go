package piece

import (
	"github.com/euclide-go/euclide/cache"
	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/queue"
	"github.com/euclide-go/euclide/square"
)

// MutualFastThreshold is the nmoves(A)*nmoves(B) search-space size above
// which MutualInteractions always runs in fast (BFS-only) mode regardless
// of the caller's fast argument (spec.md §4.4). Overridable by config.
var MutualFastThreshold = 5000

// QueueCapacityFactor sizes fastPlay's bounded frontier queue as
// QueueCapacityFactor*NumSquares*NumSquares (spec.md §4.4 "compile time
// bounded 8·64·64"). Overridable by config.
var QueueCapacityFactor = 8

// mutualState tracks one piece's progress through the two-piece joint
// reachability search of MutualInteractions: where it currently stands,
// how many moves it has spent, the moves/co-occupancy facts proven along
// continuations that reach a joint goal, and the per-square minimum move
// count at which the goal was reached (spec.md §4.4, pieces.cpp State).
type mutualState struct {
	piece *Piece

	square         square.Square
	playedMoves    int
	availableMoves int
	requiredMoves  int
	teleportation  bool

	moves     [square.NumSquares]square.Squares
	occupancy [square.NumSquares]square.Squares
	distances [square.NumSquares]int
}

func newMutualState(pc *Piece, budget int) *mutualState {
	s := &mutualState{
		piece:          pc,
		square:         pc.initialSquare,
		availableMoves: budget,
		requiredMoves:  Infinity,
		teleportation:  pc.castlingSquare != pc.initialSquare,
	}
	for i := range s.distances {
		s.distances[i] = Infinity
	}
	return s
}

// MutualInteractions runs the joint two-piece deduction search (spec.md
// §4.4): it establishes the minimum combined number of moves pieceA and
// pieceB must play given they may block, check or co-occupy each other, and
// (in full mode) prunes move edges that no joint continuation ever uses and
// records forced co-occupancy facts. fast forces the cheaper BFS-only mode
// regardless of the search-space threshold; the search space itself can
// still promote a fast=false call to fast mode when it is too large.
func MutualInteractions(pieceA, pieceB *Piece, freeMoves [square.NumColors]int, fast bool) (requiredMoves int, err error) {
	defer euclerr.Recover(&err)
	return mutualInteractions(pieceA, pieceB, freeMoves, fast), nil
}

func mutualInteractions(pieceA, pieceB *Piece, freeMoves [square.NumColors]int, fast bool) int {
	requiredMoves := pieceA.requiredMoves + pieceB.requiredMoves
	enemies := pieceA.color != pieceB.color

	routeA := pieceA.route
	if enemies && pieceB.royal {
		routeA = routeA.Or(pieceA.threats)
	}
	routeB := pieceB.route
	if enemies && pieceA.royal {
		routeB = routeB.Or(pieceB.threats)
	}
	if !routeA.Intersects(routeB) {
		return requiredMoves
	}

	if pieceA.nmoves()*pieceB.nmoves() > MutualFastThreshold {
		fast = true
	}

	states := [2]*mutualState{
		newMutualState(pieceA, pieceA.requiredMoves+freeMoves[pieceA.color]),
		newMutualState(pieceB, pieceB.requiredMoves+freeMoves[pieceB.color]),
	}

	availableMoves := requiredMoves + freeMoves[pieceA.color]
	if enemies {
		availableMoves += freeMoves[pieceB.color]
	}

	estimate := (pieceA.nmoves() + 1) * (pieceB.nmoves() + 1)
	tpc, err := cache.NewTwoPieceCache(estimate)
	if err != nil {
		euclerr.Raise(err)
	}

	var newRequiredMoves int
	if fast {
		newRequiredMoves = fastPlay(states, availableMoves, tpc)
	} else {
		newRequiredMoves, _ = fullPlay(states, availableMoves, availableMoves, tpc)
	}

	if newRequiredMoves >= Infinity {
		euclerr.Raise(euclerr.NoSolution)
	}

	for _, state := range states {
		if state.requiredMoves > state.piece.requiredMoves {
			state.piece.requiredMoves = state.requiredMoves
			state.piece.update = true
		}
	}

	if fast {
		return newRequiredMoves
	}

	for i, state := range states {
		other := states[i^1].piece
		pc := state.piece

		for _, sq := range square.AllSquares() {
			if state.moves[sq] != pc.moves[sq] {
				pc.moves[sq] = state.moves[sq]
				pc.update = true
			}

			if occ, ok := state.occupancy[sq].Singleton(); ok {
				o := &pc.occupied[sq]
				if !o.squares.Test(occ) {
					o.squares = o.squares.Set(occ, true)
					o.owners[occ] = other
					pc.update = true
				}
			}

			if state.distances[sq] > pc.distances[sq] && state.distances[sq] < Infinity {
				pc.distances[sq] = state.distances[sq]
				pc.update = true
			}
		}
	}

	return newRequiredMoves
}

// fastPlay is a joint BFS over (squareA, movesA, squareB, movesB): it only
// determines the minimum combined move count to reach a joint goal, never
// pruning move edges or recording co-occupancy (spec.md §4.4 "fast mode").
func fastPlay(states [2]*mutualState, availableMoves int, tpc *cache.TwoPieceCache) int {
	q := queue.New[cache.Position](QueueCapacityFactor * square.NumSquares * square.NumSquares)

	friends := states[0].piece.color == states[1].piece.color
	partners := friends && (states[0].piece.royal || states[1].piece.royal) &&
		(states[0].teleportation || states[1].teleportation)

	requiredMoves := Infinity

	initial := cache.Position{
		Square0: states[0].piece.initialSquare,
		Square1: states[1].piece.initialSquare,
	}
	q.Push(initial)
	tpc.Add(initial)

	for !q.Empty() {
		pos := q.Front()
		q.Pop()

		sq := [2]square.Square{pos.Square0, pos.Square1}
		moves := [2]int{pos.Moves0, pos.Moves1}

		if states[0].piece.possibleSquares.Test(sq[0]) && states[1].piece.possibleSquares.Test(sq[1]) {
			if moves[0] < states[0].requiredMoves {
				states[0].requiredMoves = moves[0]
			}
			if moves[1] < states[1].requiredMoves {
				states[1].requiredMoves = moves[1]
			}
			if moves[0]+moves[1] < requiredMoves {
				requiredMoves = moves[0] + moves[1]
			}
		}

		for s := 0; s < 2; s++ {
			k := s
			if moves[0] > moves[1] {
				k ^= 1
			}

			state, xstate := states[k], states[k^1]
			piece, xpiece := state.piece, xstate.piece
			from := sq[k]
			otherSq := sq[k^1]

			if state.teleportation && moves[k] == 0 && sq[k] == piece.initialSquare {
				to := piece.castlingSquare
				blocked := piece.table.C[from][to].Test(otherSq)
				if !blocked {
					next := pos
					if k == 0 {
						next.Square0 = to
					} else {
						next.Square1 = to
					}
					if !tpc.Hit(next) {
						q.PassToFront(next, 1)
						tpc.Add(next)
					}
				}
			}

			if state.availableMoves <= moves[k] {
				continue
			}
			if state.requiredMoves <= moves[k] && xstate.requiredMoves <= moves[k^1] {
				continue
			}

			if xpiece.royal && !friends && piece.table.K[from].Test(otherSq) {
				continue
			}

			for to, ok := piece.moves[from].First(); ok; to, ok = piece.moves[from].Next(to) {
				next := pos
				if k == 0 {
					next.Square0, next.Moves0 = to, moves[0]+1
				} else {
					next.Square1, next.Moves1 = to, moves[1]+1
				}

				if piece.royal && moves[k] == 0 && partners {
					for _, side := range allSides {
						c := square.Castlings[piece.color][side]
						if to == c.To && otherSq == c.Rook && moves[k^1] == 0 {
							if k == 0 {
								next.Square1 = c.Free
							} else {
								next.Square0 = c.Free
							}
						}
					}
				}

				if tpc.Hit(next) {
					continue
				}

				blocked := piece.table.C[from][to].Test(otherSq) || xpiece.occupied[otherSq].squares.Test(from)
				for other, ok2 := xpiece.occupied[otherSq].squares.First(); ok2; other, ok2 = xpiece.occupied[otherSq].squares.Next(other) {
					if piece.table.C[from][to].Test(other) {
						blocked = true
					}
				}
				if blocked {
					continue
				}

				bound := availableMoves
				remaining := state.availableMoves - moveOf(next, k)
				if remaining < bound {
					bound = remaining
				}
				if piece.rdistances[to] > bound {
					continue
				}

				if piece.royal && !friends && xpiece.table.K[otherSq].Test(to) {
					continue
				}

				if piece.royal && !friends && from == piece.initialSquare {
					rejected := false
					for _, side := range allSides {
						c := square.Castlings[piece.color][side]
						if c.From == from && c.To == to {
							if moves[k] != 0 || xpiece.table.K[otherSq].Test(from) || xpiece.table.K[otherSq].Test(c.Free) {
								rejected = true
							}
						}
					}
					if rejected {
						continue
					}
				}

				// spec.md §9's open question ("queue capacity insufficient")
				// is resolved towards correctness over availability: rather
				// than returning the piece's already-known (and possibly
				// stale) required-moves bound, surface InternalLogic so the
				// caller knows the fixed point was not actually reached.
				if q.Full() {
					euclerr.Assertf(false, "mutualInteractions: fast-mode queue exhausted (capacity %d)", q.Cap())
				}

				q.Push(next)
				tpc.Add(next)
			}
		}
	}

	return requiredMoves
}

func moveOf(pos cache.Position, k int) int {
	if k == 0 {
		return pos.Moves0
	}
	return pos.Moves1
}

// fullPlay is the recursive DFS analogue of fastPlay: it additionally marks
// every move edge and co-occupancy fact used by at least one continuation
// that reaches a joint goal within maximumMoves, so the caller can prune
// provably-unplayed edges (spec.md §4.4 "full mode"). It returns the
// minimum combined move count found below this node, and whether a move
// was skipped here because it would have undercut the piece's proven
// distance lower bound (a result that should not be trusted by the cache
// once that bound is later raised).
func fullPlay(states [2]*mutualState, availableMoves, maximumMoves int, tpc *cache.TwoPieceCache) (requiredMoves int, shortcut bool) {
	requiredMoves = Infinity

	if states[0].piece.possibleSquares.Test(states[0].square) && states[1].piece.possibleSquares.Test(states[1].square) {
		if states[0].playedMoves < states[0].requiredMoves {
			states[0].requiredMoves = states[0].playedMoves
		}
		if states[1].playedMoves < states[1].requiredMoves {
			states[1].requiredMoves = states[1].playedMoves
		}
		requiredMoves = states[0].playedMoves + states[1].playedMoves

		states[0].occupancy[states[0].square] = states[0].occupancy[states[0].square].Set(states[1].square, true)
		states[1].occupancy[states[1].square] = states[1].occupancy[states[1].square].Set(states[0].square, true)
	}

	if availableMoves < 0 {
		return requiredMoves, false
	}

	pos := cache.Position{
		Square0: states[0].square, Moves0: states[0].playedMoves,
		Square1: states[1].square, Moves1: states[1].playedMoves,
	}
	if cached, cachedShortcut, ok := tpc.HitFull(pos); ok {
		return cached, cachedShortcut
	}

	for k := 0; k < 2; k++ {
		s := k
		if states[0].playedMoves > states[1].playedMoves {
			s ^= 1
		}

		state, xstate := states[s], states[s^1]
		piece, xpiece := state.piece, xstate.piece
		from := state.square
		other := xstate.square
		friends := piece.color == xpiece.color

		if state.teleportation && state.playedMoves == 0 {
			king := square.NoSquare
			if xpiece.royal && friends {
				king = other
			}
			pivot := square.NoSquare
			for _, side := range allSides {
				c := square.Castlings[piece.color][side]
				if c.Rook == from {
					pivot = c.To
				}
			}

			canTeleport := false
			if king != square.NoSquare {
				canTeleport = king == pivot && xstate.playedMoves == 1
			} else {
				canTeleport = !piece.table.C[piece.initialSquare][piece.castlingSquare].Test(other)
			}

			if canTeleport && piece.distances[piece.castlingSquare] == 0 {
				state.square = piece.castlingSquare
				state.teleportation = false

				myRequiredMoves, _ := fullPlay(states, availableMoves, maximumMoves, tpc)
				if myRequiredMoves <= maximumMoves {
					state.occupancy[from] = state.occupancy[from].Set(other, true)
					xstate.occupancy[other] = xstate.occupancy[other].Set(from, true)
				}
				if myRequiredMoves < requiredMoves {
					requiredMoves = myRequiredMoves
				}

				state.teleportation = true
				state.square = piece.initialSquare
			}
		}

		if state.availableMoves <= 0 {
			continue
		}
		if xpiece.royal && !friends && piece.table.K[from].Test(other) {
			continue
		}

		for to, ok := piece.moves[from].First(); ok; to, ok = piece.moves[from].Next(to) {
			blocked := piece.table.C[from][to].Test(other) || xpiece.occupied[other].squares.Test(from)
			for osq, ok2 := xpiece.occupied[other].squares.First(); ok2; osq, ok2 = xpiece.occupied[other].squares.Next(osq) {
				if piece.table.C[from][to].Test(osq) {
					blocked = true
				}
			}
			if blocked {
				continue
			}

			bound := availableMoves
			if state.availableMoves < bound {
				bound = state.availableMoves
			}
			if 1+piece.rdistances[to] > bound {
				continue
			}

			if state.playedMoves+1 < piece.distances[to] {
				shortcut = true
				continue
			}

			if piece.royal && !friends && xpiece.table.K[other].Test(to) {
				continue
			}

			if piece.royal && !friends && from == piece.initialSquare {
				rejected := false
				for _, side := range allSides {
					c := square.Castlings[piece.color][side]
					if c.From == from && c.To == to {
						if state.playedMoves != 0 || xpiece.table.K[other].Test(from) || xpiece.table.K[other].Test(c.Free) {
							rejected = true
						}
					}
				}
				if rejected {
					continue
				}
			}

			state.availableMoves--
			state.playedMoves++
			state.square = to

			myRequiredMoves, childShortcut := fullPlay(states, availableMoves-1, maximumMoves, tpc)

			tpc.AddFull(cache.Position{
				Square0: states[0].square, Moves0: states[0].playedMoves,
				Square1: states[1].square, Moves1: states[1].playedMoves,
			}, myRequiredMoves, childShortcut)

			if myRequiredMoves <= maximumMoves {
				state.moves[from] = state.moves[from].Set(to, true)
				state.occupancy[from] = state.occupancy[from].Set(other, true)
				xstate.occupancy[other] = xstate.occupancy[other].Set(from, true)

				if state.playedMoves < state.distances[to] {
					state.distances[to] = state.playedMoves
				}
			}

			state.availableMoves++
			state.playedMoves--
			state.square = from

			if myRequiredMoves < requiredMoves {
				requiredMoves = myRequiredMoves
			}
		}
	}

	return requiredMoves, shortcut
}
