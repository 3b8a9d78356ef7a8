package piece

import (
	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/queue"
	"github.com/euclide-go/euclide/square"
)

// Update runs the single-piece deduction fixed point (spec.md §4.2) if the
// dirty flag is set, repeating the deduction while its own mutations (its
// SetCastling calls) raise the flag again, and leaves the flag clear on
// completion. It returns whether any work was done. It may raise euclerr.NoSolution (via euclerr.Raise) if
// PossibleSquares shrinks to empty.
func (pc *Piece) Update() bool {
	if !pc.update {
		return false
	}
	for pc.update {
		pc.update = false
		pc.updateDeductions()
	}
	return true
}

func (pc *Piece) updateDeductions() {
	// -- Step 1: castling collapse for the castling rook --

	if pc.castlingSquare != pc.initialSquare {
		if pc.moves[pc.castlingSquare].None() && !pc.possibleSquares.Test(pc.castlingSquare) {
			for _, side := range allSides {
				pc.SetCastling(side, false)
			}
		}
	}
	if pc.castlingSquare != pc.initialSquare {
		if pc.moves[pc.initialSquare].None() && !pc.possibleSquares.Test(pc.initialSquare) {
			for _, side := range allSides {
				pc.SetCastling(side, true)
			}
		}
	}
	if pc.castlingSquare != pc.initialSquare {
		if pc.distances[pc.castlingSquare] > 0 {
			for _, side := range allSides {
				pc.SetCastling(side, false)
			}
		}
	}

	// -- Step 2: distance recomputation --

	castling := false
	for _, side := range allSides {
		if square.Is(pc.castling[side]) {
			castling = true
		}
	}

	pc.updateDistances(castling)
	if pc.table.Mx != nil {
		start := pc.initialSquare
		if castling {
			start = pc.castlingSquare
		}
		captures := pc.computeCaptures(start, pc.castlingSquare)
		maximizeVector(&pc.captureDist, captures)
	}

	// -- Step 3: reachability-based pruning --

	for sq, ok := pc.possibleSquares.First(); ok; sq, ok = pc.possibleSquares.Next(sq) {
		if pc.distances[sq] > pc.availableMoves {
			pc.possibleSquares = pc.possibleSquares.Set(sq, false)
		}
	}
	for sq, ok := pc.possibleCaptures.First(); ok; sq, ok = pc.possibleCaptures.Next(sq) {
		if pc.captureDist[sq] > pc.availableCaptures {
			pc.possibleCaptures = pc.possibleCaptures.Set(sq, false)
		}
	}

	pc.rdistances = pc.computeDistancesTo(pc.possibleSquares)
	if pc.table.Mx != nil {
		pc.rcaptureDist = pc.computeCapturesTo(pc.possibleSquares)
	}

	if pc.possibleSquares.None() {
		euclerr.Raise(euclerr.NoSolution)
	}
	if sq, ok := pc.possibleSquares.Singleton(); ok {
		pc.finalSquare = sq
	}

	// -- Step 4: required-bound strengthening --

	pc.requiredMoves = maxInt(pc.requiredMoves, pc.minDistanceOver(pc.possibleSquares, pc.distances))
	pc.requiredCaptures = maxInt(pc.requiredCaptures, pc.minDistanceOver(pc.possibleSquares, pc.captureDist))

	// -- Step 5: move-edge pruning --

	for _, from := range square.AllSquares() {
		for to, ok := pc.moves[from].First(); ok; to, ok = pc.moves[from].Next(to) {
			if pc.distances[from]+1+pc.rdistances[to] > pc.availableMoves {
				pc.moves[from] = pc.moves[from].Set(to, false)
			}
		}
	}
	if pc.table.Mx != nil {
		for _, from := range square.AllSquares() {
			for to, ok := pc.moves[from].First(); ok; to, ok = pc.moves[from].Next(to) {
				cost := 0
				if pc.table.Mx[from].Test(to) {
					cost = 1
				}
				if pc.captureDist[from]+cost+pc.rcaptureDist[to] > pc.availableCaptures {
					pc.moves[from] = pc.moves[from].Set(to, false)
				}
			}
		}
	}

	// -- Step 6: king/castling sync --

	if pc.royal {
		for _, side := range allSides {
			if !square.Maybe(pc.castling[side]) {
				continue
			}
			c := square.Castlings[pc.color][side]
			if !pc.moves[c.From].Test(c.To) {
				pc.SetCastling(side, false)
				continue
			}
			if only, ok := pc.moves[c.From].Singleton(); ok && only == c.To {
				pc.SetCastling(side, true)
			}
		}
	}

	// -- Step 7: geometry recomputation --

	pc.stops = pc.possibleSquares
	pc.stops = pc.stops.Set(pc.initialSquare, true)
	pc.stops = pc.stops.Set(pc.castlingSquare, true)
	for _, from := range square.AllSquares() {
		pc.stops = pc.stops.Or(pc.moves[from])
	}

	pc.route = pc.stops
	for _, from := range square.AllSquares() {
		for to, ok := pc.moves[from].First(); ok; to, ok = pc.moves[from].Next(to) {
			pc.route = pc.route.Or(pc.table.C[from][to])
		}
	}

	pc.threats = 0
	for sq, ok := pc.stops.First(); ok; sq, ok = pc.stops.Next(sq) {
		pc.threats = pc.threats.Or(pc.table.K[sq])
	}

	// -- Step 8: occupied-set transitive closure --

	for _, sq := range square.AllSquares() {
		o := &pc.occupied[sq]
		for loop := true; loop; {
			loop = false
			for occ, ok := o.squares.First(); ok; occ, ok = o.squares.Next(occ) {
				owner := o.owners[occ]
				if owner == nil {
					continue
				}
				other := &owner.occupied[occ]
				for further, ok2 := other.squares.First(); ok2; further, ok2 = other.squares.Next(further) {
					if !o.squares.Test(further) {
						o.owners[further] = other.owners[further]
						o.squares = o.squares.Set(further, true)
						loop = true
					}
				}
			}
		}
	}
}

var allSides = []square.CastlingSide{square.KingSide, square.QueenSide}

func (pc *Piece) minDistanceOver(squares square.Squares, distances [square.NumSquares]int) int {
	best := Infinity
	for sq, ok := squares.First(); ok; sq, ok = squares.Next(sq) {
		if distances[sq] < best {
			best = distances[sq]
		}
	}
	if best == Infinity {
		return 0
	}
	return best
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maximizeVector(dst *[square.NumSquares]int, src [square.NumSquares]int) {
	for i := range dst {
		if src[i] > dst[i] {
			dst[i] = src[i]
		}
	}
}

func (pc *Piece) updateDistances(castling bool) {
	start := pc.initialSquare
	if castling {
		start = pc.castlingSquare
	}
	distances := pc.computeDistances(start, pc.castlingSquare)
	maximizeVector(&pc.distances, distances)
}

// computeDistances runs a forward BFS on the current move graph from
// {start} ∪ {castling}, returning the shortest-path length in moves to
// every square.
func (pc *Piece) computeDistances(start, castling square.Square) [square.NumSquares]int {
	var distances [square.NumSquares]int
	for i := range distances {
		distances[i] = Infinity
	}
	distances[start] = 0
	distances[castling] = 0

	q := queue.New[square.Square](square.NumSquares)
	q.Push(start)
	if castling != start {
		q.Push(castling)
	}

	for !q.Empty() {
		from := q.Front()
		q.Pop()

		for to, ok := pc.moves[from].First(); ok; to, ok = pc.moves[from].Next(to) {
			if distances[to] < Infinity {
				continue
			}
			distances[to] = distances[from] + 1
			q.Push(to)
		}
	}
	return distances
}

// computeDistancesTo runs a reverse BFS from every square in destinations,
// over the reversed move graph, giving the shortest number of moves from
// each square to reach destinations.
func (pc *Piece) computeDistancesTo(destinations square.Squares) [square.NumSquares]int {
	var distances [square.NumSquares]int
	q := queue.New[square.Square](square.NumSquares)

	for _, sq := range square.AllSquares() {
		if destinations.Test(sq) {
			distances[sq] = 0
			q.Push(sq)
		} else {
			distances[sq] = Infinity
		}
	}

	for !q.Empty() {
		to := q.Front()
		q.Pop()

		for _, from := range square.AllSquares() {
			if !pc.moves[from].Test(to) {
				continue
			}
			if distances[from] < Infinity {
				continue
			}
			distances[from] = distances[to] + 1
			q.Push(from)
		}
	}
	return distances
}

// computeCaptures is the capture-weighted analogue of computeDistances: a
// 0/1-weighted shortest path (two-bucket BFS, implemented here as a plain
// relaxation since the state space is tiny) using xmoves as edge weight.
func (pc *Piece) computeCaptures(start, castling square.Square) [square.NumSquares]int {
	var captures [square.NumSquares]int
	for i := range captures {
		captures[i] = Infinity
	}
	captures[start] = 0
	captures[castling] = 0

	q := queue.New[square.Square](square.NumSquares)
	q.Push(start)
	if castling != start {
		q.Push(castling)
	}

	for !q.Empty() {
		from := q.Front()
		q.Pop()

		for to, ok := pc.moves[from].First(); ok; to, ok = pc.moves[from].Next(to) {
			cost := 0
			if pc.table.Mx[from].Test(to) {
				cost = 1
			}
			required := captures[from] + cost
			if required >= captures[to] {
				continue
			}
			captures[to] = required
			q.Push(to)
		}
	}
	return captures
}

func (pc *Piece) computeCapturesTo(destinations square.Squares) [square.NumSquares]int {
	var captures [square.NumSquares]int
	q := queue.New[square.Square](square.NumSquares)

	for _, sq := range square.AllSquares() {
		if destinations.Test(sq) {
			captures[sq] = 0
			q.Push(sq)
		} else {
			captures[sq] = Infinity
		}
	}

	for !q.Empty() {
		to := q.Front()
		q.Pop()

		for _, from := range square.AllSquares() {
			if !pc.moves[from].Test(to) {
				continue
			}
			cost := 0
			if pc.table.Mx[from].Test(to) {
				cost = 1
			}
			required := captures[to] + cost
			if required >= captures[from] {
				continue
			}
			captures[from] = required
			q.Push(from)
		}
	}
	return captures
}
