package piece

import "github.com/euclide-go/euclide/square"

// BypassObstacles removes moves, castling rights and check threats of pc
// that are invalidated by blocker permanently standing in the way: a move of
// pc is removed when every square blocker may stop on (blocker.Stops()) lies
// on that move's departure or transit squares, so blocker is in its way
// wherever it stands (spec.md §4.3).
func (pc *Piece) BypassObstacles(blocker *Piece) {
	obstacles := blocker.stops

	// -- Blocked movements --

	if obstacles.Intersects(pc.route) {
		for from, ok := pc.stops.First(); ok; from, ok = pc.stops.Next(from) {
			for to, ok2 := pc.moves[from].First(); ok2; to, ok2 = pc.moves[from].Next(to) {
				if pc.table.C[from][to].Set(from, true).Contains(obstacles) {
					pc.moves[from] = pc.moves[from].Set(to, false)
					pc.update = true
				}
			}
		}
	}

	// -- Castling --

	if pc.castlingSquare != pc.initialSquare {
		for _, side := range allSides {
			c := square.Castlings[pc.color][side]
			if pc.table.C[c.Rook][c.Free].Contains(obstacles) {
				pc.SetCastling(side, false)
			}
		}
	}

	// -- Checks --

	if pc.royal && blocker.color != pc.color && obstacles.Count() == 1 {
		obstacle, _ := obstacles.First()
		for check, ok := blocker.table.K[obstacle].First(); ok; check, ok = blocker.table.K[obstacle].Next(check) {
			if !pc.route.Test(check) {
				continue
			}
			for from, ok2 := pc.stops.First(); ok2; from, ok2 = pc.stops.Next(from) {
				if pc.moves[from].Test(check) {
					pc.moves[from] = pc.moves[from].Set(check, false)
					pc.update = true
				}
			}
		}
	}
}
