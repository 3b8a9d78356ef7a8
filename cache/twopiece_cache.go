package cache

import (
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"

	"github.com/euclide-go/euclide/euclerr"
	"github.com/euclide-go/euclide/square"
)

// Position is the 4-tuple mutual interaction search memoises on: the square
// and played-move count of each of the two pieces under joint analysis.
type Position struct {
	Square0 square.Square
	Moves0  int
	Square1 square.Square
	Moves1  int
}

func (p Position) pack() uint64 {
	return uint64(p.Square0)<<48 | uint64(p.Moves0)<<32 | uint64(p.Square1)<<16 | uint64(p.Moves1)
}

// maxCapacity is a sanity ceiling on how large a TwoPieceCache's backing
// array may be. A caller deriving capacity from available-move bounds on a
// pathological problem could otherwise request an allocation large enough
// to be indistinguishable from a leak; OutOfMemory is surfaced instead of
// attempting it.
const maxCapacity = 1 << 24

// memoryBudgetFraction is the share of currently-free system memory a single
// TwoPieceCache may claim, mirroring the teacher's negamax transposition
// table sizing itself against github.com/pbnjay/memory before allocating:
// several MutualInteractions calls can have a cache live across a
// multi-problem batch, so no single call may assume it owns all of it.
const memoryBudgetFraction = 8

type slot struct {
	key           uint64
	used          bool
	visited       bool
	requiredMoves int
	shortcut      bool
}

var slotSize = uint64(unsafe.Sizeof(slot{}))

// TwoPieceCache is the per-mutual-call memoisation table of the design's
// §4.4/§6: an open-addressed hash table over the packed 4-tuple key, storing
// a visited marker for fast (BFS) mode, or a visited marker plus best-known
// required-moves lower bound and a shortcut bit for full (DFS) mode.
// Allocated fresh for each MutualInteractions call and discarded on return.
type TwoPieceCache struct {
	slots []slot
}

// NewTwoPieceCache allocates a cache sized for the given joint state space
// estimate. Callers pass the estimate (clamped internally) rather than the
// cache computing it, since only the caller knows the pieces' move graphs;
// MutualInteractions passes (edgesA+1)·(edgesB+1), where edgesX is the
// number of move edges piece X still has. The estimate is
// further clamped against currently-free system memory: a pathological
// estimate on a memory-constrained host shrinks the cache rather than
// risking an allocation the host cannot satisfy.
func NewTwoPieceCache(estimatedStates int) (*TwoPieceCache, error) {
	capacity := nextPow2(estimatedStates*2 + 16)
	if capacity > maxCapacity {
		return nil, euclerr.OutOfMemory
	}

	if budget := int(memory.FreeMemory() / memoryBudgetFraction / slotSize); budget < capacity {
		if budget == 0 {
			return nil, euclerr.OutOfMemory
		}
		capacity = budget
	}

	return &TwoPieceCache{slots: make([]slot, capacity)}, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (c *TwoPieceCache) index(key uint64) int {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(key >> (8 * i))
	}
	return int(xxhash.Sum64(buf[:]) % uint64(len(c.slots)))
}

func (c *TwoPieceCache) find(key uint64) (int, bool) {
	i := c.index(key)
	for n := 0; n < len(c.slots); n++ {
		s := &c.slots[i]
		if !s.used {
			return i, false
		}
		if s.key == key {
			return i, true
		}
		i = (i + 1) % len(c.slots)
	}
	return -1, false
}

// Hit reports whether pos has already been enqueued (fast mode).
func (c *TwoPieceCache) Hit(pos Position) bool {
	_, ok := c.find(pos.pack())
	return ok
}

// Add records pos as visited (fast mode).
func (c *TwoPieceCache) Add(pos Position) {
	key := pos.pack()
	i, ok := c.find(key)
	if ok || i < 0 {
		return
	}
	c.slots[i] = slot{key: key, used: true, visited: true}
}

// HitFull looks up pos for full (DFS) mode, returning the cached best
// required-moves bound, its shortcut bit, and whether it was found.
func (c *TwoPieceCache) HitFull(pos Position) (requiredMoves int, shortcut bool, ok bool) {
	i, found := c.find(pos.pack())
	if !found {
		return 0, false, false
	}
	return c.slots[i].requiredMoves, c.slots[i].shortcut, true
}

// AddFull records pos's best known required-moves bound and shortcut bit
// for full (DFS) mode.
func (c *TwoPieceCache) AddFull(pos Position, requiredMoves int, shortcut bool) {
	key := pos.pack()
	i, ok := c.find(key)
	if i < 0 {
		return
	}
	if ok {
		c.slots[i].requiredMoves = requiredMoves
		c.slots[i].shortcut = shortcut
		return
	}
	c.slots[i] = slot{key: key, used: true, visited: true, requiredMoves: requiredMoves, shortcut: shortcut}
}
