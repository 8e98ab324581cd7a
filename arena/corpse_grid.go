package arena

import "math"

// Grid is the sparse corpse occupancy map. A cell holds at most one
// corpse and a corpse holds at most one cell; claims happen when a
// corpse starts snapping, not when it settles, so two falling corpses
// can never converge on the same cell.
type Grid struct {
	cellW float64
	cellH float64
	cells map[gridCell]*Corpse
}

type gridCell struct {
	Col int
	Row int
}

// NewGrid builds an empty grid. Non-positive cell sizes fall back to 32.
func NewGrid(cellW, cellH float64) *Grid {
	if cellW <= 0 {
		cellW = 32
	}
	if cellH <= 0 {
		cellH = 32
	}
	return &Grid{
		cellW: cellW,
		cellH: cellH,
		cells: map[gridCell]*Corpse{},
	}
}

// CellAt returns the cell containing the world position.
func (g *Grid) CellAt(x, y float64) (col, row int) {
	return int(math.Floor(x / g.cellW)), int(math.Floor(y / g.cellH))
}

// CellCenter returns the world-space center of a cell.
func (g *Grid) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * g.cellW, (float64(row) + 0.5) * g.cellH
}

// OccupantAt returns the corpse holding the cell, nil if open.
func (g *Grid) OccupantAt(col, row int) *Corpse {
	return g.cells[gridCell{col, row}]
}

// Claim marks the cell as held by c. It fails if another corpse already
// holds the cell; re-claiming a cell c already holds succeeds.
func (g *Grid) Claim(col, row int, c *Corpse) bool {
	if c == nil {
		return false
	}
	key := gridCell{col, row}
	if cur, taken := g.cells[key]; taken {
		return cur == c
	}
	g.cells[key] = c
	return true
}

// Release frees the cell if and only if c is its current holder.
// Releasing another corpse's cell is a no-op.
func (g *Grid) Release(col, row int, c *Corpse) {
	key := gridCell{col, row}
	if g.cells[key] == c {
		delete(g.cells, key)
	}
}

// NearestOpenCell scans horizontally outward from the cell containing
// (x, y), up to searchRadius cells each way, and returns the first open
// one. The center cell wins ties; otherwise nearer beats farther.
func (g *Grid) NearestOpenCell(x, y float64, searchRadius int) (col, row int, ok bool) {
	baseCol, baseRow := g.CellAt(x, y)
	for d := 0; d <= searchRadius; d++ {
		if g.OccupantAt(baseCol+d, baseRow) == nil {
			return baseCol + d, baseRow, true
		}
		if d > 0 && g.OccupantAt(baseCol-d, baseRow) == nil {
			return baseCol - d, baseRow, true
		}
	}
	return 0, 0, false
}

// Occupied reports how many cells are currently held.
func (g *Grid) Occupied() int {
	return len(g.cells)
}
