package arena

import (
	"math"

	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/phys"
	"github.com/milk9111/brawl/prefabs"
)

// CorpseState tracks a corpse through its one-way settle sequence.
type CorpseState int

//go:generate go tool stringer -type=CorpseState -trimprefix=Corpse

const (
	CorpseFalling CorpseState = iota
	CorpseSnapping
	CorpseSettled
)

// Corpse is a dead enemy's body working its way into the grid. It falls
// under normal physics, snaps into the nearest open cell once close
// enough, and then sits settled until decay removes it.
type Corpse struct {
	id   int
	grid *Grid
	body phys.Body
	cfg  prefabs.CorpseSpec

	state  CorpseState
	x, y   float64
	width  float64
	height float64

	hasCell bool
	cellCol int
	cellRow int

	snapFromX, snapFromY float64
	snapToX, snapToY     float64
	snapElapsed          float64

	age      float64
	fading   bool
	fadeLeft float64
	alpha    float64

	destroyed bool
}

func newCorpse(id int, grid *Grid, body phys.Body, width, height float64, cfg prefabs.CorpseSpec) *Corpse {
	c := &Corpse{
		id:     id,
		grid:   grid,
		body:   body,
		cfg:    cfg,
		state:  CorpseFalling,
		width:  width,
		height: height,
		alpha:  1,
	}
	c.x, c.y = body.Position()
	return c
}

// Update advances the settle sequence and the independent decay timer.
func (c *Corpse) Update(now, delta float64) {
	if c == nil || c.destroyed {
		return
	}
	c.updateDecay(delta)
	if c.destroyed {
		return
	}
	switch c.state {
	case CorpseFalling:
		c.updateFalling()
	case CorpseSnapping:
		c.updateSnapping(delta)
	}
}

// updateFalling watches for an open cell close enough to snap into. The
// cell is claimed the instant snapping starts so a second falling corpse
// can never target it.
func (c *Corpse) updateFalling() {
	c.x, c.y = c.body.Position()
	if _, vy := c.body.Velocity(); vy < 0 {
		// Still moving up, likely from death knockback.
		return
	}
	col, row, ok := c.grid.NearestOpenCell(c.x, c.y, c.cfg.SearchRadius)
	if !ok {
		return
	}
	cx, cy := c.grid.CellCenter(col, row)
	if math.Abs(c.x-cx) > c.cfg.SnapDistanceX || math.Abs(c.y-cy) > c.cfg.SnapDistanceY {
		return
	}
	if !c.grid.Claim(col, row, c) {
		return
	}
	c.hasCell = true
	c.cellCol, c.cellRow = col, row
	c.body.SetEnabled(false)
	c.snapFromX, c.snapFromY = c.x, c.y
	c.snapToX, c.snapToY = cx, cy
	c.snapElapsed = 0
	c.state = CorpseSnapping
}

func (c *Corpse) updateSnapping(delta float64) {
	c.snapElapsed += delta
	t := 1.0
	if c.cfg.SnapMs > 0 {
		t = common.Clamp(c.snapElapsed/c.cfg.SnapMs, 0, 1)
	}
	eased := common.EaseOutCubic(t)
	c.x = common.Lerp(c.snapFromX, c.snapToX, eased)
	c.y = common.Lerp(c.snapFromY, c.snapToY, eased)
	if !c.fading {
		c.alpha = 0.6 + 0.4*math.Abs(math.Cos(t*2*math.Pi))
	}
	if t >= 1 {
		c.settle()
	}
}

// settle is idempotent; only the first call takes effect.
func (c *Corpse) settle() {
	if c.state == CorpseSettled {
		return
	}
	c.state = CorpseSettled
	c.x, c.y = c.snapToX, c.snapToY
	c.body.SetPosition(c.x, c.y)
	if !c.fading {
		c.alpha = 1
	}
}

func (c *Corpse) updateDecay(delta float64) {
	if c.cfg.DecayDelayMs <= 0 {
		return
	}
	c.age += delta
	if !c.fading {
		if c.age < c.cfg.DecayDelayMs {
			return
		}
		c.fading = true
		c.fadeLeft = c.cfg.DecayFadeMs
	}
	c.fadeLeft -= delta
	if c.cfg.DecayFadeMs > 0 {
		c.alpha = common.Clamp(c.fadeLeft/c.cfg.DecayFadeMs, 0, 1)
	} else {
		c.alpha = 0
	}
	if c.fadeLeft <= 0 {
		c.Destroy()
	}
}

// Destroy releases the held grid cell before dropping the corpse so the
// grid never keeps a phantom occupant. Safe to call more than once.
func (c *Corpse) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	if c.hasCell {
		c.grid.Release(c.cellCol, c.cellRow, c)
		c.hasCell = false
	}
	c.body.SetEnabled(false)
	c.destroyed = true
}

func (c *Corpse) ID() int { return c.id }

func (c *Corpse) State() CorpseState { return c.state }

func (c *Corpse) Position() (x, y float64) { return c.x, c.y }

func (c *Corpse) Size() (width, height float64) { return c.width, c.height }

// Alpha is the corpse's current render opacity.
func (c *Corpse) Alpha() float64 { return c.alpha }

// Cell reports the held grid cell, ok false while still falling.
func (c *Corpse) Cell() (col, row int, ok bool) {
	return c.cellCol, c.cellRow, c.hasCell
}

func (c *Corpse) Destroyed() bool { return c == nil || c.destroyed }

// CorpseManager owns every live corpse, the shared grid, and the spawn
// capacity. Spawning past capacity evicts the oldest corpse.
type CorpseManager struct {
	world  *phys.World
	grid   *Grid
	cfg    prefabs.CorpseSpec
	nextID int

	corpses []*Corpse
	bodies  map[*Corpse]*phys.DynamicBody
}

func NewCorpseManager(world *phys.World, cfg prefabs.CorpseSpec) *CorpseManager {
	return &CorpseManager{
		world:  world,
		grid:   NewGrid(cfg.CellWidth, cfg.CellHeight),
		cfg:    cfg,
		bodies: map[*Corpse]*phys.DynamicBody{},
	}
}

// Spawn drops a new corpse at the given position. Above capacity the
// oldest corpse is destroyed first.
func (m *CorpseManager) Spawn(x, y, width, height float64) *Corpse {
	if m == nil {
		return nil
	}
	if m.cfg.Capacity > 0 && m.liveCount() >= m.cfg.Capacity {
		m.destroyOldest()
	}
	body := m.world.NewBody(phys.BodyDef{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Mass:   1,
	})
	m.nextID++
	c := newCorpse(m.nextID, m.grid, body, width, height, m.cfg)
	m.corpses = append(m.corpses, c)
	m.bodies[c] = body
	return c
}

func (m *CorpseManager) liveCount() int {
	n := 0
	for _, c := range m.corpses {
		if !c.destroyed {
			n++
		}
	}
	return n
}

func (m *CorpseManager) destroyOldest() {
	for _, c := range m.corpses {
		if !c.destroyed {
			c.Destroy()
			return
		}
	}
}

// Update ticks every corpse, then sweeps destroyed ones out of the world.
func (m *CorpseManager) Update(now, delta float64) {
	if m == nil {
		return
	}
	for _, c := range m.corpses {
		c.Update(now, delta)
	}
	kept := m.corpses[:0]
	for _, c := range m.corpses {
		if c.destroyed {
			if body := m.bodies[c]; body != nil {
				m.world.Remove(body)
			}
			delete(m.bodies, c)
			continue
		}
		kept = append(kept, c)
	}
	m.corpses = kept
}

// Corpses returns the live corpses in spawn order.
func (m *CorpseManager) Corpses() []*Corpse {
	if m == nil {
		return nil
	}
	out := make([]*Corpse, len(m.corpses))
	copy(out, m.corpses)
	return out
}

func (m *CorpseManager) Grid() *Grid {
	if m == nil {
		return nil
	}
	return m.grid
}

func (m *CorpseManager) Count() int {
	if m == nil {
		return 0
	}
	return len(m.corpses)
}
