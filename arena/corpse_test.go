package arena

import (
	"testing"

	"github.com/milk9111/brawl/phys"
	"github.com/milk9111/brawl/prefabs"
)

// fakeBody stands in for a physics body in corpse and enemy tests.
type fakeBody struct {
	x, y    float64
	vx, vy  float64
	gravity bool
	enabled bool

	grounded     bool
	blockedLeft  bool
	blockedRight bool
}

func newFakeBody(x, y float64) *fakeBody {
	return &fakeBody{x: x, y: y, gravity: true, enabled: true}
}

func (b *fakeBody) Position() (float64, float64) { return b.x, b.y }
func (b *fakeBody) SetPosition(x, y float64)     { b.x, b.y = x, y }
func (b *fakeBody) Velocity() (float64, float64) { return b.vx, b.vy }
func (b *fakeBody) SetVelocity(vx, vy float64)   { b.vx, b.vy = vx, vy }
func (b *fakeBody) ApplyImpulse(ix, iy float64)  { b.vx += ix; b.vy += iy }
func (b *fakeBody) SetGravityEnabled(on bool)    { b.gravity = on }
func (b *fakeBody) GravityEnabled() bool         { return b.gravity }
func (b *fakeBody) Grounded() bool               { return b.grounded }
func (b *fakeBody) BlockedLeft() bool            { return b.blockedLeft }
func (b *fakeBody) BlockedRight() bool           { return b.blockedRight }
func (b *fakeBody) SetEnabled(on bool)           { b.enabled = on }
func (b *fakeBody) Enabled() bool                { return b.enabled }

func testCorpseSpec() prefabs.CorpseSpec {
	return prefabs.CorpseSpec{
		CellWidth:     32,
		CellHeight:    32,
		SnapDistanceX: 48,
		SnapDistanceY: 40,
		SnapMs:        350,
		SearchRadius:  4,
		Capacity:      3,
		DecayDelayMs:  1000,
		DecayFadeMs:   200,
	}
}

func TestGridClaimAndRelease(t *testing.T) {
	g := NewGrid(32, 32)
	a := &Corpse{id: 1}
	b := &Corpse{id: 2}

	if !g.Claim(3, 5, a) {
		t.Fatal("claim of open cell failed")
	}
	if g.Claim(3, 5, b) {
		t.Fatal("claim of occupied cell succeeded")
	}
	if !g.Claim(3, 5, a) {
		t.Fatal("re-claim by the holder failed")
	}
	if got := g.OccupantAt(3, 5); got != a {
		t.Fatalf("OccupantAt = %v, want the first corpse", got)
	}

	// Release by a non-holder must not free the cell.
	g.Release(3, 5, b)
	if g.OccupantAt(3, 5) != a {
		t.Fatal("release by non-holder freed the cell")
	}
	g.Release(3, 5, a)
	if g.OccupantAt(3, 5) != nil {
		t.Fatal("release by holder left the cell occupied")
	}
}

func TestGridCellMath(t *testing.T) {
	g := NewGrid(32, 32)

	col, row := g.CellAt(78, 100)
	if col != 2 || row != 3 {
		t.Fatalf("CellAt(78,100) = (%d,%d), want (2,3)", col, row)
	}
	col, row = g.CellAt(-1, -1)
	if col != -1 || row != -1 {
		t.Fatalf("CellAt(-1,-1) = (%d,%d), want (-1,-1)", col, row)
	}
	x, y := g.CellCenter(0, 0)
	if x != 16 || y != 16 {
		t.Fatalf("CellCenter(0,0) = (%v,%v), want (16,16)", x, y)
	}
}

func TestGridNearestOpenCell(t *testing.T) {
	g := NewGrid(32, 32)
	blocker := &Corpse{id: 9}

	col, row, ok := g.NearestOpenCell(78, 100, 4)
	if !ok || col != 2 || row != 3 {
		t.Fatalf("NearestOpenCell = (%d,%d,%v), want (2,3,true)", col, row, ok)
	}

	g.Claim(2, 3, blocker)
	col, row, ok = g.NearestOpenCell(78, 100, 4)
	if !ok || col != 3 || row != 3 {
		t.Fatalf("NearestOpenCell with center blocked = (%d,%d,%v), want (3,3,true)", col, row, ok)
	}

	for c := -2; c <= 6; c++ {
		g.Claim(c, 3, &Corpse{id: 100 + c})
	}
	if _, _, ok = g.NearestOpenCell(78, 100, 4); ok {
		t.Fatal("NearestOpenCell found a cell in a fully blocked row")
	}
}

func TestCorpseSnapsIntoNearestCell(t *testing.T) {
	cfg := testCorpseSpec()
	g := NewGrid(cfg.CellWidth, cfg.CellHeight)
	body := newFakeBody(78, 100)
	body.vy = 10

	c := newCorpse(1, g, body, 24, 16, cfg)
	if c.State() != CorpseFalling {
		t.Fatalf("initial state = %v, want Falling", c.State())
	}

	c.Update(0, 16)
	if c.State() != CorpseSnapping {
		t.Fatalf("state = %v after update near open cell, want Snapping", c.State())
	}
	if body.enabled {
		t.Fatal("body still enabled during snap")
	}
	if got := g.OccupantAt(2, 3); got != c {
		t.Fatal("cell not claimed at snap start")
	}

	c.Update(0, cfg.SnapMs/2)
	if c.State() != CorpseSnapping {
		t.Fatalf("state = %v mid-snap, want Snapping", c.State())
	}
	x, y := c.Position()
	if x == 78 && y == 100 {
		t.Fatal("position did not move during snap")
	}

	c.Update(0, cfg.SnapMs/2)
	if c.State() != CorpseSettled {
		t.Fatalf("state = %v after snap duration, want Settled", c.State())
	}
	x, y = c.Position()
	if x != 80 || y != 112 {
		t.Fatalf("settled at (%v,%v), want the cell center (80,112)", x, y)
	}

	// Settled is terminal.
	c.Update(0, 500)
	if c.State() != CorpseSettled {
		t.Fatalf("state = %v after settling, want Settled", c.State())
	}
}

func TestCorpseWaitsWhileMovingUp(t *testing.T) {
	cfg := testCorpseSpec()
	g := NewGrid(cfg.CellWidth, cfg.CellHeight)
	body := newFakeBody(78, 100)
	body.vy = -50

	c := newCorpse(1, g, body, 24, 16, cfg)
	c.Update(0, 16)
	if c.State() != CorpseFalling {
		t.Fatalf("state = %v while moving up, want Falling", c.State())
	}

	body.vy = 5
	c.Update(0, 16)
	if c.State() != CorpseSnapping {
		t.Fatalf("state = %v once falling again, want Snapping", c.State())
	}
}

func TestTwoCorpsesNeverShareACell(t *testing.T) {
	cfg := testCorpseSpec()
	g := NewGrid(cfg.CellWidth, cfg.CellHeight)

	first := newCorpse(1, g, newFakeBody(78, 100), 24, 16, cfg)
	second := newCorpse(2, g, newFakeBody(80, 100), 24, 16, cfg)

	first.Update(0, 16)
	second.Update(0, 16)

	c1, r1, ok1 := first.Cell()
	c2, r2, ok2 := second.Cell()
	if !ok1 || !ok2 {
		t.Fatalf("cells not claimed: first=%v second=%v", ok1, ok2)
	}
	if c1 == c2 && r1 == r2 {
		t.Fatalf("both corpses claimed cell (%d,%d)", c1, r1)
	}
	if g.Occupied() != 2 {
		t.Fatalf("grid holds %d cells, want 2", g.Occupied())
	}

	// Destroy frees the first corpse's cell for later arrivals.
	first.Destroy()
	if g.OccupantAt(c1, r1) != nil {
		t.Fatal("destroyed corpse still occupies its cell")
	}
	if g.Occupied() != 1 {
		t.Fatalf("grid holds %d cells after destroy, want 1", g.Occupied())
	}
}

func TestCorpseDecayFadesThenDestroys(t *testing.T) {
	cfg := testCorpseSpec()
	g := NewGrid(cfg.CellWidth, cfg.CellHeight)
	body := newFakeBody(78, 100)
	body.vy = 1

	c := newCorpse(1, g, body, 24, 16, cfg)
	c.Update(0, 16)
	c.Update(0, cfg.SnapMs)
	if c.State() != CorpseSettled {
		t.Fatalf("state = %v, want Settled before decay", c.State())
	}

	// Age up to just before the decay delay: nothing happens.
	c.Update(0, cfg.DecayDelayMs-c.age-1)
	if c.Alpha() != 1 || c.Destroyed() {
		t.Fatalf("decay started early: alpha=%v destroyed=%v", c.Alpha(), c.Destroyed())
	}

	c.Update(0, 100)
	if !c.fading {
		t.Fatal("decay fade did not start past the delay")
	}
	if a := c.Alpha(); a <= 0 || a >= 1 {
		t.Fatalf("alpha = %v mid-fade, want between 0 and 1", a)
	}

	c.Update(0, cfg.DecayFadeMs)
	if !c.Destroyed() {
		t.Fatal("corpse survived past its fade")
	}
	if g.Occupied() != 0 {
		t.Fatal("destroyed corpse left its cell claimed")
	}
}

func TestCorpseDecayDisabled(t *testing.T) {
	cfg := testCorpseSpec()
	cfg.DecayDelayMs = 0
	g := NewGrid(cfg.CellWidth, cfg.CellHeight)

	c := newCorpse(1, g, newFakeBody(78, 100), 24, 16, cfg)
	c.Update(0, 16)
	c.Update(0, 60000)
	if c.Destroyed() {
		t.Fatal("corpse decayed with decay disabled")
	}
	if c.Alpha() != 1 {
		t.Fatalf("alpha = %v with decay disabled, want 1", c.Alpha())
	}
}

func TestManagerCapacityEvictsOldest(t *testing.T) {
	world := phys.NewWorld(phys.Config{Width: 800, Height: 600, Gravity: 1800})
	cfg := testCorpseSpec()
	m := NewCorpseManager(world, cfg)

	var spawned []*Corpse
	for i := 0; i < cfg.Capacity; i++ {
		spawned = append(spawned, m.Spawn(float64(100+40*i), 100, 24, 16))
	}
	if m.Count() != cfg.Capacity {
		t.Fatalf("Count = %d, want %d", m.Count(), cfg.Capacity)
	}

	extra := m.Spawn(400, 100, 24, 16)
	if extra == nil {
		t.Fatal("spawn above capacity returned nil")
	}
	if !spawned[0].Destroyed() {
		t.Fatal("oldest corpse not evicted at capacity")
	}
	if spawned[1].Destroyed() || spawned[2].Destroyed() {
		t.Fatal("eviction removed more than the oldest corpse")
	}

	m.Update(0, 16)
	if m.Count() != cfg.Capacity {
		t.Fatalf("Count = %d after sweep, want %d", m.Count(), cfg.Capacity)
	}
}

func TestManagerSweepsDestroyedCorpses(t *testing.T) {
	world := phys.NewWorld(phys.Config{Width: 800, Height: 600, Gravity: 1800})
	m := NewCorpseManager(world, testCorpseSpec())

	c := m.Spawn(100, 100, 24, 16)
	c.Destroy()
	m.Update(0, 16)
	if m.Count() != 0 {
		t.Fatalf("Count = %d after sweeping, want 0", m.Count())
	}
}
