package arena

import (
	"math"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/phys"
)

// launchArc solves the fixed-flight-time lob in y-down coordinates: the
// shot crosses the horizontal gap at speed, and the vertical velocity is
// chosen so gravity lands it on the target exactly at arrival
// (dy = vy*T + g*T*T/2 with T = |dx|/speed).
func launchArc(x, y, tx, ty, speed, gravity float64) (vx, vy float64, ok bool) {
	if speed <= 0 {
		return 0, 0, false
	}
	dx := tx - x
	dy := ty - y
	t := math.Abs(dx) / speed
	if t <= 0 {
		// Directly above or below; there is no horizontal arc to solve.
		return 0, 0, false
	}
	vx = dx / t
	vy = dy/t - 0.5*gravity*t
	return vx, vy, true
}

// Projectile is one lobbed shot in flight. It integrates its own motion
// rather than using a physics body so the arc follows the launch math.
type Projectile struct {
	ID      int
	OwnerID int
	Faction combat.Faction
	X, Y    float64
	VX, VY  float64
	// Gravity is the effective pull for this shot (world gravity times
	// the archetype's arc factor).
	Gravity float64
	Size    float64
	Damage  combat.Damage
	TTL     float64

	active bool
}

func (p *Projectile) Active() bool { return p != nil && p.active }

func (p *Projectile) rect() common.Rect {
	size := p.Size
	if size <= 0 {
		size = 8
	}
	return common.Centered(p.X, p.Y, size, size)
}

// ProjectileManager owns every shot in flight. Movement runs in the
// projectile phase of the tick; hits apply in the resolution phase.
type ProjectileManager struct {
	world  *phys.World
	nextID int
	shots  []*Projectile
}

func NewProjectileManager(world *phys.World) *ProjectileManager {
	return &ProjectileManager{world: world}
}

// Gravity exposes the world pull so launchers can scale it per shot.
func (m *ProjectileManager) Gravity() float64 {
	if m == nil || m.world == nil {
		return 0
	}
	return m.world.Gravity()
}

// Launch registers a shot and returns it. The caller fills velocity,
// usually from launchArc.
func (m *ProjectileManager) Launch(p Projectile) *Projectile {
	if m == nil {
		return nil
	}
	m.nextID++
	p.ID = m.nextID
	p.active = true
	shot := &p
	m.shots = append(m.shots, shot)
	return shot
}

// Update integrates motion and expires shots on timeout or when they
// leave the arena (which includes burying into the floor).
func (m *ProjectileManager) Update(now, delta float64) {
	if m == nil {
		return
	}
	dt := delta / 1000
	var bounds common.Rect
	if m.world != nil {
		bounds = m.world.Bounds()
	}
	for _, p := range m.shots {
		if !p.active {
			continue
		}
		p.TTL -= delta
		if p.TTL <= 0 {
			p.active = false
			continue
		}
		p.VY += p.Gravity * dt
		p.X += p.VX * dt
		p.Y += p.VY * dt
		if m.world != nil && !bounds.Contains(p.X, p.Y) {
			p.active = false
		}
	}
	kept := m.shots[:0]
	for _, p := range m.shots {
		if p.active {
			kept = append(kept, p)
		}
	}
	m.shots = kept
}

// Resolve damages the first target each live shot overlaps and spends the
// shot. It returns the number of hits applied.
func (m *ProjectileManager) Resolve(targets ...combat.Target) int {
	if m == nil {
		return 0
	}
	hits := 0
	for _, p := range m.shots {
		if !p.active {
			continue
		}
		rect := p.rect()
		for _, target := range targets {
			if target == nil || target.ActorID() == p.OwnerID || !target.CanBeHit() {
				continue
			}
			overlap := false
			for _, hb := range target.Hurtboxes() {
				if hb.Enabled && rect.Intersects(hb.Rect) {
					overlap = true
					break
				}
			}
			if !overlap {
				continue
			}
			target.TakeDamage(p.Damage.Amount, combat.Hit{
				Damage:     p.Damage,
				AttackerID: p.OwnerID,
				HitboxID:   "projectile",
				Faction:    p.Faction,
				OriginX:    p.X,
				OriginY:    p.Y,
			})
			p.active = false
			hits++
			break
		}
	}
	return hits
}

// Shots returns the live projectiles for rendering and debug.
func (m *ProjectileManager) Shots() []*Projectile {
	if m == nil {
		return nil
	}
	out := make([]*Projectile, 0, len(m.shots))
	for _, p := range m.shots {
		if p.active {
			out = append(out, p)
		}
	}
	return out
}

func (m *ProjectileManager) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, p := range m.shots {
		if p.active {
			n++
		}
	}
	return n
}
