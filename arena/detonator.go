package arena

import (
	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/prefabs"
)

// Detonator archetype-local states.
const (
	detonatorPatrol = "patrol"
	detonatorChase  = "chase"
	detonatorFuse   = "fuse"
)

// detonatorBehavior closes on the target and blows up: on contact range
// it lights a fuse, and dying lights it off immediately. The blast falls
// off linearly with distance, hits other enemies at half strength, and
// chain-triggers any detonators it catches.
type detonatorBehavior struct {
	enemy *Enemy
	spec  prefabs.DetonatorSpec

	state    string
	fuseLeft float64
	exploded bool
}

func newDetonatorBehavior(e *Enemy, spec prefabs.DetonatorSpec) *detonatorBehavior {
	return &detonatorBehavior{enemy: e, spec: spec, state: detonatorPatrol}
}

func (d *detonatorBehavior) State() string { return d.state }

func (d *detonatorBehavior) Update(now, delta float64) {
	e := d.enemy
	switch d.state {
	case detonatorFuse:
		e.stop()
		e.alertLevel = 1
		d.fuseLeft -= delta
		if d.fuseLeft <= 0 {
			d.detonate()
		}
	case detonatorChase:
		if !e.seesTarget() {
			e.alertLevel = 0
			d.state = detonatorPatrol
			return
		}
		_, _, dist := e.targetDistance()
		// The flicker winds up as the detonator closes in.
		e.alertLevel = common.Clamp(1-dist/e.cfg.DetectionRange, 0, 1)
		if dist <= d.spec.TriggerRange {
			d.state = detonatorFuse
			d.fuseLeft = d.spec.FuseMs
			e.stop()
			return
		}
		e.moveTowardTarget(e.cfg.ChaseSpeed)
	default:
		e.alertLevel = 0
		if e.seesTarget() {
			d.state = detonatorChase
			return
		}
		e.patrol()
	}
}

// detonate runs the explosion exactly once, whether the fuse burned down
// or a killing blow set it off.
func (d *detonatorBehavior) detonate() {
	if d.exploded {
		return
	}
	d.exploded = true

	e := d.enemy
	e.deathHandled = true
	e.hitstunRemaining = 0
	e.health.Current = 0
	e.health.Dead = true
	e.alertLevel = 1

	x, y := e.body.Position()
	d.blast(x, y)

	e.body.SetEnabled(false)
	e.bus.Publish(events.EnemyExploded, e.eventPayload(d.spec.ExplosionDamage))
	e.startFade()
}

// blast applies falloff damage to the target and to other enemies, and
// chain-triggers detonators caught inside the radius.
func (d *detonatorBehavior) blast(cx, cy float64) {
	e := d.enemy
	radius := d.spec.ExplosionRadius
	base := d.spec.ExplosionDamage

	if e.target != nil && e.target.Alive() && e.target.CanBeHit() {
		tx, ty := e.target.Position()
		dist := common.Dist(cx, cy, tx, ty)
		if dmg := explosionDamage(base, dist, radius); dmg > 0 {
			falloff := 1 - dist/radius
			e.target.TakeDamage(dmg, combat.Hit{
				Damage: combat.Damage{
					Amount:     dmg,
					KnockbackX: d.spec.Knockback * falloff,
					KnockbackY: -d.spec.Knockback * falloff * 0.5,
					Hitstun:    e.cfg.HitstunMs,
				},
				AttackerID: e.id,
				HitboxID:   "explosion",
				Faction:    combat.FactionEnemy,
				OriginX:    cx,
				OriginY:    cy,
			})
		}
	}

	if e.peers == nil {
		return
	}
	for _, peer := range e.peers() {
		if peer == nil || peer == e || peer.Destroyed() {
			continue
		}
		px, py := peer.Position()
		dist := common.Dist(cx, cy, px, py)
		if dist >= radius {
			continue
		}
		// Friendly fire lands at half strength.
		if dmg := explosionDamage(base, dist, radius) / 2; dmg > 0 && peer.Alive() {
			falloff := 1 - dist/radius
			peer.TakeDamage(dmg, combat.Hit{
				Damage: combat.Damage{
					Amount:     dmg,
					KnockbackX: d.spec.Knockback * falloff,
					KnockbackY: -d.spec.Knockback * falloff * 0.5,
					Hitstun:    e.cfg.HitstunMs,
				},
				AttackerID: e.id,
				HitboxID:   "explosion",
				Faction:    combat.FactionEnemy,
				OriginX:    cx,
				OriginY:    cy,
			})
		}
		if other, ok := peer.behavior.(*detonatorBehavior); ok {
			other.detonate()
		}
	}
}

// OnHitstun keeps the current state; a lit fuse simply pauses with the
// rest of the routine while the stun drains.
func (d *detonatorBehavior) OnHitstun() {}

// explosionDamage applies linear distance falloff to a blast's base
// damage, truncating down to whole points. At or past the radius edge it
// is zero.
func explosionDamage(base int, dist, radius float64) int {
	if radius <= 0 || dist < 0 || dist >= radius {
		return 0
	}
	return int(float64(base) * (1 - dist/radius))
}
