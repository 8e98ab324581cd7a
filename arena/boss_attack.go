package arena

import (
	"fmt"
	"math"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/prefabs"
)

// Attack is one boss attack pattern. Start fires on selection, Tick runs
// every update and reports completion, End fires when the attack finishes
// or is canceled out from under the boss.
type Attack interface {
	ID() string
	Duration() float64
	Cooldown() float64
	Start(b *Boss)
	Tick(b *Boss, now, delta float64) bool
	End(b *Boss)
}

// buildAttack maps an attack spec onto its implementation by kind.
func buildAttack(spec prefabs.BossAttackSpec) (Attack, error) {
	switch spec.Kind {
	case "slam":
		return &slamAttack{attackBase: attackBase{spec: spec}}, nil
	case "rush":
		return &rushAttack{attackBase: attackBase{spec: spec}}, nil
	case "volley":
		return &volleyAttack{attackBase: attackBase{spec: spec}}, nil
	case "script":
		return newScriptAttack(spec)
	default:
		return nil, fmt.Errorf("unknown attack pattern %q", spec.Kind)
	}
}

type attackBase struct {
	spec prefabs.BossAttackSpec
}

func (a *attackBase) ID() string { return a.spec.ID }

func (a *attackBase) Duration() float64 { return a.spec.DurationMs }

func (a *attackBase) Cooldown() float64 { return a.spec.CooldownMs }

func damageFrom(spec prefabs.BossAttackSpec) combat.Damage {
	return combat.Damage{
		Amount:     spec.Damage,
		KnockbackX: spec.KnockbackX,
		KnockbackY: spec.KnockbackY,
		Hitstun:    spec.HitstunMs,
		Hitstop:    spec.HitstopMs,
	}
}

// slamAttack is a stationary windup into a short active swing in front of
// the boss, then recovery until the duration runs out.
type slamAttack struct {
	attackBase
	elapsed float64
	armed   bool
}

func (a *slamAttack) Start(b *Boss) {
	a.elapsed = 0
	a.armed = false
	b.stop()
	b.faceTarget()
}

func (a *slamAttack) Tick(b *Boss, now, delta float64) bool {
	a.elapsed += delta
	b.stop()
	switch {
	case a.elapsed < a.spec.WindupMs:
		b.shakeX = math.Sin(a.elapsed*0.05) * 3
	case a.elapsed < a.spec.WindupMs+a.spec.ActiveMs:
		if !a.armed {
			a.armed = true
			b.shakeX = 0
			b.armStrike(a.spec.ID, b.strikeRect(a.spec.Reach), damageFrom(a.spec))
		}
	default:
		b.disarmStrike()
	}
	return false
}

func (a *slamAttack) End(b *Boss) {
	b.disarmStrike()
	b.shakeX = 0
}

// rushAttack charges across the arena in the direction locked at windup.
// The contact box rides the body; hitting a wall cuts the rush short.
type rushAttack struct {
	attackBase
	elapsed float64
	dir     float64
	damage  combat.Damage
}

func (a *rushAttack) Start(b *Boss) {
	a.elapsed = 0
	b.faceTarget()
	a.dir = b.dir()
	b.stop()
	a.damage = damageFrom(a.spec)
	// One application per rush, not one per contact frame.
	a.damage.Repeat = a.spec.DurationMs
}

func (a *rushAttack) Tick(b *Boss, now, delta float64) bool {
	a.elapsed += delta
	if a.elapsed < a.spec.WindupMs {
		b.stop()
		b.shakeX = math.Sin(a.elapsed*0.05) * 3
		return false
	}
	b.shakeX = 0
	_, vy := b.body.Velocity()
	b.body.SetVelocity(a.dir*a.spec.Speed, vy)
	b.armStrike(a.spec.ID, b.bodyRect(), a.damage)

	hitWall := (a.dir < 0 && b.body.BlockedLeft()) ||
		(a.dir > 0 && b.body.BlockedRight())
	return hitWall
}

func (a *rushAttack) End(b *Boss) {
	b.disarmStrike()
	b.stop()
	b.shakeX = 0
}

const volleyShotTTLMs = 4000.0

// volleyAttack lobs a spread of projectiles at the target, spacing the
// shots evenly through the attack's remaining duration.
type volleyAttack struct {
	attackBase
	elapsed float64
	fired   int
}

func (a *volleyAttack) Start(b *Boss) {
	a.elapsed = 0
	a.fired = 0
	b.stop()
	b.faceTarget()
}

func (a *volleyAttack) Tick(b *Boss, now, delta float64) bool {
	a.elapsed += delta
	b.stop()
	if a.elapsed < a.spec.WindupMs {
		b.shakeX = math.Sin(a.elapsed*0.05) * 3
		return false
	}
	b.shakeX = 0

	count := a.spec.Count
	if count <= 0 {
		count = 1
	}
	interval := (a.spec.DurationMs - a.spec.WindupMs) / float64(count)
	if interval < 0 {
		interval = 0
	}
	for a.fired < count && a.elapsed >= a.spec.WindupMs+float64(a.fired)*interval {
		a.launch(b)
		a.fired++
	}
	return false
}

func (a *volleyAttack) End(b *Boss) {
	b.shakeX = 0
}

func (a *volleyAttack) launch(b *Boss) {
	if b.projectiles == nil || b.target == nil || !b.target.Alive() {
		return
	}
	x, y := b.body.Position()
	tx, ty := b.target.Position()
	vx, vy, ok := launchArc(x, y, tx, ty, a.spec.Speed, b.projectiles.Gravity())
	if !ok {
		return
	}
	b.projectiles.Launch(Projectile{
		OwnerID: b.id,
		Faction: combat.FactionEnemy,
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		Gravity: b.projectiles.Gravity(),
		Size:    10,
		Damage:  damageFrom(a.spec),
		TTL:     volleyShotTTLMs,
	})
}
