package arena

import (
	"math"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/prefabs"
)

// Lunger archetype-local states.
const (
	lungerPatrol   = "patrol"
	lungerChase    = "chase"
	lungerWindup   = "charge_windup"
	lungerCharging = "charging"
	lungerRecovery = "attack_recovery"
)

// lungerBehavior shakes in place to telegraph, then dashes in the
// direction locked at windup start until the charge duration runs out or
// a wall stops it, dealing contact damage once per overlap.
type lungerBehavior struct {
	enemy *Enemy
	spec  prefabs.LungerSpec

	state     string
	timer     float64
	chargeDir float64
	shakeAt   float64
	dealtHit  bool
}

func newLungerBehavior(e *Enemy, spec prefabs.LungerSpec) *lungerBehavior {
	return &lungerBehavior{enemy: e, spec: spec, state: lungerPatrol}
}

func (l *lungerBehavior) State() string { return l.state }

func (l *lungerBehavior) Update(now, delta float64) {
	e := l.enemy
	switch l.state {
	case lungerWindup:
		l.timer += delta
		l.shakeAt += delta
		e.stop()
		e.shakeX = math.Sin(l.shakeAt*0.06) * 2.5
		if l.timer >= l.spec.WindupMs {
			e.shakeX = 0
			l.state = lungerCharging
			l.timer = 0
			l.dealtHit = false
			e.body.SetVelocity(l.chargeDir*l.spec.ChargeSpeed, 0)
		}
	case lungerCharging:
		l.timer += delta
		e.body.SetVelocity(l.chargeDir*l.spec.ChargeSpeed, 0)
		l.tryContactDamage()
		hitWall := (l.chargeDir < 0 && e.body.BlockedLeft()) ||
			(l.chargeDir > 0 && e.body.BlockedRight())
		if l.timer >= l.spec.ChargeMs || hitWall {
			l.state = lungerRecovery
			l.timer = 0
			e.stop()
		}
	case lungerRecovery:
		l.timer += delta
		e.stop()
		if l.timer >= l.spec.RecoveryMs {
			l.state = lungerChase
			l.timer = 0
		}
	case lungerChase:
		if !e.seesTarget() {
			l.state = lungerPatrol
			return
		}
		_, _, dist := e.targetDistance()
		if dist <= e.cfg.AttackRange && e.attackReady(now) {
			e.faceTarget()
			l.chargeDir = e.dir()
			e.lastAttackUse = now
			l.state = lungerWindup
			l.timer = 0
			l.shakeAt = 0
			return
		}
		e.moveTowardTarget(e.cfg.ChaseSpeed)
	default:
		if e.seesTarget() {
			l.state = lungerChase
			return
		}
		e.patrol()
	}
}

// tryContactDamage lands the charge's body check. One overlap deals one
// hit; leaving and re-entering the lunger's path re-arms it.
func (l *lungerBehavior) tryContactDamage() {
	e := l.enemy
	if e.target == nil || !e.target.Alive() || !e.target.CanBeHit() {
		return
	}
	rect := e.bodyRect()
	overlapping := false
	for _, hb := range e.target.Hurtboxes() {
		if hb.Enabled && rect.Intersects(hb.Rect) {
			overlapping = true
			break
		}
	}
	if !overlapping {
		l.dealtHit = false
		return
	}
	if l.dealtHit {
		return
	}
	l.dealtHit = true
	x, y := e.body.Position()
	atk := e.cfg.Attack
	e.target.TakeDamage(atk.Damage, combat.Hit{
		Damage: combat.Damage{
			Amount:     atk.Damage,
			KnockbackX: atk.KnockbackX,
			KnockbackY: atk.KnockbackY,
			Hitstun:    atk.HitstunMs,
			Hitstop:    atk.HitstopMs,
		},
		AttackerID: e.id,
		HitboxID:   "charge",
		Faction:    combat.FactionEnemy,
		OriginX:    x,
		OriginY:    y,
	})
}

// OnHitstun cancels whatever the lunger was doing; it resumes chasing
// once the stun drains. Velocity is left alone so knockback carries.
func (l *lungerBehavior) OnHitstun() {
	l.state = lungerChase
	l.timer = 0
	l.enemy.shakeX = 0
}
