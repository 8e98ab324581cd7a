package arena

import (
	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/prefabs"
)

// Lobber archetype-local states.
const (
	lobberPatrol     = "patrol"
	lobberReposition = "reposition"
	lobberWindup     = "attack_windup"
	lobberRecovery   = "attack_recovery"
)

// lobberBehavior keeps a firing band between minRange and attackRange and
// lobs arcing shots across it.
type lobberBehavior struct {
	enemy *Enemy
	spec  prefabs.LobberSpec

	state string
	timer float64
}

func newLobberBehavior(e *Enemy, spec prefabs.LobberSpec) *lobberBehavior {
	return &lobberBehavior{enemy: e, spec: spec, state: lobberPatrol}
}

func (l *lobberBehavior) State() string { return l.state }

func (l *lobberBehavior) Update(now, delta float64) {
	e := l.enemy
	switch l.state {
	case lobberWindup:
		l.timer += delta
		e.stop()
		if l.timer >= l.spec.WindupMs {
			l.launch()
			l.state = lobberRecovery
			l.timer = 0
		}
	case lobberRecovery:
		l.timer += delta
		e.stop()
		if l.timer >= l.spec.RecoveryMs {
			l.state = lobberReposition
			l.timer = 0
		}
	case lobberReposition:
		if !e.seesTarget() {
			l.state = lobberPatrol
			return
		}
		_, _, dist := e.targetDistance()
		switch {
		case dist < l.spec.MinRange:
			e.moveAwayFromTarget(e.cfg.MoveSpeed)
			e.faceTarget()
		case dist > e.cfg.AttackRange:
			e.moveTowardTarget(e.cfg.MoveSpeed)
		default:
			e.stop()
			e.faceTarget()
			if e.attackReady(now) {
				e.lastAttackUse = now
				l.state = lobberWindup
				l.timer = 0
			}
		}
	default:
		if e.seesTarget() {
			l.state = lobberReposition
			return
		}
		e.patrol()
	}
}

// launch fires one arcing shot at the target's current position.
func (l *lobberBehavior) launch() {
	e := l.enemy
	if e.projectiles == nil || e.target == nil || !e.target.Alive() {
		return
	}
	x, y := e.body.Position()
	tx, ty := e.target.Position()
	gravity := e.projectiles.Gravity() * l.spec.ArcFactor
	vx, vy, ok := launchArc(x, y, tx, ty, l.spec.ProjectileSpeed, gravity)
	if !ok {
		return
	}
	atk := e.cfg.Attack
	e.projectiles.Launch(Projectile{
		OwnerID: e.id,
		Faction: combat.FactionEnemy,
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		Gravity: gravity,
		Size:    l.spec.ProjectileSize,
		Damage: combat.Damage{
			Amount:     atk.Damage,
			KnockbackX: atk.KnockbackX,
			KnockbackY: atk.KnockbackY,
			Hitstun:    atk.HitstunMs,
			Hitstop:    atk.HitstopMs,
		},
		TTL: l.spec.ProjectileTTLMs,
	})
}

// OnHitstun cancels a windup so the shot is lost, not banked.
func (l *lobberBehavior) OnHitstun() {
	if l.state == lobberWindup {
		l.state = lobberReposition
		l.timer = 0
	}
}
