package arena

import (
	"log"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/prefabs"
)

// Shield-bearer archetype-local states.
const (
	shieldPatrol  = "patrol"
	shieldAdvance = "advance"
	shieldBash    = "bash"
)

// shieldBehavior walks the target down behind a raised shield and bashes
// at close range. The shield only covers the faced side, and a hard
// enough hit breaks the guard.
type shieldBehavior struct {
	enemy *Enemy
	spec  prefabs.ShieldSpec

	state       string
	timer       float64
	bashDone    bool
	blocking    bool
	blockCount  int
	breakCount  int
}

func newShieldBehavior(e *Enemy, spec prefabs.ShieldSpec) *shieldBehavior {
	return &shieldBehavior{enemy: e, spec: spec, state: shieldPatrol}
}

func (s *shieldBehavior) State() string { return s.state }

func (s *shieldBehavior) Blocking() bool { return s.blocking }

func (s *shieldBehavior) Update(now, delta float64) {
	e := s.enemy
	switch s.state {
	case shieldBash:
		s.timer += delta
		e.stop()
		if !s.bashDone && s.timer >= s.spec.BashDelayMs {
			s.bashDone = true
			s.dealBash()
		}
		if s.timer >= s.spec.BashDurationMs {
			s.state = shieldAdvance
			s.timer = 0
		}
	case shieldAdvance:
		if !e.seesTarget() {
			s.blocking = false
			s.state = shieldPatrol
			return
		}
		s.blocking = true
		_, _, dist := e.targetDistance()
		if dist <= e.cfg.AttackRange && e.attackReady(now) {
			e.lastAttackUse = now
			s.state = shieldBash
			s.timer = 0
			s.bashDone = false
			e.stop()
			e.faceTarget()
			return
		}
		e.moveTowardTarget(e.cfg.MoveSpeed)
		e.faceTarget()
	default:
		s.blocking = false
		if e.seesTarget() {
			s.state = shieldAdvance
			return
		}
		e.patrol()
	}
}

// FilterDamage is the shield check: hits from the faced side are negated
// outright unless they reach the guard-break threshold, which drops the
// shield, staggers, and lets the damage through.
func (s *shieldBehavior) FilterDamage(amount int, hit combat.Hit) int {
	if !s.blocking {
		return amount
	}
	e := s.enemy
	x, _ := e.body.Position()
	facedSide := (e.facingLeft && hit.OriginX <= x) || (!e.facingLeft && hit.OriginX >= x)
	if !facedSide {
		return amount
	}
	if s.spec.GuardBreakThreshold > 0 && amount >= s.spec.GuardBreakThreshold {
		s.blocking = false
		s.breakCount++
		s.state = shieldAdvance
		s.timer = 0
		s.bashDone = false
		e.applyHitstun(s.spec.StaggerMs)
		return amount
	}
	s.blockCount++
	log.Printf("enemy %d blocked %d damage from %d", e.id, amount, hit.AttackerID)
	return 0
}

// dealBash lands the shield bash once, at its fixed sub-delay.
func (s *shieldBehavior) dealBash() {
	e := s.enemy
	if e.target == nil || !e.target.Alive() || !e.target.CanBeHit() {
		return
	}
	rect := e.meleeRect(e.cfg.Attack.Reach)
	landed := false
	for _, hb := range e.target.Hurtboxes() {
		if hb.Enabled && rect.Intersects(hb.Rect) {
			landed = true
			break
		}
	}
	if !landed {
		return
	}
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
		HitboxID:   "bash",
		Faction:    combat.FactionEnemy,
		OriginX:    x,
		OriginY:    y,
	})
}

// OnHitstun cancels a bash in progress; the shield state itself is left
// to FilterDamage, which already lowered it on a guard break.
func (s *shieldBehavior) OnHitstun() {
	if s.state == shieldBash {
		s.state = shieldAdvance
		s.timer = 0
		s.bashDone = false
	}
}
