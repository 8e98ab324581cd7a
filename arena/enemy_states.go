package arena

import "github.com/milk9111/brawl/fsm"

// Shared state names for the standard enemy machine.
const (
	stateIdle    = "idle"
	statePatrol  = "patrol"
	stateChase   = "chase"
	stateAttack  = "attack"
	stateHitstun = "hitstun"
	stateDead    = "dead"
)

const (
	// enemyIdleMs is the pause before an idle enemy resumes patrolling.
	enemyIdleMs = 500.0
	// enemyLoseSightMs is the cumulative time without line-of-sight before
	// a chasing enemy gives up.
	enemyLoseSightMs = 2000.0
)

// newEnemyMachine builds and starts the idle/patrol/chase/attack/hitstun/
// dead machine the standard archetypes run on.
func newEnemyMachine(e *Enemy) *fsm.Machine {
	m := fsm.NewMachine()
	m.AddState(&enemyIdleState{enemy: e})
	m.AddState(&enemyPatrolState{enemy: e})
	m.AddState(&enemyChaseState{enemy: e})
	m.AddState(&enemyAttackState{enemy: e})
	m.AddState(&enemyHitstunState{enemy: e})
	m.AddState(&enemyDeadState{enemy: e})
	m.Start(stateIdle, nil)
	return m
}

// enemyIdleState pauses briefly before resuming patrol, breaking straight
// into a chase if the target shows up.
type enemyIdleState struct {
	enemy  *Enemy
	waited float64
}

func (s *enemyIdleState) Name() string { return stateIdle }

func (s *enemyIdleState) Enter(prev string, params any) {
	s.waited = 0
	s.enemy.stop()
}

func (s *enemyIdleState) Update(now, delta float64) string {
	if s.enemy.seesTarget() {
		return stateChase
	}
	s.waited += delta
	if s.waited >= enemyIdleMs {
		return statePatrol
	}
	return ""
}

func (s *enemyIdleState) Exit(next string) {}

func (s *enemyIdleState) CanBeInterrupted(next string) bool { return true }

type enemyPatrolState struct {
	enemy *Enemy
}

func (s *enemyPatrolState) Name() string { return statePatrol }

func (s *enemyPatrolState) Enter(prev string, params any) {}

func (s *enemyPatrolState) Update(now, delta float64) string {
	if s.enemy.seesTarget() {
		return stateChase
	}
	s.enemy.patrol()
	return ""
}

func (s *enemyPatrolState) Exit(next string) {}

func (s *enemyPatrolState) CanBeInterrupted(next string) bool { return true }

// enemyChaseState runs the target down. Losing sight accumulates; past
// enemyLoseSightMs total the enemy gives up and patrols again.
type enemyChaseState struct {
	enemy *Enemy
}

func (s *enemyChaseState) Name() string { return stateChase }

func (s *enemyChaseState) Enter(prev string, params any) {
	s.enemy.lostSightMs = 0
}

func (s *enemyChaseState) Update(now, delta float64) string {
	e := s.enemy
	if !e.seesTarget() {
		e.lostSightMs += delta
		if e.lostSightMs > enemyLoseSightMs {
			return statePatrol
		}
	}
	_, _, dist := e.targetDistance()
	if dist <= e.cfg.AttackRange && e.attackReady(now) && e.seesTarget() {
		return stateAttack
	}
	e.moveTowardTarget(e.cfg.ChaseSpeed)
	return ""
}

func (s *enemyChaseState) Exit(next string) {}

func (s *enemyChaseState) CanBeInterrupted(next string) bool { return true }

// enemyAttackState is the three-phase melee: windup telegraph, active
// hitbox, recovery. Only hitstun or death may cut it short.
type enemyAttackState struct {
	enemy *Enemy
	swing int
	armed bool
}

func (s *enemyAttackState) Name() string { return stateAttack }

func (s *enemyAttackState) Enter(prev string, params any) {
	e := s.enemy
	s.swing++
	s.armed = false
	e.stop()
	e.faceTarget()
	e.lastAttackUse = e.simNow
}

func (s *enemyAttackState) Update(now, delta float64) string {
	e := s.enemy
	atk := e.cfg.Attack
	elapsed := e.machine.Elapsed()
	switch {
	case elapsed < atk.WindupMs:
		// Telegraph only.
	case elapsed < atk.WindupMs+atk.ActiveMs:
		if !s.armed {
			s.armed = true
			e.armMelee(s.swing)
		}
	case elapsed < atk.WindupMs+atk.ActiveMs+atk.RecoveryMs:
		e.disarmMelee()
	default:
		if e.seesTarget() {
			return stateChase
		}
		return statePatrol
	}
	return ""
}

func (s *enemyAttackState) Exit(next string) {
	s.enemy.disarmMelee()
}

func (s *enemyAttackState) CanBeInterrupted(next string) bool {
	return next == stateHitstun || next == stateDead
}

// enemyHitstunState waits out hitstunRemaining, which Enemy.Update drains.
type enemyHitstunState struct {
	enemy *Enemy
}

func (s *enemyHitstunState) Name() string { return stateHitstun }

func (s *enemyHitstunState) Enter(prev string, params any) {
	s.enemy.disarmMelee()
}

func (s *enemyHitstunState) Update(now, delta float64) string {
	e := s.enemy
	if e.hitstunRemaining > 0 {
		return ""
	}
	if e.seesTarget() {
		return stateChase
	}
	return statePatrol
}

func (s *enemyHitstunState) Exit(next string) {}

func (s *enemyHitstunState) CanBeInterrupted(next string) bool {
	return next == stateDead
}

type enemyDeadState struct {
	enemy *Enemy
}

func (s *enemyDeadState) Name() string { return stateDead }

func (s *enemyDeadState) Enter(prev string, params any) {
	s.enemy.stop()
	s.enemy.disarmMelee()
}

func (s *enemyDeadState) Update(now, delta float64) string { return "" }

func (s *enemyDeadState) Exit(next string) {}

func (s *enemyDeadState) CanBeInterrupted(next string) bool { return false }
