package arena

import "github.com/milk9111/brawl/events"

// bossIntroState holds the boss in place for its entrance, then reveals
// the health bar and hands over to idle.
type bossIntroState struct {
	boss   *Boss
	waited float64
}

func (s *bossIntroState) Name() string { return bossIntro }

func (s *bossIntroState) Enter(prev string, params any) {
	s.waited = 0
	s.boss.stop()
}

func (s *bossIntroState) Update(now, delta float64) string {
	s.waited += delta
	if s.waited >= s.boss.spec.IntroMs {
		s.boss.bus.Publish(events.BossIntroEnd, s.boss.eventPayload(0))
		return bossIdle
	}
	return ""
}

func (s *bossIntroState) Exit(next string) {}

func (s *bossIntroState) CanBeInterrupted(next string) bool {
	return next == bossDefeated
}

// bossIdleState keeps the boss inside its ideal range band and, once off
// global cooldown, selects the next attack from the current phase's
// roster.
type bossIdleState struct {
	boss *Boss
}

func (s *bossIdleState) Name() string { return bossIdle }

func (s *bossIdleState) Enter(prev string, params any) {}

func (s *bossIdleState) Update(now, delta float64) string {
	b := s.boss
	if b.target == nil || !b.target.Alive() {
		b.stop()
		return ""
	}
	b.faceTarget()

	if now >= b.globalUntil {
		ids := b.readyAttacks(now)
		picked := ""
		if len(ids) > 0 {
			picked = b.selector(ids)
		}
		// The selector only gets to pick from the ready list; anything
		// else (including "") skips the attack this tick.
		for _, id := range ids {
			if id != picked {
				continue
			}
			if atk := b.attacks[id]; atk != nil {
				b.current = atk
				return bossAttacking
			}
		}
	}

	_, _, dist := b.targetDistance()
	switch {
	case dist < b.spec.IdealRangeMin:
		b.moveAwayFromTarget(b.spec.MoveSpeed)
	case dist > b.spec.IdealRangeMax:
		b.moveTowardTarget(b.spec.MoveSpeed)
	default:
		b.stop()
	}
	return ""
}

func (s *bossIdleState) Exit(next string) {}

func (s *bossIdleState) CanBeInterrupted(next string) bool { return true }

// bossAttackingState delegates to the selected attack until it signals
// completion or runs out its duration. Exit is the single teardown path,
// so canceled attacks pay the same cooldowns finished ones do.
type bossAttackingState struct {
	boss    *Boss
	elapsed float64
}

func (s *bossAttackingState) Name() string { return bossAttacking }

func (s *bossAttackingState) Enter(prev string, params any) {
	s.elapsed = 0
	if s.boss.current != nil {
		s.boss.current.Start(s.boss)
	}
}

func (s *bossAttackingState) Update(now, delta float64) string {
	b := s.boss
	if b.current == nil {
		return bossIdle
	}
	s.elapsed += delta
	done := b.current.Tick(b, now, delta)
	if done {
		return bossIdle
	}
	if dur := b.current.Duration(); dur > 0 && s.elapsed >= dur {
		return bossIdle
	}
	return ""
}

func (s *bossAttackingState) Exit(next string) {
	b := s.boss
	if b.current != nil {
		b.cooldownUntil[b.current.ID()] = b.simNow + b.current.Cooldown()
		b.globalUntil = b.simNow + b.spec.GlobalCooldownMs
		b.current.End(b)
		b.current = nil
	}
	b.disarmStrike()
	b.shakeX = 0
}

func (s *bossAttackingState) CanBeInterrupted(next string) bool {
	return next == bossStaggered || next == bossPhaseTransition || next == bossDefeated
}

// bossPhaseTransitionState is the invulnerable beat between phases. The
// grace window on exit keeps the reopening fight from starting with a
// free hit queued up.
type bossPhaseTransitionState struct {
	boss   *Boss
	waited float64
}

func (s *bossPhaseTransitionState) Name() string { return bossPhaseTransition }

func (s *bossPhaseTransitionState) Enter(prev string, params any) {
	s.waited = 0
	s.boss.stop()
	s.boss.shakeX = 0
}

func (s *bossPhaseTransitionState) Update(now, delta float64) string {
	s.waited += delta
	if s.waited >= s.boss.spec.PhaseTransitionMs {
		return bossIdle
	}
	return ""
}

func (s *bossPhaseTransitionState) Exit(next string) {
	s.boss.invulnRemaining = s.boss.spec.PhaseInvulnMs
}

func (s *bossPhaseTransitionState) CanBeInterrupted(next string) bool {
	return next == bossDefeated
}

// bossStaggeredState is the punish window a heavy enough hit opens.
type bossStaggeredState struct {
	boss   *Boss
	waited float64
}

func (s *bossStaggeredState) Name() string { return bossStaggered }

func (s *bossStaggeredState) Enter(prev string, params any) {
	s.waited = 0
	s.boss.stop()
	s.boss.shakeX = 0
}

func (s *bossStaggeredState) Update(now, delta float64) string {
	s.waited += delta
	if s.waited >= s.boss.spec.StaggerMs {
		return bossIdle
	}
	return ""
}

func (s *bossStaggeredState) Exit(next string) {}

func (s *bossStaggeredState) CanBeInterrupted(next string) bool {
	return next == bossPhaseTransition || next == bossDefeated
}

// bossDefeatedState is terminal.
type bossDefeatedState struct {
	boss *Boss
}

func (s *bossDefeatedState) Name() string { return bossDefeated }

func (s *bossDefeatedState) Enter(prev string, params any) {
	s.boss.stop()
	s.boss.disarmStrike()
}

func (s *bossDefeatedState) Update(now, delta float64) string { return "" }

func (s *bossDefeatedState) Exit(next string) {}

func (s *bossDefeatedState) CanBeInterrupted(next string) bool { return false }
