package arena

import "github.com/milk9111/brawl/fsm"

// State names for the player machine.
const (
	playerIdle    = "idle"
	playerMove    = "move"
	playerAttack  = "attack"
	playerHitstun = "hitstun"
	playerDead    = "dead"
)

func newPlayerMachine(p *Player) *fsm.Machine {
	m := fsm.NewMachine()
	m.AddState(&playerIdleState{player: p})
	m.AddState(&playerMoveState{player: p})
	m.AddState(&playerAttackState{player: p})
	m.AddState(&playerHitstunState{player: p})
	m.AddState(&playerDeadState{player: p})
	m.Start(playerIdle, nil)
	return m
}

type playerIdleState struct {
	player *Player
}

func (s *playerIdleState) Name() string { return playerIdle }

func (s *playerIdleState) Enter(prev string, params any) {
	s.player.stop()
}

func (s *playerIdleState) Update(now, delta float64) string {
	p := s.player
	if next := p.tryAttack(); next != "" {
		return next
	}
	p.routeSwap()
	if p.intent.Jump && p.body.Grounded() {
		p.jump()
		return playerMove
	}
	if p.intent.MoveX != 0 || !p.body.Grounded() {
		return playerMove
	}
	return ""
}

func (s *playerIdleState) Exit(next string) {}

func (s *playerIdleState) CanBeInterrupted(next string) bool { return true }

type playerMoveState struct {
	player *Player
}

func (s *playerMoveState) Name() string { return playerMove }

func (s *playerMoveState) Enter(prev string, params any) {}

func (s *playerMoveState) Update(now, delta float64) string {
	p := s.player
	if next := p.tryAttack(); next != "" {
		return next
	}
	p.routeSwap()
	if p.intent.Jump && p.body.Grounded() {
		p.jump()
	}
	p.setWalk(p.intent.MoveX * p.spec.MoveSpeed)
	if p.intent.MoveX == 0 && p.body.Grounded() {
		return playerIdle
	}
	return ""
}

func (s *playerMoveState) Exit(next string) {}

func (s *playerMoveState) CanBeInterrupted(next string) bool { return true }

// playerAttackState runs the three-phase swing. Chains restart the swing
// in place instead of re-entering the state, so the phase clock lives
// here rather than on the machine.
type playerAttackState struct {
	player  *Player
	elapsed float64
	armed   bool
}

func (s *playerAttackState) Name() string { return playerAttack }

func (s *playerAttackState) Enter(prev string, params any) {
	s.startSwing()
}

// startSwing begins executing player.attack from its startup phase.
func (s *playerAttackState) startSwing() {
	p := s.player
	s.elapsed = 0
	s.armed = false
	p.buffered = ""
	if p.intent.MoveX < 0 {
		p.facingLeft = true
	} else if p.intent.MoveX > 0 {
		p.facingLeft = false
	}
	// Ground swings commit in place; air swings keep their momentum.
	if p.body.Grounded() {
		p.stop()
	}
}

func (s *playerAttackState) Update(now, delta float64) string {
	p := s.player
	s.elapsed += delta

	if slot, ok := p.attackSlot(); ok && p.buffered == "" {
		p.buffered = slot
	}

	atk := p.attack
	switch {
	case s.elapsed < atk.Startup:
		// Windup.
	case s.elapsed < atk.Startup+atk.Active:
		if !s.armed {
			s.armed = true
			p.armStrike()
		}
	default:
		p.disarmStrike()
		// Swaps are legal again once the swing is in recovery.
		p.routeSwap()
	}

	if p.buffered != "" && atk.InCancelWindow(s.elapsed) {
		next := chainTarget(atk, p.buffered)
		if next != "" && p.weapons != nil {
			if weapon := p.weapons.Equipped(); weapon != nil {
				if data, ok := weapon.Attack(next); ok {
					p.attack = data
					s.startSwing()
					return ""
				}
			}
		}
		p.buffered = ""
	}

	if s.elapsed >= atk.Duration() {
		if p.intent.MoveX != 0 || !p.body.Grounded() {
			return playerMove
		}
		return playerIdle
	}
	return ""
}

func (s *playerAttackState) Exit(next string) {
	s.player.disarmStrike()
	s.player.buffered = ""
}

func (s *playerAttackState) CanBeInterrupted(next string) bool {
	return next == playerHitstun || next == playerDead
}

// playerHitstunState waits out hitstunRemaining, which Player.Update
// drains.
type playerHitstunState struct {
	player *Player
}

func (s *playerHitstunState) Name() string { return playerHitstun }

func (s *playerHitstunState) Enter(prev string, params any) {
	s.player.disarmStrike()
}

func (s *playerHitstunState) Update(now, delta float64) string {
	if s.player.hitstunRemaining > 0 {
		return ""
	}
	return playerIdle
}

func (s *playerHitstunState) Exit(next string) {}

func (s *playerHitstunState) CanBeInterrupted(next string) bool {
	return next == playerDead
}

type playerDeadState struct {
	player *Player
}

func (s *playerDeadState) Name() string { return playerDead }

func (s *playerDeadState) Enter(prev string, params any) {
	s.player.stop()
	s.player.disarmStrike()
}

func (s *playerDeadState) Update(now, delta float64) string { return "" }

func (s *playerDeadState) Exit(next string) {}

func (s *playerDeadState) CanBeInterrupted(next string) bool { return false }
